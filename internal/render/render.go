// Package render writes the resonance field as a self-contained HTML
// visualization artifact.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ternarybob/resonance/internal/logger"
	"github.com/ternarybob/resonance/pkg/field"
	"github.com/ternarybob/resonance/web"
)

// DefaultFileName is the artifact name used when no output path is given.
const DefaultFileName = "resonance-field.html"

// Renderer turns a generated field into an HTML artifact. The artifact is
// fully self-contained: template, styles, script and data are inlined.
type Renderer struct {
	Preset  Preset
	Version string
}

// NewRenderer creates a renderer with the given scene preset.
func NewRenderer(preset Preset) *Renderer {
	return &Renderer{Preset: preset, Version: "dev"}
}

// viewData is the JSON payload inlined into the artifact. Key names match
// what web/static/viz.js expects.
type viewData struct {
	Tuples []field.Tuple `json:"tuples"`
	Twins  []field.Twin  `json:"twins"`
	Stats  field.Stats   `json:"stats"`
	Preset Preset        `json:"preset"`
}

type pageData struct {
	Title       string
	Mode        string
	GeneratedAt string
	Version     string
	CSS         template.CSS
	JS          template.JS
	Data        template.JS
}

// RenderHTML renders the artifact into memory.
func (r *Renderer) RenderHTML(f *field.Field) ([]byte, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/field.html")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	css, err := web.Static.ReadFile("static/styles.css")
	if err != nil {
		return nil, fmt.Errorf("read styles: %w", err)
	}
	js, err := web.Static.ReadFile("static/viz.js")
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	payload, err := json.Marshal(viewData{
		Tuples: f.Tuples,
		Twins:  f.Twins,
		Stats:  f.Stats(),
		Preset: r.Preset,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal field: %w", err)
	}

	data := pageData{
		Title:       "Prime Resonance Field",
		Mode:        f.Options.Mode(),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Version:     r.Version,
		CSS:         template.CSS(css),
		JS:          template.JS(js),
		Data:        template.JS(payload),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the field and writes the artifact atomically: the
// output lands via a temp file and rename, so a failed render never
// leaves a partial artifact behind.
func (r *Renderer) WriteHTML(f *field.Field, path string) error {
	html, err := r.RenderHTML(f)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".resonance-*.html")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}

	stats := f.Stats()
	logger.GetLogger().Info().
		Str("path", path).
		Str("primes", strconv.Itoa(stats.Primes)).
		Str("twins", strconv.Itoa(stats.Twins)).
		Msg("Rendered resonance field")

	return nil
}
