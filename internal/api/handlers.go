package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ternarybob/resonance/internal/render"
	"github.com/ternarybob/resonance/pkg/field"
	"github.com/ternarybob/resonance/web"
)

// version is set via -ldflags at build time
var version = "dev"

// SetVersion sets the version string (called from main).
func SetVersion(v string) {
	version = v
}

// Response types

// HealthResponse is the response for /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse is the response for /version.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldResponse carries the full field. Key names match what the web
// visualization script consumes.
type FieldResponse struct {
	Mode   string        `json:"mode"`
	Stats  field.Stats   `json:"stats"`
	Tuples []field.Tuple `json:"tuples"`
	Twins  []field.Twin  `json:"twins"`
	Preset render.Preset `json:"preset"`
}

// TwinsResponse carries the twin-prime bridges only.
type TwinsResponse struct {
	Mode  string       `json:"mode"`
	Total int          `json:"total"`
	Twins []field.Twin `json:"twins"`
}

// RenderRequest is the body for POST /render.
type RenderRequest struct {
	Count int    `json:"count,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Out   string `json:"out,omitempty"`
}

// RenderResponse describes the written artifact.
type RenderResponse struct {
	ID    string      `json:"id"`
	Path  string      `json:"path"`
	Mode  string      `json:"mode"`
	Stats field.Stats `json:"stats"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version,
		Service: "resonance",
	})
}

// parseOptions reads count/limit query parameters. Absent parameters fall
// back to the configured generation defaults.
func (s *Server) parseOptions(r *http.Request) (field.Options, error) {
	opts := field.Options{
		Count: s.cfg.Field.Count,
		Limit: s.cfg.Field.Limit,
	}

	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("count %q: %w", v, field.ErrInvalidArgument)
		}
		opts.Count = n
		opts.Limit = 0
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("limit %q: %w", v, field.ErrInvalidArgument)
		}
		opts.Limit = n
		if r.URL.Query().Get("count") == "" {
			opts.Count = 0
		}
	}

	return opts, opts.Validate()
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	f, err := field.Generate(opts)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FieldResponse{
		Mode:   opts.Mode(),
		Stats:  f.Stats(),
		Tuples: f.Tuples,
		Twins:  f.Twins,
		Preset: s.renderer.Preset,
	})
}

func (s *Server) handleTwins(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	f, err := field.Generate(opts)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TwinsResponse{
		Mode:  opts.Mode(),
		Total: len(f.Twins),
		Twins: f.Twins,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	f, err := field.Generate(opts)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, f.Stats())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opts := field.Options{Count: req.Count, Limit: req.Limit}
	f, err := field.Generate(opts)
	if err != nil {
		writeFieldError(w, err)
		return
	}

	out := req.Out
	if out == "" {
		out = s.cfg.Field.Out
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(s.cfg.ArtifactDir(), out)
	}

	if err := s.renderer.WriteHTML(f, out); err != nil {
		writeError(w, http.StatusInternalServerError, "Render failed: "+err.Error())
		return
	}

	stats := f.Stats()
	artifact, err := s.catalog.Record(out, "html", opts.Mode(), stats.Primes, stats.Twins)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Catalog update failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, RenderResponse{
		ID:    artifact.ID,
		Path:  artifact.Path,
		Mode:  artifact.Mode,
		Stats: stats,
	})
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *Server) handleRemoveArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.catalog.Remove(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/web/", http.StatusFound)
}

// WebIndexData is the data for the index page template.
type WebIndexData struct {
	Version string
}

func (s *Server) handleWebAssets(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/web")
	if path == "" || path == "/" {
		s.renderIndex(w, r)
		return
	}

	if strings.HasPrefix(path, "/static/") {
		s.serveStaticFile(w, r, path)
		return
	}

	http.NotFound(w, r)
}

func (s *Server) serveStaticFile(w http.ResponseWriter, r *http.Request, path string) {
	fileName := strings.TrimPrefix(path, "/static/")

	ext := filepath.Ext(path)
	switch ext {
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	}

	data, err := web.Static.ReadFile("static/" + fileName)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Write(data)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(web.Templates, "templates/index.html")
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	data := WebIndexData{
		Version: version,
	}

	w.Header().Set("Content-Type", "text/html")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Template execution error: "+err.Error(), http.StatusInternalServerError)
	}
}

// Helper functions

// writeFieldError maps core errors onto HTTP status codes.
func writeFieldError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, field.ErrInvalidArgument) {
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
