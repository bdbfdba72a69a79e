package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/resonance/pkg/field"
)

func TestRenderHTML_SelfContained(t *testing.T) {
	f, err := field.Generate(field.Options{Limit: 50})
	require.NoError(t, err)

	r := NewRenderer(DefaultPreset())
	html, err := r.RenderHTML(f)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Prime Resonance Field")
	assert.Contains(t, body, "window.RESONANCE_DATA")
	// Data is inlined, not fetched
	assert.Contains(t, body, `"tuples"`)
	assert.Contains(t, body, `"twins"`)
	assert.NotContains(t, body, `src="/web/`)
	// Viz script is inlined
	assert.Contains(t, body, "resonanceLoad")
	assert.Contains(t, body, "limit=50")
}

func TestWriteHTML_CreatesArtifact(t *testing.T) {
	f, err := field.Generate(field.Options{Count: 10})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "field.html")
	r := NewRenderer(DefaultPreset())
	require.NoError(t, r.WriteHTML(f, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "window.RESONANCE_DATA")

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".resonance-"), "stale temp file %s", e.Name())
	}
}

func TestWriteHTML_EmptyField(t *testing.T) {
	f, err := field.Generate(field.Options{Limit: 1})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.html")
	r := NewRenderer(DefaultPreset())
	require.NoError(t, r.WriteHTML(f, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tuples":[]`)
}

func TestLoadPreset_MissingFileUsesDefaults(t *testing.T) {
	preset, err := LoadPreset(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset(), preset)
}

func TestLoadPreset_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.toml")
	content := `marker_size = 5.5
color_scale = "plasma"
show_bridges = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	preset, err := LoadPreset(path)
	require.NoError(t, err)

	assert.Equal(t, 5.5, preset.MarkerSize)
	assert.Equal(t, "plasma", preset.ColorScale)
	require.NotNil(t, preset.ShowBridges)
	assert.False(t, *preset.ShowBridges)
	// Untouched fields keep their defaults
	assert.Equal(t, "#0b0e1a", preset.Background)
	assert.Equal(t, "#ffd700", preset.BridgeColor)
}

func TestLoadPreset_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("marker_size = ["), 0644))

	_, err := LoadPreset(path)
	assert.Error(t, err)
}
