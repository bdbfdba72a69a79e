package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err, "should load without error")

	assert.Equal(t, "127.0.0.1", cfg.Service.Host)
	assert.Equal(t, 8435, cfg.Service.Port)
	assert.Equal(t, "resonance-field.html", cfg.Field.Out)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := `service:
  host: 0.0.0.0
  port: 9000
  data_dir: ` + tmpDir + `
field:
  limit: 500
  out: spiral.html
logging:
  level: debug
  output: [console, file]
`
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err, "should load without error")

	assert.Equal(t, "0.0.0.0", cfg.Service.Host)
	assert.Equal(t, 9000, cfg.Service.Port)
	assert.Equal(t, 500, cfg.Field.Limit)
	assert.Equal(t, "spiral.html", cfg.Field.Out)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"console", "file"}, cfg.Logging.Output)
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	// Partial config - only the field section
	content := "field:\n  count: 100\n"
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Field.Count)
	// Defaults survive for untouched sections
	assert.Equal(t, 8435, cfg.Service.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesOut(t *testing.T) {
	t.Setenv("RESONANCE_OUT", "/tmp/override.html")

	// Fresh install: no config file on disk
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.html", cfg.Field.Out)

	// Env wins over a configured out path too
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field:\n  out: from-file.html\n"), 0644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.html", cfg.Field.Out)
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Field.Limit = 2350
	cfg.Service.Port = 8436
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2350, loaded.Field.Limit)
	assert.Equal(t, 8436, loaded.Service.Port)
}

func TestOutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.DataDir = "/data"

	cfg.Field.Out = "spiral.html"
	assert.Equal(t, filepath.Join("/data", "artifacts", "spiral.html"), cfg.OutPath())

	cfg.Field.Out = "/abs/spiral.html"
	assert.Equal(t, "/abs/spiral.html", cfg.OutPath())
}

func TestAddress(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8435", cfg.Address())
}

func TestArtifactHash_StableAndShort(t *testing.T) {
	a := ArtifactHash("limit=2350", "/data/artifacts/out.html")
	b := ArtifactHash("limit=2350", "/data/artifacts/out.html")
	c := ArtifactHash("count=100", "/data/artifacts/out.html")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
