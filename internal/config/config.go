// Package config provides configuration management for resonance.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the tool configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Field   FieldConfig   `yaml:"field"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig contains service-level settings.
type ServiceConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`
}

// FieldConfig contains generation defaults. Count and Limit are mutually
// exclusive; both zero means the built-in default bound applies.
type FieldConfig struct {
	Count  int    `yaml:"count"`
	Limit  int    `yaml:"limit"`
	Out    string `yaml:"out"`
	Preset string `yaml:"preset"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `yaml:"level"`
	Format     string   `yaml:"format"`
	Output     []string `yaml:"output"`
	TimeFormat string   `yaml:"time_format"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Host:    "127.0.0.1",
			Port:    8435,
			DataDir: DefaultDataDir(),
		},
		Field: FieldConfig{
			Out: "resonance-field.html",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"console"},
		},
	}
}

// DefaultDataDir returns the default data directory based on OS.
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "resonance")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Roaming", "resonance")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "resonance")
	default: // linux and others
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			return filepath.Join(xdgData, "resonance")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".resonance")
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load loads configuration from a file, merging over defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file: defaults apply
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		// Expand environment variables in the config
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		// Expand tilde in data_dir
		if strings.HasPrefix(cfg.Service.DataDir, "~/") {
			home, _ := os.UserHomeDir()
			cfg.Service.DataDir = filepath.Join(home, cfg.Service.DataDir[2:])
		}
	}

	// RESONANCE_OUT overrides the artifact path, config file or not.
	if out := os.Getenv("RESONANCE_OUT"); out != "" {
		cfg.Field.Out = out
	}

	return cfg, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Address returns the full address string for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

// ArtifactDir returns the directory generated artifacts are written to.
func (c *Config) ArtifactDir() string {
	return filepath.Join(c.Service.DataDir, "artifacts")
}

// CatalogPath returns the path to the artifact catalog file.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Service.DataDir, "catalog.json")
}

// LogPath returns the path to the service log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Service.DataDir, "logs", "resonance.log")
}

// PIDPath returns the path to the service PID file.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Service.DataDir, "resonance.pid")
}

// OutPath resolves the artifact output path: absolute paths are kept,
// relative ones land in the artifact directory.
func (c *Config) OutPath() string {
	if filepath.IsAbs(c.Field.Out) {
		return c.Field.Out
	}
	return filepath.Join(c.ArtifactDir(), c.Field.Out)
}

// PresetPath resolves the scene preset path, empty if unset.
func (c *Config) PresetPath() string {
	if c.Field.Preset == "" || filepath.IsAbs(c.Field.Preset) {
		return c.Field.Preset
	}
	return filepath.Join(c.Service.DataDir, c.Field.Preset)
}

// EnsureDirectories creates all necessary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Service.DataDir,
		c.ArtifactDir(),
		filepath.Dir(c.LogPath()),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ArtifactHash generates a short stable identifier for an artifact from
// its generation mode and output path. Returns the first 16 characters of
// the SHA256 hash.
func ArtifactHash(mode, path string) string {
	h := sha256.Sum256([]byte(mode + "|" + filepath.Clean(path)))
	return hex.EncodeToString(h[:])[:16]
}
