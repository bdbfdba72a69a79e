// Package catalog tracks generated artifacts for resonance.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/resonance/internal/config"
)

// Artifact represents one generated output file.
type Artifact struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Kind      string    `json:"kind"` // html or wav
	Mode      string    `json:"mode"` // count=N or limit=N
	Primes    int       `json:"primes"`
	Twins     int       `json:"twins"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalog manages the collection of generated artifacts.
type Catalog struct {
	mu        sync.RWMutex
	artifacts map[string]*Artifact
	path      string
}

// New creates a catalog persisted at the configured path.
func New(cfg *config.Config) *Catalog {
	return &Catalog{
		artifacts: make(map[string]*Artifact),
		path:      cfg.CatalogPath(),
	}
}

// Load loads the catalog from disk.
func (c *Catalog) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No catalog file yet
		}
		return fmt.Errorf("read catalog: %w", err)
	}

	var artifacts []*Artifact
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	for _, a := range artifacts {
		c.artifacts[a.ID] = a
	}

	return nil
}

// Save persists the catalog to disk.
func (c *Catalog) Save() error {
	artifacts := c.List()

	data, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	return nil
}

// Record adds or replaces an artifact entry and persists the catalog.
func (c *Catalog) Record(path, kind, mode string, primes, twins int) (*Artifact, error) {
	a := &Artifact{
		ID:        config.ArtifactHash(mode, path),
		Path:      path,
		Kind:      kind,
		Mode:      mode,
		Primes:    primes,
		Twins:     twins,
		CreatedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.artifacts[a.ID] = a
	c.mu.Unlock()

	if err := c.Save(); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns an artifact by ID.
func (c *Catalog) Get(id string) (*Artifact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.artifacts[id]
	if !ok {
		return nil, fmt.Errorf("artifact not found: %s", id)
	}
	return a, nil
}

// List returns all artifacts, newest first.
func (c *Catalog) List() []*Artifact {
	c.mu.RLock()
	defer c.mu.RUnlock()

	artifacts := make([]*Artifact, 0, len(c.artifacts))
	for _, a := range c.artifacts {
		artifacts = append(artifacts, a)
	}
	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].CreatedAt.Equal(artifacts[j].CreatedAt) {
			return artifacts[i].ID < artifacts[j].ID
		}
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	return artifacts
}

// Remove deletes an artifact entry (not the file) and persists the catalog.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	if _, ok := c.artifacts[id]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("artifact not found: %s", id)
	}
	delete(c.artifacts, id)
	c.mu.Unlock()

	return c.Save()
}
