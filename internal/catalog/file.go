package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hirewise/crew/pkg/models"
)

// File is a YAML-backed persona catalog. Reads return the most recently
// loaded snapshot; Reload swaps it atomically so in-flight requests keep
// the snapshot they started with.
type File struct {
	path string

	mu       sync.RWMutex
	personas []models.Persona
}

// fileFormat is the on-disk shape of a persona catalog file.
type fileFormat struct {
	Personas []models.Persona `yaml:"personas"`
}

// OpenFile loads a persona catalog from the given YAML file.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the catalog file and swaps the snapshot.
// On error the previous snapshot is kept.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", f.path, err)
	}

	var parsed fileFormat
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse catalog %s: %w", f.path, err)
	}

	seen := make(map[string]bool, len(parsed.Personas))
	for _, p := range parsed.Personas {
		if p.ID == "" {
			return fmt.Errorf("catalog %s: persona with empty id", f.path)
		}
		if seen[p.ID] {
			return fmt.Errorf("catalog %s: duplicate persona id %q", f.path, p.ID)
		}
		seen[p.ID] = true
	}

	f.mu.Lock()
	f.personas = parsed.Personas
	f.mu.Unlock()

	return nil
}

// Personas returns a copy of the current snapshot.
func (f *File) Personas(ctx context.Context) ([]models.Persona, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Persona{}, f.personas...), nil
}

// Path returns the catalog file path.
func (f *File) Path() string {
	return f.path
}
