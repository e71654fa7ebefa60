// Package catalog provides read-only access to the persona catalog.
// The orchestration core snapshots the catalog once per request and never
// mutates a persona.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/hirewise/crew/pkg/models"
)

// ErrUnavailable indicates the catalog cannot be read at all. This is the
// one fatal error in the orchestration core: without personas there is
// nothing to degrade to.
var ErrUnavailable = errors.New("persona catalog unavailable")

// Catalog is the read-only persona source consumed by the orchestrator.
type Catalog interface {
	// Personas returns all available personas. Implementations must return
	// a snapshot the caller can hold without locking.
	Personas(ctx context.Context) ([]models.Persona, error)
}

// Compile-time verification of the Catalog implementations.
var _ Catalog = (*Static)(nil)
var _ Catalog = (*File)(nil)

// Static is an in-memory catalog, used for the built-in roster and tests.
type Static struct {
	personas []models.Persona
}

// NewStatic creates a static catalog from the given personas.
// Duplicate persona ids are rejected.
func NewStatic(personas []models.Persona) (*Static, error) {
	seen := make(map[string]bool, len(personas))
	for _, p := range personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona with empty id (role %q)", p.Role)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
	}

	return &Static{personas: append([]models.Persona{}, personas...)}, nil
}

// Personas returns a copy of the catalog contents.
func (s *Static) Personas(ctx context.Context) ([]models.Persona, error) {
	return append([]models.Persona{}, s.personas...), nil
}

// Builtin returns the default persona roster used when no catalog file is
// configured. The ids and roles mirror the stock "AI employee" lineup.
func Builtin() *Static {
	s, err := NewStatic([]models.Persona{
		{
			ID:     "frontend-dev",
			Role:   "a senior frontend developer specializing in Frontend Development",
			Skills: []string{"React", "TypeScript", "CSS", "accessibility", "responsive design"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
		{
			ID:     "backend-dev",
			Role:   "a senior backend engineer specializing in Backend Development",
			Skills: []string{"Node.js", "Express", "REST APIs", "PostgreSQL", "caching"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
		{
			ID:     "security-analyst",
			Role:   "a security analyst specializing in application Security",
			Skills: []string{"authentication", "OWASP", "threat modeling", "encryption"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
		{
			ID:     "devops-engineer",
			Role:   "a DevOps engineer focused on deployment and infrastructure",
			Skills: []string{"Docker", "Kubernetes", "CI/CD", "observability"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
		{
			ID:     "data-engineer",
			Role:   "a data engineer specializing in Database Engineering",
			Skills: []string{"SQL", "schema design", "ETL", "PostgreSQL"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
		{
			ID:     "product-designer",
			Role:   "a product designer specializing in UI/UX Design",
			Skills: []string{"wireframes", "design systems", "user research", "Figma"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
		{
			ID:     "generalist",
			Role:   "a versatile general assistant",
			Skills: []string{"research", "writing", "explanation", "planning"},
			Binding: models.ProviderBinding{Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
		},
	})
	if err != nil {
		// The builtin roster is a package constant in spirit; a duplicate
		// id here is a programming error.
		panic(err)
	}
	return s
}
