// Package models defines the shared value types used across the Crew
// orchestration core. Everything here is plain data: no I/O, no methods
// with side effects, safe to copy between goroutines.
package models

import "strings"

// ProviderBinding identifies the LLM backend a persona defaults to.
type ProviderBinding struct {
	// Provider is the backend name (e.g. "anthropic", "bedrock").
	Provider string `json:"provider" yaml:"provider"`
	// Model is the provider-specific model identifier.
	Model string `json:"model" yaml:"model"`
}

// Persona is a named AI role profile selectable for a task.
// Personas are owned by the catalog and read-only to the core:
// the orchestrator never mutates one after loading.
type Persona struct {
	// ID is the stable, unique identifier for this persona.
	ID string `json:"id" yaml:"id"`
	// Role is a short free-text description of what this persona does.
	// It is the primary input for expertise matching.
	Role string `json:"role" yaml:"role"`
	// Skills is an ordered list of free-text skill/tool tags.
	Skills []string `json:"skills" yaml:"skills"`
	// Binding is the default LLM backend for this persona.
	Binding ProviderBinding `json:"binding" yaml:"binding"`
}

// SystemPrompt derives the system prompt used when invoking this persona.
func (p Persona) SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are ")
	b.WriteString(p.Role)
	b.WriteString(".")
	if len(p.Skills) > 0 {
		b.WriteString(" Your skills include: ")
		b.WriteString(strings.Join(p.Skills, ", "))
		b.WriteString(".")
	}
	b.WriteString(" Respond from your area of expertise.")
	return b.String()
}

// Team is the ordered list of distinct personas selected for one request.
type Team []Persona

// IDs returns the persona ids in selection order.
func (t Team) IDs() []string {
	ids := make([]string, len(t))
	for i, p := range t {
		ids[i] = p.ID
	}
	return ids
}

// Contains reports whether the team already includes the given persona id.
func (t Team) Contains(id string) bool {
	for _, p := range t {
		if p.ID == id {
			return true
		}
	}
	return false
}
