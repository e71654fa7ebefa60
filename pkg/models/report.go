package models

import "time"

// ComplexityReport is the result of analyzing a request's text.
// It is computed once per request and immutable afterwards.
type ComplexityReport struct {
	// Complex indicates the request needs a multi-persona team.
	Complex bool `json:"complex"`
	// Score is the raw keyword score that fed the decision.
	Score int `json:"score"`
	// Reason explains which signals triggered the decision.
	Reason string `json:"reason"`
	// ExpertiseAreas lists the required expertise areas in first-seen
	// order, deduplicated.
	ExpertiseAreas []string `json:"expertise_areas"`
	// TeamSize is the estimated team size: clamped to [2,4] when Complex,
	// 1 otherwise.
	TeamSize int `json:"team_size"`
}

// OrchestrationResult is the final output of one orchestration run.
type OrchestrationResult struct {
	// RequestID identifies this run.
	RequestID string `json:"request_id"`
	// Request is the original request text.
	Request string `json:"request"`
	// FinalAnswer is the answer returned to the caller. Always non-empty
	// on success: degraded paths substitute placeholders or concatenation
	// rather than failing.
	FinalAnswer string `json:"final_answer"`
	// PersonaIDs lists the selected team's ids in selection order.
	PersonaIDs []string `json:"persona_ids"`
	// Strategy is the execution strategy that was used.
	Strategy Strategy `json:"strategy"`
	// Messages is the full ordered collaboration trail.
	Messages []CollaborationMessage `json:"messages"`
	// TotalTokensUsed is the sum of token usage over all messages.
	TotalTokensUsed int64 `json:"total_tokens_used"`
	// EstimatedCost is the approximate USD cost of the run's gateway
	// calls; zero when the gateway does not track usage.
	EstimatedCost float64 `json:"estimated_cost,omitempty"`
	// MultiAgent mirrors the complexity decision.
	MultiAgent bool `json:"multi_agent"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// Duration is the wall-clock time for the whole run.
	Duration time.Duration `json:"duration"`
}
