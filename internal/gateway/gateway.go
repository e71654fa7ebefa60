// Package gateway provides the LLM invocation boundary for the
// orchestration core. Everything above this package talks to the Invoker
// interface; provider specifics stay behind it.
package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/hirewise/crew/pkg/models"
)

// Request is one normalized invocation of an LLM backend.
type Request struct {
	// Binding selects the backend/model; zero value uses the adapter default.
	Binding models.ProviderBinding
	// SystemPrompt is the persona framing for this call.
	SystemPrompt string
	// Prompt is the user-facing request text.
	Prompt string
	// PriorContext carries earlier contributions for hand-off and
	// synthesis calls; empty for independent contributions.
	PriorContext string
}

// UserContent assembles the full user message, prepending prior context
// when present.
func (r Request) UserContent() string {
	if r.PriorContext == "" {
		return r.Prompt
	}
	var b strings.Builder
	b.WriteString("Context from earlier in this task:\n\n")
	b.WriteString(r.PriorContext)
	b.WriteString("\n\n---\n\n")
	b.WriteString(r.Prompt)
	return b.String()
}

// Response is the normalized result of an invocation.
type Response struct {
	// Content is the completion text.
	Content string
	// TokensUsed is the combined input+output token usage for the call.
	TokensUsed int64
}

// Invoker is the opaque async capability for calling an LLM backend.
// Implementations must be safe for concurrent use and must honor
// cancellation and deadlines on ctx.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// TokenTracker tracks token usage across API calls.
type TokenTracker struct {
	mu        sync.Mutex
	inputTok  int64
	outputTok int64
	calls     int
}

// NewTokenTracker creates a new token tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{}
}

// Add records token usage from an API call.
func (t *TokenTracker) Add(input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok += input
	t.outputTok += output
	t.calls++
}

// Total returns the total input and output tokens tracked.
func (t *TokenTracker) Total() (input, output int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inputTok, t.outputTok
}

// Calls returns the number of API calls made.
func (t *TokenTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Reset clears all tracked token usage.
func (t *TokenTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inputTok = 0
	t.outputTok = 0
	t.calls = 0
}

// Cost estimates the cost in USD for all tracked usage.
func (t *TokenTracker) Cost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return EstimateCost(t.inputTok, t.outputTok)
}

// Sonnet pricing per million tokens (approximate, update as pricing changes).
const (
	inputCostPerMTok  = 3.0
	outputCostPerMTok = 15.0
)

// EstimateCost returns the approximate cost in USD for the given token
// usage, based on current Claude pricing.
func EstimateCost(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)/1_000_000*inputCostPerMTok +
		float64(outputTokens)/1_000_000*outputCostPerMTok
}
