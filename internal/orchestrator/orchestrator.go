// Package orchestrator is the entry point of the collaboration core: it
// analyzes a request, selects personas, drives the execution strategy,
// and synthesizes the final answer.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirewise/crew/internal/analyzer"
	"github.com/hirewise/crew/internal/catalog"
	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/internal/coordinator"
	"github.com/hirewise/crew/internal/gateway"
	"github.com/hirewise/crew/internal/history"
	"github.com/hirewise/crew/internal/selector"
	"github.com/hirewise/crew/internal/synthesizer"
	"github.com/hirewise/crew/pkg/models"
)

// Orchestrator runs requests end to end. It is safe for concurrent use;
// all per-request state lives in the trail.
type Orchestrator struct {
	invoker  gateway.Invoker
	catalog  catalog.Catalog
	analyzer *analyzer.Analyzer
	selector *selector.Selector
	coord    *coordinator.Coordinator
	synth    *synthesizer.Synthesizer

	force    models.Strategy
	observer func(models.CollaborationMessage)
	store    *history.Store
	debug    *DebugLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver registers a callback invoked for every trail message as
// it is appended, for live progress display.
func WithObserver(fn func(models.CollaborationMessage)) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// WithForcedStrategy overrides the strategy choice for multi-persona
// runs. Simple requests still take the single path.
func WithForcedStrategy(s models.Strategy) Option {
	return func(o *Orchestrator) { o.force = s }
}

// WithHistory persists completed runs to the given store. Persistence
// failures are logged, never surfaced.
func WithHistory(store *history.Store) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithDebugLogger routes detailed decision traces to a debug log file.
func WithDebugLogger(l *DebugLogger) Option {
	return func(o *Orchestrator) { o.debug = l }
}

// New creates an Orchestrator over the given invoker and catalog.
func New(cfg *config.Config, invoker gateway.Invoker, cat catalog.Catalog, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		invoker:  invoker,
		catalog:  cat,
		analyzer: analyzer.New(cfg.Analyzer),
		selector: selector.New(cfg.Selector, cfg.Analyzer),
		coord:    coordinator.New(invoker, cfg.Gateway.MaxAttempts),
		synth: synthesizer.New(invoker, models.ProviderBinding{
			Provider: "anthropic",
			Model:    cfg.Gateway.DefaultModel,
		}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one request end to end and returns the result with the
// full collaboration trail. Member failures degrade inside the run, and
// blank or trivial input takes the single-persona path; the returned
// error is non-nil only when nothing could be attempted at all
// (unreadable or empty catalog, cancellation).
func (o *Orchestrator) Run(ctx context.Context, requestText string) (*models.OrchestrationResult, error) {
	requestText = strings.TrimSpace(requestText)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	requestID := uuid.New().String()[:8]

	// Usage deltas are per gateway: overlapping runs sharing one gateway
	// fold their usage together.
	tracker := o.tracker()
	var inputBefore, outputBefore int64
	if tracker != nil {
		inputBefore, outputBefore = tracker.Total()
	}

	// Snapshot the catalog once; mid-run reloads affect the next request.
	personas, err := o.catalog.Personas(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	if len(personas) == 0 {
		return nil, catalog.ErrUnavailable
	}

	report := o.analyzer.Analyze(requestText)
	o.debug.Log("request %s: %s", requestID, report.Reason)

	team, strategy, err := o.assemble(report, requestText, personas)
	if err != nil {
		return nil, err
	}
	log.Printf("[orchestrator] %s: strategy %s, team %s", requestID, strategy, strings.Join(team.IDs(), ", "))

	trail := coordinator.NewTrail(o.observer)
	statuses, err := o.coord.Execute(ctx, team, requestText, strategy, trail)
	if err != nil {
		return nil, err
	}
	for id, status := range statuses {
		o.debug.Log("request %s: member %s finished %s", requestID, id, status)
	}

	final := o.finalAnswer(ctx, requestText, strategy, trail)

	messages := trail.Messages()
	result := &models.OrchestrationResult{
		RequestID:       requestID,
		Request:         requestText,
		FinalAnswer:     final,
		PersonaIDs:      team.IDs(),
		Strategy:        strategy,
		Messages:        messages,
		TotalTokensUsed: models.SumTokens(messages),
		MultiAgent:      strategy.MultiAgent(),
		StartedAt:       started,
		Duration:        time.Since(started),
	}
	if tracker != nil {
		input, output := tracker.Total()
		result.EstimatedCost = gateway.EstimateCost(input-inputBefore, output-outputBefore)
	}

	if o.store != nil {
		if err := o.store.SaveRun(result); err != nil {
			log.Printf("[orchestrator] %s: history save failed: %v", requestID, err)
		}
	}

	return result, nil
}

// tracker returns the invoker's token tracker when it exposes one
// (both the Anthropic gateway and its breaker wrapper do).
func (o *Orchestrator) tracker() *gateway.TokenTracker {
	if r, ok := o.invoker.(interface{ Tracker() *gateway.TokenTracker }); ok {
		return r.Tracker()
	}
	return nil
}

// assemble turns the complexity report into a team and a strategy. A
// best-effort team that degrades to one persona collapses back to the
// single path.
func (o *Orchestrator) assemble(report models.ComplexityReport, requestText string, personas []models.Persona) (models.Team, models.Strategy, error) {
	single := !report.Complex || o.force == models.StrategySingle
	if single {
		p, err := o.selector.SelectOne(requestText, personas)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
		}
		return models.Team{p}, models.StrategySingle, nil
	}

	team, err := o.selector.SelectTeam(report.ExpertiseAreas, requestText, personas, report.TeamSize)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	if len(team) == 1 {
		return team, models.StrategySingle, nil
	}

	if o.force.Valid() && o.force.MultiAgent() {
		return team, o.force, nil
	}
	if len(team) >= 3 {
		return team, models.StrategyHierarchical, nil
	}
	return team, models.StrategyParallel, nil
}

// finalAnswer produces the user-facing answer. Single runs return the
// sole contribution directly; multi-persona runs get a synthesis pass
// whose output is appended to the trail.
func (o *Orchestrator) finalAnswer(ctx context.Context, requestText string, strategy models.Strategy, trail *coordinator.Trail) string {
	if !strategy.MultiAgent() {
		contribs := trail.Contributions()
		if len(contribs) == 0 {
			return ""
		}
		return contribs[0].Content
	}

	res := o.synth.Synthesize(ctx, requestText, trail.Messages())
	trail.Append(models.KindSynthesis, models.SupervisorID, "", res.Content, res.TokensUsed)
	if res.Fallback {
		log.Printf("[orchestrator] synthesis degraded to concatenation")
	}
	return res.Content
}
