// Package coordinator runs a selected team against a request using one
// of the execution strategies and records the collaboration trail.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/hirewise/crew/internal/gateway"
	"github.com/hirewise/crew/pkg/models"
)

// Coordinator executes teams over an Invoker. One Coordinator is safe
// for concurrent use; per-request state lives in the Trail and roster.
type Coordinator struct {
	invoker     gateway.Invoker
	maxAttempts int
}

// New creates a Coordinator. maxAttempts counts the initial call plus
// retries per member call; values below 1 fall back to 2.
func New(invoker gateway.Invoker, maxAttempts int) *Coordinator {
	if maxAttempts < 1 {
		maxAttempts = 2
	}
	return &Coordinator{invoker: invoker, maxAttempts: maxAttempts}
}

// Execute runs the team with the given strategy, appending contributions,
// discussions, and progress notes to the trail. It returns the final
// per-member statuses. Member failures never fail the run; the only
// errors are an empty team or an unknown strategy.
func (c *Coordinator) Execute(ctx context.Context, team models.Team, requestText string, strategy models.Strategy, trail *Trail) (map[string]models.MemberStatus, error) {
	if len(team) == 0 {
		return nil, errors.New("coordinator: empty team")
	}

	r := newRoster(team)

	switch strategy {
	case models.StrategySingle:
		c.runMember(ctx, team[0], requestText, "", trail, r)
	case models.StrategyParallel:
		c.runParallel(ctx, team, requestText, trail, r)
	case models.StrategySequential:
		c.runSequential(ctx, team, requestText, trail, r)
	case models.StrategyHierarchical:
		outcomes := c.runParallel(ctx, team, requestText, trail, r)
		c.discussionRound(ctx, team, outcomes, trail)
	default:
		return nil, fmt.Errorf("coordinator: unknown strategy %q", strategy)
	}

	return r.snapshot(), nil
}

// outcome is the result of one member's contribution attempt chain.
type outcome struct {
	persona models.Persona
	content string
	tokens  int64
	status  models.MemberStatus
}

// runParallel fans the team out concurrently and waits for everyone.
// Progress notes land in completion order, but contributions are
// recorded in team order so the trail reads the same on every run.
func (c *Coordinator) runParallel(ctx context.Context, team models.Team, requestText string, trail *Trail, r *roster) []outcome {
	trail.Status("team assembled: " + strings.Join(team.IDs(), ", "))

	outcomes := make([]outcome, len(team))
	var wg sync.WaitGroup
	for i, p := range team {
		r.set(p.ID, models.MemberWorking)
		wg.Add(1)
		go func(i int, p models.Persona) {
			defer wg.Done()
			out := c.contribute(ctx, p, requestText, "")
			outcomes[i] = out
			r.set(p.ID, out.status)
			trail.Status(progressNote(out))
		}(i, p)
	}
	wg.Wait()

	for _, out := range outcomes {
		trail.Append(models.KindContribution, out.persona.ID, "", out.content, out.tokens)
	}
	return outcomes
}

// runSequential walks the team in order, handing each member the
// successful contributions made so far.
func (c *Coordinator) runSequential(ctx context.Context, team models.Team, requestText string, trail *Trail, r *roster) {
	trail.Status("team assembled: " + strings.Join(team.IDs(), ", "))

	var prior strings.Builder
	for _, p := range team {
		out := c.runMember(ctx, p, requestText, prior.String(), trail, r)
		if out.status == models.MemberSucceeded {
			fmt.Fprintf(&prior, "%s:\n%s\n\n", p.ID, out.content)
		}
	}
}

// runMember executes one member's contribution and records it.
func (c *Coordinator) runMember(ctx context.Context, p models.Persona, requestText, prior string, trail *Trail, r *roster) outcome {
	r.set(p.ID, models.MemberWorking)
	out := c.contribute(ctx, p, requestText, prior)
	r.set(p.ID, out.status)
	trail.Append(models.KindContribution, p.ID, "", out.content, out.tokens)
	trail.Status(progressNote(out))
	return out
}

// discussionRound lets each member briefly react to the next member's
// contribution. The round is best effort: a failed reaction is logged
// and dropped, never retried, and placeholder contributions get no
// reactions.
func (c *Coordinator) discussionRound(ctx context.Context, team models.Team, outcomes []outcome, trail *Trail) {
	if len(team) < 2 {
		return
	}
	trail.Status("team discussion round")

	for i := 0; i < len(team)-1; i++ {
		reviewer := team[i]
		author := outcomes[i+1]
		if author.status != models.MemberSucceeded {
			continue
		}

		resp, err := c.invoker.Invoke(ctx, gateway.Request{
			Binding:      reviewer.Binding,
			SystemPrompt: reviewer.SystemPrompt(),
			Prompt: fmt.Sprintf("A teammate (%s) proposed the response below. Briefly react from your own expertise: note agreement, risks, or additions in a few sentences.",
				author.persona.ID),
			PriorContext: author.content,
		})
		if err != nil {
			log.Printf("[coordinator] discussion %s -> %s dropped: %v", reviewer.ID, author.persona.ID, err)
			continue
		}
		trail.Append(models.KindDiscussion, reviewer.ID, author.persona.ID, resp.Content, resp.TokensUsed)
	}
}

// contribute calls the member's model, retrying once on failure. After
// the final failure the member is marked failed and an apologetic
// placeholder stands in for the contribution, so downstream synthesis
// always has one entry per member.
func (c *Coordinator) contribute(ctx context.Context, p models.Persona, requestText, prior string) outcome {
	req := gateway.Request{
		Binding:      p.Binding,
		SystemPrompt: p.SystemPrompt(),
		Prompt:       requestText,
		PriorContext: prior,
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.invoker.Invoke(ctx, req)
		if err == nil {
			return outcome{persona: p, content: resp.Content, tokens: resp.TokensUsed, status: models.MemberSucceeded}
		}
		log.Printf("[coordinator] %s attempt %d/%d failed: %v", p.ID, attempt, c.maxAttempts, err)
	}

	return outcome{
		persona: p,
		content: fmt.Sprintf("I'm sorry, I wasn't able to put together my part of this task. Please weigh the other responses without input from %s.", p.ID),
		status:  models.MemberFailed,
	}
}

func progressNote(out outcome) string {
	if out.status == models.MemberFailed {
		return out.persona.ID + " could not complete their part, continuing without it"
	}
	return out.persona.ID + " finished their contribution"
}

// roster tracks per-member execution state for one run.
type roster struct {
	mu     sync.Mutex
	states map[string]models.MemberStatus
}

func newRoster(team models.Team) *roster {
	states := make(map[string]models.MemberStatus, len(team))
	for _, p := range team {
		states[p.ID] = models.MemberPending
	}
	return &roster{states: states}
}

func (r *roster) set(id string, status models.MemberStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[id] = status
}

func (r *roster) snapshot() map[string]models.MemberStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]models.MemberStatus, len(r.states))
	for id, s := range r.states {
		out[id] = s
	}
	return out
}
