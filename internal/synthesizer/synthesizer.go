// Package synthesizer merges a team's contributions into one final
// answer via a supervisor model pass.
package synthesizer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hirewise/crew/internal/gateway"
	"github.com/hirewise/crew/pkg/models"
)

const supervisorPrompt = "You are a supervisor merging the work of a team of specialists. " +
	"Combine their responses into one coherent answer for the user. " +
	"Resolve disagreements explicitly, keep every specialist's key points, and do not mention the team or this process."

// Result is the merged answer plus the usage of the merge call.
type Result struct {
	Content    string
	TokensUsed int64
	// Fallback is true when the supervisor call failed and the content
	// is the labeled concatenation of the contributions instead.
	Fallback bool
}

// Synthesizer produces final answers from collaboration trails.
type Synthesizer struct {
	invoker gateway.Invoker
	binding models.ProviderBinding
}

// New creates a Synthesizer. The binding selects the supervisor model;
// a zero binding uses the gateway default.
func New(invoker gateway.Invoker, binding models.ProviderBinding) *Synthesizer {
	return &Synthesizer{invoker: invoker, binding: binding}
}

// Synthesize merges the content-bearing messages into a final answer.
// Every contribution and discussion is included in the supervisor's
// context, placeholders included. The pass never fails the request: when
// the supervisor call errs, the labeled concatenation of contributions
// stands in as the answer.
func (s *Synthesizer) Synthesize(ctx context.Context, requestText string, messages []models.CollaborationMessage) Result {
	contributions := models.FilterKind(messages, models.KindContribution)
	discussions := models.FilterKind(messages, models.KindDiscussion)

	if len(contributions) == 0 {
		return Result{Content: "", Fallback: true}
	}
	if len(contributions) == 1 && len(discussions) == 0 {
		// Nothing to merge.
		return Result{Content: contributions[0].Content}
	}

	resp, err := s.invoker.Invoke(ctx, gateway.Request{
		Binding:      s.binding,
		SystemPrompt: supervisorPrompt,
		Prompt:       fmt.Sprintf("Original request:\n%s\n\nMerge the team responses from the context into one answer.", requestText),
		PriorContext: transcript(contributions, discussions),
	})
	if err != nil {
		log.Printf("[synthesizer] supervisor pass failed, falling back to concatenation: %v", err)
		return Result{Content: Concatenate(contributions), Fallback: true}
	}

	return Result{Content: resp.Content, TokensUsed: resp.TokensUsed}
}

// transcript renders contributions then discussions for the supervisor.
func transcript(contributions, discussions []models.CollaborationMessage) string {
	var b strings.Builder
	for _, m := range contributions {
		fmt.Fprintf(&b, "Response from %s:\n%s\n\n", m.From, m.Content)
	}
	for _, m := range discussions {
		fmt.Fprintf(&b, "Reaction from %s to %s:\n%s\n\n", m.From, m.To, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Concatenate joins contributions under per-persona headings. It is the
// degraded final answer when no supervisor pass is possible.
func Concatenate(contributions []models.CollaborationMessage) string {
	var b strings.Builder
	for i, m := range contributions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n%s", m.From, m.Content)
	}
	return b.String()
}
