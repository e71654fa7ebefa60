// Package analyzer decides whether a request needs one persona or a
// collaborating team. Analysis is a pure function of the request text and
// the configured keyword tables: no I/O, deterministic, cannot fail.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/pkg/models"
)

// Scoring weights per keyword class. The class tables themselves are
// configuration; these weights are the fixed part of the policy.
const (
	actionWeight    = 2
	pairWeight      = 3
	depthWeight     = 2
	extraAreaWeight = 2
	longTextWeight  = 2
)

// Analyzer scores request text against the configured keyword tables.
type Analyzer struct {
	cfg config.AnalyzerConfig
}

// New creates an Analyzer over the given tables.
func New(cfg config.AnalyzerConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze scores the request and returns the complexity decision.
// Malformed or trivial input degrades to the single-persona path.
func (a *Analyzer) Analyze(text string) models.ComplexityReport {
	lower := strings.ToLower(text)
	wordCount := len(strings.Fields(lower))

	actions := matchAny(lower, a.cfg.ActionKeywords)
	pairs := matchAny(lower, a.cfg.PairKeywords)
	depth := matchAny(lower, a.cfg.DepthKeywords)
	areas := a.matchAreas(lower)

	score := len(actions)*actionWeight + len(pairs)*pairWeight + len(depth)*depthWeight
	if len(areas) > 1 {
		score += (len(areas) - 1) * extraAreaWeight
	}
	longText := wordCount > a.cfg.LongRequestWords
	if longText {
		score += longTextWeight
	}

	// Trivial input never triggers complexity: require a minimum length
	// and at least one keyword signal, whatever the score says.
	anySignal := len(actions)+len(pairs)+len(depth)+len(areas) > 0
	complex := (score >= a.cfg.ComplexityThreshold || len(areas) >= 2) &&
		wordCount >= a.cfg.MinWords && anySignal

	teamSize := 1
	if complex {
		teamSize = clamp(len(areas), a.cfg.TeamMin, a.cfg.TeamMax)
	}

	return models.ComplexityReport{
		Complex:        complex,
		Score:          score,
		Reason:         buildReason(complex, score, a.cfg.ComplexityThreshold, actions, pairs, depth, areas, longText),
		ExpertiseAreas: areas,
		TeamSize:       teamSize,
	}
}

// matchAny returns the keywords from the table found in the text,
// preserving table order.
func matchAny(lower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if kw != "" && ContainsKeyword(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// matchAreas returns the expertise areas whose domain keywords appear in
// the text, deduplicated in first-seen (table) order.
func (a *Analyzer) matchAreas(lower string) []string {
	var areas []string
	for _, d := range a.cfg.Domains {
		for _, kw := range d.Keywords {
			if kw != "" && ContainsKeyword(lower, kw) {
				areas = append(areas, d.Area)
				break
			}
		}
	}
	return areas
}

// ContainsKeyword reports whether kw occurs in lower on word boundaries.
// Short keywords like "api" must not fire inside unrelated words such as
// "rapid". Both arguments are expected lowercase.
func ContainsKeyword(lower, kw string) bool {
	for i := 0; ; {
		j := strings.Index(lower[i:], kw)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(kw)
		if boundary(lower, start-1) && boundary(lower, end) {
			return true
		}
		i = start + 1
	}
}

// boundary reports whether the byte at i fails to extend a word. Out of
// range counts as a boundary.
func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !('a' <= c && c <= 'z' || '0' <= c && c <= '9')
}

// buildReason constructs the audit string explaining the decision.
func buildReason(complex bool, score, threshold int, actions, pairs, depth, areas []string, longText bool) string {
	var parts []string

	if len(actions) > 0 {
		parts = append(parts, "action keywords: "+strings.Join(actions, ", "))
	}
	if len(pairs) > 0 {
		parts = append(parts, "multi-domain phrases: "+strings.Join(pairs, ", "))
	}
	if len(depth) > 0 {
		parts = append(parts, "technical depth: "+strings.Join(depth, ", "))
	}
	if len(areas) > 0 {
		parts = append(parts, "expertise areas: "+strings.Join(areas, ", "))
	}
	if longText {
		parts = append(parts, "detailed request")
	}

	verdict := fmt.Sprintf("simple task (score %d below threshold %d)", score, threshold)
	if complex {
		verdict = fmt.Sprintf("complex task (score %d, threshold %d)", score, threshold)
	}

	if len(parts) == 0 {
		return verdict + "; no keyword signals"
	}
	return verdict + "; " + strings.Join(parts, "; ")
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
