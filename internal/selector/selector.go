// Package selector scores catalog personas against required expertise
// areas and assembles the team for one request.
package selector

import (
	"errors"
	"log"
	"strings"

	"github.com/hirewise/crew/internal/analyzer"
	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/pkg/models"
)

// ErrNoEligiblePersona indicates no persona scored above the relevance
// threshold. Selection degrades to the best available subset before this
// is ever surfaced; it only reaches a caller when the catalog is empty.
var ErrNoEligiblePersona = errors.New("no eligible persona")

// Selector picks personas for a request using the configured weights and
// the analyzer's domain keyword tables.
type Selector struct {
	cfg     config.SelectorConfig
	domains config.AnalyzerConfig
}

// New creates a Selector. The analyzer config supplies the domain
// keyword tables shared by scoring.
func New(cfg config.SelectorConfig, domains config.AnalyzerConfig) *Selector {
	return &Selector{cfg: cfg, domains: domains}
}

// SelectOne scores every persona against the whole request text and
// returns the single highest scorer. Ties break by catalog order, so
// selection is deterministic. Scoring below threshold falls back to the
// first persona rather than failing: the user always gets an answer.
func (s *Selector) SelectOne(requestText string, personas []models.Persona) (models.Persona, error) {
	if len(personas) == 0 {
		return models.Persona{}, ErrNoEligiblePersona
	}

	best := 0
	bestScore := s.scoreText(personas[0], requestText)
	for i := 1; i < len(personas); i++ {
		if score := s.scoreText(personas[i], requestText); score > bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore < s.cfg.MinScore {
		log.Printf("[selector] no persona above threshold %.1f for request, using catalog default %s",
			s.cfg.MinScore, personas[best].ID)
	}

	return personas[best], nil
}

// SelectTeam assembles a team of up to teamSize distinct personas, one per
// expertise area in order, filling remaining slots by whole-request score.
// When fewer than teamSize personas clear the threshold, the best-effort
// subset is returned instead of an error.
func (s *Selector) SelectTeam(areas []string, requestText string, personas []models.Persona, teamSize int) (models.Team, error) {
	if len(personas) == 0 {
		return nil, ErrNoEligiblePersona
	}
	if teamSize > len(personas) {
		teamSize = len(personas)
	}
	if teamSize < 1 {
		teamSize = 1
	}

	var team models.Team

	// One pick per expertise area, in analyzer order.
	for _, area := range areas {
		if len(team) >= teamSize {
			break
		}
		if p, ok := s.bestForArea(area, personas, team); ok {
			team = append(team, p)
		}
	}

	// Fill remaining slots by whole-request relevance.
	for len(team) < teamSize {
		p, ok := s.bestByText(requestText, personas, team)
		if !ok {
			break
		}
		team = append(team, p)
	}

	if len(team) < teamSize {
		log.Printf("[selector] best-effort team of %d (wanted %d): only %d personas above threshold %.1f",
			len(team), teamSize, len(team), s.cfg.MinScore)
	}

	// An empty catalog is caught above; with personas present at least
	// the fill loop admits the top scorer even below threshold.
	if len(team) == 0 {
		team = append(team, personas[0])
	}

	return team, nil
}

// bestForArea returns the highest-scoring persona for an expertise area
// that is not already on the team. Personas below the threshold are not
// eligible for area slots.
func (s *Selector) bestForArea(area string, personas []models.Persona, team models.Team) (models.Persona, bool) {
	var best models.Persona
	bestScore := -1.0

	for _, p := range personas {
		if team.Contains(p.ID) {
			continue
		}
		if score := s.scoreArea(p, area); score > bestScore {
			best = p
			bestScore = score
		}
	}

	if bestScore < s.cfg.MinScore {
		return models.Persona{}, false
	}
	return best, true
}

// bestByText returns the highest-scoring unselected persona against the
// raw request text. The first fill slot admits the top scorer even below
// threshold so a team is never empty; later slots require relevance.
func (s *Selector) bestByText(requestText string, personas []models.Persona, team models.Team) (models.Persona, bool) {
	var best models.Persona
	bestScore := -1.0

	for _, p := range personas {
		if team.Contains(p.ID) {
			continue
		}
		if score := s.scoreText(p, requestText); score > bestScore {
			best = p
			bestScore = score
		}
	}

	if bestScore < 0 {
		return models.Persona{}, false
	}
	if len(team) > 0 && bestScore < s.cfg.MinScore {
		return models.Persona{}, false
	}
	return best, true
}

// scoreArea scores one persona against one expertise area.
func (s *Selector) scoreArea(p models.Persona, area string) float64 {
	var score float64

	role := strings.ToLower(p.Role)
	if strings.Contains(role, strings.ToLower(area)) {
		score += s.cfg.RoleMatchWeight
	}

	for _, kw := range s.domains.KeywordsFor(area) {
		if s.hasKeyword(p, kw) {
			score += s.cfg.KeywordWeight
			break
		}
	}

	score += float64(len(p.Skills)) * s.cfg.SkillWeight
	return score
}

// scoreText scores one persona against free-form request text by walking
// every domain keyword that appears in the text.
func (s *Selector) scoreText(p models.Persona, text string) float64 {
	var score float64
	lower := strings.ToLower(text)

	for _, d := range s.domains.Domains {
		areaRelevant := false
		for _, kw := range d.Keywords {
			if analyzer.ContainsKeyword(lower, kw) {
				areaRelevant = true
				break
			}
		}
		if !areaRelevant {
			continue
		}

		if strings.Contains(strings.ToLower(p.Role), strings.ToLower(d.Area)) {
			score += s.cfg.RoleMatchWeight
		}
		for _, kw := range d.Keywords {
			if analyzer.ContainsKeyword(lower, kw) && s.hasKeyword(p, kw) {
				score += s.cfg.KeywordWeight
				break
			}
		}
	}

	score += float64(len(p.Skills)) * s.cfg.SkillWeight
	return score
}

// hasKeyword reports whether the persona's role or skills mention the
// keyword (case-insensitive, word boundaries).
func (s *Selector) hasKeyword(p models.Persona, kw string) bool {
	kw = strings.ToLower(kw)
	if analyzer.ContainsKeyword(strings.ToLower(p.Role), kw) {
		return true
	}
	for _, skill := range p.Skills {
		if analyzer.ContainsKeyword(strings.ToLower(skill), kw) {
			return true
		}
	}
	return false
}
