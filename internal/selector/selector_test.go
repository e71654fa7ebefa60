package selector

import (
	"errors"
	"testing"

	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/pkg/models"
)

func newSelector() *Selector {
	return New(config.DefaultSelector(), config.DefaultAnalyzer())
}

func testPersonas() []models.Persona {
	return []models.Persona{
		{
			ID:     "frontend-dev",
			Role:   "a senior frontend developer specializing in Frontend Development",
			Skills: []string{"React", "TypeScript", "CSS"},
		},
		{
			ID:     "backend-dev",
			Role:   "a backend engineer specializing in Backend Development",
			Skills: []string{"Express", "REST", "PostgreSQL"},
		},
		{
			ID:     "security-analyst",
			Role:   "a security analyst specializing in Security",
			Skills: []string{"authentication", "OWASP"},
		},
		{
			ID:     "generalist",
			Role:   "a versatile general assistant",
			Skills: []string{"research", "writing"},
		},
	}
}

func TestSelectOne_MatchesExpertise(t *testing.T) {
	tests := []struct {
		name    string
		request string
		wantID  string
	}{
		{"frontend request", "fix the react component css", "frontend-dev"},
		{"backend request", "optimize the express rest endpoint", "backend-dev"},
		{"security request", "review the authentication flow for security issues", "security-analyst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newSelector().SelectOne(tt.request, testPersonas())
			if err != nil {
				t.Fatalf("SelectOne() error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("SelectOne(%q) = %s, want %s", tt.request, got.ID, tt.wantID)
			}
		})
	}
}

func TestSelectOne_NoCreditForEmbeddedKeywords(t *testing.T) {
	// "rapid" and "therapist" contain "api" but are not backend signals;
	// with no real domain match the tie breaks by catalog order.
	got, err := newSelector().SelectOne("organize a rapid meetup with the therapist", testPersonas())
	if err != nil {
		t.Fatalf("SelectOne() error: %v", err)
	}
	if got.ID == "backend-dev" {
		t.Error("SelectOne() credited backend-dev for keywords embedded in unrelated words")
	}
}

func TestSelectOne_EmptyCatalog(t *testing.T) {
	_, err := newSelector().SelectOne("anything", nil)
	if !errors.Is(err, ErrNoEligiblePersona) {
		t.Errorf("SelectOne() error = %v, want ErrNoEligiblePersona", err)
	}
}

func TestSelectOne_EmptyRequestDoesNotCrash(t *testing.T) {
	got, err := newSelector().SelectOne("", testPersonas())
	if err != nil {
		t.Fatalf("SelectOne(\"\") error: %v", err)
	}
	if got.ID == "" {
		t.Error("SelectOne(\"\") returned empty persona")
	}
}

func TestSelectOne_TiesBreakByCatalogOrder(t *testing.T) {
	// Identical personas: the first declared must win.
	personas := []models.Persona{
		{ID: "first", Role: "an assistant", Skills: []string{"writing"}},
		{ID: "second", Role: "an assistant", Skills: []string{"writing"}},
	}

	got, err := newSelector().SelectOne("summarize this text", personas)
	if err != nil {
		t.Fatalf("SelectOne() error: %v", err)
	}
	if got.ID != "first" {
		t.Errorf("SelectOne() = %s, want first (catalog order tie-break)", got.ID)
	}
}

func TestSelectTeam_OnePerArea(t *testing.T) {
	areas := []string{"Frontend Development", "Backend Development", "Security"}

	team, err := newSelector().SelectTeam(areas, "build a secure login system with react and express", testPersonas(), 3)
	if err != nil {
		t.Fatalf("SelectTeam() error: %v", err)
	}

	if len(team) != 3 {
		t.Fatalf("team size = %d, want 3", len(team))
	}

	want := []string{"frontend-dev", "backend-dev", "security-analyst"}
	for i, id := range want {
		if team[i].ID != id {
			t.Errorf("team[%d] = %s, want %s", i, team[i].ID, id)
		}
	}
}

func TestSelectTeam_NoDuplicates(t *testing.T) {
	// Both areas resolve to the same best persona; the second slot must
	// pick someone else.
	areas := []string{"Frontend Development", "Frontend Development"}

	team, err := newSelector().SelectTeam(areas, "react react react", testPersonas(), 2)
	if err != nil {
		t.Fatalf("SelectTeam() error: %v", err)
	}

	seen := make(map[string]bool)
	for _, p := range team {
		if seen[p.ID] {
			t.Errorf("duplicate persona %s in team", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestSelectTeam_FillsFromRequestText(t *testing.T) {
	// One area but team size two: the second slot fills by request text.
	team, err := newSelector().SelectTeam(
		[]string{"Security"},
		"secure the express api authentication",
		testPersonas(), 2)
	if err != nil {
		t.Fatalf("SelectTeam() error: %v", err)
	}

	if len(team) != 2 {
		t.Fatalf("team size = %d, want 2", len(team))
	}
	if team[0].ID != "security-analyst" {
		t.Errorf("team[0] = %s, want security-analyst", team[0].ID)
	}
	if team[1].ID != "backend-dev" {
		t.Errorf("team[1] = %s, want backend-dev (request mentions express api)", team[1].ID)
	}
}

func TestSelectTeam_BestEffortBelowThreshold(t *testing.T) {
	// Catalog of five, but only two are relevant (the rest have no role
	// match and no skills, so they score zero). Requesting four degrades
	// to the relevant pair instead of erroring.
	personas := []models.Persona{
		{ID: "frontend-dev", Role: "a frontend developer specializing in Frontend Development", Skills: []string{"React"}},
		{ID: "backend-dev", Role: "a backend engineer specializing in Backend Development", Skills: []string{"Express"}},
		{ID: "blank-1", Role: "unrelated"},
		{ID: "blank-2", Role: "unrelated"},
		{ID: "blank-3", Role: "unrelated"},
	}

	team, err := newSelector().SelectTeam(
		[]string{"Frontend Development", "Backend Development"},
		"react and express work", personas, 4)
	if err != nil {
		t.Fatalf("SelectTeam() error: %v", err)
	}

	if len(team) != 2 {
		t.Errorf("team size = %d, want best-effort 2", len(team))
	}
}

func TestSelectTeam_EmptyCatalogFatal(t *testing.T) {
	_, err := newSelector().SelectTeam([]string{"Security"}, "anything", nil, 2)
	if !errors.Is(err, ErrNoEligiblePersona) {
		t.Errorf("SelectTeam() error = %v, want ErrNoEligiblePersona", err)
	}
}

func TestSelectTeam_NeverExceedsCatalogSize(t *testing.T) {
	personas := testPersonas()[:2]

	team, err := newSelector().SelectTeam(
		[]string{"Frontend Development", "Backend Development", "Security", "DevOps"},
		"everything everywhere", personas, 4)
	if err != nil {
		t.Fatalf("SelectTeam() error: %v", err)
	}

	if len(team) > len(personas) {
		t.Errorf("team size %d exceeds catalog size %d", len(team), len(personas))
	}
}

func TestSelectTeam_NeverEmptyWithNonEmptyCatalog(t *testing.T) {
	// Nothing matches, but the team still gets one persona.
	personas := []models.Persona{{ID: "only", Role: "unrelated"}}

	team, err := newSelector().SelectTeam(nil, "zzz", personas, 2)
	if err != nil {
		t.Fatalf("SelectTeam() error: %v", err)
	}
	if len(team) == 0 {
		t.Error("SelectTeam() returned empty team for non-empty catalog")
	}
}
