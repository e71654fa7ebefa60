package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hirewise/crew/internal/config"
)

func newAnalyzer() *Analyzer {
	return New(config.DefaultAnalyzer())
}

func TestAnalyze_SimpleRequests(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"explanation", "Explain async/await in JavaScript"},
		{"empty string", ""},
		{"single word", "help"},
		{"two words", "fix bug"},
		{"casual question", "What time is it?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := newAnalyzer().Analyze(tt.text)
			if report.Complex {
				t.Errorf("Analyze(%q).Complex = true, want false (reason: %s)", tt.text, report.Reason)
			}
			if report.TeamSize != 1 {
				t.Errorf("Analyze(%q).TeamSize = %d, want 1", tt.text, report.TeamSize)
			}
		})
	}
}

func TestAnalyze_MultiDomainRequest(t *testing.T) {
	report := newAnalyzer().Analyze("Build a secure login system with React and Express")

	if !report.Complex {
		t.Fatalf("Complex = false, want true (reason: %s)", report.Reason)
	}

	wantAreas := []string{"Frontend Development", "Backend Development", "Security"}
	for _, want := range wantAreas {
		found := false
		for _, area := range report.ExpertiseAreas {
			if area == want {
				found = true
			}
		}
		if !found {
			t.Errorf("ExpertiseAreas missing %q: %v", want, report.ExpertiseAreas)
		}
	}

	if report.TeamSize < 2 || report.TeamSize > 4 {
		t.Errorf("TeamSize = %d, want within [2,4]", report.TeamSize)
	}
	if report.TeamSize != 3 {
		t.Errorf("TeamSize = %d, want 3 for three areas", report.TeamSize)
	}
}

func TestAnalyze_TwoAreasAlwaysComplex(t *testing.T) {
	// Two distinct expertise areas force the multi-agent path even when
	// the raw score sits below the threshold.
	report := newAnalyzer().Analyze("review the react ui and the rest api")

	if len(report.ExpertiseAreas) < 2 {
		t.Fatalf("expected >= 2 areas, got %v", report.ExpertiseAreas)
	}
	if !report.Complex {
		t.Errorf("Complex = false, want true (reason: %s)", report.Reason)
	}
	if report.TeamSize < 2 || report.TeamSize > 4 {
		t.Errorf("TeamSize = %d, want within [2,4]", report.TeamSize)
	}
}

func TestAnalyze_TeamSizeClamp(t *testing.T) {
	// Six distinct areas still clamp to a team of four.
	text := "design and implement a react frontend, an express api, secure authentication, " +
		"a postgres schema, docker deployment, and figma wireframes"
	report := newAnalyzer().Analyze(text)

	if !report.Complex {
		t.Fatalf("Complex = false, want true (reason: %s)", report.Reason)
	}
	if len(report.ExpertiseAreas) < 5 {
		t.Fatalf("expected >= 5 areas, got %v", report.ExpertiseAreas)
	}
	if report.TeamSize != 4 {
		t.Errorf("TeamSize = %d, want clamp at 4", report.TeamSize)
	}
}

func TestAnalyze_AreasDeduplicatedInOrder(t *testing.T) {
	// "react" and "css" both map to Frontend Development; the area must
	// appear once, before Backend Development.
	report := newAnalyzer().Analyze("build the react css ui and the express api")

	count := 0
	for _, area := range report.ExpertiseAreas {
		if area == "Frontend Development" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Frontend Development appears %d times, want 1: %v", count, report.ExpertiseAreas)
	}

	if len(report.ExpertiseAreas) >= 2 {
		if report.ExpertiseAreas[0] != "Frontend Development" {
			t.Errorf("first area = %q, want Frontend Development", report.ExpertiseAreas[0])
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	text := "Build a scalable production microservices platform with react frontend and postgres database"
	a := newAnalyzer()

	first := a.Analyze(text)
	second := a.Analyze(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze() not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAnalyze_ReasonExplainsDecision(t *testing.T) {
	report := newAnalyzer().Analyze("Build a secure login system with React and Express")

	for _, want := range []string{"action keywords", "build", "expertise areas", "Security"} {
		if !strings.Contains(report.Reason, want) {
			t.Errorf("Reason missing %q: %s", want, report.Reason)
		}
	}
}

func TestAnalyze_LongRequestBonus(t *testing.T) {
	short := "build a production service"
	long := short + strings.Repeat(" and keep adding more and more requirements to this already detailed request", 3) +
		strings.Repeat(" word", 40)

	a := newAnalyzer()
	if a.Analyze(long).Score <= a.Analyze(short).Score {
		t.Error("long request should score higher than short request with the same signals")
	}
}

func TestAnalyze_ShortTextNeverComplex(t *testing.T) {
	// Keyword-dense but below the minimum word count.
	report := newAnalyzer().Analyze("build infrastructure")
	if report.Complex {
		t.Errorf("Complex = true for two-word request, want false (reason: %s)", report.Reason)
	}
}

func TestAnalyze_KeywordsMatchWholeWordsOnly(t *testing.T) {
	// "rapid" and "therapist" both contain "api"; neither is a backend
	// signal.
	report := newAnalyzer().Analyze("plan a rapid meetup with the therapist next week")

	if len(report.ExpertiseAreas) != 0 {
		t.Errorf("ExpertiseAreas = %v, want none for embedded keyword matches", report.ExpertiseAreas)
	}
	if report.Complex {
		t.Errorf("Complex = true, want false (reason: %s)", report.Reason)
	}
}

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		text string
		kw   string
		want bool
	}{
		{"review the rest api", "api", true},
		{"the api's behavior", "api", true},
		{"call the api, then retry", "api", true},
		{"a rapid response", "api", false},
		{"see a therapist", "api", false},
		{"use apis everywhere", "api", false},
		{"authentication flow", "auth", false},
		{"auth flow", "auth", true},
		{"the rest api and the ui", "rest api", true},
		{"restless api", "rest api", false},
		{"api", "api", true},
		{"", "api", false},
	}

	for _, tt := range tests {
		if got := ContainsKeyword(tt.text, tt.kw); got != tt.want {
			t.Errorf("ContainsKeyword(%q, %q) = %v, want %v", tt.text, tt.kw, got, tt.want)
		}
	}
}

func TestAnalyze_CustomTables(t *testing.T) {
	cfg := config.AnalyzerConfig{
		ActionKeywords:      []string{"compose"},
		Domains:             []config.DomainMapping{{Area: "Music Production", Keywords: []string{"melody", "mixing"}}},
		ComplexityThreshold: 2,
		LongRequestWords:    50,
		MinWords:            3,
		TeamMin:             2,
		TeamMax:             4,
	}

	report := New(cfg).Analyze("compose a melody for the intro")
	if !report.Complex {
		t.Fatalf("Complex = false with custom tables (reason: %s)", report.Reason)
	}
	if len(report.ExpertiseAreas) != 1 || report.ExpertiseAreas[0] != "Music Production" {
		t.Errorf("ExpertiseAreas = %v, want [Music Production]", report.ExpertiseAreas)
	}
	// One area clamps up to the configured minimum team size.
	if report.TeamSize != 2 {
		t.Errorf("TeamSize = %d, want 2", report.TeamSize)
	}
}
