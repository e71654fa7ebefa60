package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Gateway.CallTimeout != 90*time.Second {
		t.Errorf("CallTimeout = %v, want 90s", cfg.Gateway.CallTimeout)
	}
	if cfg.Gateway.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", cfg.Gateway.MaxAttempts)
	}
	if cfg.Analyzer.ComplexityThreshold != 5 {
		t.Errorf("ComplexityThreshold = %d, want 5", cfg.Analyzer.ComplexityThreshold)
	}
	if cfg.Analyzer.TeamMin != 2 || cfg.Analyzer.TeamMax != 4 {
		t.Errorf("team clamp = [%d,%d], want [2,4]", cfg.Analyzer.TeamMin, cfg.Analyzer.TeamMax)
	}
	if cfg.Selector.RoleMatchWeight != 10.0 {
		t.Errorf("RoleMatchWeight = %v, want 10", cfg.Selector.RoleMatchWeight)
	}
	if len(cfg.Analyzer.Domains) == 0 {
		t.Error("default analyzer has no domain mappings")
	}
}

func TestDefaultAnalyzer_KeywordsFor(t *testing.T) {
	a := DefaultAnalyzer()

	kws := a.KeywordsFor("Frontend Development")
	if len(kws) == 0 {
		t.Fatal("KeywordsFor(Frontend Development) returned no keywords")
	}

	found := false
	for _, kw := range kws {
		if kw == "react" {
			found = true
		}
	}
	if !found {
		t.Errorf("Frontend Development keywords missing %q: %v", "react", kws)
	}

	if got := a.KeywordsFor("Underwater Basket Weaving"); got != nil {
		t.Errorf("KeywordsFor(unknown area) = %v, want nil", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
gateway:
  default_model: claude-haiku-4-5-20251001
  call_timeout: 30s
  max_attempts: 3
analyzer:
  complexity_threshold: 7
  domains:
    - area: "Game Development"
      keywords: ["unity", "godot"]
selector:
  min_score: 2.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Gateway.DefaultModel != "claude-haiku-4-5-20251001" {
		t.Errorf("DefaultModel = %q", cfg.Gateway.DefaultModel)
	}
	if cfg.Gateway.CallTimeout != 30*time.Second {
		t.Errorf("CallTimeout = %v, want 30s", cfg.Gateway.CallTimeout)
	}
	if cfg.Gateway.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Gateway.MaxAttempts)
	}
	if cfg.Analyzer.ComplexityThreshold != 7 {
		t.Errorf("ComplexityThreshold = %d, want 7", cfg.Analyzer.ComplexityThreshold)
	}
	// Overriding a table replaces it wholesale.
	if len(cfg.Analyzer.Domains) != 1 || cfg.Analyzer.Domains[0].Area != "Game Development" {
		t.Errorf("Domains override not applied: %+v", cfg.Analyzer.Domains)
	}
	if cfg.Selector.MinScore != 2.5 {
		t.Errorf("MinScore = %v, want 2.5", cfg.Selector.MinScore)
	}
}

func TestLoadFromPath_DefaultsPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// A config that only touches one field keeps all the defaults.
	if err := os.WriteFile(path, []byte("history:\n  enabled: false\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.Analyzer.ComplexityThreshold != 5 {
		t.Errorf("ComplexityThreshold = %d, want default 5", cfg.Analyzer.ComplexityThreshold)
	}
	if len(cfg.Analyzer.ActionKeywords) == 0 {
		t.Error("default action keywords lost after partial override")
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadFromPath() with missing file should return an error")
	}
}
