package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hirewise/crew/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Displays the configuration after merging defaults, the user config
(~/.config/crew/config.yaml), the project config (.crew.yaml), and
environment variables.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		displayConfig(cfg)
	},
}

// displayConfig prints the effective configuration values.
func displayConfig(cfg *config.Config) {
	apiKeyDisplay := "(not set)"
	if cfg.Gateway.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("gateway.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("gateway.use_bedrock: %t\n", cfg.Gateway.UseBedrock)
	fmt.Printf("gateway.default_model: %s\n", cfg.Gateway.DefaultModel)
	fmt.Printf("gateway.max_tokens: %d\n", cfg.Gateway.MaxTokens)
	fmt.Printf("gateway.call_timeout: %s\n", cfg.Gateway.CallTimeout)
	fmt.Printf("gateway.max_attempts: %d\n", cfg.Gateway.MaxAttempts)
	fmt.Printf("gateway.breaker.enabled: %t\n", cfg.Gateway.Breaker.Enabled)
	fmt.Printf("gateway.breaker.max_failures: %d\n", cfg.Gateway.Breaker.MaxFailures)
	fmt.Printf("gateway.breaker.cooldown: %s\n", cfg.Gateway.Breaker.Cooldown)
	fmt.Printf("catalog.path: %s\n", orDefault(cfg.Catalog.Path, "(built-in roster)"))
	fmt.Printf("catalog.watch: %t\n", cfg.Catalog.Watch)
	fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)
	fmt.Printf("history.path: %s\n", orDefault(cfg.History.Path, "(XDG data dir)"))
	fmt.Printf("analyzer.complexity_threshold: %d\n", cfg.Analyzer.ComplexityThreshold)
	fmt.Printf("analyzer.min_words: %d\n", cfg.Analyzer.MinWords)
	fmt.Printf("analyzer.team_min: %d\n", cfg.Analyzer.TeamMin)
	fmt.Printf("analyzer.team_max: %d\n", cfg.Analyzer.TeamMax)

	areas := make([]string, len(cfg.Analyzer.Domains))
	for i, d := range cfg.Analyzer.Domains {
		areas[i] = d.Area
	}
	fmt.Printf("analyzer.domains: %s\n", strings.Join(areas, ", "))

	fmt.Printf("selector.role_match_weight: %.1f\n", cfg.Selector.RoleMatchWeight)
	fmt.Printf("selector.keyword_weight: %.1f\n", cfg.Selector.KeywordWeight)
	fmt.Printf("selector.skill_weight: %.1f\n", cfg.Selector.SkillWeight)
	fmt.Printf("selector.min_score: %.1f\n", cfg.Selector.MinScore)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
