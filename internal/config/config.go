// Package config handles configuration loading and management for Crew.
// It supports XDG config paths, project-level overrides, and environment
// variables. The analyzer keyword tables and selector weights live here as
// data so the matching logic stays a pure function over configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Crew.
type Config struct {
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	History  HistoryConfig  `mapstructure:"history"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Selector SelectorConfig `mapstructure:"selector"`
}

// GatewayConfig holds LLM invocation settings.
type GatewayConfig struct {
	// APIKey is the Anthropic API key. Falls back to ANTHROPIC_API_KEY.
	APIKey string `mapstructure:"api_key"`
	// UseBedrock routes calls through AWS Bedrock instead of the direct API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
	// DefaultModel is used when a persona has no model binding.
	DefaultModel string `mapstructure:"default_model"`
	// MaxTokens caps each completion.
	MaxTokens int `mapstructure:"max_tokens"`
	// CallTimeout bounds each individual gateway call.
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	// MaxAttempts is the number of tries per persona call (first + retries).
	MaxAttempts int `mapstructure:"max_attempts"`
	// Breaker configures the per-gateway circuit breaker.
	Breaker BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig holds circuit breaker settings for gateway calls.
type BreakerConfig struct {
	// Enabled turns the breaker on.
	Enabled bool `mapstructure:"enabled"`
	// MaxFailures is the consecutive-failure count that trips the breaker.
	MaxFailures int `mapstructure:"max_failures"`
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// CatalogConfig holds persona catalog settings.
type CatalogConfig struct {
	// Path is the persona YAML file. Empty means the built-in catalog.
	Path string `mapstructure:"path"`
	// Watch enables hot-reload of the catalog file between requests.
	Watch bool `mapstructure:"watch"`
}

// HistoryConfig holds run-history store settings.
type HistoryConfig struct {
	// Enabled turns run recording on.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database path. Empty uses the XDG data dir.
	Path string `mapstructure:"path"`
}

// DomainMapping associates an expertise area with the keywords that signal it.
// Order matters: areas are reported in first-seen order and the selector
// walks them in sequence.
type DomainMapping struct {
	// Area is the expertise-area label (e.g. "Frontend Development").
	Area string `mapstructure:"area"`
	// Keywords are the lowercase request-text signals for this area.
	Keywords []string `mapstructure:"keywords"`
}

// AnalyzerConfig holds the complexity analyzer's keyword tables and
// thresholds. All matching is case-insensitive and respects word
// boundaries, so "api" does not fire inside "rapid".
type AnalyzerConfig struct {
	// ActionKeywords signal build/create/design style work (+2 each).
	ActionKeywords []string `mapstructure:"action_keywords"`
	// PairKeywords signal multi-domain phrasing (+3 each).
	PairKeywords []string `mapstructure:"pair_keywords"`
	// DepthKeywords signal technical depth (+2 each).
	DepthKeywords []string `mapstructure:"depth_keywords"`
	// Domains maps domain keywords to expertise-area labels.
	Domains []DomainMapping `mapstructure:"domains"`
	// ComplexityThreshold is the score at which a request becomes complex.
	ComplexityThreshold int `mapstructure:"complexity_threshold"`
	// LongRequestWords is the word count above which +2 is added.
	LongRequestWords int `mapstructure:"long_request_words"`
	// MinWords guards against trivial input: shorter requests are never
	// complex regardless of score.
	MinWords int `mapstructure:"min_words"`
	// TeamMin and TeamMax clamp the estimated team size for complex tasks.
	TeamMin int `mapstructure:"team_min"`
	TeamMax int `mapstructure:"team_max"`
}

// SelectorConfig holds persona scoring weights and the relevance threshold.
type SelectorConfig struct {
	// RoleMatchWeight is added when the role description contains the
	// expertise-area label.
	RoleMatchWeight float64 `mapstructure:"role_match_weight"`
	// KeywordWeight is added when the role or skills contain a domain
	// keyword associated with the area.
	KeywordWeight float64 `mapstructure:"keyword_weight"`
	// SkillWeight is the per-declared-skill tie-break.
	SkillWeight float64 `mapstructure:"skill_weight"`
	// MinScore is the relevance threshold below which a persona is not
	// considered eligible.
	MinScore float64 `mapstructure:"min_score"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
//  1. Environment variables (ANTHROPIC_API_KEY)
//  2. Project config (.crew.yaml in current directory or parent)
//  3. User config (~/.config/crew/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("gateway.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Gateway.APIKey = os.ExpandEnv(cfg.Gateway.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Gateway.APIKey = os.ExpandEnv(cfg.Gateway.APIKey)

	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// DataDir returns the XDG data directory for Crew.
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "crew")
}

// setDefaults configures default values, including the default keyword
// tables. Overriding any table in YAML replaces it wholesale.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gateway.api_key", "")
	v.SetDefault("gateway.use_bedrock", false)
	v.SetDefault("gateway.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("gateway.max_tokens", 4096)
	v.SetDefault("gateway.call_timeout", "90s")
	v.SetDefault("gateway.max_attempts", 2)
	v.SetDefault("gateway.breaker.enabled", true)
	v.SetDefault("gateway.breaker.max_failures", 5)
	v.SetDefault("gateway.breaker.cooldown", "30s")

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.watch", false)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("analyzer.action_keywords", defaultActionKeywords)
	v.SetDefault("analyzer.pair_keywords", defaultPairKeywords)
	v.SetDefault("analyzer.depth_keywords", defaultDepthKeywords)
	v.SetDefault("analyzer.domains", defaultDomainMaps())
	v.SetDefault("analyzer.complexity_threshold", 5)
	v.SetDefault("analyzer.long_request_words", 50)
	v.SetDefault("analyzer.min_words", 3)
	v.SetDefault("analyzer.team_min", 2)
	v.SetDefault("analyzer.team_max", 4)

	v.SetDefault("selector.role_match_weight", 10.0)
	v.SetDefault("selector.keyword_weight", 8.0)
	v.SetDefault("selector.skill_weight", 0.5)
	v.SetDefault("selector.min_score", 1.0)
}

// getUserConfigDir returns the XDG config directory for Crew.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "crew")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "crew")
	}
	return filepath.Join(home, ".config", "crew")
}

// findProjectConfig searches for .crew.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".crew.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with built-in default values.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			DefaultModel: "claude-sonnet-4-20250514",
			MaxTokens:    4096,
			CallTimeout:  90 * time.Second,
			MaxAttempts:  2,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Cooldown:    30 * time.Second,
			},
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Analyzer: DefaultAnalyzer(),
		Selector: DefaultSelector(),
	}
}

// DefaultAnalyzer returns the built-in analyzer tables and thresholds.
func DefaultAnalyzer() AnalyzerConfig {
	return AnalyzerConfig{
		ActionKeywords:      append([]string{}, defaultActionKeywords...),
		PairKeywords:        append([]string{}, defaultPairKeywords...),
		DepthKeywords:       append([]string{}, defaultDepthKeywords...),
		Domains:             defaultDomains(),
		ComplexityThreshold: 5,
		LongRequestWords:    50,
		MinWords:            3,
		TeamMin:             2,
		TeamMax:             4,
	}
}

// DefaultSelector returns the built-in selector weights.
func DefaultSelector() SelectorConfig {
	return SelectorConfig{
		RoleMatchWeight: 10.0,
		KeywordWeight:   8.0,
		SkillWeight:     0.5,
		MinScore:        1.0,
	}
}

// KeywordsFor returns the domain keywords associated with an expertise
// area, or nil if the area is unknown.
func (a AnalyzerConfig) KeywordsFor(area string) []string {
	for _, d := range a.Domains {
		if d.Area == area {
			return d.Keywords
		}
	}
	return nil
}

var defaultActionKeywords = []string{
	"build", "create", "design", "implement", "architect", "develop",
}

var defaultPairKeywords = []string{
	"frontend and backend",
	"full stack",
	"full-stack",
	"fullstack",
	"design and implement",
	"design and code",
	"end to end",
	"end-to-end",
	"security and performance",
	"ui and api",
}

var defaultDepthKeywords = []string{
	"scalable", "production", "enterprise", "microservices",
	"distributed", "infrastructure",
}

// defaultDomains is the built-in domain keyword -> expertise area mapping.
// Order defines the first-seen ordering of reported areas.
func defaultDomains() []DomainMapping {
	return []DomainMapping{
		{Area: "Frontend Development", Keywords: []string{
			"frontend", "front-end", "react", "vue", "angular", "css", "ui component", "user interface",
		}},
		{Area: "Backend Development", Keywords: []string{
			"backend", "back-end", "api", "server", "express", "node.js", "rest", "graphql",
		}},
		{Area: "Security", Keywords: []string{
			"security", "secure", "auth", "authentication", "login", "encryption", "oauth",
		}},
		{Area: "Database Engineering", Keywords: []string{
			"database", "sql", "schema", "postgres", "mysql", "data model",
		}},
		{Area: "DevOps", Keywords: []string{
			"deploy", "deployment", "docker", "kubernetes", "ci/cd", "pipeline",
		}},
		{Area: "UI/UX Design", Keywords: []string{
			"ux", "wireframe", "mockup", "figma", "user experience", "design system",
		}},
		{Area: "Mobile Development", Keywords: []string{
			"mobile", "ios", "android", "flutter", "react native",
		}},
		{Area: "Machine Learning", Keywords: []string{
			"machine learning", "ml model", "recommendation", "neural", "llm",
		}},
	}
}

// defaultDomainMaps renders the default domains in viper-friendly form.
func defaultDomainMaps() []map[string]any {
	domains := defaultDomains()
	out := make([]map[string]any, len(domains))
	for i, d := range domains {
		out[i] = map[string]any{"area": d.Area, "keywords": d.Keywords}
	}
	return out
}
