package main

import (
	"context"
	"fmt"
	"log"

	"github.com/hirewise/crew/internal/catalog"
	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/internal/gateway"
	"github.com/hirewise/crew/internal/history"
)

// buildInvoker creates the LLM gateway from configuration, wrapping it
// in a circuit breaker when enabled.
func buildInvoker(cfg *config.Config) (gateway.Invoker, error) {
	anthropic, err := gateway.NewAnthropic(gateway.AnthropicConfig{
		APIKey:       cfg.Gateway.APIKey,
		DefaultModel: cfg.Gateway.DefaultModel,
		MaxTokens:    cfg.Gateway.MaxTokens,
		CallTimeout:  cfg.Gateway.CallTimeout,
		UseBedrock:   cfg.Gateway.UseBedrock,
		AWSRegion:    cfg.Gateway.AWSRegion,
		AWSProfile:   cfg.Gateway.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gateway: %w", err)
	}

	if cfg.Gateway.Breaker.Enabled {
		return gateway.WithBreaker(anthropic, cfg.Gateway.Breaker.MaxFailures, cfg.Gateway.Breaker.Cooldown), nil
	}
	return anthropic, nil
}

// openCatalog returns the persona catalog and a cleanup function. An
// explicit path wins over the configured one; no path means the
// built-in roster. File catalogs hot-reload when watching is enabled.
func openCatalog(ctx context.Context, cfg *config.Config, path string) (catalog.Catalog, func(), error) {
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return catalog.Builtin(), func() {}, nil
	}

	file, err := catalog.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}

	cleanup := func() {}
	if cfg.Catalog.Watch {
		watcher, err := catalog.Watch(ctx, file)
		if err != nil {
			log.Printf("[crew] catalog watch disabled: %v", err)
		} else {
			cleanup = func() { watcher.Close() }
		}
	}
	return file, cleanup, nil
}

// openHistory opens and migrates the run-history store.
func openHistory(cfg *config.Config) (*history.Store, error) {
	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
