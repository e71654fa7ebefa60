package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hirewise/crew/internal/catalog"
	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/internal/gateway"
	"github.com/hirewise/crew/internal/orchestrator"
	"github.com/hirewise/crew/internal/tui"
	"github.com/hirewise/crew/pkg/models"
)

var (
	runTUI       bool
	runStrategy  string
	runCatalog   string
	runNoHistory bool
	runDebugLog  string
	runTimeout   time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run [request...]",
	Short: "Run a request through the persona team",
	Long: `Run analyzes the request, assembles a persona team, and returns the
merged answer. Pass --tui for a live progress view.

The strategy is chosen automatically (single, parallel, or
hierarchical); --strategy sequential opts into ordered hand-off for
multi-persona runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRequest,
}

func init() {
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show live progress in a TUI")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "Force a strategy: single, parallel, sequential, hierarchical")
	runCmd.Flags().StringVar(&runCatalog, "catalog", "", "Persona catalog YAML file (default: built-in roster)")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip recording this run")
	runCmd.Flags().StringVar(&runDebugLog, "debug-log", "", "Write a detailed decision trace to this file")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Overall run timeout (0 = no limit)")
}

func runRequest(cmd *cobra.Command, args []string) error {
	request := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	invoker, err := buildInvoker(cfg)
	if err != nil {
		return err
	}

	cat, closeCatalog, err := openCatalog(ctx, cfg, runCatalog)
	if err != nil {
		return err
	}
	defer closeCatalog()

	var opts []orchestrator.Option

	if runStrategy != "" {
		strategy := models.Strategy(runStrategy)
		if !strategy.Valid() {
			return fmt.Errorf("unknown strategy %q", runStrategy)
		}
		opts = append(opts, orchestrator.WithForcedStrategy(strategy))
	}

	if cfg.History.Enabled && !runNoHistory {
		store, err := openHistory(cfg)
		if err != nil {
			log.Printf("[crew] history disabled: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, orchestrator.WithHistory(store))
		}
	}

	if runDebugLog != "" {
		debug, err := orchestrator.NewDebugLogger(runDebugLog)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer debug.Close()
		opts = append(opts, orchestrator.WithDebugLogger(debug))
	}

	if runTUI {
		return runWithTUI(ctx, cfg, invoker, cat, request, opts)
	}
	return runPlain(ctx, cfg, invoker, cat, request, opts)
}

// runPlain streams progress notes to stderr and prints the final answer
// to stdout.
func runPlain(ctx context.Context, cfg *config.Config, invoker gateway.Invoker, cat catalog.Catalog, request string, opts []orchestrator.Option) error {
	dim := color.New(color.Faint)
	ok := color.New(color.FgGreen)

	opts = append(opts, orchestrator.WithObserver(func(m models.CollaborationMessage) {
		switch m.Kind {
		case models.KindStatus:
			dim.Fprintf(os.Stderr, "• %s\n", m.Content)
		case models.KindContribution:
			ok.Fprintf(os.Stderr, "✓ %s contributed\n", m.From)
		case models.KindDiscussion:
			dim.Fprintf(os.Stderr, "↪ %s responded to %s\n", m.From, m.To)
		}
	}))

	orch := orchestrator.New(cfg, invoker, cat, opts...)
	result, err := orch.Run(ctx, request)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.FinalAnswer)
	dim.Fprintf(os.Stderr, "\n[%s] strategy %s, team %s, %d tokens, $%.4f, %s\n",
		result.RequestID, result.Strategy, strings.Join(result.PersonaIDs, ", "),
		result.TotalTokensUsed, result.EstimatedCost, result.Duration.Round(time.Millisecond))
	return nil
}

// runWithTUI runs the orchestrator behind a live progress view and
// prints the final answer once the view exits.
func runWithTUI(ctx context.Context, cfg *config.Config, invoker gateway.Invoker, cat catalog.Catalog, request string, opts []orchestrator.Option) error {
	// Suppress log output while the TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	program := tui.NewRunProgram(request)
	emitter := orchestrator.NewMessageEmitter(64)
	opts = append(opts, orchestrator.WithObserver(emitter.Emit))

	orch := orchestrator.New(cfg, invoker, cat, opts...)

	go func() {
		for m := range emitter.Messages() {
			program.Send(tui.TrailMsg{Message: m})
		}
	}()

	type runOutcome struct {
		result *models.OrchestrationResult
		err    error
	}
	done := make(chan runOutcome, 1)
	go func() {
		result, err := orch.Run(ctx, request)
		emitter.Close()
		program.Send(tui.DoneMsg{Err: err})
		done <- runOutcome{result: result, err: err}
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	outcome := <-done
	if outcome.err != nil {
		return outcome.err
	}
	fmt.Println(outcome.result.FinalAnswer)
	return nil
}
