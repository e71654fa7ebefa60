package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hirewise/crew/internal/config"
	"github.com/hirewise/crew/pkg/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past runs",
	Long: `Without arguments, lists recent runs. With a run id, shows the full
collaboration trail and final answer for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store, err := openHistory(cfg)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close()

		if len(args) == 1 {
			return showRun(store.GetRun(args[0]))
		}

		runs, err := store.RecentRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded yet")
			return nil
		}

		dim := color.New(color.Faint)
		for _, run := range runs {
			fmt.Printf("%s  %-12s  %6d tok  %s\n",
				run.StartedAt.Local().Format("2006-01-02 15:04"),
				run.Strategy, run.TotalTokensUsed, firstLine(run.Request, 60))
			dim.Printf("  id %s, team %s, $%.4f\n", run.RequestID, strings.Join(run.PersonaIDs, ", "), run.EstimatedCost)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
}

// showRun prints one run's trail and final answer.
func showRun(run *models.OrchestrationResult, err error) error {
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Printf("run %s\n", run.RequestID)
	fmt.Printf("request:  %s\n", run.Request)
	fmt.Printf("strategy: %s, team %s\n", run.Strategy, strings.Join(run.PersonaIDs, ", "))
	fmt.Printf("started:  %s (%s, %d tokens, $%.4f)\n\n",
		run.StartedAt.Local().Format(time.RFC822), run.Duration.Round(time.Millisecond),
		run.TotalTokensUsed, run.EstimatedCost)

	for _, m := range run.Messages {
		switch m.Kind {
		case models.KindStatus:
			dim.Printf("• %s\n", m.Content)
		case models.KindContribution:
			bold.Printf("%s:\n", m.From)
			fmt.Printf("%s\n\n", m.Content)
		case models.KindDiscussion:
			bold.Printf("%s -> %s:\n", m.From, m.To)
			fmt.Printf("%s\n\n", m.Content)
		case models.KindSynthesis:
			bold.Println("final answer:")
			fmt.Printf("%s\n", m.Content)
		}
	}

	if len(models.FilterKind(run.Messages, models.KindSynthesis)) == 0 {
		bold.Println("final answer:")
		fmt.Println(run.FinalAnswer)
	}
	return nil
}

func firstLine(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > n {
		s = s[:n-3] + "..."
	}
	return s
}
