package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crew",
	Short: "Persona team orchestrator",
	Long: `Crew routes a request to an AI persona team sized to the task.

Simple requests go to the single best-matching persona. Complex,
multi-domain requests assemble a team of two to four personas that
contribute in parallel, discuss each other's takes, and get merged
into one answer by a supervisor pass.

Core capabilities:
- Scores request complexity from keyword signals
- Selects personas by expertise area from a YAML catalog
- Runs parallel, sequential, or hierarchical collaboration
- Survives member failures with retries and placeholders
- Records every run with its full message trail`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
