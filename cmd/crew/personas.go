package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hirewise/crew/internal/config"
)

var personasCatalog string

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the available personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		ctx := context.Background()
		cat, cleanup, err := openCatalog(ctx, cfg, personasCatalog)
		if err != nil {
			return err
		}
		defer cleanup()

		personas, err := cat.Personas(ctx)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}

		bold := color.New(color.Bold)
		dim := color.New(color.Faint)
		for _, p := range personas {
			bold.Printf("%s", p.ID)
			if p.Binding.Model != "" {
				dim.Printf("  (%s)", p.Binding.Model)
			}
			fmt.Println()
			fmt.Printf("  %s\n", p.Role)
			if len(p.Skills) > 0 {
				dim.Printf("  skills: %s\n", strings.Join(p.Skills, ", "))
			}
			fmt.Println()
		}
		dim.Printf("%d personas\n", len(personas))
		return nil
	},
}

func init() {
	personasCmd.Flags().StringVar(&personasCatalog, "catalog", "", "Persona catalog YAML file (default: built-in roster)")
}
