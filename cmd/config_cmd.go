// Package cmd implements the budgetify CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/config"
	"github.com/kingPercy11/Budgetify/internal/regression"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	fmt.Printf("  Config file: %s\n", path)
	if config.Exists() || flagConfig != "" {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Data]")
	fmt.Printf("    Path:          %s\n", cfg.Data.Path)
	fmt.Println()

	fmt.Println("  [Training]")
	fmt.Printf("    Families:      %s\n", strings.Join(cfg.Training.Families, ", "))
	fmt.Printf("    Test fraction: %g\n", cfg.Training.TestFraction)
	fmt.Printf("    Seed:          %d\n", cfg.Training.Seed)
	fmt.Println()

	fmt.Println("  [Models]")
	for _, f := range []regression.Family{
		regression.FamilyDecisionTree,
		regression.FamilyRandomForest,
		regression.FamilyGradientBoosting,
	} {
		p := cfg.FamilyParams(f)
		fmt.Printf("    %-18s max_depth=%d min_samples_split=%d", f, p.MaxDepth, p.MinSamplesSplit)
		if p.NEstimators > 0 {
			fmt.Printf(" n_estimators=%d", p.NEstimators)
		}
		if p.LearningRate > 0 {
			fmt.Printf(" learning_rate=%g subsample=%g", p.LearningRate, p.Subsample)
		}
		fmt.Println()
	}
	fmt.Println()

	fmt.Println("  [Artifacts]")
	fmt.Printf("    Dir:           %s\n", cfg.Artifacts.Dir)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:         %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:         %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `budgetify setup` to change these settings.")
	return nil
}
