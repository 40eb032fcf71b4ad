package cmd

import (
	"errors"
	"fmt"

	"github.com/kingPercy11/Budgetify/internal/config"
	"github.com/kingPercy11/Budgetify/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}

	// Start from the file alone so environment overrides are not persisted.
	fileCfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("  Welcome to budgetify!")
	fmt.Println()

	vals := tui.SetupValuesFrom(fileCfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}
	if err := vals.Apply(&fileCfg); err != nil {
		return err
	}

	if err := config.SaveTo(path, fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `budgetify sample` for a synthetic dataset, then `budgetify train`.")
	fmt.Println()
	return nil
}
