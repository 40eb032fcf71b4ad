package cmd

import (
	"fmt"

	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var exploreProfile model.Profile

var exploreCmd = &cobra.Command{
	Use:     "explore",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive prediction explorer",
	RunE:    runExplore,
}

func init() {
	bindProfileFlags(exploreCmd, &exploreProfile)
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(_ *cobra.Command, _ []string) error {
	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Log records would tear the alternate screen.
	app := tui.NewApp(cfg.Artifacts.Dir, exploreProfile, log.Discard())
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
