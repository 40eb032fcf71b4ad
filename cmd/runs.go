package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/store"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded training runs",
	RunE:  runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the family scores of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Remove a run from the registry",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to show (0 = all)")
	runsCmd.AddCommand(runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	registry, err := store.OpenRegistry(registryPath())
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	runs, err := registry.ListRuns(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("\n  No training runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	var history []float64
	for _, r := range runs {
		scores, err := registry.RunMetrics(r.ID)
		if err != nil {
			return err
		}
		best := "-"
		for _, fs := range scores {
			if fs.Selected {
				best = cli.FormatScore(fs.R2)
				history = append(history, fs.R2)
			}
		}
		rows = append(rows, []string{
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			cli.FormatNumber(int64(r.TotalRows)),
			fmt.Sprintf("%d", len(scores)),
			r.BestFamily,
			best,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRAINING RUNS  %d most recent", len(runs))))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Run", "Created", "Rows", "Families", "Best", "R2"},
		Kinds:   []cli.ColumnKind{cli.KindText, cli.KindText, cli.KindAmount, cli.KindAmount, cli.KindText, cli.KindScore},
		Rows:    rows,
	}))

	if len(history) > 1 {
		// history is newest first
		for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
			history[i], history[j] = history[j], history[i]
		}
		fmt.Println()
		fmt.Printf("  Best R2 trend  %s\n", cli.RenderSparkline(history))
	}
	fmt.Println()
	return nil
}

func runRunsShow(_ *cobra.Command, args []string) error {
	registry, err := store.OpenRegistry(registryPath())
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	id, err := resolveRunID(registry, args[0])
	if err != nil {
		return err
	}
	run, err := registry.GetRun(id)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RUN  " + shortID(run.ID)))
	fmt.Println()
	fmt.Println(cli.RenderKeyValue("ID", 10, run.ID))
	fmt.Println(cli.RenderKeyValue("Created", 10, run.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Println(cli.RenderKeyValue("Data", 10, run.DataPath))
	fmt.Println(cli.RenderKeyValue("Rows", 10, fmt.Sprintf("%s (%s train / %s test)",
		cli.FormatNumber(int64(run.TotalRows)), cli.FormatNumber(int64(run.TrainRows)), cli.FormatNumber(int64(run.TestRows)))))
	fmt.Println(cli.RenderKeyValue("Seed", 10, fmt.Sprintf("%d (test fraction %.2f)", run.Seed, run.TestFraction)))
	fmt.Println(cli.RenderKeyValue("Artifacts", 10, run.ArtifactDir))
	fmt.Println()

	rows := make([][]string, 0, len(run.Families))
	var categories []string
	for _, fs := range run.Families {
		name := fs.Family
		if fs.Selected {
			name += " *"
		}
		if fs.Err != "" {
			rows = append(rows, []string{name, "failed", "", "", cli.FormatDuration(fs.Duration)})
			continue
		}
		rows = append(rows, []string{name, cli.FormatScore(fs.R2), cli.FormatAmount(fs.MAE),
			cli.FormatAmount(fs.RMSE), cli.FormatDuration(fs.Duration)})
		if categories == nil {
			for c := range fs.PerCategoryR2 {
				categories = append(categories, c)
			}
			sort.Strings(categories)
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Families",
		Headers: []string{"Family", "R2", "MAE", "RMSE", "Time"},
		Kinds:   familyColumns,
		Rows:    rows,
	}))

	if len(categories) > 0 {
		headers := []string{"Category"}
		for _, fs := range run.Families {
			if fs.Err == "" {
				headers = append(headers, fs.Family)
			}
		}
		kinds := []cli.ColumnKind{cli.KindText}
		for range headers[1:] {
			kinds = append(kinds, cli.KindScore)
		}
		catRows := make([][]string, len(categories))
		for i, c := range categories {
			row := []string{c}
			for _, fs := range run.Families {
				if fs.Err == "" {
					row = append(row, cli.FormatScore(fs.PerCategoryR2[c]))
				}
			}
			catRows[i] = row
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{Title: "R2 by category", Headers: headers, Kinds: kinds, Rows: catRows}))
	}
	fmt.Println()
	return nil
}

func runRunsDelete(_ *cobra.Command, args []string) error {
	registry, err := store.OpenRegistry(registryPath())
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	id, err := resolveRunID(registry, args[0])
	if err != nil {
		return err
	}
	if err := registry.DeleteRun(id); err != nil {
		return err
	}
	fmt.Printf("  Deleted run %s\n", id)
	return nil
}

// resolveRunID expands a unique run ID prefix to the full ID.
func resolveRunID(registry *store.Registry, prefix string) (string, error) {
	runs, err := registry.ListRuns(0)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			matches = append(matches, r.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", store.ErrRunNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run prefix %q matches %d runs", prefix, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
