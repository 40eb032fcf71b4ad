package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/store"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the trained model's metadata and scores",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, _ []string) error {
	meta, err := store.LoadMetadata(cfg.Artifacts.Dir)
	if errors.Is(err, model.ErrMissingFile) {
		fmt.Printf("\n  No trained model in %s.\n", cfg.Artifacts.Dir)
		fmt.Println("  Run `budgetify train` (or `budgetify sample` for a synthetic dataset) first.")
		fmt.Println()
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODEL  " + strings.ToUpper(cli.FormatLabel(meta.Family))))
	fmt.Println()

	perf := meta.Performance
	rows := [][]string{
		{"Family", meta.Family},
		{"Trained", meta.CreatedAt.Local().Format("2006-01-02 15:04:05")},
		{"Run", meta.RunID},
		{"Train rows", cli.FormatNumber(int64(meta.TrainRows))},
		{"Test rows", cli.FormatNumber(int64(meta.TestRows))},
		cli.SeparatorRow,
		{"R2", cli.FormatScore(perf.R2)},
		{"MAE", cli.FormatAmount(perf.MAE)},
		{"RMSE", cli.FormatAmount(perf.RMSE)},
	}

	if len(meta.Params) > 0 {
		rows = append(rows, cli.SeparatorRow)
		keys := make([]string, 0, len(meta.Params))
		for k := range meta.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, []string{cli.FormatLabel(k), strconv.FormatFloat(meta.Params[k], 'f', -1, 64)})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Kinds: []cli.ColumnKind{cli.KindText, cli.KindText},
		Rows:  rows,
	}))
	fmt.Println()

	labelW := 0
	for _, name := range meta.OutputColumns {
		if len(name) > labelW {
			labelW = len(name)
		}
	}
	fmt.Println("  R2 by category")
	for _, name := range meta.OutputColumns {
		r2, ok := perf.PerCategoryR2[name]
		if !ok {
			continue
		}
		fmt.Println(cli.RenderHorizontalBar(name, labelW, r2, 1, 30, cli.RenderScore(r2)))
	}
	fmt.Println()

	fmt.Println(cli.RenderKeyValue("Inputs", 8, strings.Join(meta.InputColumns, ", ")))
	fmt.Println(cli.RenderKeyValue("Outputs", 8, strings.Join(meta.OutputColumns, ", ")))
	fmt.Println()
	return nil
}
