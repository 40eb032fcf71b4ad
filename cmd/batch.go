package cmd

import (
	"fmt"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/pipeline"
	"github.com/kingPercy11/Budgetify/internal/source"

	"github.com/spf13/cobra"
)

var batchSummaryOnly bool

var batchCmd = &cobra.Command{
	Use:   "batch [profiles.csv]",
	Short: "Predict expenses for several profiles",
	Long: "Predict expenses for every row of a CSV with Income, Age, Dependents,\n" +
		"City_Tier and Occupation columns. Without a file, three example users are used.",
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVarP(&batchSummaryOnly, "summary", "s", false, "Only print the summary table")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	profiles := pipeline.ExampleProfiles()
	if len(args) == 1 {
		var err error
		profiles, err = source.ReadProfiles(args[0])
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("\n  No profiles found in " + args[0])
			return nil
		}
	}

	predictor, err := loadPredictor()
	if err != nil {
		return err
	}
	preds, err := predictor.PredictBatch(profiles)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BATCH FORECAST  %d profiles", len(preds))))
	fmt.Println()

	if !batchSummaryOnly {
		for i, pred := range preds {
			fmt.Printf("  User %d\n", i+1)
			printPrediction(pred)
			fmt.Println(cli.RenderKeyValue("Top categories", 26, topCategories(pred, 3)))
			fmt.Println()
		}
	}

	rows := make([][]string, len(preds))
	for i, pred := range preds {
		rows[i] = []string{
			fmt.Sprintf("User %d", i+1),
			cli.FormatAmount(pred.Profile.Income),
			cli.FormatDecimal(pred.Total),
			cli.FormatDecimal(pred.Remaining),
			topCategories(pred, 3),
		}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Summary",
		Headers: []string{"Profile", "Income", "Expenses", "Remaining", "Top 3"},
		Kinds:   []cli.ColumnKind{cli.KindText, cli.KindAmount, cli.KindAmount, cli.KindAmount, cli.KindText},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func topCategories(pred model.Prediction, n int) string {
	ranked := pred.Categories.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Category
	}
	return strings.Join(names, ", ")
}
