package cmd

import (
	"fmt"
	"os"

	"github.com/kingPercy11/Budgetify/internal/chart"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/store"

	"github.com/spf13/cobra"
)

var (
	chartOutput  string
	chartProfile model.Profile
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render PNG charts of the model and its forecasts",
}

var chartScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Bar chart of held-out R² per category",
	RunE:  runChartScores,
}

var chartForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Bar chart of the predicted expenses of one profile",
	RunE:  runChartForecast,
}

var chartHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Line chart of the best R² across recorded runs",
	RunE:  runChartHistory,
}

func init() {
	chartCmd.PersistentFlags().StringVarP(&chartOutput, "output", "o", "", "Output PNG file")
	bindProfileFlags(chartForecastCmd, &chartProfile)
	chartCmd.AddCommand(chartScoresCmd, chartForecastCmd, chartHistoryCmd)
	rootCmd.AddCommand(chartCmd)
}

func runChartScores(_ *cobra.Command, _ []string) error {
	meta, err := store.LoadMetadata(cfg.Artifacts.Dir)
	if err != nil {
		return err
	}
	png, err := chart.RenderScoreChart(meta)
	if err != nil {
		return err
	}
	return writeChart(png, "scores.png")
}

func runChartForecast(_ *cobra.Command, _ []string) error {
	predictor, err := loadPredictor()
	if err != nil {
		return err
	}
	pred, err := predictor.PredictProfile(chartProfile)
	if err != nil {
		return err
	}
	png, err := chart.RenderPredictionChart(pred)
	if err != nil {
		return err
	}
	return writeChart(png, "forecast.png")
}

func runChartHistory(_ *cobra.Command, _ []string) error {
	registry, err := store.OpenRegistry(registryPath())
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	runs, err := registry.ListRuns(0)
	if err != nil {
		return err
	}
	var history []float64
	for i := len(runs) - 1; i >= 0; i-- {
		scores, err := registry.RunMetrics(runs[i].ID)
		if err != nil {
			return err
		}
		for _, fs := range scores {
			if fs.Selected {
				history = append(history, fs.R2)
			}
		}
	}
	png, err := chart.RenderHistoryChart(history)
	if err != nil {
		return err
	}
	return writeChart(png, "history.png")
}

func writeChart(png []byte, defaultName string) error {
	out := chartOutput
	if out == "" {
		out = defaultName
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	fmt.Printf("  Wrote %s\n", out)
	return nil
}
