package cmd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/metrics"
	"github.com/kingPercy11/Budgetify/internal/pipeline"
	"github.com/kingPercy11/Budgetify/internal/regression"
	"github.com/kingPercy11/Budgetify/internal/source"
	"github.com/kingPercy11/Budgetify/internal/store"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	trainFamilies     []string
	trainSeed         int64
	trainTestFraction float64
	trainMetricsOut   string
	trainNoRegistry   bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train, compare and persist expense models",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().StringSliceVarP(&trainFamilies, "families", "f", nil,
		"Model families to compare (linear, decision_tree, random_forest, gradient_boosting)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "Random seed for the split and ensembles")
	trainCmd.Flags().Float64Var(&trainTestFraction, "test-fraction", 0, "Held-out fraction of rows")
	trainCmd.Flags().StringVar(&trainMetricsOut, "metrics-out", "", "Write Prometheus gauges to this file")
	trainCmd.Flags().BoolVar(&trainNoRegistry, "no-registry", false, "Do not record the run in the registry")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("families") {
		cfg.Training.Families = trainFamilies
	}
	if flags.Changed("seed") {
		cfg.Training.Seed = trainSeed
	}
	if flags.Changed("test-fraction") {
		cfg.Training.TestFraction = trainTestFraction
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	families, err := cfg.TrainingFamilies()
	if err != nil {
		return err
	}

	start := time.Now()
	progressf("  Reading %s...\n", cfg.Data.Path)
	parsed, err := source.ReadCSV(cfg.Data.Path)
	if err != nil {
		return err
	}
	if parsed.ParseErrors > 0 {
		logger.Warn("skipped unparsable rows", log.FieldPath, cfg.Data.Path,
			log.FieldParseError, parsed.ParseErrors, log.FieldRows, parsed.Rows)
	}

	ds, err := pipeline.BuildDataset(parsed.Records, logger)
	if err != nil {
		return err
	}

	tc := pipeline.TrainConfig{
		Families:     families,
		Params:       make(map[regression.Family]regression.Params, len(families)),
		TestFraction: cfg.Training.TestFraction,
		Seed:         cfg.Training.Seed,
	}
	for _, f := range families {
		tc.Params[f] = cfg.FamilyParams(f)
	}

	res, err := pipeline.Train(ds, tc, logger, func(current, total int) {
		progressf("\r  Fitting [%d/%d]", current, total)
	})
	progressf("\n")
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	res.Metadata.RunID = runID
	if err := store.SaveArtifacts(cfg.Artifacts.Dir, res.Best.Regressor, res.Metadata); err != nil {
		return err
	}
	logger.WithComponent(log.ComponentStore).Info("saved artifacts", log.FieldPath, cfg.Artifacts.Dir)

	if !trainNoRegistry {
		if err := recordRun(runID, ds, res); err != nil {
			logger.WithComponent(log.ComponentRegistry).Warn("could not record run", log.FieldError, err)
		}
	}

	if trainMetricsOut != "" {
		tm := metrics.NewTrainingMetrics()
		tm.Observe(ds, res)
		if err := tm.WriteTextfile(trainMetricsOut); err != nil {
			return err
		}
	}

	printTrainReport(ds, res, time.Since(start))
	return nil
}

func recordRun(runID string, ds *pipeline.Dataset, res *pipeline.TrainResult) error {
	registry, err := store.OpenRegistry(registryPath())
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	run := store.Run{
		ID:           runID,
		CreatedAt:    res.Metadata.CreatedAt,
		DataPath:     cfg.Data.Path,
		TotalRows:    ds.Rows(),
		TrainRows:    res.TrainRows,
		TestRows:     res.TestRows,
		Seed:         cfg.Training.Seed,
		TestFraction: cfg.Training.TestFraction,
		BestFamily:   string(res.Best.Family),
		ArtifactDir:  cfg.Artifacts.Dir,
	}
	for i := range res.Candidates {
		c := &res.Candidates[i]
		fs := store.FamilyScore{
			Family:   string(c.Family),
			Selected: c == res.Best,
			Duration: c.Duration,
		}
		if c.Err != nil {
			fs.Err = c.Err.Error()
		} else {
			fs.R2, fs.MAE, fs.RMSE = c.Scores.R2, c.Scores.MAE, c.Scores.RMSE
			fs.PerCategoryR2 = make(map[string]float64, len(ds.Schema.Outputs))
			for j, name := range ds.Schema.Outputs {
				fs.PerCategoryR2[name] = c.Scores.PerOutputR2[j]
			}
		}
		run.Families = append(run.Families, fs)
	}

	id, err := registry.RecordRun(run)
	if err != nil {
		return err
	}
	if id != runID {
		return errors.New("registry assigned an unexpected run id")
	}
	return nil
}

// familyColumns lays out a family comparison: name, R2, MAE, RMSE, time.
var familyColumns = []cli.ColumnKind{cli.KindText, cli.KindScore, cli.KindAmount, cli.KindAmount, cli.KindAmount}

func printTrainReport(ds *pipeline.Dataset, res *pipeline.TrainResult, elapsed time.Duration) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRAINING  %s rows", cli.FormatNumber(int64(ds.Rows())))))
	fmt.Println()

	rows := make([][]string, 0, len(res.Candidates))
	for i := range res.Candidates {
		c := &res.Candidates[i]
		name := string(c.Family)
		if c == res.Best {
			name += " *"
		}
		if c.Err != nil {
			rows = append(rows, []string{name, "failed", "", "", cli.FormatDuration(c.Duration)})
			continue
		}
		rows = append(rows, []string{
			name,
			cli.FormatScore(c.Scores.R2),
			cli.FormatAmount(c.Scores.MAE),
			cli.FormatAmount(c.Scores.RMSE),
			cli.FormatDuration(c.Duration),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Model comparison (held-out)",
		Headers: []string{"Family", "R2", "MAE", "RMSE", "Time"},
		Kinds:   familyColumns,
		Rows:    rows,
	}))
	fmt.Println()

	perCat := make([][]string, 0, len(ds.Schema.Outputs))
	for _, name := range res.Metadata.OutputColumns {
		perCat = append(perCat, []string{name, cli.FormatScore(res.Metadata.Performance.PerCategoryR2[name])})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "R2 by category (" + string(res.Best.Family) + ")",
		Headers: []string{"Category", "R2"},
		Kinds:   []cli.ColumnKind{cli.KindText, cli.KindScore},
		Rows:    perCat,
	}))
	fmt.Println()

	fields := make([]string, 0, len(ds.Warnings))
	for field := range ds.Warnings {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%d rows had an unknown %s and used the default encoding",
			ds.Warnings[field], field)))
	}

	fmt.Println(cli.RenderKeyValue("Split", 8, fmt.Sprintf("%s train / %s test",
		cli.FormatNumber(int64(res.TrainRows)), cli.FormatNumber(int64(res.TestRows)))))
	fmt.Println(cli.RenderKeyValue("Saved", 8, cfg.Artifacts.Dir))
	fmt.Println(cli.RenderKeyValue("Run", 8, res.Metadata.RunID))
	fmt.Println(cli.RenderKeyValue("Took", 8, cli.FormatDuration(elapsed)))
	fmt.Println()
}
