// Package pipeline runs training and prediction end to end: dataset encoding,
// train/test split, per-family fitting, model selection and inference.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/regression"
)

// ProgressFunc is called as candidate families finish fitting.
// current is the number of families done so far, total is the total count.
type ProgressFunc func(current, total int)

// TrainConfig selects the families to compare and how to split the data.
type TrainConfig struct {
	Families     []regression.Family
	Params       map[regression.Family]regression.Params
	TestFraction float64
	// Seed drives the split and the random state of every family.
	Seed         int64
}

// DefaultTrainConfig trains a single gradient boosting model on an 80/20 split.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Families: []regression.Family{regression.FamilyGradientBoosting},
		Params: map[regression.Family]regression.Params{
			regression.FamilyGradientBoosting: {MaxDepth: 5, NEstimators: 100, LearningRate: 0.1},
		},
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Candidate is one fitted family and its held-out scores.
type Candidate struct {
	Family    regression.Family
	Params    regression.Params
	Regressor regression.Regressor
	Scores    regression.Scores
	Duration  time.Duration
	Err       error
}

// TrainResult holds every candidate and the selected model.
type TrainResult struct {
	Candidates []Candidate
	Best       *Candidate
	TrainRows  int
	TestRows   int
	Metadata   model.Metadata
}

// Train fits every configured family on the same split and keeps the one with
// the highest held-out R². Ties go to the family listed first. Families are
// fitted in parallel with a bounded worker pool.
func Train(ds *Dataset, cfg TrainConfig, logger *log.Logger, progressFn ProgressFunc) (*TrainResult, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentTrain)

	if len(cfg.Families) == 0 {
		return nil, fmt.Errorf("train: no model families configured")
	}
	seenFamily := map[regression.Family]bool{}
	for _, f := range cfg.Families {
		if seenFamily[f] {
			return nil, fmt.Errorf("train: family %s listed twice", f)
		}
		seenFamily[f] = true
	}
	if ds.Rows() == 0 {
		return nil, fmt.Errorf("train: empty dataset")
	}

	trainIdx, testIdx, err := Split(ds.Rows(), cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}
	xTrain, yTrain := ds.subset(trainIdx)
	xTest, yTest := ds.subset(testIdx)
	logger.Info("split dataset", log.FieldTrainRows, len(trainIdx), log.FieldTestRows, len(testIdx))

	result := &TrainResult{
		Candidates: make([]Candidate, len(cfg.Families)),
		TrainRows:  len(trainIdx),
		TestRows:   len(testIdx),
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(cfg.Families) {
		numWorkers = len(cfg.Families)
	}

	work := make(chan int, len(cfg.Families))
	for i := range cfg.Families {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var done atomic.Int64
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				f := cfg.Families[idx]
				p := cfg.Params[f]
				p.Seed = cfg.Seed
				result.Candidates[idx] = fitCandidate(f, p, xTrain, yTrain, xTest, yTest)
				n := done.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(cfg.Families))
				}
			}
		}()
	}
	wg.Wait()

	for i := range result.Candidates {
		c := &result.Candidates[i]
		if c.Err != nil {
			logger.Error("fit failed", log.FieldFamily, c.Family, log.FieldError, c.Err)
			continue
		}
		logger.Info("fitted",
			log.FieldFamily, c.Family,
			log.FieldR2, c.Scores.R2,
			log.FieldMAE, c.Scores.MAE,
			log.FieldRMSE, c.Scores.RMSE,
			log.FieldDuration, c.Duration.Milliseconds(),
		)
	}
	result.Best = selectBest(result.Candidates)
	if result.Best == nil {
		return nil, fmt.Errorf("train: every family failed: %w", result.Candidates[0].Err)
	}

	result.Metadata = buildMetadata(ds, result)
	logger.Info("selected model", log.FieldFamily, result.Best.Family, log.FieldR2, result.Best.Scores.R2)
	return result, nil
}

// selectBest returns the successful candidate with the highest R². The
// earliest candidate wins a tie.
func selectBest(cands []Candidate) *Candidate {
	var best *Candidate
	for i := range cands {
		c := &cands[i]
		if c.Err != nil {
			continue
		}
		if best == nil || c.Scores.R2 > best.Scores.R2 {
			best = c
		}
	}
	return best
}

func fitCandidate(f regression.Family, p regression.Params, xTrain, yTrain, xTest, yTest *mat.Dense) Candidate {
	c := Candidate{Family: f, Params: p}
	start := time.Now()

	reg, err := regression.New(f, p)
	if err != nil {
		c.Err = err
		return c
	}
	if err := reg.Fit(xTrain, yTrain); err != nil {
		c.Err = fmt.Errorf("fitting %s: %w", f, err)
		return c
	}
	pred, err := reg.Predict(xTest)
	if err != nil {
		c.Err = fmt.Errorf("scoring %s: %w", f, err)
		return c
	}
	scores, err := regression.Evaluate(yTest, pred)
	if err != nil {
		c.Err = fmt.Errorf("scoring %s: %w", f, err)
		return c
	}

	c.Regressor = reg
	c.Scores = scores
	c.Duration = time.Since(start)
	return c
}

func buildMetadata(ds *Dataset, res *TrainResult) model.Metadata {
	best := res.Best
	perCat := make(map[string]float64, len(ds.Schema.Outputs))
	for i, name := range ds.Schema.Outputs {
		perCat[name] = best.Scores.PerOutputR2[i]
	}
	return model.Metadata{
		InputColumns:  append([]string(nil), ds.Schema.Inputs...),
		OutputColumns: append([]string(nil), ds.Schema.Outputs...),
		Performance: model.Metrics{
			R2:            best.Scores.R2,
			MAE:           best.Scores.MAE,
			RMSE:          best.Scores.RMSE,
			PerCategoryR2: perCat,
		},
		Family:    string(best.Family),
		Params:    best.Params.Map(best.Family),
		TrainRows: res.TrainRows,
		TestRows:  res.TestRows,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}
