package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingPercy11/Budgetify/internal/features"
	"github.com/kingPercy11/Budgetify/internal/pipeline"
	"github.com/kingPercy11/Budgetify/internal/regression"
)

func sampleResult() (*pipeline.Dataset, *pipeline.TrainResult) {
	ds := &pipeline.Dataset{
		Schema:   features.DefaultSchema(),
		Warnings: map[string]int{"occupation": 3},
	}
	perOutput := make([]float64, len(ds.Schema.Outputs))
	for i := range perOutput {
		perOutput[i] = 0.5 + float64(i)/20
	}
	res := &pipeline.TrainResult{
		Candidates: []pipeline.Candidate{
			{Family: regression.FamilyLinear, Scores: regression.Scores{R2: 0.6, MAE: 900, RMSE: 1200, PerOutputR2: perOutput}, Duration: 20 * time.Millisecond},
			{Family: regression.FamilyGradientBoosting, Scores: regression.Scores{R2: 0.8, MAE: 500, RMSE: 700, PerOutputR2: perOutput}, Duration: 2 * time.Second},
			{Family: regression.FamilyRandomForest, Err: assert.AnError},
		},
		TrainRows: 80,
		TestRows:  20,
	}
	res.Best = &res.Candidates[1]
	return ds, res
}

func TestObserve(t *testing.T) {
	m := NewTrainingMetrics()
	ds, res := sampleResult()
	m.Observe(ds, res)

	assert.Equal(t, 0.8, testutil.ToFloat64(m.r2.WithLabelValues("gradient_boosting")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.mae.WithLabelValues("gradient_boosting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selected.WithLabelValues("gradient_boosting")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.selected.WithLabelValues("linear")))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.datasetRows.WithLabelValues("train")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.fallbackEncode.WithLabelValues("occupation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fitFailures))
	assert.Equal(t, 2*len(ds.Schema.Outputs), testutil.CollectAndCount(m.categoryR2))
}

func TestWriteTextfile(t *testing.T) {
	m := NewTrainingMetrics()
	ds, res := sampleResult()
	m.Observe(ds, res)

	path := filepath.Join(t.TempDir(), "budgetify.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `budgetify_model_r2{family="gradient_boosting"} 0.8`), out)
	assert.Contains(t, out, `budgetify_category_r2{category="Food & Dining",family="linear"}`)
	assert.Contains(t, out, "# HELP budgetify_fit_failures")
}
