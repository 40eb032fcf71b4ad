package pipeline

import (
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingPercy11/Budgetify/internal/features"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/regression"
	"github.com/kingPercy11/Budgetify/internal/source"
)

func testDataset(t *testing.T, n int) *Dataset {
	t.Helper()
	ds, err := BuildDataset(source.Generate(n, 42), nil)
	require.NoError(t, err)
	return ds
}

func quickConfig(families ...regression.Family) TrainConfig {
	return TrainConfig{
		Families: families,
		Params: map[regression.Family]regression.Params{
			regression.FamilyDecisionTree:     {MaxDepth: 6},
			regression.FamilyRandomForest:     {MaxDepth: 6, NEstimators: 15},
			regression.FamilyGradientBoosting: {MaxDepth: 3, NEstimators: 40, LearningRate: 0.2},
		},
		TestFraction: 0.2,
		Seed:         42,
	}
}

func trainedPredictor(t *testing.T) *Predictor {
	t.Helper()
	res, err := Train(testDataset(t, 300), quickConfig(regression.FamilyGradientBoosting), nil, nil)
	require.NoError(t, err)
	p, err := NewPredictor(res.Best.Regressor, res.Metadata, nil)
	require.NoError(t, err)
	return p
}

func TestSplit(t *testing.T) {
	train, test, err := Split(10, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	all := append(append([]int(nil), train...), test...)
	sort.Ints(all)
	for i, v := range all {
		assert.Equal(t, i, v)
	}

	train2, test2, err := Split(10, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestSplit_Edges(t *testing.T) {
	train, test, err := Split(2, 0.2, 1)
	require.NoError(t, err)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)

	_, test, err = Split(5, 0.99, 1)
	require.NoError(t, err)
	assert.Len(t, test, 4, "training side keeps at least one row")

	_, _, err = Split(1, 0.2, 1)
	assert.Error(t, err)
	_, _, err = Split(10, 0, 1)
	assert.Error(t, err)
	_, _, err = Split(10, 1, 1)
	assert.Error(t, err)
}

func TestBuildDataset_CountsFallbacks(t *testing.T) {
	records := source.Generate(5, 3)
	records[0].CityTier = "Tier_9"
	records[1].Occupation = "Pilot"
	records[2].Occupation = "Pilot"
	records[3].Occupation = features.ReferenceOccupation

	ds, err := BuildDataset(records, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Rows())
	assert.Equal(t, map[string]int{"city_tier": 1, "occupation": 2}, ds.Warnings)
	assert.Equal(t, features.DefaultSchema(), ds.Schema)

	// Reference occupation encodes as all zeros.
	for _, col := range features.OccupationColumns() {
		j := indexOf(ds.Schema.Inputs, col)
		assert.Zero(t, ds.X.At(3, j))
	}
}

func TestNewDataset_RejectsMixedLayouts(t *testing.T) {
	fv1, _ := features.Build(model.Profile{Income: 1, Age: 1, CityTier: "Tier_1", Occupation: "Salaried"})
	fv2 := model.FeatureVector{Names: []string{"Income"}, Values: []float64{1}}
	tv := model.TargetVector{Names: []string{"Bills"}, Amounts: []float64{1}}

	_, err := NewDataset([]model.FeatureVector{fv1, fv2}, []model.TargetVector{tv, tv})
	assert.ErrorIs(t, err, model.ErrShapeMismatch)

	_, err = NewDataset(nil, nil)
	assert.Error(t, err)
}

func TestTrain_ReproducibleMetrics(t *testing.T) {
	cfg := quickConfig(regression.FamilyLinear, regression.FamilyDecisionTree, regression.FamilyRandomForest)
	a, err := Train(testDataset(t, 200), cfg, nil, nil)
	require.NoError(t, err)
	b, err := Train(testDataset(t, 200), cfg, nil, nil)
	require.NoError(t, err)

	require.Len(t, a.Candidates, 3)
	for i := range a.Candidates {
		assert.Equal(t, a.Candidates[i].Family, cfg.Families[i])
		assert.Equal(t, a.Candidates[i].Scores, b.Candidates[i].Scores)
	}
	assert.Equal(t, a.Best.Family, b.Best.Family)
	assert.Equal(t, 160, a.TrainRows)
	assert.Equal(t, 40, a.TestRows)
}

func TestTrain_SeedOverridesFamilySeed(t *testing.T) {
	ds := testDataset(t, 200)
	cfg := quickConfig(regression.FamilyRandomForest)
	a, err := Train(ds, cfg, nil, nil)
	require.NoError(t, err)

	cfg.Params = map[regression.Family]regression.Params{
		regression.FamilyRandomForest: {MaxDepth: 6, NEstimators: 15, Seed: 1234},
	}
	b, err := Train(ds, cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Best.Scores, b.Best.Scores)
	assert.Equal(t, int64(42), b.Best.Params.Seed)
	assert.Equal(t, 42.0, b.Metadata.Params["seed"])
}

func TestTrain_Metadata(t *testing.T) {
	var mu sync.Mutex
	var calls []int
	progress := func(cur, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, cur)
		assert.Equal(t, 2, total)
	}

	res, err := Train(testDataset(t, 150), quickConfig(regression.FamilyLinear, regression.FamilyGradientBoosting), nil, progress)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, calls)

	meta := res.Metadata
	assert.Equal(t, features.DefaultSchema().Inputs, meta.InputColumns)
	assert.Equal(t, features.CategoryNames(), meta.OutputColumns)
	assert.Equal(t, string(res.Best.Family), meta.Family)
	assert.Equal(t, res.Best.Scores.R2, meta.Performance.R2)
	assert.Len(t, meta.Performance.PerCategoryR2, len(meta.OutputColumns))
	assert.False(t, meta.CreatedAt.IsZero())
}

func TestTrain_Rejects(t *testing.T) {
	ds := testDataset(t, 20)
	_, err := Train(ds, TrainConfig{TestFraction: 0.2}, nil, nil)
	assert.Error(t, err)

	cfg := quickConfig(regression.FamilyLinear, regression.FamilyLinear)
	_, err = Train(ds, cfg, nil, nil)
	assert.Error(t, err)
}

func TestSelectBest_TieGoesToFirst(t *testing.T) {
	cands := []Candidate{
		{Family: regression.FamilyLinear, Scores: regression.Scores{R2: 0.7}},
		{Family: regression.FamilyDecisionTree, Scores: regression.Scores{R2: 0.9}},
		{Family: regression.FamilyRandomForest, Scores: regression.Scores{R2: 0.9}},
		{Family: regression.FamilyGradientBoosting, Scores: regression.Scores{R2: 0.95}, Err: assert.AnError},
	}
	best := selectBest(cands)
	require.NotNil(t, best)
	assert.Equal(t, regression.FamilyDecisionTree, best.Family)

	assert.Nil(t, selectBest([]Candidate{{Err: assert.AnError}}))
}

func TestPredictProfile_BelowIncome(t *testing.T) {
	p := trainedPredictor(t)
	pred, err := p.PredictProfile(model.Profile{
		Income: 60000, Age: 35, Dependents: 2, CityTier: "Tier_1", Occupation: "Salaried",
	})
	require.NoError(t, err)

	assert.Equal(t, features.CategoryNames(), pred.Categories.Names)
	assert.Len(t, pred.Categories.Amounts, 8)
	assert.True(t, pred.Total.LessThan(decimalOf(60000)), "total %s", pred.Total)
	assert.True(t, pred.Remaining.IsPositive())
	assert.Empty(t, pred.Warnings)
}

func TestPredict_Deterministic(t *testing.T) {
	p := trainedPredictor(t)
	fv, _ := features.BuildFor(p.Schema(), model.Profile{Income: 45000, Age: 29, CityTier: "Tier_2", Occupation: "Self_Employed"})

	a, err := p.Predict(fv)
	require.NoError(t, err)
	b, err := p.Predict(fv)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPredictBatch_ExampleUsers(t *testing.T) {
	p := trainedPredictor(t)
	preds, err := p.PredictBatch(ExampleProfiles())
	require.NoError(t, err)
	require.Len(t, preds, 3)
	for _, pr := range preds {
		assert.Len(t, pr.Categories.Amounts, len(p.Schema().Outputs))
		assert.Len(t, pr.Categories.Ranked()[:3], 3)
	}
}

func TestPredictProfile_RetiredAndUnknown(t *testing.T) {
	p := trainedPredictor(t)

	pred, err := p.PredictProfile(model.Profile{Income: 30000, Age: 67, CityTier: "Tier_2", Occupation: "Retired"})
	require.NoError(t, err)
	assert.Empty(t, pred.Warnings)

	pred, err = p.PredictProfile(model.Profile{Income: 30000, Age: 40, CityTier: "Metro", Occupation: "Pilot"})
	require.NoError(t, err)
	assert.Len(t, pred.Warnings, 2)
}

func TestPredictProfile_InvalidProfile(t *testing.T) {
	p := trainedPredictor(t)
	_, err := p.PredictProfile(model.Profile{Income: 0, Age: 30, CityTier: "Tier_1", Occupation: "Salaried"})
	assert.Error(t, err)
}

func TestPredictProfile_NonFiniteIncome(t *testing.T) {
	p := trainedPredictor(t)
	for _, income := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.NotPanics(t, func() {
			_, err := p.PredictProfile(model.Profile{
				Income: income, Age: 35, Dependents: 2, CityTier: "Tier_1", Occupation: "Salaried",
			})
			assert.Error(t, err, "income %v", income)
		})
	}

	batch := append(ExampleProfiles(), model.Profile{Income: math.Inf(1), Age: 30, CityTier: "Tier_1", Occupation: "Student"})
	assert.NotPanics(t, func() {
		_, err := p.PredictBatch(batch)
		assert.Error(t, err)
	})
}

func TestNewPrediction_RejectsNonFiniteAmounts(t *testing.T) {
	prof := ExampleProfiles()[0]
	_, err := model.NewPrediction(prof, model.TargetVector{Names: []string{"Bills", "Other"}, Amounts: []float64{100, math.NaN()}})
	assert.ErrorIs(t, err, model.ErrNonFinite)

	pred, err := model.NewPrediction(prof, model.TargetVector{Names: []string{"Bills"}, Amounts: []float64{100.004}})
	require.NoError(t, err)
	assert.Equal(t, "100", pred.Total.String())
}

func TestPredict_Guards(t *testing.T) {
	p := trainedPredictor(t)

	fv, _ := features.Build(model.Profile{Income: 1, Age: 1, CityTier: "Tier_1", Occupation: "Salaried"})
	fv.Names[0], fv.Names[1] = fv.Names[1], fv.Names[0]
	_, err := p.Predict(fv)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)

	var shapeErr *model.ShapeMismatchError
	assert.ErrorAs(t, err, &shapeErr)

	unfitted, err := NewPredictor(nil, p.Metadata(), nil)
	require.NoError(t, err)
	_, err = unfitted.PredictProfile(ExampleProfiles()[0])
	assert.ErrorIs(t, err, model.ErrNotFitted)
}

func TestNewPredictor_ShapeCheck(t *testing.T) {
	p := trainedPredictor(t)
	meta := p.Metadata()
	meta.InputColumns = meta.InputColumns[:3]
	_, err := NewPredictor(p.reg, meta, nil)
	assert.ErrorIs(t, err, model.ErrShapeMismatch)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func decimalOf(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
