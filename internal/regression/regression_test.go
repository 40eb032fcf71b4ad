package regression

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// planeData returns x in [0,10)^2 and two outputs: 2a+3b+5 and a-b.
func planeData(t *testing.T, n int, seed int64) (*mat.Dense, *mat.Dense) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		a, b := rng.Float64()*10, rng.Float64()*10
		x.SetRow(i, []float64{a, b})
		y.SetRow(i, []float64{2*a + 3*b + 5, a - b})
	}
	return x, y
}

func smallParams() Params {
	return Params{MaxDepth: 4, NEstimators: 20, LearningRate: 0.2, Seed: 7}
}

func TestLinear_RecoversPlane(t *testing.T) {
	x, y := planeData(t, 50, 1)
	lin, err := New(FamilyLinear, Params{})
	require.NoError(t, err)
	require.NoError(t, lin.Fit(x, y))

	got, err := lin.Predict(mat.NewDense(1, 2, []float64{4, 1}))
	require.NoError(t, err)
	assert.InDelta(t, 16.0, got.At(0, 0), 1e-4)
	assert.InDelta(t, 3.0, got.At(0, 1), 1e-4)
}

func TestLinear_ConstantFeature(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{1, 0, 2, 0, 3, 0, 4, 0})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
	lin := &Linear{}
	require.NoError(t, lin.Fit(x, y))

	got, err := lin.Predict(mat.NewDense(1, 2, []float64{5, 0}))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got.At(0, 0), 1e-4)
}

func TestLinear_CoefficientsInRawUnits(t *testing.T) {
	x, y := planeData(t, 40, 3)
	lin := &Linear{}
	require.NoError(t, lin.Fit(x, y))

	// Coef is features x outputs: 2a+3b+5 and a-b.
	want := []float64{2, 1, 3, -1}
	require.Len(t, lin.Coef, len(want))
	for i, w := range want {
		assert.InDelta(t, w, lin.Coef[i], 1e-6, "coef %d", i)
	}
	assert.InDelta(t, 5.0, lin.Intercept[0], 1e-6)
	assert.InDelta(t, 0.0, lin.Intercept[1], 1e-6)
}

func TestLinear_AllConstantFeatures(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 5, 1, 5, 1, 5})
	y := mat.NewDense(3, 1, []float64{3, 6, 9})
	lin := &Linear{}
	require.NoError(t, lin.Fit(x, y))

	got, err := lin.Predict(mat.NewDense(1, 2, []float64{100, -100}))
	require.NoError(t, err)
	assert.InDelta(t, 6.0, got.At(0, 0), 1e-9)
}

func TestDecisionTree_StepFunction(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{1, 2, 3, 7, 8, 9})
	y := mat.NewDense(6, 2, []float64{10, 1, 10, 1, 10, 1, 20, 2, 20, 2, 20, 2})
	tree, err := New(FamilyDecisionTree, Params{MaxDepth: 3})
	require.NoError(t, err)
	require.NoError(t, tree.Fit(x, y))
	assert.Equal(t, 1, tree.(*DecisionTree).Depth())

	got, err := tree.Predict(mat.NewDense(2, 1, []float64{4.9, 5.1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 1}, mat.Row(nil, 0, got))
	assert.Equal(t, []float64{20, 2}, mat.Row(nil, 1, got))
}

func TestDecisionTree_MaxDepthLimits(t *testing.T) {
	x, y := planeData(t, 80, 2)
	tree := &DecisionTree{params: Params{MaxDepth: 2}.withDefaults()}
	require.NoError(t, tree.Fit(x, y))
	assert.LessOrEqual(t, tree.Depth(), 2)
}

func TestEnsembles_FitWell(t *testing.T) {
	x, y := planeData(t, 120, 3)
	for _, f := range []Family{FamilyRandomForest, FamilyGradientBoosting} {
		t.Run(string(f), func(t *testing.T) {
			r, err := New(f, smallParams())
			require.NoError(t, err)
			require.NoError(t, r.Fit(x, y))

			pred, err := r.Predict(x)
			require.NoError(t, err)
			s, err := Evaluate(y, pred)
			require.NoError(t, err)
			assert.Greater(t, s.R2, 0.6)
			features, outputs := r.Shape()
			assert.Equal(t, 2, features)
			assert.Equal(t, 2, outputs)
		})
	}
}

func TestFit_Reproducible(t *testing.T) {
	x, y := planeData(t, 60, 4)
	points := mat.NewDense(3, 2, []float64{1, 1, 5, 2, 9, 8})
	for _, f := range Families() {
		t.Run(string(f), func(t *testing.T) {
			a, _ := New(f, smallParams())
			b, _ := New(f, smallParams())
			require.NoError(t, a.Fit(x, y))
			require.NoError(t, b.Fit(x, y))

			pa, err := a.Predict(points)
			require.NoError(t, err)
			pb, err := b.Predict(points)
			require.NoError(t, err)
			assert.True(t, mat.Equal(pa, pb))

			again, err := a.Predict(points)
			require.NoError(t, err)
			assert.True(t, mat.Equal(pa, again), "predict must not mutate the model")
		})
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	x, y := planeData(t, 60, 5)
	points := mat.NewDense(3, 2, []float64{0.5, 9.5, 3, 3, 7.25, 1})
	for _, f := range Families() {
		t.Run(string(f), func(t *testing.T) {
			r, _ := New(f, smallParams())
			require.NoError(t, r.Fit(x, y))

			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, r))
			loaded, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, f, loaded.Family())

			want, _ := r.Predict(points)
			got, err := loaded.Predict(points)
			require.NoError(t, err)
			assert.True(t, mat.Equal(want, got))
		})
	}
}

func TestPredict_Guards(t *testing.T) {
	for _, f := range Families() {
		r, _ := New(f, smallParams())
		_, err := r.Predict(mat.NewDense(1, 2, nil))
		assert.True(t, errors.Is(err, model.ErrNotFitted), f)
		assert.Error(t, Encode(&bytes.Buffer{}, r))
	}

	x, y := planeData(t, 30, 6)
	r, _ := New(FamilyDecisionTree, smallParams())
	require.NoError(t, r.Fit(x, y))
	_, err := r.Predict(mat.NewDense(1, 3, nil))
	assert.True(t, errors.Is(err, model.ErrShapeMismatch))
}

func TestFit_RejectsMismatchedRows(t *testing.T) {
	r, _ := New(FamilyLinear, Params{})
	err := r.Fit(mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil))
	assert.ErrorContains(t, err, "3 feature rows but 2 target rows")
}

func TestEvaluate(t *testing.T) {
	truth := mat.NewDense(3, 2, []float64{1, 5, 2, 5, 3, 5})
	pred := mat.NewDense(3, 2, []float64{1, 5, 2, 5, 4, 5})
	s, err := Evaluate(truth, pred)
	require.NoError(t, err)

	// Column 0: R2 0.5, MAE 1/3, MSE 1/3. Column 1 is constant and exact.
	assert.InDelta(t, 0.5, s.PerOutputR2[0], 1e-12)
	assert.Equal(t, 1.0, s.PerOutputR2[1])
	assert.InDelta(t, 0.75, s.R2, 1e-12)
	assert.InDelta(t, 1.0/6, s.MAE, 1e-12)
	assert.InDelta(t, math.Sqrt(1.0/6), s.RMSE, 1e-12)
}

func TestR2_ConstantTruthMissed(t *testing.T) {
	assert.Equal(t, 0.0, R2([]float64{3, 3}, []float64{3, 4}))
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("random_forest")
	require.NoError(t, err)
	assert.Equal(t, FamilyRandomForest, f)

	_, err = ParseFamily("svm")
	assert.ErrorContains(t, err, "unknown model family")
}
