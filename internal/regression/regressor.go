// Package regression implements the multi-output regressors budgetify can train:
// ordinary least squares, CART regression trees, random forests and gradient
// boosting. All of them are deterministic for a fixed seed.
package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// Family names a model family.
type Family string

// Supported model families.
const (
	FamilyLinear           Family = "linear"
	FamilyDecisionTree     Family = "decision_tree"
	FamilyRandomForest     Family = "random_forest"
	FamilyGradientBoosting Family = "gradient_boosting"
)

// Families returns every supported family in comparison order.
func Families() []Family {
	return []Family{FamilyLinear, FamilyDecisionTree, FamilyRandomForest, FamilyGradientBoosting}
}

// ParseFamily validates a family name.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown model family %q", s)
}

// Params holds the hyperparameters of every family. Fields a family does not
// use are ignored.
type Params struct {
	MaxDepth        int     `toml:"max_depth"`
	MinSamplesSplit int     `toml:"min_samples_split"`
	MinSamplesLeaf  int     `toml:"min_samples_leaf"`
	MaxFeatures     int     `toml:"max_features"` // 0 = all features
	NEstimators     int     `toml:"n_estimators"`
	LearningRate    float64 `toml:"learning_rate"`
	Subsample       float64 `toml:"subsample"`
	Seed            int64   `toml:"-"` // set from the training seed
}

// Map flattens the parameters relevant to a family for metadata and reports.
func (p Params) Map(f Family) map[string]float64 {
	m := map[string]float64{}
	switch f {
	case FamilyLinear:
		return m
	case FamilyGradientBoosting:
		m["n_estimators"] = float64(p.NEstimators)
		m["learning_rate"] = p.LearningRate
		m["subsample"] = p.Subsample
	case FamilyRandomForest:
		m["n_estimators"] = float64(p.NEstimators)
		m["max_features"] = float64(p.MaxFeatures)
	case FamilyDecisionTree:
		m["max_features"] = float64(p.MaxFeatures)
	}
	m["max_depth"] = float64(p.MaxDepth)
	m["min_samples_split"] = float64(p.MinSamplesSplit)
	m["min_samples_leaf"] = float64(p.MinSamplesLeaf)
	m["seed"] = float64(p.Seed)
	return m
}

func (p Params) withDefaults() Params {
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	if p.NEstimators < 1 {
		p.NEstimators = 100
	}
	if p.LearningRate <= 0 {
		p.LearningRate = 0.1
	}
	if p.Subsample <= 0 || p.Subsample > 1 {
		p.Subsample = 1
	}
	return p
}

func (p Params) tree() treeConfig {
	return treeConfig{
		maxDepth:        p.MaxDepth,
		minSamplesSplit: p.MinSamplesSplit,
		minSamplesLeaf:  p.MinSamplesLeaf,
		maxFeatures:     p.MaxFeatures,
	}
}

// Regressor is a multi-output regression model.
type Regressor interface {
	Family() Family
	// Fit trains on x (samples x features) and y (samples x outputs).
	Fit(x, y *mat.Dense) error
	// Predict returns one row of outputs per row of x.
	Predict(x mat.Matrix) (*mat.Dense, error)
	Fitted() bool
	// Shape returns the number of input features and outputs seen at fit time.
	Shape() (features, outputs int)
}

// New constructs an unfitted regressor of the given family.
func New(f Family, p Params) (Regressor, error) {
	p = p.withDefaults()
	switch f {
	case FamilyLinear:
		return &Linear{}, nil
	case FamilyDecisionTree:
		return &DecisionTree{params: p}, nil
	case FamilyRandomForest:
		return &RandomForest{params: p}, nil
	case FamilyGradientBoosting:
		return &GradientBoosting{params: p}, nil
	}
	return nil, fmt.Errorf("unknown model family %q", f)
}

func checkFit(x, y *mat.Dense) (n, p, k int, err error) {
	n, p = x.Dims()
	ny, k := y.Dims()
	if n == 0 || p == 0 || k == 0 {
		return 0, 0, 0, fmt.Errorf("fit: empty training data (%dx%d, %dx%d)", n, p, ny, k)
	}
	if ny != n {
		return 0, 0, 0, fmt.Errorf("fit: %d feature rows but %d target rows", n, ny)
	}
	return n, p, k, nil
}

func checkPredict(fitted bool, nFeatures int, x mat.Matrix) (int, error) {
	if !fitted {
		return 0, model.ErrNotFitted
	}
	n, p := x.Dims()
	if p != nFeatures {
		return 0, fmt.Errorf("%w: model has %d features, input has %d", model.ErrShapeMismatch, nFeatures, p)
	}
	return n, nil
}

// rows copies a matrix into row slices.
func rows(m mat.Matrix) [][]float64 {
	n, c := m.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, c)
		mat.Row(out[i], i, m)
	}
	return out
}
