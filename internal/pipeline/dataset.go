package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kingPercy11/Budgetify/internal/features"
	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/model"
)

// Dataset is an encoded training matrix with its column layout.
type Dataset struct {
	X      *mat.Dense // samples x inputs
	Y      *mat.Dense // samples x outputs
	Schema features.Schema

	// Warnings counts fallback encodings per field.
	Warnings map[string]int
}

// Rows returns the number of samples.
func (d *Dataset) Rows() int {
	if d == nil || d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// NewDataset stacks feature and target vectors into matrices. Every vector
// must carry the same names in the same order.
func NewDataset(fvs []model.FeatureVector, tvs []model.TargetVector) (*Dataset, error) {
	if len(fvs) == 0 {
		return nil, fmt.Errorf("dataset: no rows")
	}
	if len(fvs) != len(tvs) {
		return nil, fmt.Errorf("dataset: %d feature vectors but %d target vectors", len(fvs), len(tvs))
	}

	schema, err := features.NewSchema(fvs[0].Names, tvs[0].Names)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	p, k := len(schema.Inputs), len(schema.Outputs)
	x := mat.NewDense(len(fvs), p, nil)
	y := mat.NewDense(len(tvs), k, nil)
	for i := range fvs {
		if !schema.Matches(fvs[i].Names) {
			return nil, fmt.Errorf("dataset row %d: %w", i, &model.ShapeMismatchError{Want: schema.Inputs, Got: fvs[i].Names})
		}
		if !sameNames(schema.Outputs, tvs[i].Names) {
			return nil, fmt.Errorf("dataset row %d: target columns %v differ from %v", i, tvs[i].Names, schema.Outputs)
		}
		x.SetRow(i, fvs[i].Values)
		y.SetRow(i, tvs[i].Amounts)
	}

	return &Dataset{X: x, Y: y, Schema: schema, Warnings: map[string]int{}}, nil
}

// BuildDataset encodes raw records with the canonical feature builder and
// category grouping. Unknown categorical values are counted and logged once
// per distinct value.
func BuildDataset(records []model.Record, logger *log.Logger) (*Dataset, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentFeatures)

	fvs := make([]model.FeatureVector, len(records))
	tvs := make([]model.TargetVector, len(records))
	counts := map[string]int{}
	seen := map[features.Warning]bool{}

	for i, r := range records {
		fv, warnings := features.Build(r.Profile())
		for _, w := range warnings {
			counts[w.Field]++
			if !seen[w] {
				seen[w] = true
				logger.Warn("unknown category, using default encoding",
					log.FieldField, w.Field, log.FieldValue, w.Value)
			}
		}
		fvs[i] = fv
		tvs[i] = features.Targets(r)
	}

	ds, err := NewDataset(fvs, tvs)
	if err != nil {
		return nil, err
	}
	ds.Warnings = counts
	for field, n := range counts {
		logger.Info("fallback encodings", log.FieldField, field, log.FieldCount, n)
	}
	return ds, nil
}

// subset copies the given rows of the dataset.
func (d *Dataset) subset(idx []int) (x, y *mat.Dense) {
	_, p := d.X.Dims()
	_, k := d.Y.Dims()
	x = mat.NewDense(len(idx), p, nil)
	y = mat.NewDense(len(idx), k, nil)
	for i, r := range idx {
		x.SetRow(i, d.X.RawRowView(r))
		y.SetRow(i, d.Y.RawRowView(r))
	}
	return x, y
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
