// Package features turns raw household records into the fixed-width feature
// and category vectors the regressors are trained on.
package features

import (
	"fmt"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// Feature names in canonical order.
const (
	FeatureIncome     = "Income"
	FeatureAge        = "Age"
	FeatureDependents = "Dependents"
	FeatureCityTier   = "City_Tier_Encoded"
)

// Schema is the ordered input and output layout shared by training and inference.
type Schema struct {
	Inputs  []string
	Outputs []string
}

// NewSchema validates and copies an input/output layout.
func NewSchema(inputs, outputs []string) (Schema, error) {
	if err := checkNames("input", inputs); err != nil {
		return Schema{}, err
	}
	if err := checkNames("output", outputs); err != nil {
		return Schema{}, err
	}
	return Schema{
		Inputs:  append([]string(nil), inputs...),
		Outputs: append([]string(nil), outputs...),
	}, nil
}

// DefaultSchema is the layout produced by Build and Targets.
func DefaultSchema() Schema {
	inputs := []string{FeatureIncome, FeatureAge, FeatureDependents, FeatureCityTier}
	inputs = append(inputs, OccupationColumns()...)
	return Schema{Inputs: inputs, Outputs: CategoryNames()}
}

// SchemaFromMetadata rebuilds the schema recorded at training time.
func SchemaFromMetadata(meta model.Metadata) (Schema, error) {
	return NewSchema(meta.InputColumns, meta.OutputColumns)
}

// Matches reports whether names equal the input order exactly.
func (s Schema) Matches(names []string) bool {
	if len(names) != len(s.Inputs) {
		return false
	}
	for i, n := range names {
		if s.Inputs[i] != n {
			return false
		}
	}
	return true
}

func checkNames(kind string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%s columns: empty schema", kind)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%s columns: blank column name", kind)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%s columns: duplicate column %q", kind, n)
		}
		seen[n] = struct{}{}
	}
	return nil
}
