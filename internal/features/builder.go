package features

import (
	"github.com/kingPercy11/Budgetify/internal/model"
)

// Build encodes a profile into the canonical feature vector.
// Categorical values outside the known sets are encoded with their default
// and reported as warnings.
func Build(p model.Profile) (model.FeatureVector, []Warning) {
	var warnings []Warning

	tier, ok := EncodeCityTier(p.CityTier)
	if !ok {
		warnings = append(warnings, Warning{Field: "city_tier", Value: p.CityTier})
	}
	occ, ok := EncodeOccupation(p.Occupation)
	if !ok {
		warnings = append(warnings, Warning{Field: "occupation", Value: p.Occupation})
	}

	names := []string{FeatureIncome, FeatureAge, FeatureDependents, FeatureCityTier}
	names = append(names, OccupationColumns()...)
	values := []float64{p.Income, float64(p.Age), float64(p.Dependents), tier}
	values = append(values, occ...)

	return model.FeatureVector{Names: names, Values: values}, warnings
}

// BuildFor encodes a profile and aligns it to a trained schema.
func BuildFor(s Schema, p model.Profile) (model.FeatureVector, []Warning) {
	fv, warnings := Build(p)
	return Align(fv, s), warnings
}

// Align reorders a feature vector to the schema's input order, filling absent
// features with 0 and dropping names the schema does not declare.
func Align(fv model.FeatureVector, s Schema) model.FeatureVector {
	index := make(map[string]float64, len(fv.Names))
	for i, n := range fv.Names {
		index[n] = fv.Values[i]
	}
	out := model.FeatureVector{
		Names:  append([]string(nil), s.Inputs...),
		Values: make([]float64, len(s.Inputs)),
	}
	for i, n := range s.Inputs {
		out.Values[i] = index[n]
	}
	return out
}
