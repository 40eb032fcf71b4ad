package features

import (
	"fmt"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// City tiers in ordinal order. The index is the encoded value.
var cityTiers = []string{"Tier_1", "Tier_2", "Tier_3"}

// ReferenceOccupation is the drop-first reference category: it encodes as all zeros.
const ReferenceOccupation = "Retired"

// Occupations with an indicator column, in column order.
var occupations = []string{"Salaried", "Self_Employed", "Student"}

// CityTiers returns the known city tiers in ordinal order.
func CityTiers() []string {
	return append([]string(nil), cityTiers...)
}

// Occupations returns every accepted occupation, reference category last.
func Occupations() []string {
	return append(append([]string(nil), occupations...), ReferenceOccupation)
}

// OccupationColumns returns the indicator feature names.
func OccupationColumns() []string {
	cols := make([]string, len(occupations))
	for i, o := range occupations {
		cols[i] = "Occupation_" + o
	}
	return cols
}

// Warning flags a categorical value that fell back to its default encoding.
type Warning struct {
	Field string
	Value string
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %s %q", model.ErrUnknownCategory, w.Field, w.Value)
}

// Unwrap exposes ErrUnknownCategory to errors.Is.
func (w Warning) Unwrap() error {
	return model.ErrUnknownCategory
}

// EncodeCityTier maps a tier to its ordinal. Unknown tiers encode as 0.
func EncodeCityTier(tier string) (float64, bool) {
	for i, t := range cityTiers {
		if t == tier {
			return float64(i), true
		}
	}
	return 0, false
}

// EncodeOccupation returns one indicator per known non-reference occupation.
// The reference category and unknown values yield all zeros; ok is false only
// for values outside the accepted set.
func EncodeOccupation(occupation string) (indicators []float64, ok bool) {
	indicators = make([]float64, len(occupations))
	for i, o := range occupations {
		if o == occupation {
			indicators[i] = 1
			return indicators, true
		}
	}
	return indicators, occupation == ReferenceOccupation
}
