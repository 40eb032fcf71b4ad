package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingPercy11/Budgetify/internal/model"
)

func TestBuild_CanonicalOrder(t *testing.T) {
	fv, warnings := Build(model.Profile{
		Income: 60000, Age: 35, Dependents: 2, CityTier: "Tier_2", Occupation: "Self_Employed",
	})
	require.Empty(t, warnings)

	assert.Equal(t, DefaultSchema().Inputs, fv.Names)
	assert.Equal(t, []float64{60000, 35, 2, 1, 0, 1, 0}, fv.Values)
}

func TestBuild_ReferenceOccupationIsAllZero(t *testing.T) {
	fv, warnings := Build(model.Profile{
		Income: 40000, Age: 70, Dependents: 0, CityTier: "Tier_1", Occupation: "Retired",
	})
	assert.Empty(t, warnings, "reference category is known, not a fallback")
	for _, col := range OccupationColumns() {
		v, ok := fv.Get(col)
		require.True(t, ok)
		assert.Zero(t, v, col)
	}
}

func TestBuild_UnknownCategoriesFallBack(t *testing.T) {
	fv, warnings := Build(model.Profile{
		Income: 40000, Age: 30, Dependents: 1, CityTier: "Tier_9", Occupation: "Astronaut",
	})
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.True(t, errors.Is(w, model.ErrUnknownCategory))
	}
	assert.Equal(t, "city_tier", warnings[0].Field)
	assert.Equal(t, "occupation", warnings[1].Field)

	tier, _ := fv.Get(FeatureCityTier)
	assert.Zero(t, tier)
	assert.Equal(t, []float64{40000, 30, 1, 0, 0, 0, 0}, fv.Values)
}

func TestEncodeCityTier(t *testing.T) {
	tests := []struct {
		tier string
		want float64
		ok   bool
	}{
		{"Tier_1", 0, true},
		{"Tier_2", 1, true},
		{"Tier_3", 2, true},
		{"tier_3", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := EncodeCityTier(tt.tier)
		assert.Equal(t, tt.want, got, tt.tier)
		assert.Equal(t, tt.ok, ok, tt.tier)
	}
}

func TestAlign_FillsMissingAndDropsExtra(t *testing.T) {
	s, err := NewSchema(
		[]string{"Income", "Age", "Occupation_Student", "Dependents"},
		[]string{"Bills"},
	)
	require.NoError(t, err)

	fv := model.FeatureVector{
		Names:  []string{"Dependents", "Income", "Shoe_Size"},
		Values: []float64{3, 52000, 44},
	}
	got := Align(fv, s)

	assert.Equal(t, s.Inputs, got.Names)
	assert.Equal(t, []float64{52000, 0, 0, 3}, got.Values)
	assert.True(t, s.Matches(got.Names))
}

func TestNewSchema_Rejects(t *testing.T) {
	_, err := NewSchema(nil, []string{"Bills"})
	assert.Error(t, err)

	_, err = NewSchema([]string{"Income", "Income"}, []string{"Bills"})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewSchema([]string{"Income"}, []string{""})
	assert.ErrorContains(t, err, "blank")
}

func TestTargets_GroupingTable(t *testing.T) {
	r := model.Record{
		Rent: 10000, LoanRepayment: 2000, Insurance: 500,
		Groceries: 4000, EatingOut: 1500, Transport: 1200,
		Entertainment: 800, Utilities: 900, Healthcare: 300,
		Education: 700, Miscellaneous: 250,
	}
	tv := Targets(r)

	assert.Equal(t, CategoryNames(), tv.Names)
	want := map[string]float64{
		CategoryEntertainment:  800,
		CategoryShopping:       900,
		CategoryHealthcare:     300,
		CategoryEducation:      700,
		CategoryFoodDining:     5500,
		CategoryTransportation: 1200,
		CategoryOther:          250,
		CategoryBills:          12500,
	}
	assert.Equal(t, want, tv.Map())
	assert.InDelta(t, 22150.0, tv.Sum(), 1e-9)
}

func TestGroups_EveryRawColumnUsedOnce(t *testing.T) {
	seen := make(map[string]int)
	for _, g := range Groups() {
		for _, c := range g.Columns {
			seen[c]++
		}
	}
	for _, col := range model.SpendingColumns {
		assert.Equal(t, 1, seen[col], col)
	}
}
