package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// FeatureVector is an ordered mapping of input feature names to values.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Get returns the value of a named feature.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// TargetVector is an ordered mapping of category names to amounts.
type TargetVector struct {
	Names   []string
	Amounts []float64
}

// Get returns the amount of a named category.
func (v TargetVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Amounts[i], true
		}
	}
	return 0, false
}

// Sum returns the total of all amounts.
func (v TargetVector) Sum() float64 {
	var total float64
	for _, a := range v.Amounts {
		total += a
	}
	return total
}

// Map returns the vector as a name -> amount map.
func (v TargetVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, n := range v.Names {
		m[n] = v.Amounts[i]
	}
	return m
}

// CategoryAmount is one entry of a ranked prediction.
type CategoryAmount struct {
	Category string
	Amount   float64
}

// Ranked returns the categories sorted by amount, largest first.
// Ties keep their vector order.
func (v TargetVector) Ranked() []CategoryAmount {
	out := make([]CategoryAmount, len(v.Names))
	for i, n := range v.Names {
		out[i] = CategoryAmount{Category: n, Amount: v.Amounts[i]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// Prediction is a Category Target Vector with the derived reporting figures.
type Prediction struct {
	Profile    Profile
	Categories TargetVector
	Total      decimal.Decimal
	Remaining  decimal.Decimal
	Warnings   []string
}

// NewPrediction derives the total and remaining-after-expenses figures at cent precision.
// Non-finite amounts cannot be represented as money and are rejected.
func NewPrediction(p Profile, categories TargetVector) (Prediction, error) {
	if math.IsNaN(p.Income) || math.IsInf(p.Income, 0) {
		return Prediction{}, fmt.Errorf("income: %w", ErrNonFinite)
	}
	total := decimal.Zero
	for i, a := range categories.Amounts {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return Prediction{}, fmt.Errorf("category %s: %w", categories.Names[i], ErrNonFinite)
		}
		total = total.Add(decimal.NewFromFloat(a))
	}
	total = total.Round(2)
	return Prediction{
		Profile:    p,
		Categories: categories,
		Total:      total,
		Remaining:  decimal.NewFromFloat(p.Income).Round(2).Sub(total),
	}, nil
}
