package features

import "github.com/kingPercy11/Budgetify/internal/model"

// Group is one canonical output category and the raw columns summed into it.
type Group struct {
	Category string
	Columns  []string
}

// Canonical output categories.
const (
	CategoryEntertainment  = "Entertainment"
	CategoryShopping       = "Shopping"
	CategoryHealthcare     = "Healthcare"
	CategoryEducation      = "Education"
	CategoryFoodDining     = "Food & Dining"
	CategoryTransportation = "Transportation"
	CategoryOther          = "Other"
	CategoryBills          = "Bills"
)

// groups is the single grouping table used at train and inference time.
var groups = []Group{
	{CategoryEntertainment, []string{model.ColEntertainment}},
	{CategoryShopping, []string{model.ColUtilities}},
	{CategoryHealthcare, []string{model.ColHealthcare}},
	{CategoryEducation, []string{model.ColEducation}},
	{CategoryFoodDining, []string{model.ColGroceries, model.ColEatingOut}},
	{CategoryTransportation, []string{model.ColTransport}},
	{CategoryOther, []string{model.ColMiscellaneous}},
	{CategoryBills, []string{model.ColRent, model.ColLoanRepayment, model.ColInsurance}},
}

// Groups returns a copy of the grouping table.
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Category: g.Category, Columns: append([]string(nil), g.Columns...)}
	}
	return out
}

// CategoryNames returns the output categories in canonical order.
func CategoryNames() []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Category
	}
	return names
}

// Targets aggregates a record's raw spending into the canonical categories.
func Targets(r model.Record) model.TargetVector {
	tv := model.TargetVector{
		Names:   CategoryNames(),
		Amounts: make([]float64, len(groups)),
	}
	for i, g := range groups {
		for _, col := range g.Columns {
			v, _ := r.Spend(col)
			tv.Amounts[i] += v
		}
	}
	return tv
}
