package source

import "github.com/kingPercy11/Budgetify/internal/model"

// Demographic column names in the dataset header.
const (
	ColIncome     = "Income"
	ColAge        = "Age"
	ColDependents = "Dependents"
	ColOccupation = "Occupation"
	ColCityTier   = "City_Tier"
)

// RequiredColumns must be present in every training or batch CSV.
var RequiredColumns = []string{ColIncome, ColAge, ColDependents, ColCityTier, ColOccupation}

// Header returns the full dataset header written by WriteCSV.
func Header() []string {
	h := []string{ColIncome, ColAge, ColDependents, ColOccupation, ColCityTier}
	return append(h, model.SpendingColumns...)
}
