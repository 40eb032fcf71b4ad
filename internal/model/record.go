// Package model defines domain types for budgetify records, vectors and model metadata.
package model

// Record is one row of the household finance dataset.
type Record struct {
	Income     float64
	Age        int
	Dependents int
	Occupation string
	CityTier   string

	// Raw spending sub-categories.
	Rent          float64
	LoanRepayment float64
	Insurance     float64
	Groceries     float64
	Transport     float64
	EatingOut     float64
	Entertainment float64
	Utilities     float64
	Healthcare    float64
	Education     float64
	Miscellaneous float64
}

// Raw spending column names as they appear in the dataset header.
const (
	ColRent          = "Rent"
	ColLoanRepayment = "Loan_Repayment"
	ColInsurance     = "Insurance"
	ColGroceries     = "Groceries"
	ColTransport     = "Transport"
	ColEatingOut     = "Eating_Out"
	ColEntertainment = "Entertainment"
	ColUtilities     = "Utilities"
	ColHealthcare    = "Healthcare"
	ColEducation     = "Education"
	ColMiscellaneous = "Miscellaneous"
)

// SpendingColumns lists the raw sub-category columns in dataset order.
var SpendingColumns = []string{
	ColRent, ColLoanRepayment, ColInsurance, ColGroceries, ColTransport, ColEatingOut,
	ColEntertainment, ColUtilities, ColHealthcare, ColEducation, ColMiscellaneous,
}

// Spend returns the amount recorded for a raw spending column.
func (r Record) Spend(col string) (float64, bool) {
	switch col {
	case ColRent:
		return r.Rent, true
	case ColLoanRepayment:
		return r.LoanRepayment, true
	case ColInsurance:
		return r.Insurance, true
	case ColGroceries:
		return r.Groceries, true
	case ColTransport:
		return r.Transport, true
	case ColEatingOut:
		return r.EatingOut, true
	case ColEntertainment:
		return r.Entertainment, true
	case ColUtilities:
		return r.Utilities, true
	case ColHealthcare:
		return r.Healthcare, true
	case ColEducation:
		return r.Education, true
	case ColMiscellaneous:
		return r.Miscellaneous, true
	}
	return 0, false
}

// SetSpend assigns a raw spending column. Unknown columns are ignored.
func (r *Record) SetSpend(col string, v float64) bool {
	switch col {
	case ColRent:
		r.Rent = v
	case ColLoanRepayment:
		r.LoanRepayment = v
	case ColInsurance:
		r.Insurance = v
	case ColGroceries:
		r.Groceries = v
	case ColTransport:
		r.Transport = v
	case ColEatingOut:
		r.EatingOut = v
	case ColEntertainment:
		r.Entertainment = v
	case ColUtilities:
		r.Utilities = v
	case ColHealthcare:
		r.Healthcare = v
	case ColEducation:
		r.Education = v
	case ColMiscellaneous:
		r.Miscellaneous = v
	default:
		return false
	}
	return true
}

// Profile returns the demographic part of the record.
func (r Record) Profile() Profile {
	return Profile{
		Income:     r.Income,
		Age:        r.Age,
		Dependents: r.Dependents,
		CityTier:   r.CityTier,
		Occupation: r.Occupation,
	}
}
