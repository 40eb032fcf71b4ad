package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/kingPercy11/Budgetify/internal/model"
)

var (
	genOccupations = []string{"Salaried", "Self_Employed", "Student", "Retired"}
	genCityTiers   = []string{"Tier_1", "Tier_2", "Tier_3"}
)

// tierCost scales housing and transport by city tier.
var tierCost = map[string]float64{"Tier_1": 1.3, "Tier_2": 1.0, "Tier_3": 0.75}

// Generate returns n synthetic records. Spending scales with income, city
// tier and dependents; the same non-zero seed always yields the same
// records. A zero seed draws a random one.
func Generate(n int, seed uint64) []model.Record {
	f := gofakeit.New(seed)
	out := make([]model.Record, n)
	for i := range out {
		out[i] = generateRecord(f)
	}
	return out
}

func generateRecord(f *gofakeit.Faker) model.Record {
	occ := f.RandomString(genOccupations)
	tier := f.RandomString(genCityTiers)

	var age int
	var income float64
	switch occ {
	case "Student":
		age = f.IntRange(18, 26)
		income = f.Float64Range(5000, 25000)
	case "Retired":
		age = f.IntRange(60, 80)
		income = f.Float64Range(15000, 60000)
	case "Self_Employed":
		age = f.IntRange(25, 60)
		income = f.Float64Range(20000, 150000)
	default:
		age = f.IntRange(22, 60)
		income = f.Float64Range(20000, 120000)
	}
	deps := 0
	if occ != "Student" {
		deps = f.IntRange(0, 4)
	}

	scale := tierCost[tier]
	family := 1 + 0.15*float64(deps)
	share := func(lo, hi float64) float64 {
		return round2(income * f.Float64Range(lo, hi))
	}

	r := model.Record{
		Income:     round2(income),
		Age:        age,
		Dependents: deps,
		Occupation: occ,
		CityTier:   tier,
	}
	r.Rent = round2(income * f.Float64Range(0.15, 0.25) * scale)
	if occ == "Self_Employed" || f.Float64Range(0, 1) < 0.3 {
		r.LoanRepayment = share(0.05, 0.15)
	}
	r.Insurance = share(0.02, 0.05)
	r.Groceries = round2(income * f.Float64Range(0.08, 0.12) * family)
	r.Transport = round2(income * f.Float64Range(0.04, 0.08) * scale)
	r.EatingOut = share(0.03, 0.07)
	r.Entertainment = share(0.02, 0.06)
	r.Utilities = round2(income * f.Float64Range(0.03, 0.06) * scale)
	r.Healthcare = round2(income * f.Float64Range(0.02, 0.05) * family)
	if deps > 0 || occ == "Student" {
		r.Education = round2(income * f.Float64Range(0.03, 0.08) * family)
	}
	r.Miscellaneous = share(0.01, 0.04)
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteCSV writes records with the dataset header to w.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	row := make([]string, 0, len(Header()))
	for _, r := range records {
		row = row[:0]
		row = append(row,
			formatFloat(r.Income),
			strconv.Itoa(r.Age),
			strconv.Itoa(r.Dependents),
			r.Occupation,
			r.CityTier,
		)
		for _, col := range model.SpendingColumns {
			v, _ := r.Spend(col)
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to path, creating its directory.
func WriteCSVFile(path string, records []model.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dataset dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dataset: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing dataset: %w", err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
