package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// writeDataset creates a temp CSV file from lines and returns its path.
func writeDataset(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func TestReadCSV_ParsesRecords(t *testing.T) {
	path := writeDataset(t,
		"Income,Age,Dependents,Occupation,City_Tier,Rent,Loan_Repayment,Insurance,Groceries,Transport,Eating_Out,Entertainment,Utilities,Healthcare,Education,Miscellaneous,Desired_Savings",
		"60000,35,2,Salaried,Tier_1,12000,0,1500,5000,2500,1800,1200,2000,1100,1500,600,9000",
		"22000.5,24,0,Student,Tier_3,3000,,200,1800,700,500,400,600,300,900,150,1000",
	)

	res, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 0, res.ParseErrors)
	require.Len(t, res.Records, 2)
	assert.Contains(t, res.Columns, "Desired_Savings")

	r := res.Records[0]
	assert.Equal(t, 60000.0, r.Income)
	assert.Equal(t, 35, r.Age)
	assert.Equal(t, 2, r.Dependents)
	assert.Equal(t, "Salaried", r.Occupation)
	assert.Equal(t, "Tier_1", r.CityTier)
	assert.Equal(t, 12000.0, r.Rent)
	assert.Equal(t, 600.0, r.Miscellaneous)

	assert.Equal(t, 22000.5, res.Records[1].Income)
	assert.Zero(t, res.Records[1].LoanRepayment, "blank numeric cell reads as zero")
}

func TestReadCSV_SkipsBadRows(t *testing.T) {
	data := strings.Join([]string{
		"Income,Age,Dependents,Occupation,City_Tier",
		"50000,30,1,Salaried,Tier_2",
		"lots,30,1,Salaried,Tier_2",
		"",
		"40000,41,3,Retired,Tier_3",
	}, "\n")

	res, rowErrs, err := ReadWithErrors(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.ParseErrors)
	assert.Len(t, res.Records, 2)
	require.Len(t, rowErrs, 1)

	var rowErr *RowError
	require.True(t, errors.As(rowErrs[0], &rowErr))
	assert.Equal(t, ColIncome, rowErr.Column)
	assert.Equal(t, 3, rowErr.Line)
}

func TestReadCSV_SkipsNonFiniteAndFractionalCells(t *testing.T) {
	data := strings.Join([]string{
		"Income,Age,Dependents,Occupation,City_Tier,Miscellaneous",
		"50000,30,1,Salaried,Tier_2,400",
		"50000,30,1,Salaried,Tier_2,NaN",
		"Inf,30,1,Salaried,Tier_2,400",
		"50000,35.7,1,Salaried,Tier_2,400",
		"50000,30,2.5,Salaried,Tier_2,400",
		"50000,30.0,2,Retired,Tier_3,-inf",
		"45000,28.0,0,Student,Tier_1,120",
	}, "\n")

	res, rowErrs, err := ReadWithErrors(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 7, res.Rows)
	assert.Equal(t, 5, res.ParseErrors)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 28, res.Records[1].Age)

	cols := make([]string, len(rowErrs))
	for i, e := range rowErrs {
		var rowErr *RowError
		require.True(t, errors.As(e, &rowErr))
		cols[i] = rowErr.Column
	}
	assert.Equal(t, []string{"Miscellaneous", ColIncome, ColAge, ColDependents, "Miscellaneous"}, cols)
	assert.ErrorIs(t, rowErrs[0], model.ErrNonFinite)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("Income,Age\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dependents")
	assert.Contains(t, err.Error(), "City_Tier")
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, model.ErrMissingFile)
}

func TestReadProfiles(t *testing.T) {
	path := writeDataset(t,
		"Income,Age,Dependents,City_Tier,Occupation",
		"80000,45,3,Tier_2,Self_Employed",
	)
	profiles, err := ReadProfiles(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, model.Profile{Income: 80000, Age: 45, Dependents: 3, CityTier: "Tier_2", Occupation: "Self_Employed"}, profiles[0])
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(50, 42)
	b := Generate(50, 42)
	c := Generate(50, 43)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	for _, r := range a {
		assert.Greater(t, r.Income, 0.0)
		assert.Greater(t, r.Age, 0)
		assert.GreaterOrEqual(t, r.Dependents, 0)
		assert.Contains(t, genOccupations, r.Occupation)
		assert.Contains(t, genCityTiers, r.CityTier)
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	records := Generate(20, 7)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	res, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ParseErrors)
	assert.Equal(t, records, res.Records)
}
