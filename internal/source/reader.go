// Package source reads and generates household finance datasets in CSV form.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/model"
)

// ParseResult holds the output of reading a dataset.
type ParseResult struct {
	Records     []model.Record
	Rows        int // data rows seen, including skipped ones
	ParseErrors int
	Columns     []string
}

// RowError describes a skipped row.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ReadCSV reads a dataset file. Extra columns are ignored; rows whose numeric
// cells cannot be parsed are counted and skipped.
func ReadCSV(path string) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ParseResult{}, fmt.Errorf("%w: %s", model.ErrMissingFile, path)
		}
		return ParseResult{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}

// Read parses a dataset from r.
func Read(r io.Reader) (ParseResult, error) {
	res, _, err := read(r)
	return res, err
}

// ReadWithErrors parses a dataset and also returns the error of each skipped row.
func ReadWithErrors(r io.Reader) (ParseResult, []error, error) {
	return read(r)
}

func read(r io.Reader) (ParseResult, []error, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}, nil, errors.New("dataset is empty")
		}
		return ParseResult{}, nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[i] = name
		index[name] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return ParseResult{}, nil, fmt.Errorf("dataset missing required columns: %s", strings.Join(missing, ", "))
	}

	res := ParseResult{Columns: header}
	var rowErrs []error

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			res.Rows++
			res.ParseErrors++
			rowErrs = append(rowErrs, &RowError{Line: line, Column: "*", Err: err})
			continue
		}
		line, _ := cr.FieldPos(0)
		if isBlank(row) {
			continue
		}
		res.Rows++

		rec, rerr := parseRow(row, index, line)
		if rerr != nil {
			res.ParseErrors++
			rowErrs = append(rowErrs, rerr)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	return res, rowErrs, nil
}

func parseRow(row []string, index map[string]int, line int) (model.Record, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec model.Record
	var err error

	if rec.Income, err = parseNumber(cell(ColIncome)); err != nil {
		return rec, &RowError{Line: line, Column: ColIncome, Err: err}
	}
	if rec.Age, err = parseCount(cell(ColAge)); err != nil {
		return rec, &RowError{Line: line, Column: ColAge, Err: err}
	}
	if rec.Dependents, err = parseCount(cell(ColDependents)); err != nil {
		return rec, &RowError{Line: line, Column: ColDependents, Err: err}
	}
	rec.Occupation = cell(ColOccupation)
	rec.CityTier = cell(ColCityTier)

	for _, col := range model.SpendingColumns {
		v, err := parseNumber(cell(col))
		if err != nil {
			return rec, &RowError{Line: line, Column: col, Err: err}
		}
		rec.SetSpend(col, v)
	}
	return rec, nil
}

// parseNumber treats blank cells as zero. NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, model.ErrNonFinite)
	}
	return v, nil
}

// parseCount parses a whole-number cell such as 35 or 2.0.
func parseCount(s string) (int, error) {
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(v), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadProfiles reads a CSV of prediction inputs. Only the required columns are
// used; spending columns may be absent.
func ReadProfiles(path string) ([]model.Profile, error) {
	res, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	if res.ParseErrors > 0 {
		return nil, fmt.Errorf("%d of %d rows in %s could not be parsed", res.ParseErrors, res.Rows, path)
	}
	profiles := make([]model.Profile, len(res.Records))
	for i, r := range res.Records {
		profiles[i] = r.Profile()
	}
	return profiles, nil
}
