package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kingPercy11/Budgetify/internal/config"
	"github.com/kingPercy11/Budgetify/internal/features"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/regression"
	"github.com/kingPercy11/Budgetify/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// ProfileValues holds the raw text of the profile form.
type ProfileValues struct {
	Income     string
	Age        string
	Dependents string
	CityTier   string
	Occupation string
}

// DefaultProfileValues returns the form's starting values.
func DefaultProfileValues() ProfileValues {
	return ProfileValues{
		Income:     "60000",
		Age:        "35",
		Dependents: "2",
		CityTier:   "Tier_1",
		Occupation: "Salaried",
	}
}

// Profile parses the form values into a validated profile.
func (v ProfileValues) Profile() (model.Profile, error) {
	income, err := parsePositive(v.Income)
	if err != nil {
		return model.Profile{}, fmt.Errorf("income: %w", err)
	}
	age, err := strconv.Atoi(strings.TrimSpace(v.Age))
	if err != nil {
		return model.Profile{}, fmt.Errorf("age: %w", err)
	}
	deps, err := strconv.Atoi(strings.TrimSpace(v.Dependents))
	if err != nil {
		return model.Profile{}, fmt.Errorf("dependents: %w", err)
	}
	p := model.Profile{
		Income:     income,
		Age:        age,
		Dependents: deps,
		CityTier:   v.CityTier,
		Occupation: v.Occupation,
	}
	if err := p.Validate(); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// NewProfileForm builds the interactive prediction form bound to v.
func NewProfileForm(v *ProfileValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly income").
				Value(&v.Income).
				Validate(func(s string) error {
					_, err := parsePositive(s)
					return err
				}),
			huh.NewInput().
				Title("Age").
				Value(&v.Age).
				Validate(intRange(1, 130)),
			huh.NewInput().
				Title("Dependents").
				Value(&v.Dependents).
				Validate(intRange(0, 50)),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("City tier").
				Options(huh.NewOptions(features.CityTiers()...)...).
				Value(&v.CityTier),
			huh.NewSelect[string]().
				Title("Occupation").
				Options(huh.NewOptions(features.Occupations()...)...).
				Value(&v.Occupation),
		).Title("Location & work"),
	).WithTheme(huh.ThemeCharm())
}

// SetupValues holds the raw values of the setup wizard.
type SetupValues struct {
	DataPath     string
	ArtifactDir  string
	Families     []string
	TestFraction string
	Theme        string
	LogLevel     string
}

// SetupValuesFrom seeds the wizard from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		DataPath:     cfg.Data.Path,
		ArtifactDir:  cfg.Artifacts.Dir,
		Families:     append([]string(nil), cfg.Training.Families...),
		TestFraction: strconv.FormatFloat(cfg.Training.TestFraction, 'f', -1, 64),
		Theme:        cfg.Appearance.Theme,
		LogLevel:     cfg.Log.Level,
	}
}

// Apply writes the wizard values into cfg and validates the result.
func (v SetupValues) Apply(cfg *config.Config) error {
	frac, err := strconv.ParseFloat(strings.TrimSpace(v.TestFraction), 64)
	if err != nil {
		return fmt.Errorf("test fraction: %w", err)
	}
	cfg.Data.Path = strings.TrimSpace(v.DataPath)
	cfg.Artifacts.Dir = strings.TrimSpace(v.ArtifactDir)
	cfg.Training.Families = append([]string(nil), v.Families...)
	cfg.Training.TestFraction = frac
	cfg.Appearance.Theme = v.Theme
	cfg.Log.Level = v.LogLevel
	return cfg.Validate()
}

// NewSetupForm builds the setup wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	familyOpts := make([]huh.Option[string], 0, len(regression.Families()))
	for _, f := range regression.Families() {
		familyOpts = append(familyOpts, huh.NewOption(string(f), string(f)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Training data").
				Description("CSV with Income, Age, Dependents, Occupation, City_Tier and spending columns").
				Value(&v.DataPath).
				Validate(notBlank),
			huh.NewInput().
				Title("Artifact directory").
				Description("Where the model, its metadata and the run registry are written").
				Value(&v.ArtifactDir).
				Validate(notBlank),
		).Title("Paths"),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Model families").
				Options(familyOpts...).
				Value(&v.Families).
				Validate(func(fs []string) error {
					if len(fs) == 0 {
						return errors.New("pick at least one family")
					}
					return nil
				}),
			huh.NewInput().
				Title("Test fraction").
				Value(&v.TestFraction).
				Validate(func(s string) error {
					f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || f <= 0 || f >= 1 {
						return errors.New("must be between 0 and 1")
					}
					return nil
				}),
		).Title("Training"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&v.LogLevel),
		).Title("Appearance"),
	).WithTheme(huh.ThemeCharm())
}

func parsePositive(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if f <= 0 {
		return 0, errors.New("must be greater than 0")
	}
	return f, nil
}

func intRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("not a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
