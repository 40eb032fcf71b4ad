package tui

import (
	"testing"

	"github.com/kingPercy11/Budgetify/internal/config"
)

func TestProfileValues(t *testing.T) {
	p, err := DefaultProfileValues().Profile()
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Income != 60000 || p.Age != 35 || p.Dependents != 2 || p.CityTier != "Tier_1" {
		t.Errorf("Profile = %+v", p)
	}

	v := DefaultProfileValues()
	v.Income = "75,000"
	if p, err := v.Profile(); err != nil || p.Income != 75000 {
		t.Errorf("income with separators = %v, %v", p.Income, err)
	}
}

func TestProfileValuesErrors(t *testing.T) {
	tests := []struct {
		name string
		edit func(*ProfileValues)
	}{
		{"zero income", func(v *ProfileValues) { v.Income = "0" }},
		{"text income", func(v *ProfileValues) { v.Income = "lots" }},
		{"bad age", func(v *ProfileValues) { v.Age = "3.5" }},
		{"negative dependents", func(v *ProfileValues) { v.Dependents = "-1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DefaultProfileValues()
			tt.edit(&v)
			if _, err := v.Profile(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	if v.TestFraction != "0.2" {
		t.Errorf("TestFraction = %q", v.TestFraction)
	}

	v.DataPath = " data/train.csv "
	v.Families = []string{"linear", "random_forest"}
	v.TestFraction = "0.25"
	v.Theme = "terminal"
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Data.Path != "data/train.csv" || cfg.Training.TestFraction != 0.25 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Training.Families) != 2 || cfg.Appearance.Theme != "terminal" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestSetupValuesApplyRejects(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	v.TestFraction = "1.5"
	if err := v.Apply(&cfg); err == nil {
		t.Error("expected error for test fraction 1.5")
	}

	v = SetupValuesFrom(config.DefaultConfig())
	v.Families = nil
	if err := v.Apply(&cfg); err == nil {
		t.Error("expected error for no families")
	}

	if NewSetupForm(&v) == nil || NewProfileForm(&ProfileValues{}) == nil {
		t.Error("forms should build")
	}
}
