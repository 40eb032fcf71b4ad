package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kingPercy11/Budgetify/internal/regression"
)

func TestLoadFrom_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Training.TestFraction != 0.2 {
		t.Errorf("TestFraction = %v, want 0.2", cfg.Training.TestFraction)
	}
	if cfg.Training.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Training.Seed)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Training.Families = []string{"linear", "random_forest"}
	cfg.Models.RandomForest.NEstimators = 25
	cfg.Artifacts.Dir = "/tmp/artifacts"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(got.Training.Families) != 2 || got.Training.Families[1] != "random_forest" {
		t.Errorf("Families = %v", got.Training.Families)
	}
	if got.Models.RandomForest.NEstimators != 25 {
		t.Errorf("NEstimators = %d, want 25", got.Models.RandomForest.NEstimators)
	}
	if got.Artifacts.Dir != "/tmp/artifacts" {
		t.Errorf("Artifacts.Dir = %q", got.Artifacts.Dir)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[training\nseed = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"fraction zero", func(c *Config) { c.Training.TestFraction = 0 }, false},
		{"fraction one", func(c *Config) { c.Training.TestFraction = 1 }, false},
		{"no families", func(c *Config) { c.Training.Families = nil }, false},
		{"bad family", func(c *Config) { c.Training.Families = []string{"svm"} }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"no artifact dir", func(c *Config) { c.Artifacts.Dir = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvData, "/data/records.csv")
	t.Setenv(EnvArtifactDir, "/var/budgetify")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvSeed, "7")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Data.Path != "/data/records.csv" || cfg.Artifacts.Dir != "/var/budgetify" {
		t.Errorf("paths not overridden: %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Training.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Training.Seed)
	}

	t.Setenv(EnvSeed, "x")
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("expected error for non-numeric seed")
	}
}

func TestFamilyParams_UsesTrainingSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Training.Seed = 99
	p := cfg.FamilyParams(regression.FamilyGradientBoosting)
	if p.Seed != 99 {
		t.Errorf("Seed = %d, want 99", p.Seed)
	}
	if p.NEstimators != 100 || p.MaxDepth != 5 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestFamilyParams_IgnoresModelSeedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[training]\nseed = 11\n\n[models.gradient_boosting]\nseed = 5\nmax_depth = 3\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	p := cfg.FamilyParams(regression.FamilyGradientBoosting)
	if p.Seed != 11 {
		t.Errorf("Seed = %d, want 11", p.Seed)
	}
	if p.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", p.MaxDepth)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, want := ConfigDir(), filepath.Join("/xdg", "budgetify"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}
