// Package config loads and saves budgetify's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/kingPercy11/Budgetify/internal/regression"
)

// Environment variables that override the config file.
const (
	EnvData        = "BUDGETIFY_DATA"
	EnvArtifactDir = "BUDGETIFY_ARTIFACT_DIR"
	EnvLogLevel    = "BUDGETIFY_LOG_LEVEL"
	EnvSeed        = "BUDGETIFY_SEED"
)

// Config holds all budgetify configuration.
type Config struct {
	Data       DataConfig       `toml:"data"`
	Training   TrainingConfig   `toml:"training"`
	Models     ModelsConfig     `toml:"models"`
	Artifacts  ArtifactsConfig  `toml:"artifacts"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// DataConfig points at the training dataset.
type DataConfig struct {
	Path string `toml:"path"`
}

// TrainingConfig controls the split and which families compete.
type TrainingConfig struct {
	TestFraction float64  `toml:"test_fraction" validate:"gt=0,lt=1"`
	Seed         int64    `toml:"seed"`
	Families     []string `toml:"families" validate:"min=1,dive,oneof=linear decision_tree random_forest gradient_boosting"`
}

// ModelsConfig holds per-family hyperparameters.
type ModelsConfig struct {
	DecisionTree     regression.Params `toml:"decision_tree"`
	RandomForest     regression.Params `toml:"random_forest"`
	GradientBoosting regression.Params `toml:"gradient_boosting"`
}

// ArtifactsConfig holds where the model, metadata and run registry live.
type ArtifactsConfig struct {
	Dir string `toml:"dir" validate:"required"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Path: "financial_data.csv",
		},
		Training: TrainingConfig{
			TestFraction: 0.2,
			Seed:         42,
			Families:     []string{string(regression.FamilyGradientBoosting)},
		},
		Models: ModelsConfig{
			DecisionTree: regression.Params{
				MaxDepth:        10,
				MinSamplesSplit: 2,
				MinSamplesLeaf:  1,
			},
			RandomForest: regression.Params{
				MaxDepth:        12,
				MinSamplesSplit: 2,
				MinSamplesLeaf:  1,
				NEstimators:     100,
			},
			GradientBoosting: regression.Params{
				MaxDepth:        5,
				MinSamplesSplit: 2,
				MinSamplesLeaf:  1,
				NEstimators:     100,
				LearningRate:    0.1,
				Subsample:       1,
			},
		},
		Artifacts: ArtifactsConfig{
			Dir: "models",
		},
		Log: LogConfig{
			Level: "info",
		},
		Appearance: AppearanceConfig{
			Theme: "ledger",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetify")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetify")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// ApplyEnv overlays BUDGETIFY_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvData); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv(EnvArtifactDir); v != "" {
		cfg.Artifacts.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Training.Seed = seed
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// FamilyParams returns the hyperparameters configured for a family. The
// training seed applies to every family.
func (c Config) FamilyParams(f regression.Family) regression.Params {
	var p regression.Params
	switch f {
	case regression.FamilyDecisionTree:
		p = c.Models.DecisionTree
	case regression.FamilyRandomForest:
		p = c.Models.RandomForest
	case regression.FamilyGradientBoosting:
		p = c.Models.GradientBoosting
	}
	p.Seed = c.Training.Seed
	return p
}

// TrainingFamilies parses the configured family names in order.
func (c Config) TrainingFamilies() ([]regression.Family, error) {
	out := make([]regression.Family, 0, len(c.Training.Families))
	for _, name := range c.Training.Families {
		f, err := regression.ParseFamily(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
