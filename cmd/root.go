package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kingPercy11/Budgetify/internal/config"
	"github.com/kingPercy11/Budgetify/internal/log"
	"github.com/kingPercy11/Budgetify/internal/pipeline"
	"github.com/kingPercy11/Budgetify/internal/store"
	"github.com/kingPercy11/Budgetify/internal/tui/theme"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagData      string
	flagArtifacts string
	flagQuiet     bool
	flagLogLevel  string
)

// Resolved by PersistentPreRunE before any command runs.
var (
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "budgetify",
	Short: "Household expense forecaster",
	Long: "Train models that predict monthly spending per category from income and\n" +
		"demographics, then use them to forecast budgets.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runInfo,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "d", "", "Training dataset CSV")
	rootCmd.PersistentFlags().StringVarP(&flagArtifacts, "artifacts", "a", "", "Directory for the model, metadata and run registry")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadSettings resolves configuration in order of precedence: flags,
// environment (including .env), config file, defaults.
func loadSettings(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	var err error
	cfg, err = config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path = flagData
	}
	if flags.Changed("artifacts") {
		cfg.Artifacts.Dir = flagArtifacts
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	lc := log.DefaultConfig()
	lc.Level = level
	logger = log.New(lc)

	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// progressf writes an in-place progress line to stderr unless --quiet.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

func registryPath() string {
	return filepath.Join(cfg.Artifacts.Dir, store.RegistryFile)
}

// loadPredictor reloads the persisted model and metadata.
func loadPredictor() (*pipeline.Predictor, error) {
	reg, meta, err := store.LoadArtifacts(cfg.Artifacts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w (run `budgetify train` first)", err)
	}
	return pipeline.NewPredictor(reg, meta, logger)
}
