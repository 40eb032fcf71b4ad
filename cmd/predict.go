package cmd

import (
	"errors"
	"fmt"

	"github.com/kingPercy11/Budgetify/internal/cli"
	"github.com/kingPercy11/Budgetify/internal/model"
	"github.com/kingPercy11/Budgetify/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	predictProfile     model.Profile
	predictInteractive bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict monthly expenses for one profile",
	Example: "  budgetify predict --income 60000 --age 35 --dependents 2 --city-tier Tier_1 --occupation Salaried\n" +
		"  budgetify predict -i",
	RunE: runPredict,
}

func init() {
	bindProfileFlags(predictCmd, &predictProfile)
	predictCmd.Flags().BoolVarP(&predictInteractive, "interactive", "i", false, "Fill in the profile with a form")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(_ *cobra.Command, _ []string) error {
	profile := predictProfile
	if predictInteractive {
		var err error
		profile, err = askProfile()
		if err != nil {
			return err
		}
	}

	predictor, err := loadPredictor()
	if err != nil {
		return err
	}
	pred, err := predictor.PredictProfile(profile)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("EXPENSE FORECAST"))
	fmt.Println()
	printPrediction(pred)
	return nil
}

// bindProfileFlags registers the profile flags of a command on p.
func bindProfileFlags(cmd *cobra.Command, p *model.Profile) {
	cmd.Flags().Float64Var(&p.Income, "income", 60000, "Monthly income")
	cmd.Flags().IntVar(&p.Age, "age", 35, "Age in years")
	cmd.Flags().IntVar(&p.Dependents, "dependents", 2, "Number of dependents")
	cmd.Flags().StringVar(&p.CityTier, "city-tier", "Tier_1", "City tier (Tier_1, Tier_2, Tier_3)")
	cmd.Flags().StringVar(&p.Occupation, "occupation", "Salaried", "Occupation (Salaried, Self_Employed, Student, Retired)")
}

func askProfile() (model.Profile, error) {
	vals := tui.DefaultProfileValues()
	if err := tui.NewProfileForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return model.Profile{}, errors.New("cancelled")
		}
		return model.Profile{}, err
	}
	return vals.Profile()
}

// printPrediction renders the profile, per-category bars and the totals.
func printPrediction(pred model.Prediction) {
	p := pred.Profile
	fmt.Println(cli.RenderMuted(fmt.Sprintf("  Income %s · age %d · %d dependents · %s · %s",
		cli.FormatAmount(p.Income), p.Age, p.Dependents, p.CityTier, p.Occupation)))
	fmt.Println()

	labelW := 0
	for _, n := range pred.Categories.Names {
		if len(n) > labelW {
			labelW = len(n)
		}
	}
	ranked := pred.Categories.Ranked()
	maxAmount := 0.0
	if len(ranked) > 0 {
		maxAmount = ranked[0].Amount
	}
	for _, c := range ranked {
		fmt.Println(cli.RenderHorizontalBar(c.Category, labelW, c.Amount, maxAmount, 30,
			fmt.Sprintf("%12s  %s", cli.FormatAmount(c.Amount), cli.FormatPercent(c.Amount/p.Income))))
	}
	fmt.Println()
	fmt.Println(cli.RenderKeyValue("Total predicted expenses", 26, cli.FormatDecimal(pred.Total)))
	fmt.Println(cli.RenderKeyValue("Remaining after expenses", 26, cli.FormatDecimal(pred.Remaining)))
	for _, w := range pred.Warnings {
		fmt.Println(cli.RenderWarning(w))
	}
	fmt.Println()
}
