package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/adview/internal/domain/model"
)

func newPredictCmd() *cobra.Command {
	var (
		input  model.InputRecord
		gender string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run one prediction",
		Long: `Exchange the API key for a token, score the given attributes and print
the outcome followed by the probability of viewing.

Exits with status 1 if the input is invalid or the prediction fails.`,
		Example: `  adviewctl predict --daily-time 68.95 --age 35 --area-income 61833.90 \
    --daily-internet-use 256.09 --ad-topic-line "Cloned 5thgeneration orchestration" \
    --city Wrightburgh --gender Female --country Tunisia --timestamp "2016-03-27 00:53:11"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input.Gender = model.Gender(gender)

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			pred, err := a.predictionSvc.Predict(cmd.Context(), input)
			if err != nil {
				if !pred.Succeeded() && pred.ErrorMessage != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), pred.ErrorMessage)
					return errPredictionFailed
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pred.Outcome.Message())
			fmt.Fprintf(out, "Probability of viewing: %s\n", pred.ProbabilityText())
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&input.DailyTimeSpent, "daily-time", 0, "Daily time spent on site (minutes)")
	f.IntVar(&input.Age, "age", 0, "Age (0-120)")
	f.Float64Var(&input.AreaIncome, "area-income", 0, "Area income")
	f.Float64Var(&input.DailyInternetUse, "daily-internet-use", 0, "Daily internet use (minutes)")
	f.StringVar(&input.AdTopicLine, "ad-topic-line", "", "Advertisement topic line")
	f.StringVar(&input.City, "city", "", "City")
	f.StringVar(&gender, "gender", string(model.GenderMale), "Gender (Male or Female)")
	f.StringVar(&input.Country, "country", "", "Country name")
	f.StringVar(&input.Timestamp, "timestamp", "", "Timestamp (YYYY-MM-DD HH:MM:SS)")

	return cmd
}
