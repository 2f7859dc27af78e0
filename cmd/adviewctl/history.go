package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/adview/internal/application"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent predictions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			preds, err := a.predictionSvc.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(preds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No predictions recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOUTCOME\tPROBABILITY\tGENDER\tAGE\tCOUNTRY\tID")
			for _, p := range preds {
				probability := p.ProbabilityText()
				if probability == "" {
					probability = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					p.CreatedAt.Local().Format(time.DateTime),
					p.Outcome,
					probability,
					p.Input.Gender,
					p.Input.Age,
					p.Input.Country,
					p.ID,
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, fmt.Sprintf("Number of records to show (max %d)", application.MaxHistoryLimit))

	return cmd
}
