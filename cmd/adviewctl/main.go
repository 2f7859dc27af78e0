// Command adviewctl runs ad view predictions and inspects prediction history
// from the command line, using the same configuration as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errPredictionFailed marks a run whose failure message was already printed.
var errPredictionFailed = errors.New("prediction failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errPredictionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "adviewctl",
		Short: "Predict whether a user will view an advertisement",
		Long: `adviewctl scores user attributes against the deployed ad view model.

Configuration is read from ADVIEW_* environment variables and an optional .env
file, exactly as for the adview server. ADVIEW_SCORING_URL is required.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newPredictCmd(), newHistoryCmd())
	return rootCmd
}
