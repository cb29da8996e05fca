package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the speed limiter loop",
	Long: `Poll the session source on an interval and keep qBittorrent's global
transfer limits in line with Plex streaming activity. Runs until
interrupted.`,
	RunE: runLoop,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runLoop(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The baseline is informational, the loop overwrites the limits on
	// its first cycle anyway.
	if baseline, err := qbtClient.TransferLimits(ctx); err != nil {
		logger.Warn().Err(err).Msg("Could not read current transfer limits")
	} else {
		logger.Info().Stringer("limits", baseline).Msg("Current transfer limits")
	}

	logger.Info().
		Str("source", sessionSource.Name()).
		Dur("interval", cfg.Poll.Interval).
		Stringer("caps", configuredCaps()).
		Bool("dry_run", cfg.Safety.DryRun).
		Msg("Starting speed limiter")

	if err := buildLoop().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().Msg("Shutting down")
	return nil
}
