// Package collect implements the one-shot collection command.
package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/internal/bootstrap"
)

// Command returns the collect command for use in the root command.
func Command() *cobra.Command {
	var skipNotify bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run one collection pass over all sources",
		Long: `Collect fetches every configured source once, persists new records,
detects restocks, delivers pending notifications, and sends a run summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), skipNotify)
		},
	}

	cmd.Flags().BoolVar(&skipNotify, "skip-notify", false, "collect without sending notifications")

	return cmd
}

func run(ctx context.Context, skipNotify bool) error {
	deps, err := bootstrap.NewDeps(viper.GetViper())
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	store, err := bootstrap.OpenStore(deps)
	if err != nil {
		return err
	}
	defer store.Close()

	return Run(ctx, deps, store, skipNotify)
}

// Run executes one collection pass on already-assembled dependencies.
// Shared with the scheduler command so both run the identical pass.
func Run(ctx context.Context, deps *bootstrap.Deps, store *bootstrap.Store, skipNotify bool) error {
	log := deps.Logger.WithComponent("collect")
	started := time.Now()

	runner := bootstrap.BuildRunner(deps, store)
	result, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("collection run: %w", err)
	}

	log.WithDuration(time.Since(started)).Info("collection finished",
		"inserted", result.TotalInserted,
		"restocks", result.RestocksDetected)

	if skipNotify {
		return nil
	}

	notifier := bootstrap.BuildNotifier(deps, store)
	if _, drainErr := notifier.Drain(ctx); drainErr != nil {
		// Notification failure must not fail the run; events stay pending.
		log.WithError(drainErr).Error("notification drain failed")
	}
	if summaryErr := notifier.Summary(ctx, result.TotalInserted, result.RestocksDetected); summaryErr != nil {
		log.WithError(summaryErr).Error("summary notification failed")
	}

	return nil
}
