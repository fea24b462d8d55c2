// Package scheduler implements the periodic collection command.
package scheduler

import (
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/cmd/collect"
	"github.com/merchwatch/merchwatch/internal/bootstrap"
)

// Command returns the scheduler command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run collection on a schedule",
		Long: `Scheduler runs the collection pass on a cron schedule and keeps running
until interrupted. A tick arriving while the previous pass is still in
flight is skipped.`,
		RunE: runScheduler,
	}
}

func runScheduler(cmd *cobra.Command, _ []string) error {
	deps, err := bootstrap.NewDeps(viper.GetViper())
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	store, err := bootstrap.OpenStore(deps)
	if err != nil {
		return err
	}
	defer store.Close()

	log := deps.Logger.WithComponent("scheduler")
	ctx := cmd.Context()

	// Overlap guard: a long pass must not stack with the next tick.
	var running atomic.Bool

	scheduler := cron.New()
	spec := deps.Config.Scheduler.Spec
	_, err = scheduler.AddFunc(spec, func() {
		if !running.CompareAndSwap(false, true) {
			log.Warn("previous collection pass still running, skipping tick")
			return
		}
		defer running.Store(false)

		if runErr := collect.Run(ctx, deps, store, false); runErr != nil {
			log.WithError(runErr).Error("scheduled collection pass failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule spec %q: %w", spec, err)
	}

	log.Info("scheduler started", "spec", spec)
	scheduler.Start()

	<-ctx.Done()
	log.Info("shutdown signal received")

	// Wait for an in-flight pass to finish before exiting.
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	log.Info("scheduler stopped")
	return nil
}
