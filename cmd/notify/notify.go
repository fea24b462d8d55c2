// Package notify implements the notification drain command.
package notify

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/internal/bootstrap"
)

// Command returns the notify command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Deliver pending restock notifications",
		Long: `Notify loads restock events not yet delivered and sends them to the
configured channel. Events are flagged as notified only after delivery
succeeds, so a failed run is retried by the next one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := bootstrap.NewDeps(viper.GetViper())
			if err != nil {
				return fmt.Errorf("initialize dependencies: %w", err)
			}

			store, err := bootstrap.OpenStore(deps)
			if err != nil {
				return err
			}
			defer store.Close()

			delivered, err := bootstrap.BuildNotifier(deps, store).Drain(cmd.Context())
			if err != nil {
				return fmt.Errorf("drain notifications: %w", err)
			}

			deps.Logger.Info("notification drain finished", "delivered", delivered)
			return nil
		},
	}
}
