// Package httpd implements the query API server command.
package httpd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/internal/api"
	"github.com/merchwatch/merchwatch/internal/bootstrap"
)

// Command returns the httpd command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Serve the read-only query API",
		Long: `Httpd serves collected records and recent restock events over HTTP.
The server runs until interrupted and shuts down gracefully.`,
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

			server := api.NewServer(
				&deps.Config.Server,
				store.Records,
				store.Restocks,
				store.DB,
				deps.Logger,
			)

			return server.Run(cmd.Context())
		},
	}
}
