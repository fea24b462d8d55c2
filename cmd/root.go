// Package cmd implements the command-line interface for merchwatch.
// It provides the root command and subcommands for running collection,
// notification, scheduling, and the query API.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcollect "github.com/merchwatch/merchwatch/cmd/collect"
	cmdhttpd "github.com/merchwatch/merchwatch/cmd/httpd"
	cmdnotify "github.com/merchwatch/merchwatch/cmd/notify"
	cmdrecords "github.com/merchwatch/merchwatch/cmd/records"
	cmdscheduler "github.com/merchwatch/merchwatch/cmd/scheduler"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "merchwatch",
		Short: "Merchandise information collector and restock watcher",
		Long: `Merchwatch collects merchandise postings from a storefront, a social
feed, and a news site, deduplicates them into one store, detects restocks,
and sends notifications.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command. It blocks until the invoked subcommand
// finishes or an interrupt signal arrives.
func Execute() error {
	// Load .env early so environment variables are available to Viper
	_ = godotenv.Load()

	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("initialize configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "merchwatch version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdcollect.Command())
	rootCmd.AddCommand(cmdnotify.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
	rootCmd.AddCommand(cmdhttpd.Command())
	rootCmd.AddCommand(cmdrecords.Command())
}

// initConfig reads the config file and environment variables into Viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment variables take precedence over the config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(); err != nil {
		return err
	}

	// Config file is optional; defaults and environment variables suffice
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: config file not loaded: %v\n", err)
		}
	}

	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"logger.level":         {"LOG_LEVEL"},
		"logger.encoding":      {"LOG_FORMAT"},
		"database.host":        {"DATABASE_HOST", "DB_HOST"},
		"database.port":        {"DATABASE_PORT", "DB_PORT"},
		"database.user":        {"DATABASE_USER", "DB_USER"},
		"database.password":    {"DATABASE_PASSWORD", "DB_PASSWORD"},
		"database.dbname":      {"DATABASE_NAME", "DB_NAME"},
		"database.sslmode":     {"DATABASE_SSLMODE"},
		"notifier.webhook_url": {"DISCORD_WEBHOOK_URL"},
		"scheduler.spec":       {"SCHEDULE_SPEC"},
		"server.address":       {"SERVER_ADDRESS"},
	}

	for key, envVars := range bindings {
		args := append([]string{key}, envVars...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	return nil
}
