package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/merchwatch/merchwatch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	cfg, err := config.Load(v)
	require.NoError(t, err)

	require.Equal(t, config.DefaultDBHost, cfg.Database.Host)
	require.Equal(t, config.DefaultServerAddress, cfg.Server.Address)
	require.Equal(t, config.DefaultMaxItems, cfg.Collector.MaxItems)
	require.Equal(t, config.DefaultScheduleSpec, cfg.Scheduler.Spec)
	require.NotEmpty(t, cfg.Collector.Social.Instances)
	require.Equal(t, config.DefaultStorefrontBase, cfg.Collector.Storefront.BaseURL)
	require.Empty(t, cfg.Notifier.WebhookURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("database.host", "db.internal")
	v.Set("database.password", "secret")
	v.Set("collector.max_items", 50)
	v.Set("notifier.webhook_url", "https://discord.test/webhook")

	cfg, err := config.Load(v)
	require.NoError(t, err)

	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "secret", cfg.Database.Password)
	require.Equal(t, 50, cfg.Collector.MaxItems)
	require.Equal(t, "https://discord.test/webhook", cfg.Notifier.WebhookURL)
}

func TestDatabaseConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantErr bool
	}{
		{
			name: "complete configuration",
			cfg: config.DatabaseConfig{
				Host: "localhost", User: "postgres", DBName: "merchwatch",
			},
			wantErr: false,
		},
		{
			name:    "missing host",
			cfg:     config.DatabaseConfig{User: "postgres", DBName: "merchwatch"},
			wantErr: true,
		},
		{
			name:    "missing dbname",
			cfg:     config.DatabaseConfig{Host: "localhost", User: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrMissingDatabaseConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}
