// Package config provides configuration management for the merchwatch
// application. It handles loading, validation, and access to configuration
// values from a YAML file and environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/internal/logger"
)

// Default configuration values
const (
	DefaultDBHost    = "localhost"
	DefaultDBPort    = "5432"
	DefaultDBUser    = "postgres"
	DefaultDBName    = "merchwatch"
	DefaultDBSSLMode = "disable"

	DefaultServerAddress      = ":8090"
	DefaultServerReadTimeout  = 10 * time.Second
	DefaultServerWriteTimeout = 30 * time.Second

	DefaultFetchTimeout   = 15 * time.Second
	DefaultItemDelay      = 100 * time.Millisecond
	DefaultSourceDelay    = time.Second
	DefaultMaxItems       = 20
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultScheduleSpec   = "@hourly"
	DefaultSocialAccount  = "ngnchiikawa"
	DefaultStorefrontBase = "https://chiikawamarket.jp"
	DefaultNewsURL        = "https://chiikawa-info.jp/"
)

// ErrMissingDatabaseConfig is returned when store credentials are absent.
// This is a fatal configuration failure: commands touching the store must
// exit before any work begins.
var ErrMissingDatabaseConfig = errors.New("database credentials are not configured")

// DatabaseConfig represents database connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
}

// Validate checks that the store is reachable in principle.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" || c.User == "" || c.DBName == "" {
		return ErrMissingDatabaseConfig
	}
	return nil
}

// ServerConfig holds the query API server settings.
type ServerConfig struct {
	Address      string        `yaml:"address" mapstructure:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// SocialConfig configures the social feed source.
type SocialConfig struct {
	// Mirror instances tried in order until one yields entries
	Instances []string `yaml:"instances" mapstructure:"instances"`
	Account   string   `yaml:"account" mapstructure:"account"`
}

// StorefrontConfig configures the storefront source.
type StorefrontConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Collection paths scanned for first-time listings
	NewPaths []string `yaml:"new_paths" mapstructure:"new_paths"`
	// Collection paths scanned for restocks
	RestockPaths []string `yaml:"restock_paths" mapstructure:"restock_paths"`
}

// NewsConfig configures the informational news source.
type NewsConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// CollectorConfig holds the collection run settings.
type CollectorConfig struct {
	UserAgent    string           `yaml:"user_agent" mapstructure:"user_agent"`
	FetchTimeout time.Duration    `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
	ItemDelay    time.Duration    `yaml:"item_delay" mapstructure:"item_delay"`
	SourceDelay  time.Duration    `yaml:"source_delay" mapstructure:"source_delay"`
	MaxItems     int              `yaml:"max_items" mapstructure:"max_items"`
	Social       SocialConfig     `yaml:"social" mapstructure:"social"`
	Storefront   StorefrontConfig `yaml:"storefront" mapstructure:"storefront"`
	News         NewsConfig       `yaml:"news" mapstructure:"news"`
}

// NotifierConfig holds the outbound notification channel settings.
// An empty WebhookURL leaves the notifier inert.
type NotifierConfig struct {
	WebhookURL string        `yaml:"webhook_url" mapstructure:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SchedulerConfig holds the periodic collection settings.
type SchedulerConfig struct {
	// Spec is a cron expression understood by robfig/cron
	Spec string `yaml:"spec" mapstructure:"spec"`
}

// Config represents the application configuration.
type Config struct {
	Logger    logger.Config   `yaml:"logger" mapstructure:"logger"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Collector CollectorConfig `yaml:"collector" mapstructure:"collector"`
	Notifier  NotifierConfig  `yaml:"notifier" mapstructure:"notifier"`
	Scheduler SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
}

// Load builds the configuration from Viper's merged view of defaults,
// config file, and environment variables.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyFallbacks(cfg)

	return cfg, nil
}

// setDefaults registers default values for all configuration keys.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("database.host", DefaultDBHost)
	v.SetDefault("database.port", DefaultDBPort)
	v.SetDefault("database.user", DefaultDBUser)
	v.SetDefault("database.dbname", DefaultDBName)
	v.SetDefault("database.sslmode", DefaultDBSSLMode)

	v.SetDefault("server.address", DefaultServerAddress)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)

	v.SetDefault("collector.user_agent", DefaultUserAgent)
	v.SetDefault("collector.fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("collector.item_delay", DefaultItemDelay)
	v.SetDefault("collector.source_delay", DefaultSourceDelay)
	v.SetDefault("collector.max_items", DefaultMaxItems)
	v.SetDefault("collector.social.instances", []string{
		"https://nitter.poast.org",
		"https://nitter.privacydev.net",
	})
	v.SetDefault("collector.social.account", DefaultSocialAccount)
	v.SetDefault("collector.storefront.base_url", DefaultStorefrontBase)
	v.SetDefault("collector.storefront.new_paths", []string{"/collections/newitems"})
	v.SetDefault("collector.storefront.restock_paths", []string{"/collections/resale"})
	v.SetDefault("collector.news.url", DefaultNewsURL)

	v.SetDefault("notifier.timeout", 10*time.Second)

	v.SetDefault("scheduler.spec", DefaultScheduleSpec)
}

// applyFallbacks repairs zero values that would render a component unusable.
func applyFallbacks(cfg *Config) {
	if cfg.Collector.FetchTimeout <= 0 {
		cfg.Collector.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Collector.MaxItems <= 0 {
		cfg.Collector.MaxItems = DefaultMaxItems
	}
	if cfg.Notifier.Timeout <= 0 {
		cfg.Notifier.Timeout = 10 * time.Second
	}
	if cfg.Scheduler.Spec == "" {
		cfg.Scheduler.Spec = DefaultScheduleSpec
	}
}

// Validate validates the configuration for commands that touch the store.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	return nil
}
