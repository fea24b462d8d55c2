// Package bootstrap wires configuration, storage, and services into
// runnable components for the CLI commands.
//
// Assembly follows these phases:
//   - Phase 1: Config & Logger - load configuration and create logger
//   - Phase 2: Database - connect to PostgreSQL and create repositories
//   - Phase 3: Services - build sources, collection pipeline, and notifier
package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"github.com/merchwatch/merchwatch/internal/config"
	"github.com/merchwatch/merchwatch/internal/database"
	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/fetcher"
	"github.com/merchwatch/merchwatch/internal/logger"
	"github.com/merchwatch/merchwatch/internal/notify"
	"github.com/merchwatch/merchwatch/internal/pipeline"
	"github.com/merchwatch/merchwatch/internal/sources"
)

// Deps holds the dependencies shared by every command.
type Deps struct {
	Config *config.Config
	Logger logger.Interface
}

// NewDeps loads configuration from Viper's merged view and builds the logger.
func NewDeps(v *viper.Viper) (*Deps, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &Deps{Config: cfg, Logger: log}, nil
}

// Store bundles the database handle with its repositories.
type Store struct {
	DB       *sqlx.DB
	Records  *database.InformationRepository
	Restocks *database.RestockRepository
}

// OpenStore validates store credentials and connects.
func OpenStore(deps *Deps) (*Store, error) {
	if err := deps.Config.Database.Validate(); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(&deps.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return &Store{
		DB:       db,
		Records:  database.NewInformationRepository(db),
		Restocks: database.NewRestockRepository(db),
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.DB.Close() }

// BuildSources assembles the configured collection sources in fixed order:
// social feed, storefront pages (new then restock), news site.
func BuildSources(cfg *config.CollectorConfig, log logger.Interface) []sources.Source {
	srcs := make([]sources.Source, 0, 2+len(cfg.Storefront.NewPaths)+len(cfg.Storefront.RestockPaths))

	srcs = append(srcs, sources.NewSocial(cfg.Social, cfg.MaxItems, log))

	for i, path := range cfg.Storefront.NewPaths {
		name := "storefront_new"
		if i > 0 {
			name = fmt.Sprintf("storefront_new_%d", i+1)
		}
		srcs = append(srcs, sources.NewStorefrontPage(
			name, cfg.Storefront.BaseURL, path, domain.StatusNew, cfg.MaxItems, log))
	}
	for i, path := range cfg.Storefront.RestockPaths {
		name := "storefront_restock"
		if i > 0 {
			name = fmt.Sprintf("storefront_restock_%d", i+1)
		}
		srcs = append(srcs, sources.NewStorefrontPage(
			name, cfg.Storefront.BaseURL, path, domain.StatusRestock, cfg.MaxItems, log))
	}

	srcs = append(srcs, sources.NewNews(cfg.News.URL, cfg.MaxItems, log))

	return srcs
}

// BuildRunner assembles the collection pipeline on top of an open store.
func BuildRunner(deps *Deps, store *Store) *pipeline.Runner {
	cfg := &deps.Config.Collector

	detector := pipeline.NewDetector(store.Records, store.Restocks, deps.Logger)
	gateway := pipeline.NewGateway(store.Records, detector, cfg.ItemDelay, deps.Logger)
	client := fetcher.NewClient(cfg.FetchTimeout, cfg.UserAgent, fetcher.FetchRetryPolicy)

	return pipeline.NewRunner(BuildSources(cfg, deps.Logger), client, gateway, cfg.SourceDelay, deps.Logger)
}

// BuildNotifier assembles the notification drain over an open store.
func BuildNotifier(deps *Deps, store *Store) *notify.Notifier {
	channel := notify.NewDiscordChannel(deps.Config.Notifier, deps.Logger)
	return notify.NewNotifier(store.Restocks, channel, deps.Logger)
}
