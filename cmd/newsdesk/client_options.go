package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/internal/config"
	"github.com/helixml/newsdesk/internal/log"
)

// clientOptions returns the newsdesk.Option slice derived from AppConfig.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []newsdesk.Option {
	opts := []newsdesk.Option{
		storageOption(cfg),
		newsdesk.WithLogger(logger),
		newsdesk.WithNewsAPIConfig(cfg.NewsAPI()),
		newsdesk.WithFetchConfig(cfg.Fetch()),
		newsdesk.WithPageSize(cfg.PageSize()),
	}
	if keys := cfg.APIKeys(); len(keys) > 0 {
		opts = append(opts, newsdesk.WithAPIKeys(keys...))
	}
	return opts
}

// storageOption returns the database option for the configured URL.
func storageOption(cfg config.AppConfig) newsdesk.Option {
	dbURL := cfg.DBURL()
	if dbURL == "" {
		return newsdesk.WithSQLite(cfg.DataDir() + "/" + config.DefaultDBFile)
	}
	if isSQLite(dbURL) {
		return newsdesk.WithDatabaseURL(dbURL)
	}
	return newsdesk.WithPostgres(dbURL)
}

// isSQLite checks if the database URL is for SQLite.
func isSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite:")
}

// openClient loads configuration, sets up logging and opens a client.
func openClient(envFile string, overrides ...config.AppConfigOption) (*newsdesk.Client, config.AppConfig, error) {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return nil, config.AppConfig{}, err
	}
	cfg = cfg.Apply(overrides...)

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, config.AppConfig{}, fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(context.Background(), slog.LevelDebug, "configuration loaded", attrs...)

	client, err := newsdesk.New(clientOptions(cfg, logger)...)
	if err != nil {
		return nil, config.AppConfig{}, fmt.Errorf("create newsdesk client: %w", err)
	}
	return client, cfg, nil
}

func closeClient(client *newsdesk.Client) {
	if err := client.Close(); err != nil {
		client.Logger().Error("failed to close newsdesk client", slog.Any("error", err))
	}
}
