// Package newsdesk ingests news articles, links them to industries and
// keywords, and filters them.
//
// Basic usage:
//
//	client, err := newsdesk.New(
//	    newsdesk.WithSQLite(".newsdesk/newsdesk.db"),
//	    newsdesk.WithNewsAPIConfig(config.NewNewsAPIConfig().WithAPIKey(key)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, err := client.Ingest.Refresh(ctx, service.RefreshRequest{Industry: "科技"})
//
//	predicate, err := client.Filter.BuildPredicate("科技", []string{"AI"}, "week")
//	result, err := client.Filter.Query(ctx, predicate)
package newsdesk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/helixml/newsdesk/application/service"
	"github.com/helixml/newsdesk/infrastructure/newsapi"
	"github.com/helixml/newsdesk/infrastructure/persistence"
	"github.com/helixml/newsdesk/internal/config"
	"github.com/helixml/newsdesk/internal/database"
)

// Connection pool limits. SQLite keeps a single connection.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Client is the main entry point for the newsdesk library.
//
// Access services via struct fields:
//
//	client.Entities.Industries(ctx)
//	client.Ingest.Fetch(ctx, []string{"AI"}, 5)
//	client.Filter.Query(ctx, predicate)
type Client struct {
	Entities *service.Entities
	Linker   *service.Linker
	Filter   *service.Filter
	Ingest   *service.Ingest
	Seeder   *service.Seeder
	Periodic *service.PeriodicFetch

	db       database.Database
	logger   *slog.Logger
	apiKeys  []string
	pageSize int
	closed   atomic.Bool
	mu       sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = config.DefaultLogger()
	}

	ctx := context.Background()
	db, err := database.NewDatabaseWithLogger(ctx, cfg.dbURL, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.ConfigurePool(maxOpenConns, maxIdleConns, connMaxLifetime); err != nil {
		errClose := db.Close()
		return nil, errors.Join(err, errClose)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	industryStore := persistence.NewIndustryStore(db)
	keywordStore := persistence.NewKeywordStore(db)
	articleStore := persistence.NewArticleStore(db)

	source := cfg.source
	if source == nil {
		source = newsapi.NewClient(cfg.newsAPI, newsapi.WithLogger(logger))
	}

	client := &Client{
		db:       db,
		logger:   logger,
		apiKeys:  cfg.apiKeys,
		pageSize: cfg.pageSize,
	}

	client.Entities = service.NewEntities(industryStore, keywordStore, logger)
	client.Linker = service.NewLinker(articleStore, industryStore, keywordStore, logger)
	client.Filter = service.NewFilter(articleStore, industryStore, keywordStore, logger).WithClock(cfg.now)
	client.Ingest = service.NewIngest(articleStore, client.Entities, client.Linker, source, logger,
		service.WithFetchConcurrency(cfg.fetch.Concurrency()),
		service.WithFetchLimit(cfg.fetch.Limit()),
	)
	client.Seeder = service.NewSeeder(client.Entities, logger)
	client.Periodic = service.NewPeriodicFetch(cfg.fetch, client.Ingest, logger)

	return client, nil
}

// Close stops periodic fetching and releases the database.
// A second call returns ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Periodic.Stop()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("newsdesk client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// APIKeys returns the keys accepted for write access.
func (c *Client) APIKeys() []string {
	return append([]string(nil), c.apiKeys...)
}

// PageSize returns the default number of articles per page.
func (c *Client) PageSize() int {
	return c.pageSize
}
