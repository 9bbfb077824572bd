package newsdesk

import (
	"log/slog"
	"time"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL    string
	logger   *slog.Logger
	apiKeys  []string
	newsAPI  config.NewsAPIConfig
	fetch    config.FetchConfig
	pageSize int
	source   news.Source
	now      func() time.Time
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		newsAPI:  config.NewNewsAPIConfig(),
		fetch:    config.NewFetchConfig(),
		pageSize: config.DefaultPageSize,
		now:      time.Now,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite stores data in the SQLite database file at path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres stores data in PostgreSQL.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL sets the database URL directly, for example
// "sqlite:///data/newsdesk.db" or "postgres://...".
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAPIKeys sets the keys accepted for write access by the HTTP API.
func WithAPIKeys(keys ...string) Option {
	return func(c *clientConfig) {
		c.apiKeys = append([]string(nil), keys...)
	}
}

// WithNewsAPIConfig configures the NewsAPI source.
func WithNewsAPIConfig(cfg config.NewsAPIConfig) Option {
	return func(c *clientConfig) {
		c.newsAPI = cfg
	}
}

// WithSource replaces the NewsAPI source.
func WithSource(s news.Source) Option {
	return func(c *clientConfig) {
		c.source = s
	}
}

// WithFetchConfig sets fetch limits and concurrency.
func WithFetchConfig(cfg config.FetchConfig) Option {
	return func(c *clientConfig) {
		c.fetch = cfg
	}
}

// WithPageSize sets the default number of articles per page.
func WithPageSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 && n <= config.MaxPageSize {
			c.pageSize = n
		}
	}
}

// WithClock sets the clock that anchors time range filters.
func WithClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		if now != nil {
			c.now = now
		}
	}
}
