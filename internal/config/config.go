// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultLogLevel         = "INFO"
	DefaultDBFile           = "newsdesk.db"
	DefaultNewsAPIURL       = "https://newsapi.org/v2/everything"
	DefaultNewsAPILanguage  = "zh"
	DefaultNewsAPITimeout   = 30 * time.Second
	DefaultNewsAPIRate      = 1.0 // requests per second
	DefaultFetchLimit       = 5
	DefaultFetchConcurrency = 4
	DefaultPageSize         = 10
	MaxPageSize             = 100
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// NewsAPIConfig configures the external news search API.
type NewsAPIConfig struct {
	url      string
	apiKey   string
	language string
	timeout  time.Duration
	rate     float64
}

// NewNewsAPIConfig creates a new NewsAPIConfig with defaults.
func NewNewsAPIConfig() NewsAPIConfig {
	return NewsAPIConfig{
		url:      DefaultNewsAPIURL,
		language: DefaultNewsAPILanguage,
		timeout:  DefaultNewsAPITimeout,
		rate:     DefaultNewsAPIRate,
	}
}

// URL returns the search endpoint.
func (n NewsAPIConfig) URL() string { return n.url }

// APIKey returns the API key.
func (n NewsAPIConfig) APIKey() string { return n.apiKey }

// Language returns the requested article language.
func (n NewsAPIConfig) Language() string { return n.language }

// Timeout returns the request timeout.
func (n NewsAPIConfig) Timeout() time.Duration { return n.timeout }

// Rate returns the allowed requests per second.
func (n NewsAPIConfig) Rate() float64 { return n.rate }

// IsConfigured returns true if an API key is set.
func (n NewsAPIConfig) IsConfigured() bool { return n.apiKey != "" }

// WithURL returns a new config with the specified endpoint.
func (n NewsAPIConfig) WithURL(url string) NewsAPIConfig {
	n.url = url
	return n
}

// WithAPIKey returns a new config with the specified API key.
func (n NewsAPIConfig) WithAPIKey(key string) NewsAPIConfig {
	n.apiKey = key
	return n
}

// WithLanguage returns a new config with the specified language.
func (n NewsAPIConfig) WithLanguage(language string) NewsAPIConfig {
	n.language = language
	return n
}

// WithTimeout returns a new config with the specified timeout.
func (n NewsAPIConfig) WithTimeout(d time.Duration) NewsAPIConfig {
	if d > 0 {
		n.timeout = d
	}
	return n
}

// WithRate returns a new config with the specified request rate.
func (n NewsAPIConfig) WithRate(rps float64) NewsAPIConfig {
	if rps > 0 {
		n.rate = rps
	}
	return n
}

// FetchConfig configures article fetching.
type FetchConfig struct {
	limit       int
	concurrency int
	interval    time.Duration
}

// NewFetchConfig creates a new FetchConfig with defaults.
func NewFetchConfig() FetchConfig {
	return FetchConfig{
		limit:       DefaultFetchLimit,
		concurrency: DefaultFetchConcurrency,
	}
}

// Limit returns the number of articles requested per keyword.
func (f FetchConfig) Limit() int { return f.limit }

// Concurrency returns how many keywords are fetched at once.
func (f FetchConfig) Concurrency() int { return f.concurrency }

// Interval returns how often every keyword is refreshed in the background.
// Zero disables periodic fetching.
func (f FetchConfig) Interval() time.Duration { return f.interval }

// PeriodicEnabled reports whether background fetching is on.
func (f FetchConfig) PeriodicEnabled() bool { return f.interval > 0 }

// WithInterval returns a new config with the specified periodic interval.
func (f FetchConfig) WithInterval(d time.Duration) FetchConfig {
	if d >= 0 {
		f.interval = d
	}
	return f
}

// WithLimit returns a new config with the specified per-keyword limit.
func (f FetchConfig) WithLimit(n int) FetchConfig {
	if n > 0 {
		f.limit = n
	}
	return f
}

// WithConcurrency returns a new config with the specified concurrency.
func (f FetchConfig) WithConcurrency(n int) FetchConfig {
	if n > 0 {
		f.concurrency = n
	}
	return f
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host        string
	port        int
	dataDir     string
	dbURL       string
	logLevel    string
	logFormat   LogFormat
	apiKeys     []string
	corsOrigins []string
	newsAPI     NewsAPIConfig
	fetch       FetchConfig
	pageSize    int
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".newsdesk"
	}
	return filepath.Join(home, ".newsdesk")
}

// DefaultLogger returns the default slog logger for library consumers.
func DefaultLogger() *slog.Logger {
	return slog.Default()
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:        DefaultHost,
		port:        DefaultPort,
		dataDir:     dataDir,
		dbURL:       "sqlite:///" + filepath.Join(dataDir, DefaultDBFile),
		logLevel:    DefaultLogLevel,
		logFormat:   LogFormatPretty,
		apiKeys:     []string{},
		corsOrigins: []string{"*"},
		newsAPI:     NewNewsAPIConfig(),
		fetch:       NewFetchConfig(),
		pageSize:    DefaultPageSize,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	result := make([]string, len(c.apiKeys))
	copy(result, c.apiKeys)
	return result
}

// CORSOrigins returns the allowed CORS origins.
func (c AppConfig) CORSOrigins() []string {
	result := make([]string, len(c.corsOrigins))
	copy(result, c.corsOrigins)
	return result
}

// NewsAPI returns the news API config.
func (c AppConfig) NewsAPI() NewsAPIConfig { return c.newsAPI }

// Fetch returns the fetch config.
func (c AppConfig) Fetch() FetchConfig { return c.fetch }

// PageSize returns the default page size for article listings.
func (c AppConfig) PageSize() int { return c.pageSize }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	_, err := PrepareDataDir(c.dataDir)
	return err
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Update default DB URL when data dir changes
		if c.dbURL == "" || strings.HasSuffix(c.dbURL, DefaultDBFile) {
			c.dbURL = "sqlite:///" + filepath.Join(dir, DefaultDBFile)
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.corsOrigins = make([]string, len(origins))
		copy(c.corsOrigins, origins)
	}
}

// WithNewsAPIConfig sets the news API config.
func WithNewsAPIConfig(n NewsAPIConfig) AppConfigOption {
	return func(c *AppConfig) { c.newsAPI = n }
}

// WithFetchConfig sets the fetch config.
func WithFetchConfig(f FetchConfig) AppConfigOption {
	return func(c *AppConfig) { c.fetch = f }
}

// WithPageSize sets the default page size.
func WithPageSize(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 && n <= MaxPageSize {
			c.pageSize = n
		}
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("news_api_url", c.newsAPI.URL()),
		slog.Bool("news_api_configured", c.newsAPI.IsConfigured()),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Int("fetch_limit", c.fetch.Limit()),
		slog.Int("fetch_concurrency", c.fetch.Concurrency()),
		slog.Duration("fetch_interval", c.fetch.Interval()),
		slog.Int("page_size", c.pageSize),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParseList parses a comma-separated string, dropping blank entries.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	return ParseList(s)
}
