package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., NEWS_API_KEY).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.newsdesk
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/newsdesk.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of keys accepted on write endpoints.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ALLOWED_ORIGINS (default: *)
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// NewsAPI configures the external news search API.
	NewsAPI NewsAPIEnv `envconfig:"NEWS_API"`

	// Fetch configures article fetching.
	Fetch FetchEnv `envconfig:"FETCH"`

	// PageSize is the default article page size.
	// Env: PAGE_SIZE (default: 10)
	PageSize int `envconfig:"PAGE_SIZE" default:"10"`
}

// NewsAPIEnv holds environment configuration for the news API.
type NewsAPIEnv struct {
	// Key is the API key.
	// Env: NEWS_API_KEY
	Key string `envconfig:"KEY"`

	// URL is the search endpoint.
	// Env: NEWS_API_URL (default: https://newsapi.org/v2/everything)
	URL string `envconfig:"URL" default:"https://newsapi.org/v2/everything"`

	// Language is the requested article language.
	// Env: NEWS_API_LANGUAGE (default: zh)
	Language string `envconfig:"LANGUAGE" default:"zh"`

	// Timeout is the request timeout in seconds.
	// Env: NEWS_API_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`

	// Rate is the allowed requests per second.
	// Env: NEWS_API_RATE (default: 1)
	Rate float64 `envconfig:"RATE" default:"1"`
}

// FetchEnv holds environment configuration for fetching.
type FetchEnv struct {
	// Limit is the number of articles requested per keyword.
	// Env: FETCH_LIMIT (default: 5)
	Limit int `envconfig:"LIMIT" default:"5"`

	// Concurrency is how many keywords are fetched at once.
	// Env: FETCH_CONCURRENCY (default: 4)
	Concurrency int `envconfig:"CONCURRENCY" default:"4"`

	// Interval is the periodic refresh interval in minutes. Zero disables it.
	// Env: FETCH_INTERVAL (default: 0)
	Interval float64 `envconfig:"INTERVAL" default:"0"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.CORSAllowedOrigins != "" {
		cfg = applyOption(cfg, WithCORSOrigins(ParseList(e.CORSAllowedOrigins)))
	}

	cfg = applyOption(cfg, WithNewsAPIConfig(e.NewsAPI.ToNewsAPIConfig()))
	cfg = applyOption(cfg, WithFetchConfig(e.Fetch.ToFetchConfig()))

	if e.PageSize > 0 {
		cfg = applyOption(cfg, WithPageSize(e.PageSize))
	}

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToNewsAPIConfig converts NewsAPIEnv to NewsAPIConfig.
func (n NewsAPIEnv) ToNewsAPIConfig() NewsAPIConfig {
	cfg := NewNewsAPIConfig().
		WithAPIKey(n.Key).
		WithTimeout(time.Duration(n.Timeout * float64(time.Second))).
		WithRate(n.Rate)
	if n.URL != "" {
		cfg = cfg.WithURL(n.URL)
	}
	if n.Language != "" {
		cfg = cfg.WithLanguage(n.Language)
	}
	return cfg
}

// ToFetchConfig converts FetchEnv to FetchConfig.
func (f FetchEnv) ToFetchConfig() FetchConfig {
	return NewFetchConfig().
		WithLimit(f.Limit).
		WithConcurrency(f.Concurrency).
		WithInterval(time.Duration(f.Interval * float64(time.Minute)))
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
