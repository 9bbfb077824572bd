// Package newsapi searches the NewsAPI "everything" endpoint for articles.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/internal/config"
)

// removedTitle marks articles the provider has withdrawn.
const removedTitle = "[Removed]"

// ErrMissingAPIKey indicates the client has no API key configured.
var ErrMissingAPIKey = errors.New("news api key is not configured")

// StatusError reports a non-200 response for a keyword.
type StatusError struct {
	Keyword    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch keyword %s failed, status %d", e.Keyword, e.StatusCode)
}

// Client implements news.Source over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option is a functional option for Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, including its rate limiting.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a Client from configuration. Requests share one
// token bucket sized by cfg.Rate().
func NewClient(cfg config.NewsAPIConfig, opts ...Option) *Client {
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate()), 1)
	c := &Client{
		baseURL:  cfg.URL(),
		apiKey:   cfg.APIKey(),
		language: cfg.Language(),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: NewLimitedTransport(limiter, nil),
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	Status   string       `json:"status"`
	Articles []searchItem `json:"articles"`
}

type searchItem struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"publishedAt"`
}

// Search returns up to limit of the newest articles matching term.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]news.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fetch keyword %s: %w", term, ErrMissingAPIKey)
	}
	if limit <= 0 {
		limit = config.DefaultFetchLimit
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse news api url: %w", err)
	}
	q := endpoint.Query()
	q.Set("q", term)
	q.Set("apiKey", c.apiKey)
	q.Set("language", c.language)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(limit))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch keyword %s: %w", term, redact(err, c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Keyword: term, StatusCode: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response for keyword %s: %w", term, err)
	}

	articles := make([]news.Article, 0, len(body.Articles))
	for _, item := range body.Articles {
		if strings.TrimSpace(item.URL) == "" || item.Title == removedTitle {
			continue
		}
		var description string
		if item.Description != nil {
			description = CleanHTML(*item.Description)
		}
		articles = append(articles, news.NewArticle(
			CleanHTML(item.Title),
			description,
			strings.TrimSpace(item.URL),
			item.Source.Name,
			ParsePublishedAt(item.PublishedAt),
		))
	}

	c.logger.Debug("news search complete",
		slog.String("keyword", term),
		slog.Int("results", len(articles)),
	)
	return articles, nil
}

// CleanHTML strips markup and collapses whitespace.
func CleanHTML(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// ParsePublishedAt parses an RFC 3339 timestamp. Unparseable input yields
// the zero time, meaning unknown.
func ParsePublishedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// redact removes the API key from transport errors, which embed the URL.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "***"))
}
