package news

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidArticle indicates an article without a URL or title.
var ErrInvalidArticle = errors.New("article requires url and title")

// Article is an ingested news item. Its industry and keyword links are
// derived state owned by the linking engine.
type Article struct {
	id          int64
	title       string
	description string
	url         string
	source      string
	publishedAt time.Time
	createdAt   time.Time
}

// NewArticle creates a new article. A zero publishedAt means unknown.
func NewArticle(title, description, url, source string, publishedAt time.Time) Article {
	if !publishedAt.IsZero() {
		publishedAt = publishedAt.UTC()
	}
	return Article{
		title:       title,
		description: description,
		url:         url,
		source:      source,
		publishedAt: publishedAt,
		createdAt:   time.Now().UTC(),
	}
}

// ReconstructArticle recreates an article from persistence.
func ReconstructArticle(id int64, title, description, url, source string, publishedAt, createdAt time.Time) Article {
	return Article{
		id:          id,
		title:       title,
		description: description,
		url:         url,
		source:      source,
		publishedAt: publishedAt,
		createdAt:   createdAt,
	}
}

// ID returns the article identifier.
func (a Article) ID() int64 { return a.id }

// Title returns the headline.
func (a Article) Title() string { return a.title }

// Description returns the summary, or "" when absent.
func (a Article) Description() string { return a.description }

// URL returns the natural deduplication key.
func (a Article) URL() string { return a.url }

// Source returns the publisher name.
func (a Article) Source() string { return a.source }

// PublishedAt returns the publication time, zero when unknown.
func (a Article) PublishedAt() time.Time { return a.publishedAt }

// HasPublishedAt reports whether the publication time is known.
func (a Article) HasPublishedAt() bool { return !a.publishedAt.IsZero() }

// CreatedAt returns when the article was first stored.
func (a Article) CreatedAt() time.Time { return a.createdAt }

// Validate reports whether the article can be stored.
func (a Article) Validate() error {
	if strings.TrimSpace(a.url) == "" || strings.TrimSpace(a.title) == "" {
		return ErrInvalidArticle
	}
	return nil
}

// SearchText returns the whole-token matching buffer for this article.
func (a Article) SearchText() string {
	return SearchBuffer(a.title, a.description)
}

// Links are the entities currently associated with an article.
type Links struct {
	Industries []Industry
	Keywords   []Keyword
}

// IndustryIDs returns the linked industry identifiers.
func (l Links) IndustryIDs() []int64 {
	ids := make([]int64, len(l.Industries))
	for i, ind := range l.Industries {
		ids[i] = ind.ID()
	}
	return ids
}

// KeywordIDs returns the linked keyword identifiers.
func (l Links) KeywordIDs() []int64 {
	ids := make([]int64, len(l.Keywords))
	for i, kw := range l.Keywords {
		ids[i] = kw.ID()
	}
	return ids
}
