package news

import (
	"context"

	"github.com/helixml/newsdesk/domain/repository"
)

// IndustryStore persists industries.
type IndustryStore interface {
	repository.Store[Industry]
	// Ensure returns the stored industry with the same key, creating it
	// when absent. Concurrent calls converge on one row.
	Ensure(ctx context.Context, industry Industry) (Industry, error)
	Save(ctx context.Context, industry Industry) (Industry, error)
	// Delete removes the industry, detaches its keywords and drops its
	// article links.
	Delete(ctx context.Context, industry Industry) error
}

// KeywordStore persists keywords.
type KeywordStore interface {
	repository.Store[Keyword]
	// Ensure returns the stored keyword with the same key, creating it
	// when absent. An existing keyword is never re-parented.
	Ensure(ctx context.Context, keyword Keyword) (Keyword, error)
	// AdoptIndustry sets the industry of a keyword that has none.
	AdoptIndustry(ctx context.Context, keywordID, industryID int64) (Keyword, error)
}

// ArticleStore persists articles and their entity links.
type ArticleStore interface {
	repository.Store[Article]
	// Ensure stores the article unless one with the same URL exists.
	// The bool reports whether a row was created.
	Ensure(ctx context.Context, article Article) (Article, bool, error)
	Links(ctx context.Context, articleID int64) (Links, error)
	LinkIndustries(ctx context.Context, articleID int64, industryIDs []int64) error
	UnlinkIndustries(ctx context.Context, articleID int64, industryIDs []int64) error
	// ReplaceKeywords makes keywordIDs the exact keyword link set.
	ReplaceKeywords(ctx context.Context, articleID int64, keywordIDs []int64) error
	// LinkKeywordMatches links the keyword to every article whose text
	// contains it as a whole token, returning the number of new links.
	LinkKeywordMatches(ctx context.Context, keyword Keyword) (int64, error)
	// Match returns articles satisfying the predicate, newest first.
	Match(ctx context.Context, predicate Predicate, options ...repository.Option) ([]Article, error)
	CountMatching(ctx context.Context, predicate Predicate) (int64, error)
}

// Source searches an external news provider.
type Source interface {
	Search(ctx context.Context, term string, limit int) ([]Article, error)
}
