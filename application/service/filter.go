package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/internal/database"
)

// FilterResult is one page of filtered articles and the total match count.
type FilterResult struct {
	Articles []news.Article
	Total    int64
}

// Filter composes article predicates from user criteria and runs them.
type Filter struct {
	articles   news.ArticleStore
	industries news.IndustryStore
	keywords   news.KeywordStore
	logger     *slog.Logger
	now        func() time.Time
}

// NewFilter creates a new Filter.
func NewFilter(
	articles news.ArticleStore,
	industries news.IndustryStore,
	keywords news.KeywordStore,
	logger *slog.Logger,
) *Filter {
	return &Filter{
		articles:   articles,
		industries: industries,
		keywords:   keywords,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock returns a copy of the filter anchored to a different clock.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	clone := *f
	clone.now = now
	return &clone
}

// BuildPredicate normalizes the criteria and resolves the time range
// against the current local time.
func (f *Filter) BuildPredicate(industry string, keywords []string, timeRange string) (news.Predicate, error) {
	r, err := news.ParseTimeRange(timeRange)
	if err != nil {
		return news.Predicate{}, err
	}
	return news.NewPredicate(industry, keywords, r, f.now()), nil
}

// Query returns the articles matching the predicate, newest first.
//
// Before matching, every stored keyword the predicate reaches (the listed
// keywords and those of the named industry) is linked to the articles
// whose text contains it, so link state heals on read.
func (f *Filter) Query(ctx context.Context, predicate news.Predicate, options ...repository.Option) (FilterResult, error) {
	reached, terms, err := f.reachedKeywords(ctx, predicate)
	if err != nil {
		return FilterResult{}, err
	}
	if len(terms) > 0 {
		predicate = predicate.WithIndustryTerms(terms)
	}

	var healed int64
	for _, keyword := range reached {
		n, err := f.articles.LinkKeywordMatches(ctx, keyword)
		if err != nil {
			return FilterResult{}, fmt.Errorf("link keyword %s: %w", keyword.Text(), err)
		}
		healed += n
	}
	if healed > 0 {
		f.logger.Debug("healed keyword links", slog.Int64("links", healed))
	}

	articles, err := f.articles.Match(ctx, predicate, options...)
	if err != nil {
		return FilterResult{}, err
	}
	total, err := f.articles.CountMatching(ctx, predicate)
	if err != nil {
		return FilterResult{}, err
	}
	return FilterResult{Articles: articles, Total: total}, nil
}

// reachedKeywords returns the stored keywords the predicate refers to and
// the texts of the named industry's keywords.
func (f *Filter) reachedKeywords(ctx context.Context, predicate news.Predicate) ([]news.Keyword, []string, error) {
	var (
		reached []news.Keyword
		terms   []string
		seen    = map[int64]struct{}{}
	)
	add := func(keywords []news.Keyword) {
		for _, k := range keywords {
			if _, ok := seen[k.ID()]; ok {
				continue
			}
			seen[k.ID()] = struct{}{}
			reached = append(reached, k)
		}
	}

	if predicate.HasIndustry() {
		industry, err := f.industries.FindOne(ctx, news.WithNameKey(predicate.Industry()))
		switch {
		case err == nil:
			owned, err := f.keywords.Find(ctx, news.WithIndustryID(industry.ID()))
			if err != nil {
				return nil, nil, fmt.Errorf("load industry keywords: %w", err)
			}
			for _, k := range owned {
				terms = append(terms, k.Text())
			}
			add(owned)
		case !errors.Is(err, database.ErrNotFound):
			return nil, nil, fmt.Errorf("load industry: %w", err)
		}
	}

	if predicate.HasKeywords() {
		listed, err := f.keywords.Find(ctx, news.WithTextKeyIn(predicate.Keywords()))
		if err != nil {
			return nil, nil, fmt.Errorf("load keywords: %w", err)
		}
		add(listed)
	}

	return reached, terms, nil
}

// Article returns a stored article and its current links.
func (f *Filter) Article(ctx context.Context, id int64) (news.Article, news.Links, error) {
	article, err := f.articles.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return news.Article{}, news.Links{}, fmt.Errorf("get article: %w", err)
	}
	links, err := f.articles.Links(ctx, id)
	if err != nil {
		return news.Article{}, news.Links{}, err
	}
	return article, links, nil
}
