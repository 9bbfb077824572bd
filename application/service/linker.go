package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
)

// relinkBatchSize is the page size used when relinking every article.
const relinkBatchSize = 100

// Linker derives article links from article text.
type Linker struct {
	articles   news.ArticleStore
	industries news.IndustryStore
	keywords   news.KeywordStore
	logger     *slog.Logger
}

// NewLinker creates a new Linker.
func NewLinker(
	articles news.ArticleStore,
	industries news.IndustryStore,
	keywords news.KeywordStore,
	logger *slog.Logger,
) *Linker {
	return &Linker{
		articles:   articles,
		industries: industries,
		keywords:   keywords,
		logger:     logger,
	}
}

// Relink recomputes the links of an article from its title and
// description. Industries named in the text are linked and stale ones
// removed. Keyword links are rebuilt from scratch, considering only
// keywords of the matched industries. Relink is idempotent.
func (l *Linker) Relink(ctx context.Context, article news.Article) (news.Links, error) {
	buffer := article.SearchText()

	industries, err := l.industries.Find(ctx)
	if err != nil {
		return news.Links{}, fmt.Errorf("load industries: %w", err)
	}
	var matched []int64
	for _, industry := range industries {
		if news.ContainsToken(buffer, industry.Name()) {
			matched = append(matched, industry.ID())
		}
	}

	current, err := l.articles.Links(ctx, article.ID())
	if err != nil {
		return news.Links{}, err
	}
	existing := current.IndustryIDs()
	if err := l.articles.LinkIndustries(ctx, article.ID(), difference(matched, existing)); err != nil {
		return news.Links{}, err
	}
	if err := l.articles.UnlinkIndustries(ctx, article.ID(), difference(existing, matched)); err != nil {
		return news.Links{}, err
	}

	var keywordIDs []int64
	if len(matched) > 0 {
		candidates, err := l.keywords.Find(ctx, news.WithIndustryIDIn(matched))
		if err != nil {
			return news.Links{}, fmt.Errorf("load keywords: %w", err)
		}
		for _, keyword := range candidates {
			if news.ContainsToken(buffer, keyword.Text()) {
				keywordIDs = append(keywordIDs, keyword.ID())
			}
		}
	}
	if err := l.articles.ReplaceKeywords(ctx, article.ID(), keywordIDs); err != nil {
		return news.Links{}, err
	}

	l.logger.Debug("article relinked",
		slog.Int64("article_id", article.ID()),
		slog.Int("industries", len(matched)),
		slog.Int("keywords", len(keywordIDs)),
	)

	return l.articles.Links(ctx, article.ID())
}

// RelinkID relinks the article with the given ID.
func (l *Linker) RelinkID(ctx context.Context, id int64) (news.Article, news.Links, error) {
	article, err := l.articles.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return news.Article{}, news.Links{}, fmt.Errorf("get article: %w", err)
	}
	links, err := l.Relink(ctx, article)
	if err != nil {
		return news.Article{}, news.Links{}, err
	}
	return article, links, nil
}

// RelinkAll relinks every stored article and returns how many were processed.
func (l *Linker) RelinkAll(ctx context.Context) (int, error) {
	processed := 0
	for offset := 0; ; offset += relinkBatchSize {
		options := append(
			[]repository.Option{repository.WithOrderAsc("id")},
			repository.WithPagination(relinkBatchSize, offset)...,
		)
		batch, err := l.articles.Find(ctx, options...)
		if err != nil {
			return processed, fmt.Errorf("load articles: %w", err)
		}
		for _, article := range batch {
			if err := ctx.Err(); err != nil {
				return processed, err
			}
			if _, err := l.Relink(ctx, article); err != nil {
				return processed, fmt.Errorf("relink article %d: %w", article.ID(), err)
			}
			processed++
		}
		if len(batch) < relinkBatchSize {
			break
		}
	}
	l.logger.Info("relinked articles", slog.Int("count", processed))
	return processed, nil
}

// difference returns the members of a that are not in b.
func difference(a, b []int64) []int64 {
	var out []int64
	for _, id := range a {
		if !slices.Contains(b, id) {
			out = append(out, id)
		}
	}
	return out
}
