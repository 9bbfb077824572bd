// Package service provides the application services that ingest, link and filter articles.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/internal/database"
)

// Entities manages the industry and keyword vocabulary.
// Names that normalize to nothing are skipped, not rejected: the bool
// results report whether an entity was produced.
type Entities struct {
	industries news.IndustryStore
	keywords   news.KeywordStore
	logger     *slog.Logger
}

// NewEntities creates a new Entities service.
func NewEntities(industries news.IndustryStore, keywords news.KeywordStore, logger *slog.Logger) *Entities {
	return &Entities{
		industries: industries,
		keywords:   keywords,
		logger:     logger,
	}
}

// Industry returns the industry with the given name, creating it when missing.
func (s *Entities) Industry(ctx context.Context, name string) (news.Industry, bool, error) {
	industry := news.NewIndustry(name)
	if !industry.IsValid() {
		return news.Industry{}, false, nil
	}
	stored, err := s.industries.Ensure(ctx, industry)
	if err != nil {
		return news.Industry{}, false, err
	}
	return stored, true, nil
}

// DescribeIndustry gets or creates an industry and sets its description
// when one is given.
func (s *Entities) DescribeIndustry(ctx context.Context, name, description string) (news.Industry, bool, error) {
	industry, ok, err := s.Industry(ctx, name)
	if err != nil || !ok || description == "" || industry.Description() == description {
		return industry, ok, err
	}
	saved, err := s.industries.Save(ctx, industry.WithDescription(description))
	if err != nil {
		return news.Industry{}, false, err
	}
	return saved, true, nil
}

// Keyword returns the keyword with the given text, creating it when
// missing. industryID 0 means no industry. An existing keyword without an
// industry adopts industryID.
func (s *Entities) Keyword(ctx context.Context, text string, industryID int64) (news.Keyword, bool, error) {
	keyword := news.NewKeyword(text, industryID)
	if !keyword.IsValid() {
		return news.Keyword{}, false, nil
	}
	stored, err := s.keywords.Ensure(ctx, keyword)
	if err != nil {
		return news.Keyword{}, false, err
	}
	return stored, true, nil
}

// KeywordFor gets or creates a keyword scoped to the named industry,
// creating the industry as well when needed.
func (s *Entities) KeywordFor(ctx context.Context, text, industryName string) (news.Keyword, bool, error) {
	var industryID int64
	if industryName != "" {
		industry, ok, err := s.Industry(ctx, industryName)
		if err != nil {
			return news.Keyword{}, false, err
		}
		if ok {
			industryID = industry.ID()
		}
	}
	return s.Keyword(ctx, text, industryID)
}

// FindIndustry looks an industry up by name, case-insensitively.
func (s *Entities) FindIndustry(ctx context.Context, name string) (news.Industry, error) {
	key := news.Key(name)
	if key == "" {
		return news.Industry{}, fmt.Errorf("%w: %q", ErrIndustryNotFound, name)
	}
	industry, err := s.industries.FindOne(ctx, news.WithNameKey(key))
	if errors.Is(err, database.ErrNotFound) {
		return news.Industry{}, fmt.Errorf("%w: %q", ErrIndustryNotFound, name)
	}
	return industry, err
}

// Industries lists every industry ordered by name.
func (s *Entities) Industries(ctx context.Context) ([]news.Industry, error) {
	return s.industries.Find(ctx, news.WithNameOrder())
}

// Keywords lists keywords ordered by text. A non-empty industryName
// restricts the list to that industry.
func (s *Entities) Keywords(ctx context.Context, industryName string) ([]news.Keyword, error) {
	options := []repository.Option{news.WithTextOrder()}
	if industryName != "" {
		industry, err := s.FindIndustry(ctx, industryName)
		if err != nil {
			return nil, err
		}
		options = append(options, news.WithIndustryID(industry.ID()))
	}
	return s.keywords.Find(ctx, options...)
}

// DeleteIndustry removes an industry. Its keywords are kept without an
// industry.
func (s *Entities) DeleteIndustry(ctx context.Context, id int64) error {
	industry, err := s.industries.FindOne(ctx, repository.WithID(id))
	if err != nil {
		return fmt.Errorf("get industry: %w", err)
	}
	if err := s.industries.Delete(ctx, industry); err != nil {
		return err
	}
	s.logger.Info("industry deleted",
		slog.Int64("industry_id", id),
		slog.String("name", industry.Name()),
	)
	return nil
}

// HasKeyword reports whether a keyword with the given text is stored.
func (s *Entities) HasKeyword(ctx context.Context, text string) (bool, error) {
	key := news.Key(text)
	if key == "" {
		return false, nil
	}
	return s.keywords.Exists(ctx, news.WithTextKey(key))
}

// Counts returns the number of stored industries and keywords.
func (s *Entities) Counts(ctx context.Context) (industries, keywords int64, err error) {
	if industries, err = s.industries.Count(ctx); err != nil {
		return 0, 0, fmt.Errorf("count industries: %w", err)
	}
	if keywords, err = s.keywords.Count(ctx); err != nil {
		return 0, 0, fmt.Errorf("count keywords: %w", err)
	}
	return industries, keywords, nil
}

// KeywordsContaining lists keywords whose text contains fragment,
// case-insensitively.
func (s *Entities) KeywordsContaining(ctx context.Context, fragment string) ([]news.Keyword, error) {
	return s.keywords.Find(ctx, news.WithTextContaining(fragment), news.WithTextOrder())
}
