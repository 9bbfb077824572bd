package persistence

import (
	"database/sql"
	"time"

	"github.com/helixml/newsdesk/domain/news"
)

// IndustryMapper maps between domain Industry and persistence IndustryModel.
type IndustryMapper struct{}

// ToDomain converts an IndustryModel to a domain Industry.
func (m IndustryMapper) ToDomain(e IndustryModel) news.Industry {
	return news.ReconstructIndustry(
		e.ID,
		e.Name,
		e.Description.String,
		e.CreatedAt,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Industry to an IndustryModel.
func (m IndustryMapper) ToModel(i news.Industry) IndustryModel {
	return IndustryModel{
		ID:          i.ID(),
		Name:        i.Name(),
		NameKey:     i.Key(),
		Description: nullString(i.Description()),
		CreatedAt:   i.CreatedAt(),
		UpdatedAt:   i.UpdatedAt(),
	}
}

// KeywordMapper maps between domain Keyword and persistence KeywordModel.
type KeywordMapper struct{}

// ToDomain converts a KeywordModel to a domain Keyword.
func (m KeywordMapper) ToDomain(e KeywordModel) news.Keyword {
	return news.ReconstructKeyword(
		e.ID,
		e.Text,
		e.IndustryID.Int64,
		e.CreatedAt,
		e.UpdatedAt,
	)
}

// ToModel converts a domain Keyword to a KeywordModel.
func (m KeywordMapper) ToModel(k news.Keyword) KeywordModel {
	return KeywordModel{
		ID:         k.ID(),
		Text:       k.Text(),
		TextKey:    k.Key(),
		IndustryID: sql.NullInt64{Int64: k.IndustryID(), Valid: k.HasIndustry()},
		CreatedAt:  k.CreatedAt(),
		UpdatedAt:  k.UpdatedAt(),
	}
}

// ArticleMapper maps between domain Article and persistence ArticleModel.
type ArticleMapper struct{}

// ToDomain converts an ArticleModel to a domain Article.
func (m ArticleMapper) ToDomain(e ArticleModel) news.Article {
	var published time.Time
	if e.PublishedAt.Valid {
		published = e.PublishedAt.Time.UTC()
	}
	return news.ReconstructArticle(
		e.ID,
		e.Title,
		e.Description.String,
		e.URL,
		e.Source,
		published,
		e.CreatedAt,
	)
}

// ToModel converts a domain Article to an ArticleModel.
func (m ArticleMapper) ToModel(a news.Article) ArticleModel {
	return ArticleModel{
		ID:          a.ID(),
		Title:       a.Title(),
		Description: nullString(a.Description()),
		URL:         a.URL(),
		Source:      a.Source(),
		PublishedAt: sql.NullTime{Time: a.PublishedAt().UTC(), Valid: a.HasPublishedAt()},
		SearchText:  a.SearchText(),
		CreatedAt:   a.CreatedAt(),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
