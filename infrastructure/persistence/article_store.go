package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleStore implements news.ArticleStore using GORM.
type ArticleStore struct {
	database.Repository[news.Article, ArticleModel]
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(db database.Database) ArticleStore {
	return ArticleStore{
		Repository: database.NewRepository[news.Article, ArticleModel](db, ArticleMapper{}, "article"),
	}
}

// Ensure inserts the article unless its URL is already stored. Existing
// articles are returned untouched.
func (s ArticleStore) Ensure(ctx context.Context, article news.Article) (news.Article, bool, error) {
	model := s.Mapper().ToModel(article)
	model.ID = 0

	result := s.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return news.Article{}, false, fmt.Errorf("ensure article %s: %w", article.URL(), result.Error)
	}

	stored, err := s.FindOne(ctx, news.WithURL(article.URL()))
	if err != nil {
		return news.Article{}, false, err
	}
	return stored, result.RowsAffected > 0, nil
}

// Links returns the industries and keywords linked to an article.
func (s ArticleStore) Links(ctx context.Context, articleID int64) (news.Links, error) {
	var industries []IndustryModel
	err := s.DB(ctx).Model(&IndustryModel{}).
		Joins("JOIN article_industries ai ON ai.industry_id = industries.id").
		Where("ai.article_id = ?", articleID).
		Order("industries.name_key ASC").
		Find(&industries).Error
	if err != nil {
		return news.Links{}, fmt.Errorf("find industries of article %d: %w", articleID, err)
	}

	var keywords []KeywordModel
	err = s.DB(ctx).Model(&KeywordModel{}).
		Joins("JOIN article_keywords ak ON ak.keyword_id = keywords.id").
		Where("ak.article_id = ?", articleID).
		Order("keywords.text_key ASC").
		Find(&keywords).Error
	if err != nil {
		return news.Links{}, fmt.Errorf("find keywords of article %d: %w", articleID, err)
	}

	links := news.Links{
		Industries: make([]news.Industry, len(industries)),
		Keywords:   make([]news.Keyword, len(keywords)),
	}
	for i, m := range industries {
		links.Industries[i] = IndustryMapper{}.ToDomain(m)
	}
	for i, m := range keywords {
		links.Keywords[i] = KeywordMapper{}.ToDomain(m)
	}
	return links, nil
}

// LinkIndustries adds industry links, ignoring ones that already exist.
func (s ArticleStore) LinkIndustries(ctx context.Context, articleID int64, industryIDs []int64) error {
	if len(industryIDs) == 0 {
		return nil
	}
	rows := make([]ArticleIndustryModel, len(industryIDs))
	for i, id := range industryIDs {
		rows[i] = ArticleIndustryModel{ArticleID: articleID, IndustryID: id}
	}
	if err := s.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("link industries to article %d: %w", articleID, err)
	}
	return nil
}

// UnlinkIndustries removes industry links.
func (s ArticleStore) UnlinkIndustries(ctx context.Context, articleID int64, industryIDs []int64) error {
	if len(industryIDs) == 0 {
		return nil
	}
	err := s.DB(ctx).
		Where("article_id = ? AND industry_id IN ?", articleID, industryIDs).
		Delete(&ArticleIndustryModel{}).Error
	if err != nil {
		return fmt.Errorf("unlink industries from article %d: %w", articleID, err)
	}
	return nil
}

// ReplaceKeywords clears the keyword links of an article and re-adds
// keywordIDs in one transaction.
func (s ArticleStore) ReplaceKeywords(ctx context.Context, articleID int64, keywordIDs []int64) error {
	return database.WithTransaction(ctx, s.Database(), func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", articleID).Delete(&ArticleKeywordModel{}).Error; err != nil {
			return fmt.Errorf("clear keywords of article %d: %w", articleID, err)
		}
		if len(keywordIDs) == 0 {
			return nil
		}
		rows := make([]ArticleKeywordModel, len(keywordIDs))
		for i, id := range keywordIDs {
			rows[i] = ArticleKeywordModel{ArticleID: articleID, KeywordID: id}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("link keywords to article %d: %w", articleID, err)
		}
		return nil
	})
}

// LinkKeywordMatches links the keyword to every article containing it as
// a whole token that is not linked yet.
func (s ArticleStore) LinkKeywordMatches(ctx context.Context, keyword news.Keyword) (int64, error) {
	key := keyword.Key()
	if key == "" {
		return 0, nil
	}

	candidates := sq.Select("articles.id").
		Column(sq.Expr("CAST(? AS BIGINT)", keyword.ID())).
		From("articles").
		Where(sq.Expr(tokenLike, news.TokenPattern(key))).
		Where(sq.Expr(
			"NOT EXISTS (SELECT 1 FROM article_keywords ak WHERE ak.article_id = articles.id AND ak.keyword_id = ?)",
			keyword.ID(),
		))
	insert := sq.Insert("article_keywords").
		Columns("article_id", "keyword_id").
		Select(candidates)

	sql, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build keyword heal: %w", err)
	}

	result := s.DB(ctx).Exec(sql, args...)
	if result.Error != nil {
		return 0, fmt.Errorf("heal keyword %q: %w", keyword.Text(), result.Error)
	}
	return result.RowsAffected, nil
}

// Match returns articles satisfying the predicate, newest first.
func (s ArticleStore) Match(ctx context.Context, predicate news.Predicate, options ...repository.Option) ([]news.Article, error) {
	db, err := s.matching(ctx, predicate)
	if err != nil {
		return nil, err
	}

	var models []ArticleModel
	opts := append([]repository.Option{news.WithNewestFirst()}, options...)
	if err := database.ApplyOptions(db, opts...).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("match articles: %w", err)
	}

	articles := make([]news.Article, len(models))
	for i, m := range models {
		articles[i] = s.Mapper().ToDomain(m)
	}
	return articles, nil
}

// CountMatching returns the number of articles satisfying the predicate.
func (s ArticleStore) CountMatching(ctx context.Context, predicate news.Predicate) (int64, error) {
	db, err := s.matching(ctx, predicate)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count matching articles: %w", err)
	}
	return count, nil
}

func (s ArticleStore) matching(ctx context.Context, predicate news.Predicate) (*gorm.DB, error) {
	db := s.DB(ctx).Model(&ArticleModel{})
	sql, args, ok, err := predicateCondition(predicate)
	if err != nil {
		return nil, fmt.Errorf("build article predicate: %w", err)
	}
	if ok {
		db = db.Where(sql, args...)
	}
	return db, nil
}
