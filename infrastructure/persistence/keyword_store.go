package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/domain/repository"
	"github.com/helixml/newsdesk/internal/database"
	"gorm.io/gorm/clause"
)

// KeywordStore implements news.KeywordStore using GORM.
type KeywordStore struct {
	database.Repository[news.Keyword, KeywordModel]
}

// NewKeywordStore creates a new KeywordStore.
func NewKeywordStore(db database.Database) KeywordStore {
	return KeywordStore{
		Repository: database.NewRepository[news.Keyword, KeywordModel](db, KeywordMapper{}, "keyword"),
	}
}

// Ensure inserts the keyword unless its key exists. An existing keyword
// without an industry adopts the requested one.
func (s KeywordStore) Ensure(ctx context.Context, keyword news.Keyword) (news.Keyword, error) {
	if !keyword.IsValid() {
		return news.Keyword{}, news.ErrInvalidText
	}

	model := s.Mapper().ToModel(keyword)
	now := time.Now().UTC()
	model.ID = 0
	model.CreatedAt = now
	model.UpdatedAt = now

	result := s.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "text_key"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return news.Keyword{}, fmt.Errorf("ensure keyword %q: %w", keyword.Text(), result.Error)
	}

	stored, err := s.FindOne(ctx, news.WithTextKey(keyword.Text()))
	if err != nil {
		return news.Keyword{}, err
	}
	if keyword.HasIndustry() && !stored.HasIndustry() {
		return s.AdoptIndustry(ctx, stored.ID(), keyword.IndustryID())
	}
	return stored, nil
}

// AdoptIndustry sets the industry of a keyword that has none. A keyword
// that already belongs to an industry is returned unchanged.
func (s KeywordStore) AdoptIndustry(ctx context.Context, keywordID, industryID int64) (news.Keyword, error) {
	result := s.DB(ctx).Model(&KeywordModel{}).
		Where("id = ? AND industry_id IS NULL", keywordID).
		Updates(map[string]any{"industry_id": industryID, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return news.Keyword{}, fmt.Errorf("adopt industry for keyword %d: %w", keywordID, result.Error)
	}
	return s.FindOne(ctx, repository.WithID(keywordID))
}
