package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/helixml/newsdesk/domain/news"
	"github.com/helixml/newsdesk/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IndustryStore implements news.IndustryStore using GORM.
type IndustryStore struct {
	database.Repository[news.Industry, IndustryModel]
}

// NewIndustryStore creates a new IndustryStore.
func NewIndustryStore(db database.Database) IndustryStore {
	return IndustryStore{
		Repository: database.NewRepository[news.Industry, IndustryModel](db, IndustryMapper{}, "industry"),
	}
}

// Ensure inserts the industry unless its key exists, then returns the stored row.
func (s IndustryStore) Ensure(ctx context.Context, industry news.Industry) (news.Industry, error) {
	if !industry.IsValid() {
		return news.Industry{}, news.ErrInvalidText
	}

	model := s.Mapper().ToModel(industry)
	now := time.Now().UTC()
	model.ID = 0
	model.CreatedAt = now
	model.UpdatedAt = now

	result := s.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name_key"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return news.Industry{}, fmt.Errorf("ensure industry %q: %w", industry.Name(), result.Error)
	}

	return s.FindOne(ctx, news.WithNameKey(industry.Name()))
}

// Save creates or updates an industry.
func (s IndustryStore) Save(ctx context.Context, industry news.Industry) (news.Industry, error) {
	model := s.Mapper().ToModel(industry)
	now := time.Now().UTC()

	if model.ID == 0 {
		model.CreatedAt = now
		model.UpdatedAt = now
		result := s.DB(ctx).Create(&model)
		if result.Error != nil {
			return news.Industry{}, fmt.Errorf("create industry: %w", result.Error)
		}
	} else {
		model.UpdatedAt = now
		result := s.DB(ctx).Save(&model)
		if result.Error != nil {
			return news.Industry{}, fmt.Errorf("update industry: %w", result.Error)
		}
	}

	return s.Mapper().ToDomain(model), nil
}

// Delete removes an industry. Its keywords survive with no industry and
// its article links are dropped.
func (s IndustryStore) Delete(ctx context.Context, industry news.Industry) error {
	id := industry.ID()
	return database.WithTransaction(ctx, s.Database(), func(tx *gorm.DB) error {
		if err := tx.Model(&KeywordModel{}).
			Where("industry_id = ?", id).
			Updates(map[string]any{"industry_id": nil, "updated_at": time.Now().UTC()}).Error; err != nil {
			return fmt.Errorf("detach keywords: %w", err)
		}
		if err := tx.Where("industry_id = ?", id).Delete(&ArticleIndustryModel{}).Error; err != nil {
			return fmt.Errorf("delete article links: %w", err)
		}
		result := tx.Delete(&IndustryModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete industry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: industry %d", database.ErrNotFound, id)
		}
		return nil
	})
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
