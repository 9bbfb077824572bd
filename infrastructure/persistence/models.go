package persistence

import (
	"database/sql"
	"time"
)

// IndustryModel represents an industry in the database.
type IndustryModel struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string         `gorm:"column:name;size:100;not null"`
	NameKey     string         `gorm:"column:name_key;size:100;not null;uniqueIndex"`
	Description sql.NullString `gorm:"column:description;type:text"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;not null"`
}

// TableName returns the table name.
func (IndustryModel) TableName() string {
	return "industries"
}

// KeywordModel represents a keyword in the database.
type KeywordModel struct {
	ID         int64         `gorm:"column:id;primaryKey;autoIncrement"`
	Text       string        `gorm:"column:text;size:100;not null"`
	TextKey    string        `gorm:"column:text_key;size:100;not null;uniqueIndex"`
	IndustryID sql.NullInt64 `gorm:"column:industry_id;index"`
	CreatedAt  time.Time     `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;not null"`
}

// TableName returns the table name.
func (KeywordModel) TableName() string {
	return "keywords"
}

// ArticleModel represents an ingested article in the database.
type ArticleModel struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string         `gorm:"column:title;size:500;not null"`
	Description sql.NullString `gorm:"column:description;type:text"`
	URL         string         `gorm:"column:url;size:2048;not null;uniqueIndex"`
	Source      string         `gorm:"column:source;size:100;not null"`
	PublishedAt sql.NullTime   `gorm:"column:published_at;index"`
	SearchText  string         `gorm:"column:search_text;type:text;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null"`
}

// TableName returns the table name.
func (ArticleModel) TableName() string {
	return "articles"
}

// ArticleIndustryModel links an article to an industry.
type ArticleIndustryModel struct {
	ArticleID  int64 `gorm:"column:article_id;primaryKey;autoIncrement:false"`
	IndustryID int64 `gorm:"column:industry_id;primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name.
func (ArticleIndustryModel) TableName() string {
	return "article_industries"
}

// ArticleKeywordModel links an article to a keyword.
type ArticleKeywordModel struct {
	ArticleID int64 `gorm:"column:article_id;primaryKey;autoIncrement:false"`
	KeywordID int64 `gorm:"column:keyword_id;primaryKey;autoIncrement:false;index"`
}

// TableName returns the table name.
func (ArticleKeywordModel) TableName() string {
	return "article_keywords"
}
