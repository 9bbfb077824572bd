package news

import "time"

// Keyword is a search term, optionally scoped to one industry.
type Keyword struct {
	id         int64
	text       string
	industryID int64
	createdAt  time.Time
	updatedAt  time.Time
}

// NewKeyword creates a new keyword with normalized text.
// industryID 0 means the keyword has no industry.
func NewKeyword(text string, industryID int64) Keyword {
	now := time.Now().UTC()
	return Keyword{
		text:       Normalize(text),
		industryID: industryID,
		createdAt:  now,
		updatedAt:  now,
	}
}

// ReconstructKeyword recreates a keyword from persistence.
func ReconstructKeyword(id int64, text string, industryID int64, createdAt, updatedAt time.Time) Keyword {
	return Keyword{
		id:         id,
		text:       text,
		industryID: industryID,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the keyword identifier.
func (k Keyword) ID() int64 { return k.id }

// Text returns the normalized keyword text.
func (k Keyword) Text() string { return k.text }

// Key returns the case-insensitive uniqueness key.
func (k Keyword) Key() string { return Key(k.text) }

// IndustryID returns the owning industry, or 0.
func (k Keyword) IndustryID() int64 { return k.industryID }

// HasIndustry reports whether the keyword is scoped to an industry.
func (k Keyword) HasIndustry() bool { return k.industryID != 0 }

// CreatedAt returns the creation timestamp.
func (k Keyword) CreatedAt() time.Time { return k.createdAt }

// UpdatedAt returns the last update timestamp.
func (k Keyword) UpdatedAt() time.Time { return k.updatedAt }

// IsValid reports whether the text survived normalization.
func (k Keyword) IsValid() bool { return k.text != "" }
