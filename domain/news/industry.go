// Package news holds the industry, keyword and article domain model.
package news

import "time"

// Industry is a named top-level topical category.
type Industry struct {
	id          int64
	name        string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewIndustry creates a new industry with a normalized name.
func NewIndustry(name string) Industry {
	now := time.Now().UTC()
	return Industry{
		name:      Normalize(name),
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructIndustry recreates an industry from persistence.
func ReconstructIndustry(id int64, name, description string, createdAt, updatedAt time.Time) Industry {
	return Industry{
		id:          id,
		name:        name,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the industry identifier.
func (i Industry) ID() int64 { return i.id }

// Name returns the normalized industry name.
func (i Industry) Name() string { return i.name }

// Key returns the case-insensitive uniqueness key.
func (i Industry) Key() string { return Key(i.name) }

// Description returns the optional free-text description.
func (i Industry) Description() string { return i.description }

// CreatedAt returns the creation timestamp.
func (i Industry) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last update timestamp.
func (i Industry) UpdatedAt() time.Time { return i.updatedAt }

// IsValid reports whether the name survived normalization.
func (i Industry) IsValid() bool { return i.name != "" }

// WithDescription returns a copy with the given description.
func (i Industry) WithDescription(description string) Industry {
	i.description = description
	return i
}
