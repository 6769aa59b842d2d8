package content

import (
	"strings"
	"time"
)

// DefaultCategory is assigned when a record is created without a category.
const DefaultCategory = "default"

// Record is a single stored content entry.
// CreatedAt is nil only for legacy rows written before it was populated.
type Record struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string     `json:"title" gorm:"not null"`
	Content   string     `json:"content" gorm:"not null"`
	Category  string     `json:"category" gorm:"index"`
	CreatedAt *time.Time `json:"created_at" gorm:"autoCreateTime:false"`
}

// CreateCommand carries the data needed to create a record.
type CreateCommand struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

// Normalize trims all fields and applies the default category.
func (c CreateCommand) Normalize() CreateCommand {
	c.Title = strings.TrimSpace(c.Title)
	c.Content = strings.TrimSpace(c.Content)
	c.Category = strings.TrimSpace(c.Category)
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	return c
}

// UpdateCommand replaces the mutable fields of a record.
// Values are stored as given.
type UpdateCommand struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// fillCreatedAt substitutes now for a missing creation time.
// The substitute is never persisted.
func (r *Record) fillCreatedAt(now time.Time) {
	if r.CreatedAt == nil {
		r.CreatedAt = &now
	}
}

func fillCreatedAt(records []Record, now time.Time) []Record {
	for i := range records {
		records[i].fillCreatedAt(now)
	}
	return records
}
