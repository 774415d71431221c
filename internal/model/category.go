package model

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category groups products into a tree. Parent is optional; acyclicity is
// validated by the store layer on write, not by the model.
type Category struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	Name        string         `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug        string         `json:"slug" gorm:"type:varchar(120);uniqueIndex"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string         `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	ParentID    *uint          `json:"parent_id,omitempty" gorm:"index"`
	IsActive    bool           `json:"is_active" gorm:"not null;default:true"`
	SortOrder   int            `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses every run of non-alphanumeric
// characters into a single hyphen: "Home & Garden" -> "home-garden".
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// BeforeSave recomputes the slug from the name on every save
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = Slugify(c.Name)
	return nil
}
