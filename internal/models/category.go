package models

import "gorm.io/gorm"

// FallbackCategoryName is the category every user owns. It cannot be renamed
// or deleted and receives the trades of deleted categories.
const FallbackCategoryName = "solo"

// Category is a named grouping of trades. (UserID, Name) is unique.
type Category struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_user_category;not null" json:"-"`
	Name   string `gorm:"uniqueIndex:idx_user_category;size:64;not null" json:"name"`
}

// IsFallback reports whether c is the user's fixed fallback category.
func (c *Category) IsFallback() bool {
	return c.Name == FallbackCategoryName
}
