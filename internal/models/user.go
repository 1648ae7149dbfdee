package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User owns trades and categories. APIToken is the bearer credential and is
// never serialized.
type User struct {
	gorm.Model
	Email             string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName       string          `gorm:"size:255" json:"displayName"`
	APIToken          string          `gorm:"uniqueIndex;size:36;not null" json:"-"`
	Deposit           decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"deposit"`
	DefaultCategoryID *uint           `json:"defaultCategoryId"`
}
