package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Valid reports whether s is a known side.
func (s Side) Valid() bool {
	return s == SideLong || s == SideShort
}

// Result is the outcome classification of a trade.
type Result string

const (
	ResultWin     Result = "WIN"
	ResultLoss    Result = "LOSS"
	ResultPending Result = "PENDING"
)

// Trade is one logged trade. PnL, RiskPercent, Investment and Result are
// derived from the raw inputs whenever the trade is written.
type Trade struct {
	ID     string `gorm:"primaryKey;size:26" json:"id"`
	UserID uint   `gorm:"index;not null" json:"-"`

	Date   time.Time `gorm:"index;not null" json:"date"`
	Symbol string    `gorm:"size:32;index;not null" json:"symbol"`
	Side   Side      `gorm:"size:8;not null" json:"side"`

	EntryPrice   decimal.Decimal     `gorm:"type:numeric(30,10);not null" json:"entryPrice"`
	ExitPrice    decimal.NullDecimal `gorm:"type:numeric(30,10)" json:"exitPrice"`
	StopLoss     decimal.NullDecimal `gorm:"type:numeric(30,10)" json:"stopLoss"`
	PositionSize decimal.Decimal     `gorm:"type:numeric(30,10);not null" json:"positionSize"`
	Commission   decimal.Decimal     `gorm:"type:numeric(30,10);not null;default:0" json:"commission"`
	Leverage     decimal.NullDecimal `gorm:"type:numeric(20,4)" json:"leverage"`
	Deposit      decimal.Decimal     `gorm:"type:numeric(30,10);not null;default:0" json:"deposit"`

	PnL         decimal.Decimal `gorm:"column:pnl;type:numeric(30,10);not null;default:0" json:"pnl"`
	RiskPercent decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"riskPercent"`
	Investment  decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"investment"`
	Result      Result          `gorm:"size:8;index;not null" json:"result"`

	CategoryID uint     `gorm:"index;not null" json:"categoryId"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`

	IsDemo  bool   `gorm:"index;default:false" json:"isDemo"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
