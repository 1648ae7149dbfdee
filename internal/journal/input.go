package journal

import (
	"fmt"
	"strings"
	"time"

	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

// TradeInput is a trade submission. Decoding fails on non-numeric prices;
// Validate rejects values the calculator cannot use.
type TradeInput struct {
	Date         time.Time           `json:"date"`
	Symbol       string              `json:"symbol"`
	Side         models.Side         `json:"side"`
	EntryPrice   decimal.Decimal     `json:"entryPrice"`
	ExitPrice    decimal.NullDecimal `json:"exitPrice"`
	StopLoss     decimal.NullDecimal `json:"stopLoss"`
	PositionSize decimal.Decimal     `json:"positionSize"`
	Commission   decimal.Decimal     `json:"commission"`
	Leverage     decimal.NullDecimal `json:"leverage"`
	// Deposit overrides the user's account deposit for this trade.
	Deposit decimal.NullDecimal `json:"deposit"`
	Comment string              `json:"comment"`
	CategoryRef

	// IsDemo is set by demo generation only.
	IsDemo bool `json:"-"`
}

// Normalize trims and upper-cases the free-text identifiers.
func (in *TradeInput) Normalize() {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.Side = models.Side(strings.ToUpper(strings.TrimSpace(string(in.Side))))
	in.Comment = strings.TrimSpace(in.Comment)
	in.CategoryName = strings.TrimSpace(in.CategoryName)
}

// Validate reports every problem with the submission at once.
func (in *TradeInput) Validate() error {
	var problems []string

	if in.Symbol == "" {
		problems = append(problems, "symbol is required")
	} else if len(in.Symbol) > 32 {
		problems = append(problems, "symbol is longer than 32 characters")
	}
	if !in.Side.Valid() {
		problems = append(problems, "side must be LONG or SHORT")
	}
	if !in.EntryPrice.IsPositive() {
		problems = append(problems, "entryPrice must be positive")
	}
	if !in.PositionSize.IsPositive() {
		problems = append(problems, "positionSize must be positive")
	}
	if in.Commission.IsNegative() {
		problems = append(problems, "commission must not be negative")
	}
	if in.ExitPrice.Valid && in.ExitPrice.Decimal.IsNegative() {
		problems = append(problems, "exitPrice must not be negative")
	}
	if in.StopLoss.Valid && in.StopLoss.Decimal.IsNegative() {
		problems = append(problems, "stopLoss must not be negative")
	}
	if in.Leverage.Valid && !in.Leverage.Decimal.IsPositive() {
		problems = append(problems, "leverage must be positive")
	}
	if in.Deposit.Valid && in.Deposit.Decimal.IsNegative() {
		problems = append(problems, "deposit must not be negative")
	}
	if len(in.CategoryName) > 64 {
		problems = append(problems, "categoryName is longer than 64 characters")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// apply copies the raw inputs onto t. Derived fields are left to ApplyMetrics.
func (in *TradeInput) apply(t *models.Trade, accountDeposit decimal.Decimal) {
	t.Date = in.Date.UTC()
	if in.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	t.Symbol = in.Symbol
	t.Side = in.Side
	t.EntryPrice = in.EntryPrice
	t.ExitPrice = in.ExitPrice
	t.StopLoss = in.StopLoss
	t.PositionSize = in.PositionSize
	t.Commission = in.Commission
	t.Leverage = in.Leverage
	t.Deposit = accountDeposit
	if in.Deposit.Valid {
		t.Deposit = in.Deposit.Decimal
	}
	t.Comment = in.Comment
	t.IsDemo = in.IsDemo
}

// validateCategoryName checks a user-supplied category name.
func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if len(name) > 64 {
		return "", fmt.Errorf("%w: category name is longer than 64 characters", ErrValidation)
	}
	return name, nil
}
