package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trading-journal-go/internal/models"
)

// CategoryLookup finds categories. Both methods return an error wrapping
// ErrNotFound when no category matches.
type CategoryLookup interface {
	CategoryByID(ctx context.Context, id uint) (*models.Category, error)
	CategoryByName(ctx context.Context, userID uint, name string) (*models.Category, error)
}

// Store is the persistence the journal needs. Lookups return errors wrapping
// ErrNotFound for missing rows and ErrConflict for unique-key violations.
type Store interface {
	CategoryLookup

	// CreateUser inserts u together with its fallback category and makes
	// that category the user's default.
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error

	ListCategories(ctx context.Context, userID uint) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory moves the trades of c to fallbackID and deletes c in
	// one transaction. It returns the number of trades moved.
	DeleteCategory(ctx context.Context, c *models.Category, fallbackID uint) (int64, error)

	CreateTrade(ctx context.Context, t *models.Trade) error
	UpdateTrade(ctx context.Context, t *models.Trade) error
	TradeByID(ctx context.Context, id string) (*models.Trade, error)
	DeleteTrade(ctx context.Context, id string) error
	// ListTrades returns the user's trades matching f in insertion order,
	// with Category preloaded.
	ListTrades(ctx context.Context, userID uint, f TradeFilter) ([]models.Trade, error)
	DeleteDemoTrades(ctx context.Context, userID uint) (int64, error)
}

// TradeFilter narrows a trade listing. Zero values match everything.
type TradeFilter struct {
	From        time.Time
	To          time.Time
	Symbol      string
	Side        models.Side
	CategoryID  uint
	ExcludeDemo bool
}

// Key returns a stable string form of f, used for cache keys.
func (f TradeFilter) Key() string {
	var b strings.Builder
	if !f.From.IsZero() {
		fmt.Fprintf(&b, "from=%d;", f.From.UnixNano())
	}
	if !f.To.IsZero() {
		fmt.Fprintf(&b, "to=%d;", f.To.UnixNano())
	}
	if f.Symbol != "" {
		fmt.Fprintf(&b, "symbol=%s;", strings.ToUpper(f.Symbol))
	}
	if f.Side != "" {
		fmt.Fprintf(&b, "side=%s;", f.Side)
	}
	if f.CategoryID != 0 {
		fmt.Fprintf(&b, "category=%d;", f.CategoryID)
	}
	if f.ExcludeDemo {
		b.WriteString("nodemo;")
	}
	return b.String()
}

// Validate rejects filters that can never match.
func (f TradeFilter) Validate() error {
	if f.Side != "" && !f.Side.Valid() {
		return fmt.Errorf("%w: side must be LONG or SHORT", ErrValidation)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return fmt.Errorf("%w: to is before from", ErrValidation)
	}
	return nil
}

// DashboardCache stores computed dashboards per user and generation.
// Invalidate advances the user's generation, so entries stored under an
// older one are never returned again.
type DashboardCache interface {
	Generation(userID uint) uint64
	Get(userID uint, gen uint64, key string) (Dashboard, bool)
	Set(userID uint, gen uint64, key string, d Dashboard)
	Invalidate(userID uint)
}

// DemoGenerator produces synthetic trade submissions.
type DemoGenerator interface {
	Generate(ctx context.Context, n int, categories []models.Category) ([]TradeInput, error)
}
