package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"trading-journal-go/internal/export"
	"trading-journal-go/internal/id"
	"trading-journal-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service implements the journal operations on top of a Store. Every method
// that acts for a user takes the authenticated user id; 0 means no identity.
type Service struct {
	store  Store
	cache  DashboardCache
	demo   DemoGenerator
	logger *zap.Logger

	maxDemoTrades int
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables dashboard caching.
func WithCache(c DashboardCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithDemoGenerator enables demo trade generation, capped at maxTrades per call.
func WithDemoGenerator(g DemoGenerator, maxTrades int) Option {
	return func(s *Service) {
		s.demo = g
		s.maxDemoTrades = maxTrades
	}
}

// NewService creates a new Service.
func NewService(store Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:         store,
		logger:        logger.Named("journal"),
		maxDemoTrades: 500,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- users ---

// RegisterUser creates a user with a fresh API token and the fallback
// category as its default.
func (s *Service) RegisterUser(ctx context.Context, email, displayName string, deposit decimal.Decimal) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	if deposit.IsNegative() {
		return nil, fmt.Errorf("%w: deposit must not be negative", ErrValidation)
	}

	u := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		APIToken:    uuid.NewString(),
		Deposit:     deposit,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("User registered", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	u, err := s.store.UserByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return u, nil
}

// Profile returns the user record.
func (s *Service) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.user(ctx, userID)
}

// SetDefaultCategory makes categoryID the user's default category.
func (s *Service) SetDefaultCategory(ctx context.Context, userID, categoryID uint) (*models.User, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	c, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	u.DefaultCategoryID = &c.ID
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update default category: %w", err)
	}
	s.logger.Info("Default category changed", zap.Uint("user_id", userID), zap.String("category", c.Name))
	return u, nil
}

// UpdateDeposit sets the account deposit used as the risk denominator for
// trades that do not carry their own.
func (s *Service) UpdateDeposit(ctx context.Context, userID uint, deposit decimal.Decimal) (*models.User, error) {
	if deposit.IsNegative() {
		return nil, fmt.Errorf("%w: deposit must not be negative", ErrValidation)
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Deposit = deposit
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update deposit: %w", err)
	}
	return u, nil
}

// --- trades ---

// CreateTrade validates in, resolves its category, computes the derived
// metrics and stores the trade.
func (s *Service) CreateTrade(ctx context.Context, userID uint, in TradeInput) (*models.Trade, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	categoryID, err := ResolveCategory(ctx, s.store, u, in.CategoryRef)
	if err != nil {
		if errors.Is(err, ErrIntegrity) {
			s.logger.Error("No category to file trade under", zap.Uint("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	t := &models.Trade{ID: id.NewTradeID(), UserID: u.ID, CategoryID: categoryID}
	in.apply(t, u.Deposit)
	ApplyMetrics(t)

	if err := s.store.CreateTrade(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	s.invalidate(userID)

	s.logger.Debug("Trade created",
		zap.Uint("user_id", userID),
		zap.String("trade_id", t.ID),
		zap.String("symbol", t.Symbol),
		zap.String("result", string(t.Result)),
	)
	return s.store.TradeByID(ctx, t.ID)
}

// UpdateTrade replaces the inputs of a trade and recomputes every derived
// field. The category changes only when in names one, and a zero Date keeps
// the stored date.
func (s *Service) UpdateTrade(ctx context.Context, userID uint, tradeID string, in TradeInput) (*models.Trade, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	t, err := s.ownedTrade(ctx, userID, tradeID)
	if err != nil {
		return nil, err
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if !in.CategoryRef.IsZero() {
		categoryID, err := ResolveCategory(ctx, s.store, u, in.CategoryRef)
		if err != nil {
			return nil, err
		}
		t.CategoryID = categoryID
	}

	in.IsDemo = t.IsDemo
	if in.Date.IsZero() {
		in.Date = t.Date
	}
	in.apply(t, u.Deposit)
	ApplyMetrics(t)
	t.Category = models.Category{}

	if err := s.store.UpdateTrade(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}
	s.invalidate(userID)
	return s.store.TradeByID(ctx, t.ID)
}

// DeleteTrade removes one trade of the user.
func (s *Service) DeleteTrade(ctx context.Context, userID uint, tradeID string) error {
	if _, err := s.ownedTrade(ctx, userID, tradeID); err != nil {
		return err
	}
	if err := s.store.DeleteTrade(ctx, tradeID); err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	s.invalidate(userID)
	return nil
}

// GetTrade returns one trade of the user.
func (s *Service) GetTrade(ctx context.Context, userID uint, tradeID string) (*models.Trade, error) {
	return s.ownedTrade(ctx, userID, tradeID)
}

// ListTrades returns the user's trades matching f in insertion order.
func (s *Service) ListTrades(ctx context.Context, userID uint, f TradeFilter) ([]models.Trade, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	trades, err := s.store.ListTrades(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// ExportTrades writes the user's trades matching f as CSV to w.
func (s *Service) ExportTrades(ctx context.Context, userID uint, f TradeFilter, w io.Writer) error {
	trades, err := s.ListTrades(ctx, userID, f)
	if err != nil {
		return err
	}
	if err := export.WriteTradesCSV(w, trades); err != nil {
		return fmt.Errorf("failed to export trades: %w", err)
	}
	return nil
}

// --- statistics ---

// Dashboard folds the user's trades matching f into the dashboard series.
func (s *Service) Dashboard(ctx context.Context, userID uint, f TradeFilter) (Dashboard, error) {
	if userID == 0 {
		return Dashboard{}, ErrUnauthorized
	}
	key := f.Key()
	// Taken before the fetch; a write during it makes gen stale.
	var gen uint64
	if s.cache != nil {
		gen = s.cache.Generation(userID)
		if d, ok := s.cache.Get(userID, gen, key); ok {
			return d, nil
		}
	}

	trades, err := s.ListTrades(ctx, userID, f)
	if err != nil {
		return Dashboard{}, err
	}
	d := BuildDashboard(trades)

	if s.cache != nil {
		s.cache.Set(userID, gen, key, d)
	}
	return d, nil
}

// --- categories ---

// ListCategories returns the user's categories.
func (s *Service) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory adds a category. Names are unique per user.
func (s *Service) CreateCategory(ctx context.Context, userID uint, name string) (*models.Category, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	c := &models.Category{UserID: userID, Name: name}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// RenameCategory changes a category's name. The fallback category keeps its name.
func (s *Service) RenameCategory(ctx context.Context, userID, categoryID uint, name string) (*models.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if c.IsFallback() {
		return nil, fmt.Errorf("%w: the %q category cannot be renamed", ErrConflict, models.FallbackCategoryName)
	}
	if name == models.FallbackCategoryName {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}
	c.Name = name
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}
	s.invalidate(userID)
	return c, nil
}

// DeleteCategory removes a category and moves its trades to the fallback
// category. The default and fallback categories cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	c, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if c.IsFallback() {
		return fmt.Errorf("%w: the %q category cannot be deleted", ErrConflict, models.FallbackCategoryName)
	}
	if u.DefaultCategoryID != nil && *u.DefaultCategoryID == c.ID {
		return fmt.Errorf("%w: category %q is the default category", ErrConflict, c.Name)
	}

	fallback, err := s.store.CategoryByName(ctx, userID, models.FallbackCategoryName)
	if errors.Is(err, ErrNotFound) {
		s.logger.Error("User has no fallback category", zap.Uint("user_id", userID))
		return ErrNoValidCategory
	}
	if err != nil {
		return fmt.Errorf("failed to look up fallback category: %w", err)
	}

	moved, err := s.store.DeleteCategory(ctx, c, fallback.ID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.invalidate(userID)
	s.logger.Info("Category deleted",
		zap.Uint("user_id", userID),
		zap.String("category", c.Name),
		zap.Int64("trades_moved", moved),
	)
	return nil
}

// --- demo ---

// GenerateDemoTrades creates n synthetic trades. Items that fail are logged
// and skipped; the call fails only if none succeeded.
func (s *Service) GenerateDemoTrades(ctx context.Context, userID uint, n int) ([]models.Trade, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if s.demo == nil {
		return nil, fmt.Errorf("%w: demo generation is not configured", ErrValidation)
	}
	if n <= 0 || n > s.maxDemoTrades {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", ErrValidation, s.maxDemoTrades)
	}

	categories, err := s.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	inputs, err := s.demo.Generate(ctx, n, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to generate demo trades: %w", err)
	}

	created := make([]models.Trade, 0, len(inputs))
	for i, in := range inputs {
		in.IsDemo = true
		t, err := s.CreateTrade(ctx, userID, in)
		if err != nil {
			s.logger.Warn("Skipping demo trade", zap.Int("index", i), zap.Error(err))
			continue
		}
		created = append(created, *t)
	}

	if len(created) == 0 {
		return nil, fmt.Errorf("no demo trades could be created out of %d", len(inputs))
	}
	s.logger.Info("Demo trades generated",
		zap.Uint("user_id", userID),
		zap.Int("requested", n),
		zap.Int("created", len(created)),
	)
	return created, nil
}

// ClearDemoTrades deletes every demo trade of the user.
func (s *Service) ClearDemoTrades(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrUnauthorized
	}
	n, err := s.store.DeleteDemoTrades(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete demo trades: %w", err)
	}
	s.invalidate(userID)
	s.logger.Info("Demo trades cleared", zap.Uint("user_id", userID), zap.Int64("deleted", n))
	return n, nil
}

// --- helpers ---

func (s *Service) user(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	u, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

func (s *Service) ownedTrade(ctx context.Context, userID uint, tradeID string) (*models.Trade, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	t, err := s.store.TradeByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	// Foreign trades are reported as missing.
	if t.UserID != userID {
		return nil, fmt.Errorf("%w: trade %s", ErrNotFound, tradeID)
	}
	return t, nil
}

func (s *Service) ownedCategory(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	c, err := s.store.CategoryByID(ctx, categoryID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCategoryNotOwned
	}
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrCategoryNotOwned
	}
	return c, nil
}

func (s *Service) invalidate(userID uint) {
	if s.cache != nil {
		s.cache.Invalidate(userID)
	}
}
