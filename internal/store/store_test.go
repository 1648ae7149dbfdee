package store

import (
	"context"
	"testing"
	"time"

	"trading-journal-go/internal/database"
	"trading-journal-go/internal/id"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a store over a new, non-shared in-memory database.
func setupStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.NewInMemory()
	require.NoError(t, err)
	return New(db)
}

func createUser(t *testing.T, s *GormStore, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, APIToken: "token-" + email}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func newTrade(userID, categoryID uint, date time.Time, symbol string) *models.Trade {
	return &models.Trade{
		ID:           id.NewTradeID(),
		UserID:       userID,
		CategoryID:   categoryID,
		Date:         date,
		Symbol:       symbol,
		Side:         models.SideLong,
		EntryPrice:   decimal.NewFromInt(100),
		PositionSize: decimal.NewFromInt(1),
		Result:       models.ResultPending,
	}
}

func TestCreateUser_CreatesFallbackDefault(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	u := createUser(t, s, "a@example.com")
	require.NotNil(t, u.DefaultCategoryID)

	fallback, err := s.CategoryByName(ctx, u.ID, models.FallbackCategoryName)
	require.NoError(t, err)
	assert.Equal(t, *u.DefaultCategoryID, fallback.ID)

	loaded, err := s.UserByToken(ctx, u.APIToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, loaded.ID)
	assert.Equal(t, fallback.ID, *loaded.DefaultCategoryID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupStore(t)
	createUser(t, s, "a@example.com")

	err := s.CreateUser(context.Background(), &models.User{Email: "a@example.com", APIToken: "other"})
	assert.ErrorIs(t, err, journal.ErrConflict)
}

func TestLookups_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.UserByID(ctx, 42)
	assert.ErrorIs(t, err, journal.ErrNotFound)
	_, err = s.UserByToken(ctx, "missing")
	assert.ErrorIs(t, err, journal.ErrNotFound)
	_, err = s.CategoryByID(ctx, 42)
	assert.ErrorIs(t, err, journal.ErrNotFound)
	_, err = s.CategoryByName(ctx, 1, "nope")
	assert.ErrorIs(t, err, journal.ErrNotFound)
	_, err = s.TradeByID(ctx, "missing")
	assert.ErrorIs(t, err, journal.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTrade(ctx, "missing"), journal.ErrNotFound)
}

func TestCategory_UniquePerUser(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	a := createUser(t, s, "a@example.com")
	b := createUser(t, s, "b@example.com")

	require.NoError(t, s.CreateCategory(ctx, &models.Category{UserID: a.ID, Name: "scalp"}))
	// Same name for another user is fine.
	require.NoError(t, s.CreateCategory(ctx, &models.Category{UserID: b.ID, Name: "scalp"}))

	err := s.CreateCategory(ctx, &models.Category{UserID: a.ID, Name: "scalp"})
	assert.ErrorIs(t, err, journal.ErrConflict)

	categories, err := s.ListCategories(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, models.FallbackCategoryName, categories[0].Name)
	assert.Equal(t, "scalp", categories[1].Name)
}

func TestDeleteCategory_ReassignsTrades(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "a@example.com")

	scalp := &models.Category{UserID: u.ID, Name: "scalp"}
	require.NoError(t, s.CreateCategory(ctx, scalp))

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateTrade(ctx, newTrade(u.ID, scalp.ID, now, "BTC")))
	}

	moved, err := s.DeleteCategory(ctx, scalp, *u.DefaultCategoryID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), moved)

	trades, err := s.ListTrades(ctx, u.ID, journal.TradeFilter{})
	require.NoError(t, err)
	for _, tr := range trades {
		assert.Equal(t, models.FallbackCategoryName, tr.Category.Name)
	}

	_, err = s.CategoryByID(ctx, scalp.ID)
	assert.ErrorIs(t, err, journal.ErrNotFound)
	// The name is free again.
	assert.NoError(t, s.CreateCategory(ctx, &models.Category{UserID: u.ID, Name: "scalp"}))
}

func TestTrade_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "a@example.com")

	tr := newTrade(u.ID, *u.DefaultCategoryID, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), "ETH")
	tr.ExitPrice = decimal.NewNullDecimal(decimal.RequireFromString("123.45"))
	tr.Leverage = decimal.NewNullDecimal(decimal.NewFromInt(5))
	tr.Comment = "note"
	require.NoError(t, s.CreateTrade(ctx, tr))

	loaded, err := s.TradeByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Date.Equal(tr.Date))
	assert.True(t, loaded.ExitPrice.Valid)
	assert.True(t, loaded.ExitPrice.Decimal.Equal(decimal.RequireFromString("123.45")))
	assert.False(t, loaded.StopLoss.Valid)
	assert.Equal(t, models.FallbackCategoryName, loaded.Category.Name)
	assert.Equal(t, "note", loaded.Comment)

	loaded.ExitPrice = decimal.NullDecimal{}
	loaded.Comment = ""
	require.NoError(t, s.UpdateTrade(ctx, loaded))

	reloaded, err := s.TradeByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.ExitPrice.Valid)
	assert.Equal(t, "", reloaded.Comment)

	require.NoError(t, s.DeleteTrade(ctx, tr.ID))
	_, err = s.TradeByID(ctx, tr.ID)
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestListTrades_Filters(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "a@example.com")
	other := createUser(t, s, "b@example.com")
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	btc := newTrade(u.ID, *u.DefaultCategoryID, day(3), "BTC")
	eth := newTrade(u.ID, *u.DefaultCategoryID, day(1), "ETH")
	eth.Side = models.SideShort
	demo := newTrade(u.ID, *u.DefaultCategoryID, day(2), "BTC")
	demo.IsDemo = true
	foreign := newTrade(other.ID, *other.DefaultCategoryID, day(2), "BTC")
	for _, tr := range []*models.Trade{btc, eth, demo, foreign} {
		require.NoError(t, s.CreateTrade(ctx, tr))
	}

	ids := func(f journal.TradeFilter) []string {
		trades, err := s.ListTrades(ctx, u.ID, f)
		require.NoError(t, err)
		out := make([]string, 0, len(trades))
		for _, tr := range trades {
			out = append(out, tr.ID)
		}
		return out
	}

	assert.Equal(t, []string{btc.ID, eth.ID, demo.ID}, ids(journal.TradeFilter{}), "insertion order")
	assert.Equal(t, []string{btc.ID, demo.ID}, ids(journal.TradeFilter{Symbol: "btc"}))
	assert.Equal(t, []string{eth.ID}, ids(journal.TradeFilter{Side: models.SideShort}))
	assert.Equal(t, []string{btc.ID, eth.ID}, ids(journal.TradeFilter{ExcludeDemo: true}))
	assert.Equal(t, []string{eth.ID, demo.ID}, ids(journal.TradeFilter{To: day(2)}))
	assert.Equal(t, []string{btc.ID, demo.ID}, ids(journal.TradeFilter{From: day(2)}))
	assert.Empty(t, ids(journal.TradeFilter{CategoryID: 9999}))
}

func TestDeleteDemoTrades(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	u := createUser(t, s, "a@example.com")

	kept := newTrade(u.ID, *u.DefaultCategoryID, time.Now(), "BTC")
	require.NoError(t, s.CreateTrade(ctx, kept))
	for i := 0; i < 4; i++ {
		demo := newTrade(u.ID, *u.DefaultCategoryID, time.Now(), "ETH")
		demo.IsDemo = true
		require.NoError(t, s.CreateTrade(ctx, demo))
	}

	n, err := s.DeleteDemoTrades(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	trades, err := s.ListTrades(ctx, u.ID, journal.TradeFilter{})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, kept.ID, trades[0].ID)
}
