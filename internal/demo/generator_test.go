package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockQuoteClient is a mock implementation of market.QuoteClient.
type MockQuoteClient struct {
	mock.Mock
}

func (m *MockQuoteClient) GetTickerPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called()
	prices, _ := args.Get(0).(map[string]decimal.Decimal)
	return prices, args.Error(1)
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator(quotes *MockQuoteClient, symbols ...string) *Generator {
	cfg := config.Demo{Symbols: symbols, Seed: 42}
	var g *Generator
	if quotes == nil {
		g = NewGenerator(cfg, nil, zap.NewNop())
	} else {
		g = NewGenerator(cfg, quotes, zap.NewNop())
	}
	g.now = func() time.Time { return fixedNow }
	return g
}

func TestGenerate_ProducesValidInputs(t *testing.T) {
	// Arrange
	g := newTestGenerator(nil, "btc", "ETH", "XRP")
	categories := []models.Category{
		{Model: gorm.Model{ID: 3}, Name: "solo"},
		{Model: gorm.Model{ID: 8}, Name: "swing"},
	}

	// Act
	inputs, err := g.Generate(context.Background(), 200, categories)

	// Assert
	require.NoError(t, err)
	require.Len(t, inputs, 200)

	var pending, withExit int
	for i := range inputs {
		in := inputs[i]
		in.Normalize()
		assert.NoError(t, in.Validate(), "input %d", i)
		assert.Contains(t, []string{"BTC", "ETH", "XRP"}, in.Symbol)
		require.NotNil(t, in.CategoryID)
		assert.Contains(t, []uint{3, 8}, *in.CategoryID)
		assert.False(t, in.Date.After(fixedNow))
		assert.True(t, in.Date.After(fixedNow.AddDate(0, 0, -historyDays-1)))
		assert.True(t, in.StopLoss.Valid)
		if in.Side == models.SideLong {
			assert.True(t, in.StopLoss.Decimal.LessThan(in.EntryPrice), "long stop below entry")
		} else {
			assert.True(t, in.StopLoss.Decimal.GreaterThan(in.EntryPrice), "short stop above entry")
		}
		if in.ExitPrice.Valid {
			withExit++
		} else {
			pending++
		}
	}
	assert.Greater(t, pending, 0)
	assert.Greater(t, withExit, pending)
}

func TestGenerate_UsesLiveQuotes(t *testing.T) {
	// Arrange
	quotes := new(MockQuoteClient)
	quotes.On("GetTickerPrices").Return(map[string]decimal.Decimal{"BTC": decimal.NewFromInt(10000)}, nil)
	g := newTestGenerator(quotes, "BTC")

	// Act
	inputs, err := g.Generate(context.Background(), 20, nil)

	// Assert
	require.NoError(t, err)
	for _, in := range inputs {
		assert.True(t, in.EntryPrice.GreaterThanOrEqual(decimal.NewFromInt(9750)), in.EntryPrice.String())
		assert.True(t, in.EntryPrice.LessThanOrEqual(decimal.NewFromInt(10250)), in.EntryPrice.String())
		assert.Nil(t, in.CategoryID, "no categories given")
	}
	quotes.AssertExpectations(t)
}

func TestGenerate_FallsBackOnQuoteError(t *testing.T) {
	// Arrange
	quotes := new(MockQuoteClient)
	quotes.On("GetTickerPrices").Return(nil, errors.New("exchange down"))
	g := newTestGenerator(quotes, "ETH", "NEWCOIN")

	// Act
	inputs, err := g.Generate(context.Background(), 50, nil)

	// Assert
	require.NoError(t, err)
	for _, in := range inputs {
		base := decimal.NewFromFloat(referencePrices["ETH"])
		if in.Symbol == "NEWCOIN" {
			base = decimal.NewFromInt(unknownSymbolPrice)
		}
		low := base.Mul(decimal.NewFromFloat(0.97))
		high := base.Mul(decimal.NewFromFloat(1.03))
		assert.True(t, in.EntryPrice.GreaterThan(low) && in.EntryPrice.LessThan(high),
			"%s entry %s outside %s..%s", in.Symbol, in.EntryPrice, low, high)
	}
}

func TestGenerate_SameSeedSameTrades(t *testing.T) {
	a, err := newTestGenerator(nil, "BTC", "SOL").Generate(context.Background(), 10, nil)
	require.NoError(t, err)
	b, err := newTestGenerator(nil, "BTC", "SOL").Generate(context.Background(), 10, nil)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Symbol, b[i].Symbol)
		assert.True(t, a[i].EntryPrice.Equal(b[i].EntryPrice))
		assert.Equal(t, a[i].Date, b[i].Date)
	}
}

func TestGenerate_RejectsNonPositiveCount(t *testing.T) {
	_, err := newTestGenerator(nil).Generate(context.Background(), 0, nil)
	assert.ErrorIs(t, err, journal.ErrValidation)
}

func TestNewGenerator_DefaultSymbols(t *testing.T) {
	g := NewGenerator(config.Demo{Symbols: []string{" ", ""}}, nil, zap.NewNop())
	assert.Equal(t, []string{"BTC", "ETH"}, g.symbols)
}
