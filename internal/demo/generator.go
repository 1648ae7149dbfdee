package demo

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/market"
	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// referencePrices are used when no quote client is configured or it fails.
var referencePrices = map[string]float64{
	"BTC":  60000,
	"ETH":  3200,
	"SOL":  150,
	"XRP":  0.6,
	"BNB":  550,
	"ADA":  0.45,
	"DOGE": 0.15,
}

const (
	unknownSymbolPrice = 100
	historyDays        = 90
	pendingShare       = 0.15
	commissionRate     = 0.001
)

var leverages = []int64{2, 3, 5, 10}

// Generator produces plausible random trade submissions around current or
// reference prices. It implements journal.DemoGenerator.
type Generator struct {
	quotes  market.QuoteClient
	symbols []string
	logger  *zap.Logger
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// ensure Generator implements the interface
var _ journal.DemoGenerator = (*Generator)(nil)

// NewGenerator creates a Generator. quotes may be nil. A zero seed means a
// time-based seed.
func NewGenerator(cfg config.Demo, quotes market.QuoteClient, logger *zap.Logger) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	symbols := make([]string, 0, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		symbols = []string{"BTC", "ETH"}
	}
	return &Generator{
		quotes:  quotes,
		symbols: symbols,
		logger:  logger.Named("demo"),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate returns n trade submissions spread over the last 90 days. Each
// one is filed under a random category from categories, if any.
func (g *Generator) Generate(ctx context.Context, n int, categories []models.Category) ([]journal.TradeInput, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", journal.ErrValidation)
	}
	prices := g.prices(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	out := make([]journal.TradeInput, 0, n)
	for i := 0; i < n; i++ {
		sym := g.symbols[g.rng.Intn(len(g.symbols))]
		in := g.trade(sym, prices[sym], now)
		if len(categories) > 0 {
			id := categories[g.rng.Intn(len(categories))].ID
			in.CategoryID = &id
		}
		out = append(out, in)
	}
	return out, nil
}

// prices returns a base price for every configured symbol.
func (g *Generator) prices(ctx context.Context) map[string]decimal.Decimal {
	var live map[string]decimal.Decimal
	if g.quotes != nil {
		var err error
		live, err = g.quotes.GetTickerPrices(ctx)
		if err != nil {
			g.logger.Warn("Falling back to reference prices", zap.Error(err))
			live = nil
		}
	}

	out := make(map[string]decimal.Decimal, len(g.symbols))
	for _, sym := range g.symbols {
		if p, ok := live[sym]; ok && p.IsPositive() {
			out[sym] = p
			continue
		}
		ref, ok := referencePrices[sym]
		if !ok {
			ref = unknownSymbolPrice
		}
		out[sym] = decimal.NewFromFloat(ref)
	}
	return out
}

// trade draws one submission. Callers hold g.mu.
func (g *Generator) trade(sym string, base decimal.Decimal, now time.Time) journal.TradeInput {
	places := int32(2)
	if base.LessThan(decimal.NewFromInt(10)) {
		places = 4
	}

	side := models.SideLong
	if g.rng.Intn(2) == 0 {
		side = models.SideShort
	}

	entry := base.Mul(g.jitter(0.05)).Round(places)
	notional := decimal.NewFromInt(int64(100 + g.rng.Intn(1900)))
	size := notional.Div(entry).Round(4)
	if !size.IsPositive() {
		size = decimal.New(1, -4)
	}

	stopDistance := decimal.NewFromFloat(0.01 + g.rng.Float64()*0.04)
	stop := entry.Mul(decimal.NewFromInt(1).Sub(stopDistance))
	if side == models.SideShort {
		stop = entry.Mul(decimal.NewFromInt(1).Add(stopDistance))
	}

	in := journal.TradeInput{
		Date:         now.Add(-time.Duration(g.rng.Int63n(int64(historyDays * 24 * time.Hour)))),
		Symbol:       sym,
		Side:         side,
		EntryPrice:   entry,
		StopLoss:     decimal.NewNullDecimal(stop.Round(places)),
		PositionSize: size,
		Commission:   entry.Mul(size).Mul(decimal.NewFromFloat(commissionRate)).Round(2),
		Comment:      "demo trade",
	}

	if g.rng.Intn(2) == 0 {
		in.Leverage = decimal.NewNullDecimal(decimal.NewFromInt(leverages[g.rng.Intn(len(leverages))]))
	}

	if g.rng.Float64() >= pendingShare {
		// Moves skew slightly positive: -6% to +8%.
		move := decimal.NewFromFloat(-0.06 + g.rng.Float64()*0.14)
		exit := entry.Mul(decimal.NewFromInt(1).Add(move)).Round(places)
		if exit.IsPositive() {
			in.ExitPrice = decimal.NewNullDecimal(exit)
		}
	}
	return in
}

// jitter returns a factor within ±spread/2 of 1.
func (g *Generator) jitter(spread float64) decimal.Decimal {
	return decimal.NewFromFloat(1 + (g.rng.Float64()-0.5)*spread)
}
