package journal

import (
	"testing"
	"time"

	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func statTrade(id string, day int, symbol string, side models.Side, result models.Result, pnl, category string) models.Trade {
	return models.Trade{
		ID:         id,
		Date:       base.AddDate(0, 0, day),
		Symbol:     symbol,
		Side:       side,
		Result:     result,
		PnL:        d(pnl),
		Commission: d("0.5"),
		Category:   models.Category{Name: category},
	}
}

func sampleTrades() []models.Trade {
	return []models.Trade{
		statTrade("a", 2, "BTC", models.SideLong, models.ResultWin, "10", "swing"),
		statTrade("b", 0, "ETH", models.SideShort, models.ResultLoss, "-4", "scalp"),
		statTrade("c", 2, "BTC", models.SideLong, models.ResultLoss, "-1", "swing"),
		statTrade("d", 1, "SOL", models.SideLong, models.ResultPending, "0", "solo"),
	}
}

func TestCumulativePnL(t *testing.T) {
	points := CumulativePnL(sampleTrades())
	require.Len(t, points, 4)

	// Sorted by date; "a" and "c" share a date and keep input order.
	expected := []string{"-4", "-4", "6", "5"}
	for i, p := range points {
		assert.True(t, d(expected[i]).Equal(p.CumulativePnL), "point %d: expected %s, got %s", i, expected[i], p.CumulativePnL)
	}
	assert.True(t, points[2].Date.Equal(points[3].Date))
}

func TestCumulativePnL_StableTieBreak(t *testing.T) {
	trades := []models.Trade{
		statTrade("first", 0, "BTC", models.SideLong, models.ResultWin, "100", "x"),
		statTrade("second", 0, "BTC", models.SideLong, models.ResultLoss, "-300", "x"),
		statTrade("third", 0, "BTC", models.SideLong, models.ResultWin, "50", "x"),
	}
	points := CumulativePnL(trades)

	assert.True(t, d("100").Equal(points[0].CumulativePnL))
	assert.True(t, d("-200").Equal(points[1].CumulativePnL))
	assert.True(t, d("-150").Equal(points[2].CumulativePnL))
}

func TestCumulativePnL_LastEqualsSum(t *testing.T) {
	trades := sampleTrades()
	for n := 1; n <= len(trades); n++ {
		points := CumulativePnL(trades[:n])
		assert.Len(t, points, n)

		sum := decimal.Zero
		for _, tr := range trades[:n] {
			sum = sum.Add(tr.PnL)
		}
		assert.True(t, sum.Equal(points[len(points)-1].CumulativePnL))
	}
}

func TestCumulativePnL_DoesNotReorderInput(t *testing.T) {
	trades := sampleTrades()
	CumulativePnL(trades)
	assert.Equal(t, "a", trades[0].ID)
	assert.Equal(t, "b", trades[1].ID)
}

func TestCategoryCounts(t *testing.T) {
	counts := CategoryCounts(sampleTrades())
	assert.Equal(t, []CategoryCount{
		{Category: "swing", Count: 2},
		{Category: "scalp", Count: 1},
		{Category: "solo", Count: 1},
	}, counts)
}

func TestWinLoss(t *testing.T) {
	t.Run("pending counts toward total only", func(t *testing.T) {
		shares := WinLoss(sampleTrades())
		assert.Equal(t, []Share{{Name: "Winning", Percent: 25}, {Name: "Losing", Percent: 50}}, shares)
		assert.LessOrEqual(t, shares[0].Percent+shares[1].Percent, int64(100))
	})

	t.Run("all closed sums to 100", func(t *testing.T) {
		trades := sampleTrades()[:3]
		shares := WinLoss(trades)
		assert.Equal(t, []Share{{Name: "Winning", Percent: 33}, {Name: "Losing", Percent: 67}}, shares)
		assert.Equal(t, int64(100), shares[0].Percent+shares[1].Percent)
	})
}

func TestLongShort(t *testing.T) {
	shares := LongShort(sampleTrades())
	assert.Equal(t, []Share{{Name: "Long", Percent: 75}, {Name: "Short", Percent: 25}}, shares)
}

func TestSymbolDistribution(t *testing.T) {
	shares := SymbolDistribution(sampleTrades())
	assert.Equal(t, []Share{
		{Name: "BTC", Percent: 50},
		{Name: "ETH", Percent: 25},
		{Name: "SOL", Percent: 25},
	}, shares)
}

func TestSymbolDistribution_OrdersByCount(t *testing.T) {
	// ADA 3, XRP 4, BTC 993 of 1000: ADA and XRP both round to 0%.
	var trades []models.Trade
	add := func(symbol string, n int) {
		for i := 0; i < n; i++ {
			trades = append(trades, models.Trade{Symbol: symbol})
		}
	}
	add("ADA", 3)
	add("XRP", 4)
	add("BTC", 993)

	shares := SymbolDistribution(trades)
	assert.Equal(t, []Share{
		{Name: "BTC", Percent: 99},
		{Name: "XRP", Percent: 0},
		{Name: "ADA", Percent: 0},
	}, shares)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTrades())
	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.Equal(t, 1, s.Pending)
	assert.True(t, d("5").Equal(s.TotalPnL))
	assert.True(t, d("2").Equal(s.TotalCommission))
	assert.InDelta(t, 1.0/3.0, s.WinRate, 0.0001)
}

func TestBuildDashboard_Empty(t *testing.T) {
	for _, trades := range [][]models.Trade{nil, {}} {
		dash := BuildDashboard(trades)

		assert.NotNil(t, dash.CumulativePnL)
		assert.Empty(t, dash.CumulativePnL)
		assert.NotNil(t, dash.CategoryCounts)
		assert.Empty(t, dash.CategoryCounts)
		assert.Equal(t, []Share{}, dash.WinLoss)
		assert.Equal(t, []Share{}, dash.LongShort)
		assert.Equal(t, []Share{}, dash.SymbolDistribution)
		assert.Equal(t, 0, dash.Summary.TotalTrades)
		assert.True(t, dash.Summary.TotalPnL.IsZero())
		assert.Zero(t, dash.Summary.WinRate)
	}
}
