package journal

import (
	"slices"
	"time"

	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

// PnLPoint is one step of the cumulative PnL curve.
type PnLPoint struct {
	Date          time.Time       `json:"date"`
	CumulativePnL decimal.Decimal `json:"cumulativePnl"`
}

// CategoryCount is the number of trades filed under one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Share is a named whole-number percentage of the trade count.
type Share struct {
	Name    string `json:"name"`
	Percent int64  `json:"percent"`
}

// Summary holds headline totals for a set of trades.
type Summary struct {
	TotalTrades     int             `json:"totalTrades"`
	Wins            int             `json:"wins"`
	Losses          int             `json:"losses"`
	Pending         int             `json:"pending"`
	TotalPnL        decimal.Decimal `json:"totalPnl"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	// WinRate is wins over closed trades, 0..1.
	WinRate float64 `json:"winRate"`
}

// Dashboard bundles every series derived from a trade collection.
type Dashboard struct {
	Summary            Summary         `json:"summary"`
	CumulativePnL      []PnLPoint      `json:"cumulativePnl"`
	CategoryCounts     []CategoryCount `json:"categoryCounts"`
	WinLoss            []Share         `json:"winLoss"`
	LongShort          []Share         `json:"longShort"`
	SymbolDistribution []Share         `json:"symbolDistribution"`
}

// CumulativePnL orders trades by date and emits the running pnl total after
// each one. Trades sharing a date keep their input order.
func CumulativePnL(trades []models.Trade) []PnLPoint {
	sorted := slices.Clone(trades)
	slices.SortStableFunc(sorted, func(a, b models.Trade) int {
		return a.Date.Compare(b.Date)
	})

	points := make([]PnLPoint, 0, len(sorted))
	running := decimal.Zero
	for _, t := range sorted {
		running = running.Add(t.PnL)
		points = append(points, PnLPoint{Date: t.Date, CumulativePnL: running})
	}
	return points
}

// CategoryCounts counts trades per category name in first-seen order.
func CategoryCounts(trades []models.Trade) []CategoryCount {
	counts := make([]CategoryCount, 0)
	index := make(map[string]int)
	for _, t := range trades {
		name := t.Category.Name
		i, ok := index[name]
		if !ok {
			i = len(counts)
			index[name] = i
			counts = append(counts, CategoryCount{Category: name})
		}
		counts[i].Count++
	}
	return counts
}

// WinLoss returns the winning and losing percentages. Pending trades count
// toward the total but neither bucket, so the two need not sum to 100.
func WinLoss(trades []models.Trade) []Share {
	if len(trades) == 0 {
		return []Share{}
	}
	var wins, losses int
	for _, t := range trades {
		switch t.Result {
		case models.ResultWin:
			wins++
		case models.ResultLoss:
			losses++
		}
	}
	total := len(trades)
	return []Share{
		{Name: "Winning", Percent: percentOf(wins, total)},
		{Name: "Losing", Percent: percentOf(losses, total)},
	}
}

// LongShort returns the percentage of long and short trades.
func LongShort(trades []models.Trade) []Share {
	if len(trades) == 0 {
		return []Share{}
	}
	var long, short int
	for _, t := range trades {
		switch t.Side {
		case models.SideLong:
			long++
		case models.SideShort:
			short++
		}
	}
	total := len(trades)
	return []Share{
		{Name: "Long", Percent: percentOf(long, total)},
		{Name: "Short", Percent: percentOf(short, total)},
	}
}

// SymbolDistribution returns each symbol's share of the trade count, largest
// count first. Equal counts keep first-seen order.
func SymbolDistribution(trades []models.Trade) []Share {
	if len(trades) == 0 {
		return []Share{}
	}
	var order []string
	counts := make(map[string]int)
	for _, t := range trades {
		if _, ok := counts[t.Symbol]; !ok {
			order = append(order, t.Symbol)
		}
		counts[t.Symbol]++
	}

	// Rounded percents can tie for different counts, so order on the counts.
	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	shares := make([]Share, 0, len(order))
	for _, symbol := range order {
		shares = append(shares, Share{Name: symbol, Percent: percentOf(counts[symbol], len(trades))})
	}
	return shares
}

// Summarize computes the headline totals for trades.
func Summarize(trades []models.Trade) Summary {
	s := Summary{
		TotalTrades:     len(trades),
		TotalPnL:        decimal.Zero,
		TotalCommission: decimal.Zero,
	}
	for _, t := range trades {
		switch t.Result {
		case models.ResultWin:
			s.Wins++
		case models.ResultLoss:
			s.Losses++
		default:
			s.Pending++
		}
		s.TotalPnL = s.TotalPnL.Add(t.PnL)
		s.TotalCommission = s.TotalCommission.Add(t.Commission)
	}
	if closed := s.Wins + s.Losses; closed > 0 {
		s.WinRate = float64(s.Wins) / float64(closed)
	}
	return s
}

// BuildDashboard folds trades into every dashboard series.
func BuildDashboard(trades []models.Trade) Dashboard {
	return Dashboard{
		Summary:            Summarize(trades),
		CumulativePnL:      CumulativePnL(trades),
		CategoryCounts:     CategoryCounts(trades),
		WinLoss:            WinLoss(trades),
		LongShort:          LongShort(trades),
		SymbolDistribution: SymbolDistribution(trades),
	}
}

// percentOf returns part/total*100 rounded half up. total must be positive.
func percentOf(part, total int) int64 {
	return decimal.NewFromInt(int64(part)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart()
}
