package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

var tradeHeader = []string{
	"id", "date", "symbol", "side", "category",
	"entry_price", "exit_price", "stop_loss", "position_size",
	"commission", "leverage", "deposit",
	"pnl", "risk_percent", "investment", "result",
	"is_demo", "comment",
}

// WriteTradesCSV writes a header row and one row per trade. Absent optional
// prices are written as empty cells.
func WriteTradesCSV(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}

	for _, t := range trades {
		row := []string{
			t.ID,
			t.Date.UTC().Format(time.RFC3339),
			t.Symbol,
			string(t.Side),
			t.Category.Name,
			t.EntryPrice.String(),
			nullable(t.ExitPrice),
			nullable(t.StopLoss),
			t.PositionSize.String(),
			t.Commission.String(),
			nullable(t.Leverage),
			t.Deposit.String(),
			t.PnL.String(),
			t.RiskPercent.StringFixed(2),
			t.Investment.String(),
			string(t.Result),
			strconv.FormatBool(t.IsDemo),
			t.Comment,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func nullable(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
