package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTradesCSV(t *testing.T) {
	trades := []models.Trade{
		{
			ID:           "01HZX0000000000000000000A1",
			Date:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Symbol:       "BTC",
			Side:         models.SideLong,
			Category:     models.Category{Name: "swing"},
			EntryPrice:   decimal.NewFromInt(100),
			ExitPrice:    decimal.NewNullDecimal(decimal.NewFromInt(110)),
			PositionSize: decimal.NewFromInt(2),
			Commission:   decimal.NewFromInt(1),
			Deposit:      decimal.NewFromInt(1000),
			PnL:          decimal.NewFromInt(19),
			RiskPercent:  decimal.Zero,
			Investment:   decimal.NewFromInt(200),
			Result:       models.ResultWin,
			Comment:      "breakout, clean",
		},
		{
			ID:           "01HZX0000000000000000000A2",
			Date:         time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Symbol:       "ETH",
			Side:         models.SideShort,
			Category:     models.Category{Name: "solo"},
			EntryPrice:   decimal.NewFromInt(50),
			PositionSize: decimal.NewFromInt(1),
			Result:       models.ResultPending,
			IsDemo:       true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, trades))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, tradeHeader, rows[0])
	assert.Equal(t, "2024-03-01T12:00:00Z", rows[1][1])
	assert.Equal(t, "swing", rows[1][4])
	assert.Equal(t, "110", rows[1][6])
	assert.Equal(t, "0.00", rows[1][13])
	assert.Equal(t, "breakout, clean", rows[1][17])

	assert.Equal(t, "", rows[2][6], "open trade has no exit price")
	assert.Equal(t, "PENDING", rows[2][15])
	assert.Equal(t, "true", rows[2][16])
}

func TestWriteTradesCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
