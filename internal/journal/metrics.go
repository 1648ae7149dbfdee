package journal

import (
	"trading-journal-go/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculatePnL returns the signed profit of a trade after commission. The
// value is only meaningful once the exit price is known.
func CalculatePnL(side models.Side, entryPrice, exitPrice, positionSize, commission decimal.Decimal) decimal.Decimal {
	var priceDifference decimal.Decimal
	if side == models.SideLong {
		priceDifference = exitPrice.Sub(entryPrice)
	} else {
		priceDifference = entryPrice.Sub(exitPrice)
	}
	return priceDifference.Mul(positionSize).Sub(commission)
}

// CalculateRiskPercent returns the share of deposit lost if the stop loss is
// hit, rounded to 2 decimal places. Any zero input yields 0.
//
// Risk is a distance, so side does not change the magnitude.
func CalculateRiskPercent(side models.Side, entryPrice, stopLoss, positionSize, deposit decimal.Decimal) decimal.Decimal {
	if entryPrice.IsZero() || stopLoss.IsZero() || positionSize.IsZero() || deposit.IsZero() {
		return decimal.Zero
	}
	riskPerTrade := entryPrice.Sub(stopLoss).Abs().Mul(positionSize)
	return riskPerTrade.Div(deposit).Mul(hundred).Round(2)
}

// CalculateInvestment returns the capital committed to a position. With a
// positive leverage the notional is divided by it (the margin posted).
func CalculateInvestment(entryPrice, positionSize decimal.Decimal, leverage decimal.NullDecimal) decimal.Decimal {
	notional := entryPrice.Mul(positionSize)
	if leverage.Valid && leverage.Decimal.IsPositive() {
		return notional.Div(leverage.Decimal)
	}
	return notional
}

// ClassifyResult returns PENDING while the trade has no exit, WIN for a
// positive pnl and LOSS otherwise. A zero pnl is a loss.
func ClassifyResult(exitPresent bool, pnl decimal.Decimal) models.Result {
	if !exitPresent {
		return models.ResultPending
	}
	if pnl.IsPositive() {
		return models.ResultWin
	}
	return models.ResultLoss
}

// ApplyMetrics recomputes every derived field of t from its raw inputs.
func ApplyMetrics(t *models.Trade) {
	exitPresent := t.ExitPrice.Valid
	if exitPresent {
		t.PnL = CalculatePnL(t.Side, t.EntryPrice, t.ExitPrice.Decimal, t.PositionSize, t.Commission)
	} else {
		t.PnL = decimal.Zero
	}

	stopLoss := decimal.Zero
	if t.StopLoss.Valid {
		stopLoss = t.StopLoss.Decimal
	}
	t.RiskPercent = CalculateRiskPercent(t.Side, t.EntryPrice, stopLoss, t.PositionSize, t.Deposit)
	t.Investment = CalculateInvestment(t.EntryPrice, t.PositionSize, t.Leverage)
	t.Result = ClassifyResult(exitPresent, t.PnL)
}
