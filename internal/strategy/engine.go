package strategy

import (
	"errors"
	"fmt"

	"ForecastSentinel/internal/model"
	"ForecastSentinel/internal/sizing"
)

// Thresholds of the trading policy. The buy upside is a fixed factor and is not tied to the
// configured take-profit percentage.
const (
	OversoldRSI     = 30.0
	OverboughtRSI   = 70.0
	BuyUpsideFactor = 1.07
)

// Policy holds the configured parameters of the decision rule.
// StopLossPercent is carried for reporting only: without a tracked cost basis there is no entry
// price to measure a loss against, so no stop-loss branch exists.
type Policy struct {
	InvestmentAmount  float64 // quote units spent per BUY
	TakeProfitPercent float64 // e.g. 0.10
	StopLossPercent   float64
}

// Inputs is everything one decision needs. All values come from the current cycle.
type Inputs struct {
	Price       float64 // latest close, used for every threshold
	SizingPrice float64 // live ticker used to size a BUY; falls back to Price when zero
	Indicators  model.IndicatorSnapshot
	Forecast    model.ForecastSummary
	Balances    model.AccountBalances
	LotSize     model.LotSizeRule
}

// Decide returns BUY, SELL or HOLD. BUY is checked first and wins whenever its conditions hold;
// SELL is only considered when BUY's conditions do not.
func (p Policy) Decide(in Inputs) model.TradeAction {
	if !in.Indicators.HasRSI {
		return model.Hold("RSI unavailable")
	}
	if !in.Forecast.Valid() {
		return model.Hold("forecast unavailable")
	}
	if in.Price <= 0 {
		return model.Hold("no current price")
	}

	rsi := in.Indicators.RSI
	forecastAvg := in.Forecast.AverageForecastPrice

	if rsi < OversoldRSI && forecastAvg > in.Price*BuyUpsideFactor && in.Balances.Quote >= p.InvestmentAmount {
		return p.buy(in, rsi, forecastAvg)
	}

	takeProfit := in.Price > forecastAvg*(1+p.TakeProfitPercent)
	if (takeProfit || rsi > OverboughtRSI) && in.Balances.Base > 0 {
		return p.sell(in, rsi, takeProfit)
	}

	return model.Hold(fmt.Sprintf("no signal: RSI=%.2f forecast=%.2f price=%.2f", rsi, forecastAvg, in.Price))
}

func (p Policy) buy(in Inputs, rsi, forecastAvg float64) model.TradeAction {
	price := in.SizingPrice
	if price <= 0 {
		price = in.Price
	}
	qty, err := sizing.SizeOrder(p.InvestmentAmount, price, in.LotSize.StepSize)
	if err != nil {
		return model.Hold(holdReason("buy signal", err))
	}
	return model.TradeAction{
		Kind:     model.ActionBuy,
		Quantity: qty,
		Reason:   fmt.Sprintf("RSI %.2f < %.0f and forecast %.2f > %.2f", rsi, OversoldRSI, forecastAvg, in.Price*BuyUpsideFactor),
	}
}

func (p Policy) sell(in Inputs, rsi float64, takeProfit bool) model.TradeAction {
	qty, err := sizing.Quantize(in.Balances.Base, in.LotSize.StepSize)
	if err != nil {
		return model.Hold(holdReason("sell signal", err))
	}
	reason := fmt.Sprintf("RSI %.2f > %.0f", rsi, OverboughtRSI)
	if takeProfit {
		reason = fmt.Sprintf("price %.2f above take-profit %.2f", in.Price, in.Forecast.AverageForecastPrice*(1+p.TakeProfitPercent))
	}
	return model.TradeAction{Kind: model.ActionSell, Quantity: qty, Reason: reason}
}

func holdReason(signal string, err error) string {
	switch {
	case errors.Is(err, sizing.ErrZeroQuantity):
		return signal + " but quantity rounds to zero"
	case errors.Is(err, sizing.ErrInvalidStepSize):
		return signal + " but lot size is invalid"
	default:
		return fmt.Sprintf("%s but sizing failed: %v", signal, err)
	}
}
