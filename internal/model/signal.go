package model

import "time"

// ActionKind is the outcome of one decision.
type ActionKind string

const (
	ActionBuy  ActionKind = "BUY"
	ActionSell ActionKind = "SELL"
	ActionHold ActionKind = "HOLD"
)

// Side is the order side sent to the exchange.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeAction is the decision engine output. It is produced fresh each cycle and never stored
// as state.
type TradeAction struct {
	Kind     ActionKind
	Quantity float64 // base-asset units, zero for HOLD
	Reason   string
}

// Side maps the action to an order side. ok is false for HOLD.
func (a TradeAction) Side() (side Side, ok bool) {
	switch a.Kind {
	case ActionBuy:
		return SideBuy, true
	case ActionSell:
		return SideSell, true
	default:
		return "", false
	}
}

// Hold returns a HOLD action with the given reason.
func Hold(reason string) TradeAction {
	return TradeAction{Kind: ActionHold, Reason: reason}
}

// CycleReport is everything one decision cycle observed and did.
type CycleReport struct {
	StartedAt  time.Time
	Symbol     string
	Price      float64
	Indicators IndicatorSnapshot
	Forecast   ForecastSummary
	Balances   AccountBalances
	LotSize    LotSizeRule
	Action     TradeAction
	Order      *OrderResult
	OrderErr   string
}
