package exchange

import (
	"context"
	"errors"

	"ForecastSentinel/internal/model"
)

var (
	// ErrNetwork wraps transport failures (DNS, timeouts, connection resets).
	ErrNetwork = errors.New("network error")
	// ErrExchange wraps non-success responses from the exchange API.
	ErrExchange = errors.New("exchange error")
	// ErrSymbolNotFound is returned when the exchange does not list the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrOrderRejected is returned when the exchange refuses an order.
	ErrOrderRejected = errors.New("order rejected")
)

// Exchange is the account and market-data surface the decision cycle depends on.
// Implementations do not retry; the cycle decides what a failure means.
type Exchange interface {
	Name() string
	// FetchHistory returns bars of the given interval covering the last lookbackDays, ascending.
	FetchHistory(ctx context.Context, symbol, interval string, lookbackDays int) (model.PriceSeries, error)
	// FetchBalance returns the free balance of asset, or 0 when the account holds none.
	FetchBalance(ctx context.Context, asset string) (float64, error)
	FetchLotSizeRule(ctx context.Context, symbol string) (model.LotSizeRule, error)
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)
	PlaceMarketOrder(ctx context.Context, symbol string, side model.Side, quantity float64) (*model.OrderResult, error)
}

// Intervals lists the kline intervals accepted by Binance spot.
var Intervals = map[string]bool{
	"1s": true, "1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}
