package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds bars for one symbol, ascending by time with no duplicate timestamps.
type PriceSeries struct {
	Symbol    string
	Interval  string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the closing prices in bar order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar. ok is false for an empty series.
func (s PriceSeries) Last() (bar OHLCV, ok bool) {
	if len(s.Bars) == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// MarketSnapshot is what the collector hands to the decision cycle.
type MarketSnapshot struct {
	Series     PriceSeries
	Price      float64 // latest close
	Indicators IndicatorSnapshot
}
