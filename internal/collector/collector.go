package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"ForecastSentinel/internal/calculator"
	"ForecastSentinel/internal/exchange"
	"ForecastSentinel/internal/model"
)

// Collector fetches history for one symbol and computes its indicators.
type Collector struct {
	Exchange     exchange.Exchange
	Symbol       string
	Interval     string
	LookbackDays int
	RSIPeriod    int
	SMAPeriod    int
}

// NewCollector creates a new Collector.
func NewCollector(ex exchange.Exchange, symbol, interval string, lookbackDays, rsiPeriod, smaPeriod int) *Collector {
	return &Collector{
		Exchange:     ex,
		Symbol:       symbol,
		Interval:     interval,
		LookbackDays: lookbackDays,
		RSIPeriod:    rsiPeriod,
		SMAPeriod:    smaPeriod,
	}
}

// Collect fetches fresh history and computes the indicator snapshot. Exchange errors are
// returned as-is for the caller to classify.
func (c *Collector) Collect(ctx context.Context) (*model.MarketSnapshot, error) {
	series, err := c.Exchange.FetchHistory(ctx, c.Symbol, c.Interval, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if dropped := Normalize(&series); dropped > 0 {
		log.Printf("[WARN] dropped %d duplicate bars from %s history", dropped, c.Symbol)
	}
	last, ok := series.Last()
	if !ok {
		return nil, errors.New("empty history")
	}

	return &model.MarketSnapshot{
		Series:     series,
		Price:      last.Close,
		Indicators: calculator.Snapshot(series, c.RSIPeriod, c.SMAPeriod),
	}, nil
}

// Normalize sorts bars ascending by time and drops duplicate timestamps, keeping the bar
// fetched last for each timestamp. It returns how many bars were dropped.
func Normalize(series *model.PriceSeries) int {
	bars := series.Bars
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	dropped := len(bars) - len(out)
	series.Bars = out
	return dropped
}
