package calculator

import (
	"log"

	"ForecastSentinel/internal/model"
)

// Snapshot computes the latest RSI and SMA of a series. A value whose window is not covered is
// left undefined instead of being defaulted, so callers can hold rather than act on it.
func Snapshot(series model.PriceSeries, rsiPeriod, smaPeriod int) model.IndicatorSnapshot {
	closes := series.Closes()
	var snap model.IndicatorSnapshot

	if rsi, err := CalculateRSI(closes, rsiPeriod); err != nil {
		log.Printf("[WARN] RSI unavailable: %v", err)
	} else {
		snap.RSI, snap.HasRSI = rsi, true
	}

	if sma, err := CalculateSMA(closes, smaPeriod); err != nil {
		log.Printf("[WARN] SMA unavailable: %v", err)
	} else {
		snap.SMA, snap.HasSMA = sma, true
	}

	if h, l, err := CalculateRange(series.Bars); err == nil {
		snap.PeriodHigh, snap.PeriodLow = h, l
	}
	return snap
}
