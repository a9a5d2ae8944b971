package model

import "time"

// IndicatorSnapshot holds the latest indicator values of a series.
// HasRSI / HasSMA are false when the series is shorter than the indicator window.
type IndicatorSnapshot struct {
	RSI        float64
	SMA        float64
	HasRSI     bool
	HasSMA     bool
	PeriodHigh float64
	PeriodLow  float64
}

// ForecastPoint is one projected close.
type ForecastPoint struct {
	Time  time.Time
	Price float64
}

// ForecastSummary is the mean of the projected closes over the horizon.
type ForecastSummary struct {
	AverageForecastPrice float64
	HorizonDays          int
	Points               []ForecastPoint
}

// Valid reports whether a forecast was computed. The mean itself may be zero or negative when
// a steep decline is extrapolated.
func (f ForecastSummary) Valid() bool {
	return f.HorizonDays > 0
}
