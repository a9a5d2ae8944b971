package forecast

import (
	"errors"
	"fmt"
	"time"

	"ForecastSentinel/internal/model"

	talib "github.com/markcheno/go-talib"
)

// ErrInsufficientHistory is returned when the series is too short to fit a trend.
var ErrInsufficientHistory = errors.New("insufficient history for forecast")

// DefaultHorizonDays is the number of future daily closes averaged into the summary.
const DefaultHorizonDays = 7

// Forecaster projects future closes from a price series.
type Forecaster interface {
	Forecast(series model.PriceSeries) (model.ForecastSummary, error)
}

// TrendSeasonal fits a least-squares linear trend over the bar index plus additive day-of-week
// seasonality and extrapolates HorizonDays daily points after the last bar. It is closed-form,
// so the same series always yields the same forecast.
type TrendSeasonal struct {
	HorizonDays int
}

// NewTrendSeasonal creates a forecaster; a non-positive horizon falls back to DefaultHorizonDays.
func NewTrendSeasonal(horizonDays int) *TrendSeasonal {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &TrendSeasonal{HorizonDays: horizonDays}
}

// seasonalMinSpan is the history span needed before weekday effects are estimated.
const seasonalMinSpan = 14 * 24 * time.Hour

// Forecast implements Forecaster.
func (f *TrendSeasonal) Forecast(series model.PriceSeries) (model.ForecastSummary, error) {
	h := f.HorizonDays
	if h <= 0 {
		h = DefaultHorizonDays
	}
	n := len(series.Bars)
	if n < 2*h {
		return model.ForecastSummary{}, fmt.Errorf("%d bars for a %d-day horizon (need %d): %w",
			n, h, 2*h, ErrInsufficientHistory)
	}

	origin := series.Bars[0].Time
	last := series.Bars[n-1].Time
	barDays := daysSince(origin, last) / float64(n-1)
	if barDays <= 0 {
		return model.ForecastSummary{}, fmt.Errorf("all bars share one timestamp: %w", ErrInsufficientHistory)
	}

	closes := series.Closes()
	intercept, slope := fitTrend(closes)

	var season [7]float64
	if last.Sub(origin) >= seasonalMinSpan {
		season = weekdayEffects(series.Bars, intercept, slope)
	}

	points := make([]model.ForecastPoint, h)
	sum := 0.0
	for k := 1; k <= h; k++ {
		t := last.AddDate(0, 0, k)
		x := daysSince(origin, t) / barDays
		y := intercept + slope*x + season[t.UTC().Weekday()]
		points[k-1] = model.ForecastPoint{Time: t, Price: y}
		sum += y
	}

	return model.ForecastSummary{
		AverageForecastPrice: sum / float64(h),
		HorizonDays:          h,
		Points:               points,
	}, nil
}

func daysSince(origin, t time.Time) float64 {
	return t.Sub(origin).Hours() / 24
}

// fitTrend returns the least-squares line close = intercept + slope*i over the bar index i.
func fitTrend(closes []float64) (intercept, slope float64) {
	n := len(closes)
	return talib.LinearRegIntercept(closes, n)[n-1], talib.LinearRegSlope(closes, n)[n-1]
}

// weekdayEffects returns the mean detrended residual per UTC weekday. Weekdays without
// observations get zero.
func weekdayEffects(bars []model.OHLCV, intercept, slope float64) [7]float64 {
	var sums [7]float64
	var counts [7]int
	for i, b := range bars {
		wd := b.Time.UTC().Weekday()
		sums[wd] += b.Close - (intercept + slope*float64(i))
		counts[wd]++
	}
	var effects [7]float64
	for wd := range effects {
		if counts[wd] > 0 {
			effects[wd] = sums[wd] / float64(counts[wd])
		}
	}
	return effects
}
