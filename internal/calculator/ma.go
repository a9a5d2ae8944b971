package calculator

import (
	"errors"
	"fmt"

	talib "github.com/markcheno/go-talib"
)

// ErrInsufficientData is returned when a series is shorter than the indicator window.
var ErrInsufficientData = errors.New("not enough data for indicator window")

// CalculateSMA returns the latest simple moving average of closes over the given period.
func CalculateSMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, fmt.Errorf("SMA(%d) over %d closes: %w", period, len(closes), ErrInsufficientData)
	}
	out := talib.Sma(closes, period)
	return out[len(out)-1], nil
}
