package calculator

import (
	"errors"
	"fmt"

	talib "github.com/markcheno/go-talib"
)

// CalculateRSI returns the latest Wilder-smoothed RSI over the given period.
// Requires at least period+1 closes. A series that never closes lower has a zero smoothed loss
// and reads 100, flat series included.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period < 2 {
		return 0, errors.New("period must be at least 2")
	}
	if len(closes) < period+1 {
		return 0, fmt.Errorf("RSI(%d) over %d closes: %w", period, len(closes), ErrInsufficientData)
	}
	if !hasLoss(closes) {
		return maxRSI, nil
	}
	out := talib.Rsi(closes, period)
	return out[len(out)-1], nil
}

const maxRSI = 100.0

func hasLoss(closes []float64) bool {
	for i := 1; i < len(closes); i++ {
		if closes[i] < closes[i-1] {
			return true
		}
	}
	return false
}
