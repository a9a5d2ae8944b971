package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"ForecastSentinel/internal/model"
)

// wilderRSI is a direct Wilder RSI used as a reference for the talib result.
func wilderRSI(closes []float64, period int) float64 {
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

func zigzag(n int) []float64 {
	closes := make([]float64, n)
	p := 100.0
	for i := range closes {
		switch i % 5 {
		case 0, 1, 3:
			p += 1.5
		default:
			p -= 2.25
		}
		closes[i] = p
	}
	return closes
}

func seriesOf(closes []float64) model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return model.PriceSeries{Symbol: "BTCUSDT", Interval: "1d", Bars: bars}
}

func TestCalculateSMA(t *testing.T) {
	closes := []float64{11, 12, 13, 14, 20, 16}
	got, err := CalculateSMA(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (14 + 20 + 16) / 3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("SMA = %v, want %v", got, want)
	}

	if _, err := CalculateSMA(closes[:2], 3); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := CalculateSMA(closes, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateRSI_MatchesWilder(t *testing.T) {
	closes := zigzag(40)
	got, err := CalculateRSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := wilderRSI(closes, 14)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("RSI = %.6f, want %.6f", got, want)
	}
	if got <= 0 || got >= 100 {
		t.Errorf("RSI out of range: %v", got)
	}
}

func TestCalculateRSI_Extremes(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
	}
	if rsi, _ := CalculateRSI(up, 14); math.Abs(rsi-100) > 1e-9 {
		t.Errorf("expected RSI 100 for rising closes, got %v", rsi)
	}
	if rsi, _ := CalculateRSI(down, 14); math.Abs(rsi) > 1e-9 {
		t.Errorf("expected RSI 0 for falling closes, got %v", rsi)
	}
}

func TestCalculateRSI_FlatReadsOverbought(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 42
	}
	rsi, err := CalculateRSI(flat, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 for flat closes (no losses), got %v", rsi)
	}
	flat[19] = 41
	if rsi, _ := CalculateRSI(flat, 14); rsi != 0 {
		t.Errorf("expected RSI 0 for a single loss after a flat run, got %v", rsi)
	}
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	if _, err := CalculateRSI(zigzag(14), 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for 14 closes, got %v", err)
	}
	if _, err := CalculateRSI(zigzag(15), 14); err != nil {
		t.Errorf("15 closes should be enough for RSI(14): %v", err)
	}
}

func TestCalculateRange(t *testing.T) {
	high, low, err := CalculateRange(seriesOf([]float64{10, 30, 20}).Bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 31 || low != 9 {
		t.Errorf("range = (%v, %v), want (31, 9)", high, low)
	}
	if _, _, err := CalculateRange(nil); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestSnapshot_Idempotent(t *testing.T) {
	s := seriesOf(zigzag(60))
	a := Snapshot(s, 14, 14)
	b := Snapshot(s, 14, 14)
	if a != b {
		t.Errorf("snapshot not deterministic: %+v vs %+v", a, b)
	}
	if !a.HasRSI || !a.HasSMA {
		t.Errorf("expected both indicators defined, got %+v", a)
	}
}

func TestSnapshot_ShortSeriesLeavesUndefined(t *testing.T) {
	snap := Snapshot(seriesOf(zigzag(10)), 14, 14)
	if snap.HasRSI || snap.HasSMA {
		t.Errorf("expected undefined indicators, got %+v", snap)
	}
	if snap.PeriodHigh == 0 {
		t.Error("range should still be computed for a short series")
	}
}
