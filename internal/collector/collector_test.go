package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForecastSentinel/internal/exchange"
	"ForecastSentinel/internal/model"
)

func TestNormalize(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.PriceSeries{Bars: []model.OHLCV{
		{Time: t0.AddDate(0, 0, 2), Close: 3},
		{Time: t0, Close: 1},
		{Time: t0.AddDate(0, 0, 1), Close: 2},
		{Time: t0.AddDate(0, 0, 2), Close: 4},
	}}
	if dropped := Normalize(&s); dropped != 1 {
		t.Errorf("expected 1 dropped bar, got %d", dropped)
	}
	want := []float64{1, 2, 4}
	got := s.Closes()
	if len(got) != len(want) {
		t.Fatalf("closes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("closes = %v, want %v", got, want)
			break
		}
	}
}

func TestCollect(t *testing.T) {
	mock := &exchange.MockExchange{Price: 50000}
	c := NewCollector(mock, "BTCUSDT", "1d", 90, 14, 14)

	snap, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Series.Len() != 90 {
		t.Errorf("expected 90 bars, got %d", snap.Series.Len())
	}
	last, _ := snap.Series.Last()
	if snap.Price != last.Close {
		t.Errorf("price %v should be the latest close %v", snap.Price, last.Close)
	}
	if !snap.Indicators.HasRSI || !snap.Indicators.HasSMA {
		t.Errorf("expected indicators on 90 bars, got %+v", snap.Indicators)
	}
	// Mock bars rise monotonically.
	if snap.Indicators.RSI < 99 {
		t.Errorf("expected RSI near 100 for rising mock bars, got %.2f", snap.Indicators.RSI)
	}
}

func TestCollect_PropagatesExchangeError(t *testing.T) {
	mock := &exchange.MockExchange{HistoryErr: exchange.ErrNetwork}
	_, err := NewCollector(mock, "BTCUSDT", "1d", 90, 14, 14).Collect(context.Background())
	if !errors.Is(err, exchange.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestCollect_EmptyHistory(t *testing.T) {
	mock := &exchange.MockExchange{Bars: []model.OHLCV{}}
	if _, err := NewCollector(mock, "BTCUSDT", "1d", 90, 14, 14).Collect(context.Background()); err == nil {
		t.Error("expected error for empty history")
	}
}
