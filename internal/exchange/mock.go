package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ForecastSentinel/internal/model"

	"github.com/google/uuid"
)

// MockExchange returns controllable fixed data for development and testing.
type MockExchange struct {
	mu sync.Mutex

	Price    float64
	Bars     []model.OHLCV // generated around Price when nil
	Balances map[string]float64
	StepSize float64

	HistoryErr error
	BalanceErr error
	LotSizeErr error
	PriceErr   error
	OrderErr   error

	Orders []model.OrderResult
	Calls  int
}

func (m *MockExchange) Name() string { return "mock" }

func (m *MockExchange) FetchHistory(_ context.Context, symbol, interval string, lookbackDays int) (model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.HistoryErr != nil {
		return model.PriceSeries{}, m.HistoryErr
	}
	bars := m.Bars
	if bars == nil {
		bars = GenerateMockBars(m.Price, lookbackDays)
	}
	return model.PriceSeries{Symbol: symbol, Interval: interval, Bars: bars, FetchedAt: time.Now()}, nil
}

func (m *MockExchange) FetchBalance(_ context.Context, asset string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.BalanceErr != nil {
		return 0, m.BalanceErr
	}
	return m.Balances[asset], nil
}

func (m *MockExchange) FetchLotSizeRule(_ context.Context, symbol string) (model.LotSizeRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.LotSizeErr != nil {
		return model.LotSizeRule{}, m.LotSizeErr
	}
	step := m.StepSize
	if step == 0 {
		step = defaultStepSize
	}
	return model.LotSizeRule{StepSize: step}, nil
}

func (m *MockExchange) FetchCurrentPrice(_ context.Context, _ string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	return m.Price, nil
}

func (m *MockExchange) PlaceMarketOrder(_ context.Context, symbol string, side model.Side, quantity float64) (*model.OrderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.OrderErr != nil {
		return nil, fmt.Errorf("place %s order: %w", side, m.OrderErr)
	}
	res := model.OrderResult{
		OrderID:       fmt.Sprintf("%d", len(m.Orders)+1),
		ClientOrderID: uuid.NewString(),
		Symbol:        symbol,
		Side:          side,
		Status:        "FILLED",
		ExecutedQty:   quantity,
		QuoteQty:      quantity * m.Price,
	}
	m.Orders = append(m.Orders, res)
	return &res, nil
}

// GenerateMockBars builds count daily bars drifting gently around basePrice, ending today.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   now.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
