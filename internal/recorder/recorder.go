package recorder

import "ForecastSentinel/internal/model"

// OrderEvent records one order attempt.
type OrderEvent struct {
	Symbol   string
	Side     model.Side
	Quantity float64
	OrderID  string
	Status   string // exchange status, or "ERROR"
	QuoteQty float64
	Error    string
}

// Recorder journals decision cycles for later analysis. The journal is write-only: nothing in
// the decision path reads it back.
type Recorder interface {
	RecordCycle(r *model.CycleReport) error
	RecordOrder(evt *OrderEvent) error
	Close() error
}
