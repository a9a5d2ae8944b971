package model

// AccountBalances holds free (non-locked) balances of the traded pair.
type AccountBalances struct {
	Quote float64
	Base  float64
}

// LotSizeRule is the exchange quantity granularity. StepSize must be > 0.
type LotSizeRule struct {
	StepSize float64
}

// OrderResult is the exchange acknowledgement of a placed order.
type OrderResult struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
	Side          Side
	Status        string
	ExecutedQty   float64
	QuoteQty      float64
}
