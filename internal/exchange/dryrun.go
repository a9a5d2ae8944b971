package exchange

import (
	"context"
	"log"

	"ForecastSentinel/internal/model"

	"github.com/google/uuid"
)

// DryRun forwards every read to the wrapped exchange and answers orders locally without
// sending them.
type DryRun struct {
	Exchange
}

// NewDryRun wraps ex.
func NewDryRun(ex Exchange) *DryRun {
	return &DryRun{Exchange: ex}
}

func (d *DryRun) Name() string { return d.Exchange.Name() + "-dryrun" }

func (d *DryRun) PlaceMarketOrder(ctx context.Context, symbol string, side model.Side, quantity float64) (*model.OrderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	price, err := d.Exchange.FetchCurrentPrice(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] dry run: price unavailable for %s: %v", symbol, err)
	}
	id := uuid.NewString()
	log.Printf("[INFO] dry run: would place MARKET %s %v %s (client id %s)", side, quantity, symbol, id)
	return &model.OrderResult{
		OrderID:       "dry-" + id,
		ClientOrderID: id,
		Symbol:        symbol,
		Side:          side,
		Status:        "DRY_RUN",
		ExecutedQty:   quantity,
		QuoteQty:      quantity * price,
	}, nil
}
