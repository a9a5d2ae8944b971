package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"ForecastSentinel/internal/model"
	"ForecastSentinel/internal/notifier"
	"ForecastSentinel/internal/recorder"
	"ForecastSentinel/internal/strategy"
)

// RunCycle performs one decision cycle: history, indicators, forecast, balances, decision and
// an optional market order. Fetch failures abort the cycle and are returned; an order failure
// is reported and journaled but does not fail the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) (*model.CycleReport, error) {
	report := &model.CycleReport{StartedAt: time.Now(), Symbol: s.Symbol}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.Collector.Collect(ctx)
	if err != nil {
		return nil, s.abort(ctx, "history", err)
	}
	report.Price = snap.Price
	report.Indicators = snap.Indicators

	fc, err := s.Forecaster.Forecast(snap.Series)
	if err != nil {
		log.Printf("[WARN] forecast unavailable: %v", err)
	} else {
		report.Forecast = fc
	}
	s.trySend(ctx, notifier.FormatCycleSummary(report))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	quote, err := s.Exchange.FetchBalance(ctx, s.QuoteAsset)
	if err != nil {
		return nil, s.abort(ctx, "balance", err)
	}
	base, err := s.Exchange.FetchBalance(ctx, s.BaseAsset)
	if err != nil {
		return nil, s.abort(ctx, "balance", err)
	}
	report.Balances = model.AccountBalances{Quote: quote, Base: base}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lot, err := s.Exchange.FetchLotSizeRule(ctx, s.Symbol)
	if err != nil {
		return nil, s.abort(ctx, "lot size", err)
	}
	report.LotSize = lot

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ticker, err := s.Exchange.FetchCurrentPrice(ctx, s.Symbol)
	if err != nil {
		return nil, s.abort(ctx, "price", err)
	}

	report.Action = s.Policy.Decide(strategy.Inputs{
		Price:       report.Price,
		SizingPrice: ticker,
		Indicators:  report.Indicators,
		Forecast:    report.Forecast,
		Balances:    report.Balances,
		LotSize:     report.LotSize,
	})
	log.Printf("[INFO] decision %s qty=%v: %s", report.Action.Kind, report.Action.Quantity, report.Action.Reason)

	if side, ok := report.Action.Side(); ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.placeOrder(ctx, report, side)
	}

	if err := s.Recorder.RecordCycle(report); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
	return report, nil
}

func (s *Scheduler) placeOrder(ctx context.Context, report *model.CycleReport, side model.Side) {
	qty := report.Action.Quantity
	evt := &recorder.OrderEvent{Symbol: s.Symbol, Side: side, Quantity: qty}

	res, err := s.Exchange.PlaceMarketOrder(ctx, s.Symbol, side, qty)
	if err != nil {
		log.Printf("[ERROR] place %s order: %v", side, err)
		report.OrderErr = err.Error()
		evt.Status = "ERROR"
		evt.Error = err.Error()
		s.trySend(ctx, notifier.FormatOrderError(side, qty, s.Symbol, err))
	} else {
		log.Printf("[INFO] order %s %s %v: %s", res.OrderID, side, qty, res.Status)
		report.Order = res
		evt.OrderID = res.OrderID
		evt.Status = res.Status
		evt.QuoteQty = res.QuoteQty
		s.trySend(ctx, notifier.FormatOrderExecuted(res, qty))
	}

	if err := s.Recorder.RecordOrder(evt); err != nil {
		log.Printf("[ERROR] record order: %v", err)
	}
}

func (s *Scheduler) abort(ctx context.Context, stage string, err error) error {
	err = fmt.Errorf("cycle aborted at %s: %w", stage, err)
	if ctx.Err() == nil {
		s.trySend(ctx, notifier.FormatCycleError(stage, err))
	}
	return err
}
