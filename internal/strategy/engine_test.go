package strategy

import (
	"testing"

	"ForecastSentinel/internal/model"
)

var defaultPolicy = Policy{InvestmentAmount: 100, TakeProfitPercent: 0.10, StopLossPercent: 0.05}

func inputs(rsi, price, forecastAvg, quote, base float64) Inputs {
	return Inputs{
		Price:      price,
		Indicators: model.IndicatorSnapshot{RSI: rsi, HasRSI: true, SMA: price, HasSMA: true},
		Forecast:   model.ForecastSummary{AverageForecastPrice: forecastAvg, HorizonDays: 7},
		Balances:   model.AccountBalances{Quote: quote, Base: base},
		LotSize:    model.LotSizeRule{StepSize: 0.00001},
	}
}

func TestDecide_Buy(t *testing.T) {
	act := defaultPolicy.Decide(inputs(25, 100, 110, 150, 0))
	if act.Kind != model.ActionBuy {
		t.Fatalf("expected BUY, got %s (%s)", act.Kind, act.Reason)
	}
	if act.Quantity != 1 {
		t.Errorf("expected quantity 1 (100 quote at price 100), got %v", act.Quantity)
	}
}

func TestDecide_BuyUsesSizingPrice(t *testing.T) {
	in := inputs(25, 100, 110, 150, 0)
	in.SizingPrice = 200
	act := defaultPolicy.Decide(in)
	if act.Kind != model.ActionBuy || act.Quantity != 0.5 {
		t.Errorf("expected BUY 0.5 at live price 200, got %s %v", act.Kind, act.Quantity)
	}
}

func TestDecide_SellOnOverbought(t *testing.T) {
	act := defaultPolicy.Decide(inputs(75, 120, 100, 0, 0.5))
	if act.Kind != model.ActionSell {
		t.Fatalf("expected SELL, got %s (%s)", act.Kind, act.Reason)
	}
	if act.Quantity != 0.5 {
		t.Errorf("expected whole base balance 0.5, got %v", act.Quantity)
	}
}

func TestDecide_SellOnTakeProfit(t *testing.T) {
	// RSI neutral, price 111 > 100*1.10.
	act := defaultPolicy.Decide(inputs(50, 111, 100, 0, 0.25))
	if act.Kind != model.ActionSell {
		t.Errorf("expected SELL on take-profit, got %s (%s)", act.Kind, act.Reason)
	}
}

func TestDecide_Hold(t *testing.T) {
	act := defaultPolicy.Decide(inputs(50, 100, 102, 1000, 0))
	if act.Kind != model.ActionHold {
		t.Errorf("expected HOLD, got %s", act.Kind)
	}
}

func TestDecide_BuyTakesPrecedence(t *testing.T) {
	// Buy conditions hold while the base balance also satisfies SELL's balance condition.
	act := defaultPolicy.Decide(inputs(25, 100, 110, 150, 0.5))
	if act.Kind != model.ActionBuy {
		t.Errorf("expected BUY to take precedence, got %s", act.Kind)
	}
}

func TestDecide_BuyThresholdsAreStrict(t *testing.T) {
	cases := []struct {
		name string
		in   Inputs
	}{
		{"rsi at 30", inputs(30, 100, 110, 150, 0)},
		{"forecast exactly 7% up", inputs(25, 100, 107, 150, 0)},
		{"quote below investment", inputs(25, 100, 110, 99.99, 0)},
	}
	for _, c := range cases {
		if act := defaultPolicy.Decide(c.in); act.Kind == model.ActionBuy {
			t.Errorf("%s: unexpected BUY", c.name)
		}
	}
	if act := defaultPolicy.Decide(inputs(25, 100, 110, 100, 0)); act.Kind != model.ActionBuy {
		t.Errorf("quote equal to investment should BUY, got %s", act.Kind)
	}
}

func TestDecide_SellNeedsBaseBalance(t *testing.T) {
	if act := defaultPolicy.Decide(inputs(80, 120, 100, 0, 0)); act.Kind != model.ActionHold {
		t.Errorf("expected HOLD without base balance, got %s", act.Kind)
	}
}

func TestDecide_UndefinedIndicatorsHold(t *testing.T) {
	in := inputs(10, 100, 200, 1000, 1)
	in.Indicators.HasRSI = false
	if act := defaultPolicy.Decide(in); act.Kind != model.ActionHold {
		t.Errorf("expected HOLD when RSI is undefined, got %s", act.Kind)
	}

	in = inputs(10, 100, 200, 1000, 1)
	in.Forecast = model.ForecastSummary{}
	if act := defaultPolicy.Decide(in); act.Kind != model.ActionHold {
		t.Errorf("expected HOLD when forecast is missing, got %s", act.Kind)
	}
}

func TestDecide_NonPositiveForecastSells(t *testing.T) {
	for _, avg := range []float64{0, -0.2} {
		act := defaultPolicy.Decide(inputs(50, 0.8, avg, 0, 10))
		if act.Kind != model.ActionSell || act.Quantity != 10 {
			t.Errorf("forecast %v: expected SELL 10, got %s %v (%s)", avg, act.Kind, act.Quantity, act.Reason)
		}
	}
}

func TestDecide_ZeroQuantityBuyHoldsWithoutSelling(t *testing.T) {
	// Step larger than the raw quantity: BUY cannot be sized, and SELL must not fire instead.
	in := inputs(25, 50000, 60000, 150, 0.5)
	in.LotSize.StepSize = 0.01
	act := defaultPolicy.Decide(in)
	if act.Kind != model.ActionHold {
		t.Errorf("expected HOLD, got %s %v", act.Kind, act.Quantity)
	}
}

func TestDecide_InvalidStepHolds(t *testing.T) {
	in := inputs(25, 100, 110, 150, 0)
	in.LotSize.StepSize = 0
	if act := defaultPolicy.Decide(in); act.Kind != model.ActionHold {
		t.Errorf("expected HOLD for invalid step, got %s", act.Kind)
	}
}

func TestDecide_DustSellHolds(t *testing.T) {
	in := inputs(80, 100, 100, 0, 0.000004)
	if act := defaultPolicy.Decide(in); act.Kind != model.ActionHold {
		t.Errorf("expected HOLD for dust balance, got %s %v", act.Kind, act.Quantity)
	}
}
