package sizing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidStepSize is returned for a lot step <= 0.
	ErrInvalidStepSize = errors.New("invalid step size")
	// ErrZeroQuantity is returned when the quantized quantity is zero; no order can be placed.
	ErrZeroQuantity = errors.New("quantity rounds down to zero")
	// ErrInvalidInput is returned for a non-positive price or negative notional.
	ErrInvalidInput = errors.New("invalid sizing input")
)

// DisplayPlaces is the precision used when printing a quantity.
const DisplayPlaces = 6

// SizeOrder converts a notional quote amount into a base quantity that is a multiple of
// stepSize, rounded down so that quantity*price never exceeds notional, in float64 arithmetic
// as well as in exact decimal.
func SizeOrder(notional, price, stepSize float64) (float64, error) {
	if stepSize <= 0 {
		return 0, fmt.Errorf("step %v: %w", stepSize, ErrInvalidStepSize)
	}
	if price <= 0 || notional < 0 {
		return 0, fmt.Errorf("notional %v at price %v: %w", notional, price, ErrInvalidInput)
	}

	step := decimal.NewFromFloat(stepSize)
	// Exact integer quotient: steps = floor(notional / (price*step)).
	steps, _ := decimal.NewFromFloat(notional).QuoRem(decimal.NewFromFloat(price).Mul(step), 0)
	qty := steps.Mul(step)
	// The float64 product can round one ulp above notional at an exact fit; give back one step.
	if qty.IsPositive() && qty.InexactFloat64()*price > notional {
		qty = qty.Sub(step)
	}
	if !qty.IsPositive() {
		return 0, fmt.Errorf("notional %v at price %v with step %v: %w", notional, price, stepSize, ErrZeroQuantity)
	}
	return qty.InexactFloat64(), nil
}

// Quantize rounds a base amount down to a multiple of stepSize.
func Quantize(amount, stepSize float64) (float64, error) {
	if stepSize <= 0 {
		return 0, fmt.Errorf("step %v: %w", stepSize, ErrInvalidStepSize)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount %v: %w", amount, ErrInvalidInput)
	}
	step := decimal.NewFromFloat(stepSize)
	steps, _ := decimal.NewFromFloat(amount).QuoRem(step, 0)
	qty := steps.Mul(step)
	if qty.IsZero() {
		return 0, fmt.Errorf("amount %v with step %v: %w", amount, stepSize, ErrZeroQuantity)
	}
	return qty.InexactFloat64(), nil
}

// Display formats a quantity with DisplayPlaces decimals. Output only; never feed it back into
// an order.
func Display(qty float64) string {
	return decimal.NewFromFloat(qty).StringFixed(DisplayPlaces)
}
