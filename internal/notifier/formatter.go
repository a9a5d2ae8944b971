package notifier

import (
	"fmt"
	"html"
	"strings"

	"ForecastSentinel/internal/model"
	"ForecastSentinel/internal/sizing"
)

// FormatStartup formats the message sent once the bot is running.
func FormatStartup(symbol, exchangeName string, dryRun bool) string {
	mode := "live"
	if dryRun {
		mode = "dry run"
	}
	return fmt.Sprintf("🤖 <b>Bot started</b>\n%s on %s (%s)", html.EscapeString(symbol), html.EscapeString(exchangeName), mode)
}

// FormatCycleSummary formats the per-cycle market summary.
func FormatCycleSummary(r *model.CycleReport) string {
	return fmt.Sprintf("📊 <b>%s</b> | Price: %.2f, Forecast Avg: %.2f, RSI: %s, SMA: %s",
		html.EscapeString(r.Symbol), r.Price, r.Forecast.AverageForecastPrice,
		optional(r.Indicators.RSI, r.Indicators.HasRSI), optional(r.Indicators.SMA, r.Indicators.HasSMA))
}

// FormatOrderExecuted formats a successful order acknowledgement.
func FormatOrderExecuted(res *model.OrderResult, qty float64) string {
	return fmt.Sprintf("✅ Order executed: %s %s %s (status %s, id %s)",
		res.Side, sizing.Display(qty), html.EscapeString(res.Symbol), html.EscapeString(res.Status), html.EscapeString(res.OrderID))
}

// FormatOrderError formats a failed order attempt.
func FormatOrderError(side model.Side, qty float64, symbol string, err error) string {
	return fmt.Sprintf("❌ Order error: %s %s %s: %s",
		side, sizing.Display(qty), html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatCycleError formats an aborted cycle.
func FormatCycleError(stage string, err error) string {
	return fmt.Sprintf("⚠️ Cycle aborted at %s: %s", html.EscapeString(stage), html.EscapeString(err.Error()))
}

// FormatStatus formats the last completed cycle for the /status command.
func FormatStatus(r *model.CycleReport) string {
	if r == nil {
		return "No cycle has completed yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Last cycle</b> | %s\n\n", r.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Symbol: %s\n", html.EscapeString(r.Symbol)))
	b.WriteString(fmt.Sprintf("Price: %.2f\n", r.Price))
	b.WriteString(fmt.Sprintf("RSI: %s | SMA: %s\n", optional(r.Indicators.RSI, r.Indicators.HasRSI), optional(r.Indicators.SMA, r.Indicators.HasSMA)))
	b.WriteString(fmt.Sprintf("Range: %.2f - %.2f\n", r.Indicators.PeriodLow, r.Indicators.PeriodHigh))
	b.WriteString(fmt.Sprintf("Forecast Avg (%dd): %.2f\n", r.Forecast.HorizonDays, r.Forecast.AverageForecastPrice))
	b.WriteString(fmt.Sprintf("Balances: quote %.2f | base %s\n", r.Balances.Quote, sizing.Display(r.Balances.Base)))
	b.WriteString(fmt.Sprintf("Action: <b>%s</b> %s\n", r.Action.Kind, html.EscapeString(r.Action.Reason)))
	if r.Order != nil {
		b.WriteString(fmt.Sprintf("Order: %s %s (%s)\n", r.Order.Side, sizing.Display(r.Order.ExecutedQty), html.EscapeString(r.Order.Status)))
	}
	if r.OrderErr != "" {
		b.WriteString(fmt.Sprintf("Order error: %s\n", html.EscapeString(r.OrderErr)))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Commands:\n• /status - last cycle\n• /run - run a cycle now\n• /help"
}

func optional(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

