package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ForecastSentinel/internal/collector"
	"ForecastSentinel/internal/config"
	"ForecastSentinel/internal/exchange"
	"ForecastSentinel/internal/forecast"
	"ForecastSentinel/internal/notifier"
	"ForecastSentinel/internal/recorder"
	"ForecastSentinel/internal/scheduler"
	"ForecastSentinel/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ForecastSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init exchange
	var ex exchange.Exchange = exchange.NewBinanceClient(cfg.Exchange.BaseURL, cfg.Exchange.APIKey, cfg.Exchange.APISecret, cfg.Proxy)
	if cfg.Exchange.DryRun {
		ex = exchange.NewDryRun(ex)
	}
	log.Printf("[INFO] exchange: %s, symbol %s (%s/%s)", ex.Name(), cfg.Trading.Symbol, cfg.Trading.BaseAsset, cfg.Trading.QuoteAsset)

	col := collector.NewCollector(ex, cfg.Trading.Symbol, cfg.Trading.Interval, cfg.Trading.LookbackDays,
		cfg.Indicators.RSIPeriod, cfg.Indicators.SMAPeriod)

	// Init notifier
	var n notifier.Notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	} else {
		log.Println("[INFO] Telegram credentials not set, notifications disabled")
		n = notifier.NewNoopNotifier()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.JournalEnabled() {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy := strategy.Policy{
		InvestmentAmount:  cfg.Trading.InvestmentAmount,
		TakeProfitPercent: cfg.Trading.TakeProfitPercent,
		StopLossPercent:   cfg.Trading.StopLossPercent,
	}
	sched := scheduler.NewScheduler(ctx, col, ex, forecast.NewTrendSeasonal(cfg.Indicators.ForecastHorizonDays),
		policy, n, rec, cfg.Trading.BaseAsset, cfg.Trading.QuoteAsset)
	if err := sched.Register(cfg.Schedule.CycleCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}

	if err := n.Notify(ctx, notifier.FormatStartup(cfg.Trading.Symbol, ex.Name(), cfg.Exchange.DryRun)); err != nil {
		log.Printf("[ERROR] send startup notification: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if *cfg.Schedule.RunOnStart {
		log.Println("[INFO] RUN_ON_START enabled, executing a cycle now")
		go sched.RunNow()
	}

	log.Printf("[INFO] ForecastSentinel is running (%s). Press Ctrl+C to stop.", cfg.Schedule.CycleCron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
}
