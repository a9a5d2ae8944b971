package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ForecastSentinel/internal/exchange"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DisabledPath turns the SQLite journal off when used as database.sqlite_path.
const DisabledPath = "off"

// Config holds all application configuration. Every field can be set in the YAML file and
// overridden by the environment variable named in its envconfig tag.
type Config struct {
	Exchange struct {
		BaseURL   string `yaml:"base_url" envconfig:"BINANCE_BASE_URL"`
		APIKey    string `yaml:"api_key" envconfig:"BINANCE_API_KEY"`
		APISecret string `yaml:"api_secret" envconfig:"BINANCE_API_SECRET"`
		DryRun    bool   `yaml:"dry_run" envconfig:"DRY_RUN"`
	} `yaml:"exchange"`
	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	Trading struct {
		Symbol            string  `yaml:"symbol" envconfig:"SYMBOL"`
		BaseAsset         string  `yaml:"base_asset" envconfig:"BASE_ASSET"`
		QuoteAsset        string  `yaml:"quote_asset" envconfig:"QUOTE_ASSET"`
		Interval          string  `yaml:"interval" envconfig:"INTERVAL"`
		LookbackDays      int     `yaml:"lookback_days" envconfig:"LOOKBACK_DAYS"`
		InvestmentAmount  float64 `yaml:"investment_amount" envconfig:"INVESTMENT_USDT"`
		StopLossPercent   float64 `yaml:"stop_loss_percent" envconfig:"STOP_LOSS_PERCENT"`
		TakeProfitPercent float64 `yaml:"take_profit_percent" envconfig:"TAKE_PROFIT_PERCENT"`
	} `yaml:"trading"`
	Indicators struct {
		RSIPeriod           int `yaml:"rsi_period" envconfig:"RSI_PERIOD"`
		SMAPeriod           int `yaml:"sma_period" envconfig:"SMA_PERIOD"`
		ForecastHorizonDays int `yaml:"forecast_horizon_days" envconfig:"FORECAST_HORIZON_DAYS"`
	} `yaml:"indicators"`
	Schedule struct {
		CycleCron  string `yaml:"cycle_cron" envconfig:"CYCLE_CRON"`
		RunOnStart *bool  `yaml:"run_on_start" envconfig:"RUN_ON_START"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then .env, then environment variable overrides, then
// fills defaults. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// loadDotEnv exports the variables of path into the process environment without overriding
// variables that are already set. A missing file is ignored.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func (c *Config) applyDefaults() {
	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = exchange.DefaultBinanceURL
	}
	if c.Trading.Symbol == "" {
		c.Trading.Symbol = "BTCUSDT"
	}
	c.Trading.Symbol = strings.ToUpper(c.Trading.Symbol)
	if c.Trading.BaseAsset == "" || c.Trading.QuoteAsset == "" {
		base, quote := SplitSymbol(c.Trading.Symbol)
		if c.Trading.BaseAsset == "" {
			c.Trading.BaseAsset = base
		}
		if c.Trading.QuoteAsset == "" {
			c.Trading.QuoteAsset = quote
		}
	}
	if c.Trading.Interval == "" {
		c.Trading.Interval = "1d"
	}
	if c.Trading.LookbackDays == 0 {
		c.Trading.LookbackDays = 90
	}
	if c.Trading.InvestmentAmount == 0 {
		c.Trading.InvestmentAmount = 100
	}
	if c.Trading.StopLossPercent == 0 {
		c.Trading.StopLossPercent = 0.05
	}
	if c.Trading.TakeProfitPercent == 0 {
		c.Trading.TakeProfitPercent = 0.10
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.SMAPeriod == 0 {
		c.Indicators.SMAPeriod = 14
	}
	if c.Indicators.ForecastHorizonDays == 0 {
		c.Indicators.ForecastHorizonDays = 7
	}
	if c.Schedule.CycleCron == "" {
		c.Schedule.CycleCron = "0 0 * * * *"
	}
	if c.Schedule.RunOnStart == nil {
		on := true
		c.Schedule.RunOnStart = &on
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/forecast_sentinel.db"
	}
}

// quoteAssets are matched as symbol suffixes, longest first where they overlap.
var quoteAssets = []string{"FDUSD", "USDT", "USDC", "BUSD", "TUSD", "EUR", "TRY", "BTC", "ETH", "BNB"}

// SplitSymbol splits a pair like BTCUSDT into base and quote. Unknown quotes yield empty strings.
func SplitSymbol(symbol string) (base, quote string) {
	for _, q := range quoteAssets {
		if strings.HasSuffix(symbol, q) && len(symbol) > len(q) {
			return strings.TrimSuffix(symbol, q), q
		}
	}
	return "", ""
}

// TelegramEnabled reports whether notification credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// JournalEnabled reports whether the SQLite journal should be opened.
func (c *Config) JournalEnabled() bool {
	return c.Database.SQLitePath != "" && c.Database.SQLitePath != DisabledPath
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	var errs []error
	if c.Exchange.APIKey == "" {
		errs = append(errs, errors.New("exchange.api_key (BINANCE_API_KEY) is required"))
	}
	if c.Exchange.APISecret == "" {
		errs = append(errs, errors.New("exchange.api_secret (BINANCE_API_SECRET) is required"))
	}
	if c.Trading.BaseAsset == "" || c.Trading.QuoteAsset == "" {
		errs = append(errs, fmt.Errorf("cannot derive assets of %s; set trading.base_asset and trading.quote_asset", c.Trading.Symbol))
	}
	if !exchange.Intervals[c.Trading.Interval] {
		errs = append(errs, fmt.Errorf("trading.interval %q is not a valid kline interval", c.Trading.Interval))
	}
	if c.Trading.InvestmentAmount <= 0 {
		errs = append(errs, errors.New("trading.investment_amount must be positive"))
	}
	if c.Trading.TakeProfitPercent <= 0 {
		errs = append(errs, errors.New("trading.take_profit_percent must be positive"))
	}
	if c.Trading.StopLossPercent < 0 {
		errs = append(errs, errors.New("trading.stop_loss_percent must not be negative"))
	}
	if c.Indicators.RSIPeriod < 2 {
		errs = append(errs, errors.New("indicators.rsi_period must be at least 2"))
	}
	if c.Indicators.SMAPeriod < 1 {
		errs = append(errs, errors.New("indicators.sma_period must be positive"))
	}
	if c.Indicators.ForecastHorizonDays < 1 {
		errs = append(errs, errors.New("indicators.forecast_horizon_days must be positive"))
	}
	if c.Trading.LookbackDays < 2*c.Indicators.ForecastHorizonDays {
		errs = append(errs, fmt.Errorf("trading.lookback_days must be at least %d to fit the forecast",
			2*c.Indicators.ForecastHorizonDays))
	}
	return errors.Join(errs...)
}
