package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"ForecastSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBinanceURL is the production spot REST endpoint.
	DefaultBinanceURL = "https://api.binance.com"

	klinesPageLimit   = 1000
	codeInvalidSymbol = -1121
	// defaultStepSize applies when a symbol carries no LOT_SIZE filter.
	defaultStepSize = 0.000001
)

// APIError is a non-success response from the Binance REST API.
type APIError struct {
	Status int
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: status %d, code %d: %s", e.Status, e.Code, e.Msg)
}

// Is lets callers match APIError against ErrExchange and ErrSymbolNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrExchange:
		return true
	case ErrSymbolNotFound:
		return e.Code == codeInvalidSymbol
	}
	return false
}

// BinanceClient implements Exchange against the Binance spot REST API.
type BinanceClient struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Client    *http.Client

	now func() time.Time
}

// NewBinanceClient creates a client with optional proxy support.
func NewBinanceClient(baseURL, apiKey, apiSecret, proxyURL string) *BinanceClient {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceClient{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		now: time.Now,
	}
}

func (c *BinanceClient) Name() string { return "binance" }

// FetchHistory pages through /api/v3/klines from lookbackDays ago until now. The last bar is
// the candle still in progress.
func (c *BinanceClient) FetchHistory(ctx context.Context, symbol, interval string, lookbackDays int) (model.PriceSeries, error) {
	start := c.now().Add(-time.Duration(lookbackDays) * 24 * time.Hour).UnixMilli()
	series := model.PriceSeries{Symbol: symbol, Interval: interval}

	for {
		params := url.Values{}
		params.Set("symbol", symbol)
		params.Set("interval", interval)
		params.Set("startTime", strconv.FormatInt(start, 10))
		params.Set("limit", strconv.Itoa(klinesPageLimit))

		var rows [][]any
		if err := c.do(ctx, http.MethodGet, "/api/v3/klines", params, false, &rows); err != nil {
			return model.PriceSeries{}, fmt.Errorf("fetch klines: %w", err)
		}
		for _, row := range rows {
			bar, err := parseKline(row)
			if err != nil {
				return model.PriceSeries{}, fmt.Errorf("decode kline: %w", err)
			}
			series.Bars = append(series.Bars, bar)
		}
		if len(rows) < klinesPageLimit {
			break
		}
		start = series.Bars[len(series.Bars)-1].Time.UnixMilli() + 1
	}

	sort.SliceStable(series.Bars, func(i, j int) bool { return series.Bars[i].Time.Before(series.Bars[j].Time) })
	series.FetchedAt = c.now()
	return series, nil
}

// FetchBalance reads the free balance of asset from /api/v3/account.
func (c *BinanceClient) FetchBalance(ctx context.Context, asset string) (float64, error) {
	var account struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v3/account", url.Values{}, true, &account); err != nil {
		return 0, fmt.Errorf("fetch balance %s: %w", asset, err)
	}
	for _, b := range account.Balances {
		if b.Asset == asset {
			return parseNumber(b.Free)
		}
	}
	return 0, nil
}

// FetchLotSizeRule reads the LOT_SIZE filter from /api/v3/exchangeInfo.
func (c *BinanceClient) FetchLotSizeRule(ctx context.Context, symbol string) (model.LotSizeRule, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	var info struct {
		Symbols []struct {
			Symbol  string `json:"symbol"`
			Filters []struct {
				FilterType string `json:"filterType"`
				StepSize   string `json:"stepSize"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v3/exchangeInfo", params, false, &info); err != nil {
		return model.LotSizeRule{}, fmt.Errorf("fetch exchange info %s: %w", symbol, err)
	}
	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}
		for _, f := range s.Filters {
			if f.FilterType == "LOT_SIZE" {
				step, err := parseNumber(f.StepSize)
				if err != nil {
					return model.LotSizeRule{}, fmt.Errorf("decode step size: %w", err)
				}
				return model.LotSizeRule{StepSize: step}, nil
			}
		}
		log.Printf("[WARN] %s has no LOT_SIZE filter, using step %g", symbol, defaultStepSize)
		return model.LotSizeRule{StepSize: defaultStepSize}, nil
	}
	return model.LotSizeRule{}, fmt.Errorf("exchange info %s: %w", symbol, ErrSymbolNotFound)
}

// FetchCurrentPrice reads the last traded price from /api/v3/ticker/price.
func (c *BinanceClient) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	var ticker struct {
		Price string `json:"price"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v3/ticker/price", params, false, &ticker); err != nil {
		return 0, fmt.Errorf("fetch current price: %w", err)
	}
	return parseNumber(ticker.Price)
}

// PlaceMarketOrder submits a MARKET order. Exchange-side refusals are returned wrapped in
// ErrOrderRejected.
func (c *BinanceClient) PlaceMarketOrder(ctx context.Context, symbol string, side model.Side, quantity float64) (*model.OrderResult, error) {
	clientID := uuid.NewString()
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", decimal.NewFromFloat(quantity).String())
	params.Set("newClientOrderId", clientID)
	params.Set("newOrderRespType", "RESULT")

	var resp struct {
		Symbol              string `json:"symbol"`
		OrderID             int64  `json:"orderId"`
		ClientOrderID       string `json:"clientOrderId"`
		Status              string `json:"status"`
		ExecutedQty         string `json:"executedQty"`
		CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v3/order", params, true, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("place %s order: %w: %w", side, ErrOrderRejected, apiErr)
		}
		return nil, fmt.Errorf("place %s order: %w", side, err)
	}

	executed, _ := parseNumber(resp.ExecutedQty)
	quote, _ := parseNumber(resp.CummulativeQuoteQty)
	return &model.OrderResult{
		OrderID:       strconv.FormatInt(resp.OrderID, 10),
		ClientOrderID: resp.ClientOrderID,
		Symbol:        resp.Symbol,
		Side:          side,
		Status:        resp.Status,
		ExecutedQty:   executed,
		QuoteQty:      quote,
	}, nil
}

// do sends one request. Signed requests carry a timestamp and an HMAC-SHA256 signature of the
// encoded query appended as the final parameter.
func (c *BinanceClient) do(ctx context.Context, method, path string, params url.Values, signed bool, out any) error {
	query := params.Encode()
	if signed {
		params.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
		query = params.Encode()
		query += "&signature=" + c.sign(query)
	}

	endpoint := c.BaseURL + path
	if query != "" {
		endpoint += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrNetwork, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Msg == "" {
			apiErr.Msg = string(body)
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrExchange, path, err)
	}
	return nil
}

func (c *BinanceClient) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// parseKline decodes one kline row: [openTime, open, high, low, close, volume, closeTime, ...].
func parseKline(row []any) (model.OHLCV, error) {
	if len(row) < 6 {
		return model.OHLCV{}, fmt.Errorf("kline has %d fields", len(row))
	}
	openTime, ok := row[0].(float64)
	if !ok {
		return model.OHLCV{}, fmt.Errorf("kline open time %v is not a number", row[0])
	}
	var vals [5]float64
	for i := range vals {
		s, ok := row[i+1].(string)
		if !ok {
			return model.OHLCV{}, fmt.Errorf("kline field %d %v is not a string", i+1, row[i+1])
		}
		v, err := parseNumber(s)
		if err != nil {
			return model.OHLCV{}, err
		}
		vals[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(int64(openTime)).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func parseNumber(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return d.InexactFloat64(), nil
}
