package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CryptoBoard/internal/model"

	"github.com/shopspring/decimal"
)

// APIClient implements Source against the dashboard backend REST API.
type APIClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAPIClient creates a backend client with optional proxy support.
func NewAPIClient(baseURL, apiKey, proxyURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (c *APIClient) Name() string { return "api" }

// healthPayload keeps the timestamp raw: the backend emits naive ISO times.
type healthPayload struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// barPayload covers both the bar list and the price_data curve shapes.
type barPayload struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

type listedQuote struct {
	Symbol string `json:"symbol"`
	model.Quote
}

func (c *APIClient) HealthCheck(ctx context.Context) (*model.Health, error) {
	var p healthPayload
	if err := c.getJSON(ctx, "/health", nil, &p); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	h := &model.Health{Status: p.Status}
	if p.Timestamp != "" {
		if ts, err := parseTime(p.Timestamp); err == nil {
			h.Timestamp = ts
		}
	}
	return h, nil
}

// LatestPrices accepts either a symbol-keyed object or a list of quotes.
func (c *APIClient) LatestPrices(ctx context.Context) (model.PriceSnapshot, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/latest-prices", nil, &raw); err != nil {
		return nil, fmt.Errorf("latest prices: %w", err)
	}
	snap := model.PriceSnapshot{}
	if isJSONArray(raw) {
		var list []listedQuote
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode latest prices: %w", err)
		}
		for _, q := range list {
			if q.Symbol != "" {
				snap[strings.ToUpper(q.Symbol)] = q.Quote
			}
		}
		return snap, nil
	}
	var keyed map[string]*model.Quote
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("decode latest prices: %w", err)
	}
	for sym, q := range keyed {
		if q != nil {
			snap[strings.ToUpper(sym)] = *q
		}
	}
	return snap, nil
}

func (c *APIClient) ChartData(ctx context.Context, symbol, timeframe string) (*model.Series, error) {
	q := url.Values{"crypto": {symbol}, "timeframe": {timeframe}}
	s, err := c.fetchBars(ctx, "/api/chart-data", q)
	if err != nil {
		return nil, fmt.Errorf("chart data %s/%s: %w", symbol, timeframe, err)
	}
	s.Symbol, s.Timeframe = symbol, timeframe
	return s, nil
}

// InstrumentChartData reads the fixed per-instrument endpoint, e.g. /api/btc-chart.
func (c *APIClient) InstrumentChartData(ctx context.Context, symbol string) (*model.Series, error) {
	path := fmt.Sprintf("/api/%s-chart", strings.ToLower(symbol))
	s, err := c.fetchBars(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s chart: %w", symbol, err)
	}
	s.Symbol, s.Timeframe = symbol, "24h"
	return s, nil
}

func (c *APIClient) AnalysisReport(ctx context.Context, symbol string) (*model.AnalysisReport, error) {
	var r model.AnalysisReport
	if err := c.getJSON(ctx, "/api/analysis", url.Values{"crypto": {symbol}}, &r); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", symbol, err)
	}
	return &r, nil
}

// KlineChartData reads [timestamp_ms, open, high, low, close, volume] rows,
// either bare or wrapped in {"kline": [...]}.
func (c *APIClient) KlineChartData(ctx context.Context, symbol string) (*model.Series, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/kline-chart", url.Values{"crypto": {symbol}}, &raw); err != nil {
		return nil, fmt.Errorf("kline %s: %w", symbol, err)
	}
	var rows [][]float64
	if isJSONArray(raw) {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode kline: %w", err)
		}
	} else {
		var wrapped struct {
			Kline [][]float64 `json:"kline"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode kline: %w", err)
		}
		rows = wrapped.Kline
	}

	s := &model.Series{Symbol: symbol, Timeframe: "kline"}
	for _, r := range rows {
		if len(r) < 5 {
			continue
		}
		c := model.Candle{
			Time:  time.UnixMilli(int64(r[0])),
			Open:  r[1],
			High:  r[2],
			Low:   r[3],
			Close: r[4],
		}
		if len(r) > 5 {
			c.Volume = r[5]
		}
		s.Candles = append(s.Candles, c)
	}
	sortCandles(s.Candles)
	return s, nil
}

func (c *APIClient) fetchBars(ctx context.Context, path string, q url.Values) (*model.Series, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, q, &raw); err != nil {
		return nil, err
	}
	var bars []barPayload
	if isJSONArray(raw) {
		if err := json.Unmarshal(raw, &bars); err != nil {
			return nil, fmt.Errorf("decode bars: %w", err)
		}
	} else {
		var curves struct {
			PriceData []barPayload `json:"price_data"`
		}
		if err := json.Unmarshal(raw, &curves); err != nil {
			return nil, fmt.Errorf("decode bars: %w", err)
		}
		bars = curves.PriceData
	}

	s := &model.Series{Candles: make([]model.Candle, 0, len(bars))}
	for _, b := range bars {
		ts, err := parseTime(b.Date)
		if err != nil {
			continue
		}
		closePrice := b.Close
		if closePrice == 0 {
			closePrice = b.Price
		}
		s.Candles = append(s.Candles, model.Candle{
			Time: ts, Open: b.Open, High: b.High, Low: b.Low, Close: closePrice, Volume: b.Volume,
		})
	}
	sortCandles(s.Candles)
	return s, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Path: path, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decimalPtr is shared by the store and stream clients.
func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
