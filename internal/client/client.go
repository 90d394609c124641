// Package client provides the data sources the dashboard reads market data from.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"CryptoBoard/internal/model"
)

// Source is the data-client capability shared by every implementation here.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	HealthCheck(ctx context.Context) (*model.Health, error)
	LatestPrices(ctx context.Context) (model.PriceSnapshot, error)
	ChartData(ctx context.Context, symbol, timeframe string) (*model.Series, error)
	InstrumentChartData(ctx context.Context, symbol string) (*model.Series, error)
	AnalysisReport(ctx context.Context, symbol string) (*model.AnalysisReport, error)
	KlineChartData(ctx context.Context, symbol string) (*model.Series, error)
}

// HTTPError is returned for a non-2xx backend response.
type HTTPError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d, body: %s", e.Path, e.StatusCode, e.Body)
}

// newHTTPClient builds an http.Client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp shapes the backend and the store emit.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func sortCandles(candles []model.Candle) {
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
}
