package client

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"CryptoBoard/internal/model"

	"github.com/shopspring/decimal"
)

// Method names used by MockClient for call counting and error injection.
const (
	MethodHealthCheck         = "HealthCheck"
	MethodLatestPrices        = "LatestPrices"
	MethodChartData           = "ChartData"
	MethodInstrumentChartData = "InstrumentChartData"
	MethodAnalysisReport      = "AnalysisReport"
	MethodKlineChartData      = "KlineChartData"
)

// MockClient returns controllable deterministic data for demo mode and tests.
type MockClient struct {
	// BasePrices seeds generated series and quotes per symbol.
	BasePrices map[string]float64
	// Prices, when set, is returned verbatim by LatestPrices.
	Prices model.PriceSnapshot
	// Analysis, when set, is returned by AnalysisReport for its symbol.
	Analysis map[string]*model.AnalysisReport
	// Status is the reported health status; empty means healthy.
	Status string
	// Bars is the generated series length.
	Bars int
	// Hook, when set, runs before every call returns, e.g. to block a call.
	Hook func(ctx context.Context, method string)

	mu    sync.Mutex
	fail  map[string]error
	calls map[string]int
	args  []string
}

// NewMockClient creates a mock seeded with BTC and ETH prices.
func NewMockClient() *MockClient {
	return &MockClient{
		BasePrices: map[string]float64{"BTC": 43250, "ETH": 2650},
		Bars:       48,
		fail:       make(map[string]error),
		calls:      make(map[string]int),
	}
}

func (m *MockClient) Name() string { return "mock" }

// Fail makes every later call to method return err; a nil err clears it.
func (m *MockClient) Fail(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, method)
		return
	}
	m.fail[method] = err
}

// Calls returns how many times method was invoked.
func (m *MockClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of calls across every method.
func (m *MockClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// Args returns the "method:arg,arg" log of every call in order.
func (m *MockClient) Args() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.args...)
}

func (m *MockClient) record(ctx context.Context, method string, args ...string) error {
	m.mu.Lock()
	m.calls[method]++
	m.args = append(m.args, method+":"+strings.Join(args, ","))
	err := m.fail[method]
	hook := m.Hook
	m.mu.Unlock()
	if hook != nil {
		hook(ctx, method)
	}
	return err
}

func (m *MockClient) HealthCheck(ctx context.Context) (*model.Health, error) {
	if err := m.record(ctx, MethodHealthCheck); err != nil {
		return nil, err
	}
	status := m.Status
	if status == "" {
		status = model.HealthyStatus
	}
	return &model.Health{Status: status, Timestamp: time.Now()}, nil
}

func (m *MockClient) LatestPrices(ctx context.Context) (model.PriceSnapshot, error) {
	if err := m.record(ctx, MethodLatestPrices); err != nil {
		return nil, err
	}
	if m.Prices != nil {
		return m.Prices, nil
	}
	snap := model.PriceSnapshot{}
	wobble := math.Sin(float64(time.Now().Unix()%3600) / 60)
	for sym, base := range m.BasePrices {
		change := decimal.NewFromFloat(wobble * 2).Round(4)
		snap[sym] = model.Quote{
			Price:     decimal.NewFromFloat(base * (1 + wobble*0.01)).Round(2),
			Change24h: &change,
		}
	}
	return snap, nil
}

func (m *MockClient) ChartData(ctx context.Context, symbol, timeframe string) (*model.Series, error) {
	if err := m.record(ctx, MethodChartData, symbol, timeframe); err != nil {
		return nil, err
	}
	return m.series(symbol, timeframe, time.Hour), nil
}

func (m *MockClient) InstrumentChartData(ctx context.Context, symbol string) (*model.Series, error) {
	if err := m.record(ctx, MethodInstrumentChartData, symbol); err != nil {
		return nil, err
	}
	return m.series(symbol, "24h", time.Hour), nil
}

func (m *MockClient) AnalysisReport(ctx context.Context, symbol string) (*model.AnalysisReport, error) {
	if err := m.record(ctx, MethodAnalysisReport, symbol); err != nil {
		return nil, err
	}
	if r, ok := m.Analysis[symbol]; ok {
		return r, nil
	}
	return &model.AnalysisReport{}, nil
}

func (m *MockClient) KlineChartData(ctx context.Context, symbol string) (*model.Series, error) {
	if err := m.record(ctx, MethodKlineChartData, symbol); err != nil {
		return nil, err
	}
	return m.series(symbol, "kline", time.Hour), nil
}

func (m *MockClient) series(symbol, timeframe string, step time.Duration) *model.Series {
	base := m.BasePrices[symbol]
	if base == 0 {
		base = 100
	}
	count := m.Bars
	if count <= 0 {
		count = 48
	}
	return &model.Series{Symbol: symbol, Timeframe: timeframe, Candles: generateMockCandles(base, count, step)}
}

func generateMockCandles(basePrice float64, count int, step time.Duration) []model.Candle {
	candles := make([]model.Candle, count)
	end := time.Now().Truncate(step)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return candles
}
