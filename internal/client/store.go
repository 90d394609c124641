package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CryptoBoard/internal/analysis"
	"CryptoBoard/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// storeWindow is the table and row count backing one timeframe token.
type storeWindow struct {
	table string
	limit int
}

var storeWindows = map[string]storeWindow{
	"1h":  {"minute_data", 60},
	"24h": {"hour_data", 24},
	"7d":  {"hour_data", 168},
	"30d": {"day_data", 30},
}

const (
	klineLimit    = 100
	analysisLimit = 100
)

// StoreClient implements Source by reading the price collector's SQLite store.
// The connection is query-only; the dashboard never writes.
type StoreClient struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenStore opens the SQLite store at dbPath for reading.
func OpenStore(dbPath string, logger *zap.Logger) (*StoreClient, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set query_only: %w", err)
	}

	logger.Info("sqlite store opened", zap.String("path", dbPath))
	return &StoreClient{db: db, logger: logger}, nil
}

func (s *StoreClient) Name() string { return "sqlite" }

func (s *StoreClient) HealthCheck(ctx context.Context) (*model.Health, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM current_prices`).Scan(&n); err != nil {
		return nil, fmt.Errorf("probe current_prices: %w", err)
	}
	return &model.Health{Status: model.HealthyStatus, Timestamp: time.Now()}, nil
}

func (s *StoreClient) LatestPrices(ctx context.Context) (model.PriceSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, price, change_24h
		FROM current_prices
		WHERE id IN (SELECT MAX(id) FROM current_prices GROUP BY symbol)`)
	if err != nil {
		return nil, fmt.Errorf("query latest prices: %w", err)
	}
	defer rows.Close()

	snap := model.PriceSnapshot{}
	for rows.Next() {
		var (
			symbol string
			price  decimal.Decimal
			change decimal.NullDecimal
		)
		if err := rows.Scan(&symbol, &price, &change); err != nil {
			return nil, fmt.Errorf("scan latest price: %w", err)
		}
		q := model.Quote{Price: price}
		if change.Valid {
			q.Change24h = decimalPtr(change.Decimal)
		}
		snap[strings.ToUpper(symbol)] = q
	}
	return snap, rows.Err()
}

func (s *StoreClient) ChartData(ctx context.Context, symbol, timeframe string) (*model.Series, error) {
	w, ok := storeWindows[timeframe]
	if !ok {
		return nil, fmt.Errorf("unsupported timeframe %q", timeframe)
	}
	series, err := s.bars(ctx, w.table, symbol, w.limit)
	if err != nil {
		return nil, fmt.Errorf("chart data %s/%s: %w", symbol, timeframe, err)
	}
	series.Timeframe = timeframe
	return series, nil
}

func (s *StoreClient) InstrumentChartData(ctx context.Context, symbol string) (*model.Series, error) {
	return s.ChartData(ctx, symbol, "24h")
}

func (s *StoreClient) KlineChartData(ctx context.Context, symbol string) (*model.Series, error) {
	series, err := s.bars(ctx, "hour_data", symbol, klineLimit)
	if err != nil {
		return nil, fmt.Errorf("kline %s: %w", symbol, err)
	}
	series.Timeframe = "kline"
	return series, nil
}

// AnalysisReport derives the report locally from daily bars.
func (s *StoreClient) AnalysisReport(ctx context.Context, symbol string) (*model.AnalysisReport, error) {
	series, err := s.bars(ctx, "day_data", symbol, analysisLimit)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", symbol, err)
	}
	return analysis.Evaluate(series).Report, nil
}

// bars reads the newest limit rows of table for symbol, returned oldest first.
// table always comes from storeWindows or a constant, never from user input.
func (s *StoreClient) bars(ctx context.Context, table, symbol string, limit int) (*model.Series, error) {
	query := fmt.Sprintf(`SELECT date, open_price, high_price, low_price, close_price, volume
		FROM %s WHERE symbol = ? ORDER BY date DESC LIMIT ?`, table)
	rows, err := s.db.QueryContext(ctx, query, strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := &model.Series{Symbol: strings.ToUpper(symbol)}
	for rows.Next() {
		var (
			date   any
			c      model.Candle
			volume sql.NullFloat64
		)
		if err := rows.Scan(&date, &c.Open, &c.High, &c.Low, &c.Close, &volume); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		ts, err := asTime(date)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		c.Time = ts
		c.Volume = volume.Float64
		series.Candles = append(series.Candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortCandles(series.Candles)
	return series, nil
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTime(t)
	case []byte:
		return parseTime(string(t))
	case int64:
		return time.Unix(t, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", v)
	}
}

// Close closes the underlying database.
func (s *StoreClient) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}
