package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"CryptoBoard/internal/model"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultStreamURL is Binance's all-market mini ticker stream.
const DefaultStreamURL = "wss://stream.binance.com:9443/ws/!miniTicker@arr"

const reconnectDelay = 5 * time.Second

// miniTicker is one element of the !miniTicker@arr payload. Every key
// Binance sends that differs from a field's tag only by case must have its
// own field, or encoding/json folds it into that field.
type miniTicker struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Close     string `json:"c"`
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Volume    string `json:"v"`
	QuoteVol  string `json:"q"`
}

type streamQuote struct {
	quote model.Quote
	at    time.Time
}

// TickerStream overlays live websocket quotes on top of another Source.
// LatestPrices is answered from the stream while every tracked symbol is
// fresher than MaxAge; anything stale is fetched from the wrapped Source.
type TickerStream struct {
	Source

	URL    string
	MaxAge time.Duration

	pairs  map[string]string // stream pair -> dashboard symbol, e.g. BTCUSDT -> BTC
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	quotes map[string]streamQuote
}

// NewTickerStream tracks symbols quoted against quoteAsset (e.g. USDT).
func NewTickerStream(src Source, url string, symbols []string, quoteAsset string, maxAge time.Duration, logger *zap.Logger) *TickerStream {
	if url == "" {
		url = DefaultStreamURL
	}
	pairs := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(sym)
		pairs[sym+strings.ToUpper(quoteAsset)] = sym
	}
	return &TickerStream{
		Source: src,
		URL:    url,
		MaxAge: maxAge,
		pairs:  pairs,
		logger: logger,
		now:    time.Now,
		quotes: make(map[string]streamQuote),
	}
}

// Name reports the wrapped source behind the stream.
func (s *TickerStream) Name() string { return "stream+" + s.Source.Name() }

// Run keeps the websocket subscription alive until ctx is cancelled.
func (s *TickerStream) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.logger.Info("connecting ticker stream", zap.String("url", s.URL))
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.URL, nil)
		if err != nil {
			s.logger.Warn("ticker stream dial failed", zap.Error(err))
		} else {
			s.readLoop(ctx, conn)
			s.logger.Info("ticker stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *TickerStream) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("ticker stream read failed", zap.Error(err))
			}
			return
		}
		if err := s.handleMessage(message); err != nil {
			s.logger.Debug("ticker stream message skipped", zap.Error(err))
		}
	}
}

func (s *TickerStream) handleMessage(message []byte) error {
	var tickers []miniTicker
	if err := json.Unmarshal(message, &tickers); err != nil {
		var single miniTicker
		if err2 := json.Unmarshal(message, &single); err2 != nil {
			return fmt.Errorf("decode mini ticker: %w", err)
		}
		tickers = []miniTicker{single}
	}

	at := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickers {
		sym, ok := s.pairs[t.Symbol]
		if !ok {
			continue
		}
		closePrice, err := decimal.NewFromString(t.Close)
		if err != nil {
			continue
		}
		q := model.Quote{Price: closePrice}
		if open, err := decimal.NewFromString(t.Open); err == nil && open.IsPositive() {
			change := closePrice.Sub(open).Div(open).Mul(decimal.NewFromInt(100))
			q.Change24h = decimalPtr(change)
		}
		s.quotes[sym] = streamQuote{quote: q, at: at}
	}
	return nil
}

// LatestPrices prefers fresh stream quotes and fills gaps from the wrapped Source.
func (s *TickerStream) LatestPrices(ctx context.Context) (model.PriceSnapshot, error) {
	fresh := s.freshQuotes()
	if len(fresh) == len(s.pairs) && len(fresh) > 0 {
		return fresh, nil
	}
	snap, err := s.Source.LatestPrices(ctx)
	if err != nil {
		if len(fresh) > 0 {
			s.logger.Warn("latest prices fallback failed, serving stream quotes", zap.Error(err))
			return fresh, nil
		}
		return nil, err
	}
	if snap == nil {
		snap = model.PriceSnapshot{}
	}
	for sym, q := range fresh {
		snap[sym] = q
	}
	return snap, nil
}

func (s *TickerStream) freshQuotes() model.PriceSnapshot {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := model.PriceSnapshot{}
	for sym, sq := range s.quotes {
		if s.MaxAge <= 0 || now.Sub(sq.at) <= s.MaxAge {
			snap[sym] = sq.quote
		}
	}
	return snap
}
