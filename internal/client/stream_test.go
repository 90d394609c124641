package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CryptoBoard/internal/model"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestTickerStream_HandleMessage(t *testing.T) {
	s := NewTickerStream(NewMockClient(), "", []string{"BTC", "ETH"}, "USDT", time.Minute, zap.NewNop())
	msg := `[{"e":"24hrMiniTicker","s":"BTCUSDT","c":"44000.00","o":"40000.00","E":1},
		{"e":"24hrMiniTicker","s":"DOGEUSDT","c":"0.1","o":"0.1","E":1}]`
	if err := s.handleMessage([]byte(msg)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fresh := s.freshQuotes()
	if len(fresh) != 1 {
		t.Fatalf("expected only tracked symbols, got %v", fresh)
	}
	if got := fresh["BTC"].Change().String(); got != "10" {
		t.Errorf("expected +10%% change, got %s", got)
	}
	if err := s.handleMessage([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}

func TestTickerStream_HandleFullBinanceFrame(t *testing.T) {
	s := NewTickerStream(NewMockClient(), "", []string{"BTC"}, "USDT", time.Minute, zap.NewNop())
	frame := `{"e":"24hrMiniTicker","E":1672515782136,"s":"BTCUSDT","c":"44000.00","o":"40000.00",` +
		`"h":"45000.00","l":"39000.00","v":"1200.5","q":"52000000.0"}`
	if err := s.handleMessage([]byte(frame)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.handleMessage([]byte("[" + frame + "]")); err != nil {
		t.Fatalf("unexpected error for array frame: %v", err)
	}
	q, ok := s.freshQuotes()["BTC"]
	if !ok {
		t.Fatal("expected BTC quote to be cached")
	}
	if !q.Price.Equal(decimal.NewFromInt(44000)) {
		t.Errorf("expected price 44000, got %s", q.Price)
	}
}

func TestTickerStream_LatestPricesOverlay(t *testing.T) {
	mock := NewMockClient()
	mock.Prices = model.PriceSnapshot{
		"BTC": {Price: decimal.NewFromInt(1)},
		"ETH": {Price: decimal.NewFromInt(2)},
	}
	s := NewTickerStream(mock, "", []string{"BTC", "ETH"}, "USDT", time.Minute, zap.NewNop())
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.handleMessage([]byte(`{"s":"BTCUSDT","c":"44000","o":"44000"}`))
	snap, err := s.LatestPrices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap["BTC"].Price.String() != "44000" || snap["ETH"].Price.String() != "2" {
		t.Errorf("unexpected overlay %v", snap)
	}
	if mock.Calls(MethodLatestPrices) != 1 {
		t.Errorf("expected one fallback call, got %d", mock.Calls(MethodLatestPrices))
	}

	s.handleMessage([]byte(`{"s":"ETHUSDT","c":"2700","o":"2700"}`))
	if _, err := s.LatestPrices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls(MethodLatestPrices) != 1 {
		t.Error("expected stream to answer when every symbol is fresh")
	}

	now = now.Add(2 * time.Minute)
	mock.Fail(MethodLatestPrices, errors.New("down"))
	if _, err := s.LatestPrices(context.Background()); err == nil {
		t.Error("expected error when stream is stale and fallback fails")
	}
}

func TestTickerStream_RunReadsFromServer(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`[{"s":"BTCUSDT","c":"45000","o":"45000"}]`))
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	s := NewTickerStream(NewMockClient(), url, []string{"BTC"}, "USDT", time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(3 * time.Second)
	for len(s.freshQuotes()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if got := s.freshQuotes()["BTC"].Price.String(); got != "45000" {
		t.Errorf("expected streamed price, got %q", got)
	}
}

func TestSourceNames(t *testing.T) {
	api := NewAPIClient("http://localhost:5000", "", "", time.Second)
	sources := map[string]Source{
		"api":         api,
		"mock":        NewMockClient(),
		"stream+api":  NewTickerStream(api, "", nil, "USDT", time.Minute, zap.NewNop()),
		"stream+mock": NewTickerStream(NewMockClient(), "", nil, "USDT", time.Minute, zap.NewNop()),
	}
	for want, src := range sources {
		if got := src.Name(); got != want {
			t.Errorf("expected name %q, got %q", want, got)
		}
	}
}
