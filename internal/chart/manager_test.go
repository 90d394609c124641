package chart

import (
	"strings"
	"testing"
	"time"

	"CryptoBoard/internal/model"
)

func newTestManager() *Manager {
	return NewManager([]string{"BTC", "ETH"}, []string{"1h", "24h"}, "BTC", "24h")
}

func testSeries(n int) *model.Series {
	s := &model.Series{Symbol: "BTC", Timeframe: "24h"}
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := 43000 + float64(i*25)
		s.Candles = append(s.Candles, model.Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: p, High: p + 10, Low: p - 10, Close: p})
	}
	return s
}

func TestManager_Selection(t *testing.T) {
	m := newTestManager()
	if m.Instrument() != "BTC" || m.Timeframe() != "24h" {
		t.Fatalf("unexpected defaults %s/%s", m.Instrument(), m.Timeframe())
	}
	if m.SetInstrument("DOGE") {
		t.Error("expected unknown instrument to be rejected")
	}
	if m.Instrument() != "BTC" {
		t.Error("rejected instrument must not change selection")
	}
	if !m.SetTimeframe("1h") || m.Timeframe() != "1h" {
		t.Error("expected 1h to be accepted")
	}
	if m.SetTimeframe("5m") || m.Timeframe() != "1h" {
		t.Error("expected 5m to be rejected")
	}
}

func TestManager_SurfaceLifecycle(t *testing.T) {
	m := newTestManager()
	if got := m.Render("main", 60, 12); got != NotInitialized {
		t.Errorf("expected placeholder, got %q", got)
	}

	m.InitSurface("main")
	if !m.Initialized("main") {
		t.Fatal("expected surface to exist")
	}
	if got := m.Render("main", 60, 12); got != NoData {
		t.Errorf("expected no-data placeholder, got %q", got)
	}

	if err := m.UpdateSurface("main", testSeries(24)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := m.Render("main", 60, 12)
	if first == "" || first == NoData {
		t.Fatalf("expected a drawn chart, got %q", first)
	}
	if again := m.Render("main", 60, 12); again != first {
		t.Error("expected cached render for unchanged data")
	}

	m.InitSurface("main")
	if m.Series("main") != nil {
		t.Error("expected re-init to clear data")
	}

	m.DestroyAll()
	if m.Initialized("main") {
		t.Error("expected surfaces to be destroyed")
	}
}

func TestManager_UpdateInitializesSurface(t *testing.T) {
	m := newTestManager()
	if err := m.UpdateSurface("kline", testSeries(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Initialized("kline") {
		t.Error("expected update to initialize surface")
	}
	if err := m.UpdateSurface("kline", nil); err == nil {
		t.Error("expected error for nil series")
	}
}

func TestManager_Summary(t *testing.T) {
	m := newTestManager()
	if m.Summary("kline") != "" {
		t.Error("expected empty summary without data")
	}
	m.UpdateSurface("kline", testSeries(30))
	sum := m.Summary("kline")
	if !strings.Contains(sum, "C 43,725") || !strings.Contains(sum, "RSI 100.0") {
		t.Errorf("unexpected summary %q", sum)
	}

	m.UpdateSurface("kline", testSeries(5))
	if sum := m.Summary("kline"); !strings.Contains(sum, "RSI n/a") {
		t.Errorf("expected RSI n/a for a short series, got %q", sum)
	}
}
