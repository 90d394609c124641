package ui

import (
	"context"
	"strings"
	"sync"
	"testing"

	"CryptoBoard/internal/board"
	"CryptoBoard/internal/chart"
	"CryptoBoard/internal/dashboard"
	"CryptoBoard/internal/display"

	tea "github.com/charmbracelet/bubbletea"
)

var pages = []dashboard.Page{dashboard.PageHome, dashboard.PageBitcoin, dashboard.PageEthereum, dashboard.PageKline}

type events struct {
	mu  sync.Mutex
	got []string
}

func (e *events) bind(k *Keyboard) {
	for _, kind := range []dashboard.EventKind{dashboard.EventNavigate, dashboard.EventRefresh, dashboard.EventTimeframe, dashboard.EventInstrument} {
		kind := kind
		k.Bind(kind, func(_ context.Context, token string) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.got = append(e.got, kind.String()+":"+token)
		})
	}
}

func (e *events) last() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.got) == 0 {
		return ""
	}
	return e.got[len(e.got)-1]
}

func newTestModel(t *testing.T) (Model, *board.Board, *events) {
	t.Helper()
	charts := chart.NewManager([]string{"BTC", "ETH"}, []string{"1h", "24h", "7d", "30d"}, "BTC", "24h")
	kb := NewKeyboard(context.Background(), pages, []string{"BTC", "ETH"}, []string{"1h", "24h", "7d", "30d"}, func() (string, string) {
		return charts.Instrument(), charts.Timeframe()
	})
	ev := &events{}
	ev.bind(kb)
	b := board.New()
	return NewModel(b, charts, kb, pages, []string{"BTC", "ETH"}), b, ev
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	if cmd != nil {
		cmd()
	}
	return updated.(Model)
}

func TestKeysEmitEvents(t *testing.T) {
	m, _, ev := newTestModel(t)

	tests := []struct {
		key  string
		want string
	}{
		{"1", "navigate:home"},
		{"2", "navigate:bitcoin"},
		{"4", "navigate:kline"},
		{"r", "refresh:"},
		{"t", "timeframe:7d"},
		{"T", "timeframe:1h"},
		{"c", "instrument:ETH"},
		{"C", "instrument:ETH"},
	}
	for _, tt := range tests {
		m = press(t, m, runes(tt.key))
		if got := ev.last(); got != tt.want {
			t.Errorf("key %q: expected %q, got %q", tt.key, tt.want, got)
		}
	}
}

func TestUnboundKeyDoesNothing(t *testing.T) {
	m, _, ev := newTestModel(t)
	_, cmd := m.Update(runes("x"))
	if cmd != nil {
		t.Error("expected no command for an unbound key")
	}
	if ev.last() != "" {
		t.Errorf("unexpected event %q", ev.last())
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestViewShowsBoardState(t *testing.T) {
	m, b, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	b.ShowPage(dashboard.PageHome)
	b.SetActiveNav(dashboard.PageHome)
	b.SetPrice("BTC", display.PriceLine{Price: "$43,250.13", Change: "-3.46%", Tone: display.ToneNegative})
	b.SetLastUpdated("Last updated: 09:30:00")
	b.ShowError("refresh failed")

	view := m.View()
	for _, want := range []string{"$43,250.13", "-3.46%", "Last updated: 09:30:00", "refresh failed", "[Refresh]", chart.NotInitialized} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsAnalysisPlaceholders(t *testing.T) {
	m, b, _ := newTestModel(t)
	b.ShowPage(dashboard.PageBitcoin)
	b.SetAnalysis(dashboard.PageBitcoin, display.AnalysisPanel{Trend: "bullish", Support: "N/A", Resistance: "N/A", Recommendation: "none"})

	view := m.View()
	for _, want := range []string{"bullish", "N/A", "none"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStep(t *testing.T) {
	list := []string{"1h", "24h", "7d"}
	if got := step(list, "7d", 1); got != "1h" {
		t.Errorf("wrap forward: %s", got)
	}
	if got := step(list, "1h", -1); got != "7d" {
		t.Errorf("wrap back: %s", got)
	}
	if got := step(list, "2y", 1); got != "1h" {
		t.Errorf("unknown current: %s", got)
	}
}

func TestRefreshKeyIgnoredWhileRefreshing(t *testing.T) {
	m, b, ev := newTestModel(t)

	b.SetRefreshControl(false, "Refreshing...")
	if _, cmd := m.Update(runes("r")); cmd != nil {
		t.Fatal("expected no command while the refresh control is disabled")
	}
	if ev.last() != "" {
		t.Errorf("unexpected event %q", ev.last())
	}

	b.SetRefreshControl(true, "Refresh")
	m = press(t, m, runes("r"))
	if got := ev.last(); got != "refresh:" {
		t.Errorf("expected refresh event once enabled, got %q", got)
	}
}
