package board

import (
	"testing"
	"time"

	"CryptoBoard/internal/dashboard"
	"CryptoBoard/internal/display"
)

var (
	_ dashboard.View     = (*Board)(nil)
	_ dashboard.Notifier = (*Board)(nil)
)

func TestBoardRecordsViewUpdates(t *testing.T) {
	b := New()
	changes := 0
	b.OnChange(func() { changes++ })

	b.ShowPage(dashboard.PageKline)
	b.SetActiveNav(dashboard.PageKline)
	b.SetPrice("BTC", display.PriceLine{Price: "$43,250.13", Change: "+1.20%", Tone: display.TonePositive})
	b.SetLastUpdated("Last updated: 10:00:00")
	b.SetAnalysis(dashboard.PageBitcoin, display.AnalysisPanel{Trend: "bullish"})
	b.SetRefreshControl(false, "Refreshing...")
	b.SetActiveTimeframe("7d")
	b.SetActiveInstrument("ETH")

	s := b.Snapshot()
	if s.Page != dashboard.PageKline || s.Nav != dashboard.PageKline {
		t.Errorf("page/nav = %s/%s", s.Page, s.Nav)
	}
	if s.Prices["BTC"].Price != "$43,250.13" || s.LastUpdated != "Last updated: 10:00:00" {
		t.Errorf("prices = %+v, last updated = %q", s.Prices, s.LastUpdated)
	}
	if s.Analysis[dashboard.PageBitcoin].Trend != "bullish" {
		t.Errorf("analysis = %+v", s.Analysis)
	}
	if s.RefreshEnabled || s.RefreshLabel != "Refreshing..." {
		t.Errorf("refresh control = %v %q", s.RefreshEnabled, s.RefreshLabel)
	}
	if s.Timeframe != "7d" || s.Instrument != "ETH" {
		t.Errorf("selection = %s %s", s.Instrument, s.Timeframe)
	}
	if changes != 8 {
		t.Errorf("expected 8 change callbacks, got %d", changes)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := New()
	b.SetPrice("BTC", display.PriceLine{Price: "$1"})
	s := b.Snapshot()
	s.Prices["BTC"] = display.PriceLine{Price: "$2"}

	if got := b.Snapshot().Prices["BTC"].Price; got != "$1" {
		t.Errorf("board mutated through snapshot: %s", got)
	}
}

func TestToastExpires(t *testing.T) {
	b := New()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.ShowSuccess("data refreshed")
	b.ShowError("refresh failed")
	toast := b.Snapshot().Toast
	if toast == nil || toast.Kind != ToastError || toast.Message != "refresh failed" {
		t.Fatalf("toast = %+v", toast)
	}

	now = now.Add(DefaultToastTTL)
	if toast := b.Snapshot().Toast; toast != nil {
		t.Errorf("expected toast to expire, got %+v", toast)
	}
}
