// Package board holds the dashboard's display state: the visible page,
// price rows, analysis panels, controls and the status line.
package board

import (
	"maps"
	"sync"
	"time"

	"CryptoBoard/internal/dashboard"
	"CryptoBoard/internal/display"
)

// DefaultToastTTL is how long a status message stays visible.
const DefaultToastTTL = 4 * time.Second

// Toast kinds.
const (
	ToastError   = "error"
	ToastSuccess = "success"
)

// Toast is a transient status line message.
type Toast struct {
	Kind    string
	Message string
	Expires time.Time
}

// State is a copy of the board taken at one instant.
type State struct {
	Page           dashboard.Page
	Nav            dashboard.Page
	Prices         map[string]display.PriceLine
	LastUpdated    string
	Analysis       map[dashboard.Page]display.AnalysisPanel
	RefreshEnabled bool
	RefreshLabel   string
	Timeframe      string
	Instrument     string
	Toast          *Toast
}

// Board implements dashboard.View and dashboard.Notifier.
type Board struct {
	TTL time.Duration

	mu       sync.Mutex
	state    State
	onChange func()
	now      func() time.Time
}

// New creates a board showing nothing, with the refresh control enabled.
func New() *Board {
	return &Board{
		TTL: DefaultToastTTL,
		state: State{
			Prices:         make(map[string]display.PriceLine),
			Analysis:       make(map[dashboard.Page]display.AnalysisPanel),
			RefreshEnabled: true,
			RefreshLabel:   "Refresh",
		},
		now: time.Now,
	}
}

// OnChange registers fn to run after every update, outside the board lock.
func (b *Board) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

func (b *Board) update(fn func(s *State)) {
	b.mu.Lock()
	fn(&b.state)
	notify := b.onChange
	b.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (b *Board) ShowPage(page dashboard.Page) {
	b.update(func(s *State) { s.Page = page })
}

func (b *Board) SetActiveNav(page dashboard.Page) {
	b.update(func(s *State) { s.Nav = page })
}

func (b *Board) SetPrice(symbol string, line display.PriceLine) {
	b.update(func(s *State) { s.Prices[symbol] = line })
}

func (b *Board) SetLastUpdated(text string) {
	b.update(func(s *State) { s.LastUpdated = text })
}

func (b *Board) SetAnalysis(page dashboard.Page, panel display.AnalysisPanel) {
	b.update(func(s *State) { s.Analysis[page] = panel })
}

func (b *Board) SetRefreshControl(enabled bool, label string) {
	b.update(func(s *State) {
		s.RefreshEnabled = enabled
		s.RefreshLabel = label
	})
}

func (b *Board) SetActiveTimeframe(tf string) {
	b.update(func(s *State) { s.Timeframe = tf })
}

func (b *Board) SetActiveInstrument(sym string) {
	b.update(func(s *State) { s.Instrument = sym })
}

func (b *Board) ShowError(msg string) {
	b.toast(ToastError, msg)
}

func (b *Board) ShowSuccess(msg string) {
	b.toast(ToastSuccess, msg)
}

func (b *Board) toast(kind, msg string) {
	b.update(func(s *State) {
		s.Toast = &Toast{Kind: kind, Message: msg, Expires: b.now().Add(b.TTL)}
	})
}

// Snapshot returns a copy of the current state. Expired toasts are dropped.
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Prices = maps.Clone(b.state.Prices)
	s.Analysis = maps.Clone(b.state.Analysis)
	if t := b.state.Toast; t != nil {
		if b.now().Before(t.Expires) {
			cp := *t
			s.Toast = &cp
		} else {
			s.Toast = nil
			b.state.Toast = nil
		}
	}
	return s
}
