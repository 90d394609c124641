package ui

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"CryptoBoard/internal/dashboard"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the dashboard's key bindings.
type KeyMap struct {
	Pages          []key.Binding
	Refresh        key.Binding
	NextTimeframe  key.Binding
	PrevTimeframe  key.Binding
	NextInstrument key.Binding
	PrevInstrument key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultKeyMap binds the digits 1..n to the pages in order.
func DefaultKeyMap(pages []dashboard.Page) KeyMap {
	km := KeyMap{
		Refresh:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		NextTimeframe:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t/T", "timeframe")),
		PrevTimeframe:  key.NewBinding(key.WithKeys("T")),
		NextInstrument: key.NewBinding(key.WithKeys("c"), key.WithHelp("c/C", "coin")),
		PrevInstrument: key.NewBinding(key.WithKeys("C")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, p := range pages {
		if i >= 9 {
			break
		}
		digit := fmt.Sprintf("%d", i+1)
		km.Pages = append(km.Pages, key.NewBinding(key.WithKeys(digit), key.WithHelp(digit, string(p))))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.NextTimeframe, k.NextInstrument, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.Pages, k.ShortHelp()}
}

// Keyboard is the terminal's event source. Key presses become dashboard
// events carrying the page, timeframe or instrument they select.
type Keyboard struct {
	Keys KeyMap

	ctx         context.Context
	pages       []dashboard.Page
	instruments []string
	timeframes  []string
	selection   func() (instrument, timeframe string)

	mu       sync.Mutex
	handlers map[dashboard.EventKind]dashboard.Handler
}

// NewKeyboard creates a Keyboard. selection reports the current instrument
// and timeframe so t/T and c/C can step from them.
func NewKeyboard(ctx context.Context, pages []dashboard.Page, instruments, timeframes []string, selection func() (string, string)) *Keyboard {
	return &Keyboard{
		Keys:        DefaultKeyMap(pages),
		ctx:         ctx,
		pages:       pages,
		instruments: instruments,
		timeframes:  timeframes,
		selection:   selection,
		handlers:    make(map[dashboard.EventKind]dashboard.Handler),
	}
}

// Bind registers h for kind.
func (k *Keyboard) Bind(kind dashboard.EventKind, h dashboard.Handler) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.handlers[kind] = h
}

// Handle maps a key press to a command running the bound handler. It
// returns nil when the key selects nothing or no handler is bound.
func (k *Keyboard) Handle(msg tea.KeyMsg) tea.Cmd {
	kind, token, ok := k.resolve(msg)
	if !ok {
		return nil
	}
	k.mu.Lock()
	h := k.handlers[kind]
	k.mu.Unlock()
	if h == nil {
		return nil
	}
	ctx := k.ctx
	return func() tea.Msg {
		h(ctx, token)
		return nil
	}
}

func (k *Keyboard) resolve(msg tea.KeyMsg) (dashboard.EventKind, string, bool) {
	for i, b := range k.Keys.Pages {
		if key.Matches(msg, b) {
			return dashboard.EventNavigate, string(k.pages[i]), true
		}
	}
	instrument, timeframe := k.selection()
	switch {
	case key.Matches(msg, k.Keys.Refresh):
		return dashboard.EventRefresh, "", true
	case key.Matches(msg, k.Keys.NextTimeframe):
		return dashboard.EventTimeframe, step(k.timeframes, timeframe, 1), true
	case key.Matches(msg, k.Keys.PrevTimeframe):
		return dashboard.EventTimeframe, step(k.timeframes, timeframe, -1), true
	case key.Matches(msg, k.Keys.NextInstrument):
		return dashboard.EventInstrument, step(k.instruments, instrument, 1), true
	case key.Matches(msg, k.Keys.PrevInstrument):
		return dashboard.EventInstrument, step(k.instruments, instrument, -1), true
	}
	return 0, "", false
}

// step returns the element delta positions from current, wrapping around.
func step(list []string, current string, delta int) string {
	if len(list) == 0 {
		return current
	}
	i := slices.Index(list, current)
	if i < 0 {
		return list[0]
	}
	n := len(list)
	return list[((i+delta)%n+n)%n]
}
