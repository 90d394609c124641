// Package ui renders the dashboard in the terminal with Bubble Tea.
package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"CryptoBoard/internal/board"
	"CryptoBoard/internal/chart"
	"CryptoBoard/internal/dashboard"
	"CryptoBoard/internal/display"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	// rows used by header, selectors, status and footer
	chromeHeight = 9
)

// RedrawMsg asks the model to render again after the board changed.
type RedrawMsg struct{}

type tickMsg time.Time

// Model is the Bubble Tea model drawing a board and its charts.
type Model struct {
	board    *board.Board
	charts   *chart.Manager
	keyboard *Keyboard
	pages    []dashboard.Page
	symbols  []string
	help     help.Model

	width    int
	height   int
	showHelp bool
}

// NewModel creates the terminal model. symbols fixes the order of the
// home price table.
func NewModel(b *board.Board, charts *chart.Manager, keyboard *Keyboard, pages []dashboard.Page, symbols []string) Model {
	return Model{
		board:    b,
		charts:   charts,
		keyboard: keyboard,
		pages:    pages,
		symbols:  symbols,
		help:     help.New(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// Init starts the clock that expires status messages.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, tick()
	case RedrawMsg:
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyboard.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyboard.Keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		case key.Matches(msg, m.keyboard.Keys.Refresh) && !m.board.Snapshot().RefreshEnabled:
			// a refresh is already running
			return m, nil
		}
		return m, m.keyboard.Handle(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.board.Snapshot()
	sections := []string{
		m.header(s),
		m.selectors(s),
		m.body(s),
		m.status(s),
		m.help.View(m.keyboard.Keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header(s board.State) string {
	tabs := make([]string, 0, len(m.pages))
	for i, p := range m.pages {
		label := fmt.Sprintf("%d %s", i+1, p)
		if p == s.Nav {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("CryptoBoard "), strings.Join(tabs, ""))
}

func (m Model) selectors(s board.State) string {
	instrument, timeframe := s.Instrument, s.Timeframe
	if instrument == "" {
		instrument = m.charts.Instrument()
	}
	if timeframe == "" {
		timeframe = m.charts.Timeframe()
	}
	return selectorStyle.Render("coin ") + activeSelStyle.Render(instrument) +
		selectorStyle.Render("  timeframe ") + activeSelStyle.Render(timeframe)
}

func (m Model) chartSize() (int, int) {
	w := m.width - 4
	h := m.height - chromeHeight
	return w, h
}

func (m Model) body(s board.State) string {
	w, h := m.chartSize()
	switch s.Page {
	case dashboard.PageHome, "":
		prices := m.priceTable(s)
		return lipgloss.JoinVertical(lipgloss.Left, prices, m.charts.Render(dashboard.SurfaceMain, w, h-len(m.symbols)-1))
	case dashboard.PageKline:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.charts.Render(dashboard.SurfaceKline, w, h-2),
			dimStyle.Render(m.charts.Summary(dashboard.SurfaceKline)))
	default:
		panel := analysisView(s.Analysis[s.Page])
		chartW := w - lipgloss.Width(panel) - 1
		return lipgloss.JoinHorizontal(lipgloss.Top, m.charts.Render(string(s.Page), chartW, h), " ", panel)
	}
}

func (m Model) priceTable(s board.State) string {
	symbols := m.symbols
	if len(symbols) == 0 {
		symbols = slices.Sorted(maps.Keys(s.Prices))
	}
	rows := make([]string, 0, len(symbols)+1)
	for _, sym := range symbols {
		line, ok := s.Prices[sym]
		if !ok {
			rows = append(rows, fmt.Sprintf("%-5s %s", sym, dimStyle.Render("--")))
			continue
		}
		tone := positiveStyle
		if line.Tone == display.ToneNegative {
			tone = negativeStyle
		}
		rows = append(rows, fmt.Sprintf("%-5s %14s %s", sym, line.Price, tone.Render(line.Change)))
	}
	rows = append(rows, dimStyle.Render(s.LastUpdated))
	return strings.Join(rows, "\n")
}

func analysisView(p display.AnalysisPanel) string {
	if p == (display.AnalysisPanel{}) {
		p = display.FormatAnalysis(nil)
	}
	return panelStyle.Render(strings.Join([]string{
		titleStyle.Render("Analysis"),
		"Trend          " + p.Trend,
		"Support        " + p.Support,
		"Resistance     " + p.Resistance,
		"Recommendation " + p.Recommendation,
	}, "\n"))
}

func (m Model) status(s board.State) string {
	refresh := "[" + s.RefreshLabel + "]"
	if !s.RefreshEnabled {
		refresh = dimStyle.Render(refresh)
	}
	if s.Toast == nil {
		return refresh
	}
	style := successToast
	if s.Toast.Kind == board.ToastError {
		style = errorToast
	}
	return refresh + "  " + style.Render(s.Toast.Message)
}
