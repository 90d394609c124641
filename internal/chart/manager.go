// Package chart renders the dashboard's chart surfaces in the terminal.
package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"CryptoBoard/internal/calculator"
	"CryptoBoard/internal/model"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	minWidth  = 20
	minHeight = 5
)

// Placeholder texts returned by Render.
const (
	NotInitialized = "chart not initialized"
	NoData         = "no data"
)

var palette = []string{"#F7931A", "#627EEA", "#E281FE", "#FBC36B", "#4FD1C5"}

type surface struct {
	series  *model.Series
	style   lipgloss.Style
	version int

	// last render, reused while size and data are unchanged
	cache        string
	cacheW       int
	cacheH       int
	cacheVersion int
}

// Manager owns every chart surface and the instrument/timeframe selection
// the charts are drawn for.
type Manager struct {
	mu          sync.Mutex
	surfaces    map[string]*surface
	instruments map[string]bool
	timeframes  map[string]bool
	instrument  string
	timeframe   string
	colorIndex  int
}

// NewManager creates a Manager accepting the given instruments and timeframes.
func NewManager(instruments, timeframes []string, defaultInstrument, defaultTimeframe string) *Manager {
	m := &Manager{
		surfaces:    make(map[string]*surface),
		instruments: make(map[string]bool, len(instruments)),
		timeframes:  make(map[string]bool, len(timeframes)),
	}
	for _, i := range instruments {
		m.instruments[i] = true
	}
	for _, tf := range timeframes {
		m.timeframes[tf] = true
	}
	m.SetInstrument(defaultInstrument)
	m.SetTimeframe(defaultTimeframe)
	return m
}

// InitSurface creates the surface id, discarding any data it held.
func (m *Manager) InitSurface(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initLocked(id)
}

func (m *Manager) initLocked(id string) *surface {
	if sf, ok := m.surfaces[id]; ok {
		sf.series = nil
		sf.version++
		return sf
	}
	color := palette[m.colorIndex%len(palette)]
	m.colorIndex++
	sf := &surface{style: lipgloss.NewStyle().Foreground(lipgloss.Color(color))}
	m.surfaces[id] = sf
	return sf
}

// UpdateSurface replaces the data of surface id, initializing it if needed.
func (m *Manager) UpdateSurface(id string, s *model.Series) error {
	if s == nil {
		return errors.New("nil series")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sf, ok := m.surfaces[id]
	if !ok {
		sf = m.initLocked(id)
	}
	sf.series = s
	sf.version++
	return nil
}

// DestroyAll drops every surface.
func (m *Manager) DestroyAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surfaces = make(map[string]*surface)
}

// Initialized reports whether surface id exists.
func (m *Manager) Initialized(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.surfaces[id]
	return ok
}

// Series returns the data currently held by surface id.
func (m *Manager) Series(id string) *model.Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sf, ok := m.surfaces[id]; ok {
		return sf.series
	}
	return nil
}

// SetInstrument selects sym if it is an accepted instrument.
func (m *Manager) SetInstrument(sym string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.instruments[sym] {
		return false
	}
	m.instrument = sym
	return true
}

// SetTimeframe selects tf if it is an accepted timeframe.
func (m *Manager) SetTimeframe(tf string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.timeframes[tf] {
		return false
	}
	m.timeframe = tf
	return true
}

func (m *Manager) Instrument() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instrument
}

func (m *Manager) Timeframe() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timeframe
}

// Render draws surface id as a braille line chart of closes.
func (m *Manager) Render(id string, width, height int) string {
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sf, ok := m.surfaces[id]
	if !ok {
		return NotInitialized
	}
	if sf.series.Len() == 0 {
		return NoData
	}
	if sf.cache != "" && sf.cacheW == width && sf.cacheH == height && sf.cacheVersion == sf.version {
		return sf.cache
	}

	candles := sf.series.Candles
	minT, maxT := candles[0].Time, candles[len(candles)-1].Time
	if !maxT.After(minT) {
		maxT = minT.Add(time.Minute)
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		minY = math.Min(minY, c.Close)
		maxY = math.Max(maxY, c.Close)
	}
	if maxY == minY {
		minY, maxY = minY-1, maxY+1
	}

	xFormatter := timeserieslinechart.HourTimeLabelFormatter()
	if maxT.Sub(minT) > 48*time.Hour {
		xFormatter = timeserieslinechart.DateTimeLabelFormatter()
	}

	lc := timeserieslinechart.New(width, height,
		timeserieslinechart.WithTimeRange(minT, maxT),
		timeserieslinechart.WithYRange(minY, maxY),
		timeserieslinechart.WithStyle(sf.style),
		timeserieslinechart.WithXLabelFormatter(xFormatter),
		timeserieslinechart.WithYLabelFormatter(func(i int, v float64) string {
			return humanize.Comma(int64(math.Round(v)))
		}),
		timeserieslinechart.WithXYSteps(2, 3),
	)
	for _, c := range candles {
		lc.Push(timeserieslinechart.TimePoint{Time: c.Time, Value: c.Close})
	}
	lc.DrawBraille()

	sf.cache = lc.View()
	sf.cacheW, sf.cacheH, sf.cacheVersion = width, height, sf.version
	return sf.cache
}

// Summary describes the newest candle of surface id plus its indicators.
func (m *Manager) Summary(id string) string {
	s := m.Series(id)
	last, ok := s.Last()
	if !ok {
		return ""
	}
	ind := calculator.KlineIndicators(s.Candles)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("O %s  H %s  L %s  C %s\n",
		humanize.CommafWithDigits(last.Open, 2), humanize.CommafWithDigits(last.High, 2),
		humanize.CommafWithDigits(last.Low, 2), humanize.CommafWithDigits(last.Close, 2)))
	b.WriteString(fmt.Sprintf("MA5 %s  MA10 %s  MA20 %s  RSI %s  VOL %.2f%%",
		humanize.CommafWithDigits(ind.MA5, 2), humanize.CommafWithDigits(ind.MA10, 2),
		humanize.CommafWithDigits(ind.MA20, 2), ind.RSI, ind.Volatility))
	return b.String()
}
