package dashboard

import (
	"context"
	"fmt"

	"CryptoBoard/internal/display"
	"CryptoBoard/internal/model"
)

// DataClient fetches everything the dashboard shows.
type DataClient interface {
	HealthCheck(ctx context.Context) (*model.Health, error)
	LatestPrices(ctx context.Context) (model.PriceSnapshot, error)
	ChartData(ctx context.Context, symbol, timeframe string) (*model.Series, error)
	InstrumentChartData(ctx context.Context, symbol string) (*model.Series, error)
	AnalysisReport(ctx context.Context, symbol string) (*model.AnalysisReport, error)
	KlineChartData(ctx context.Context, symbol string) (*model.Series, error)
}

// ChartRenderer owns the chart surfaces and the selection they are drawn for.
type ChartRenderer interface {
	InitSurface(id string)
	UpdateSurface(id string, s *model.Series) error
	DestroyAll()
	// SetInstrument and SetTimeframe return false for tokens they do not accept.
	SetInstrument(sym string) bool
	SetTimeframe(tf string) bool
	Instrument() string
	Timeframe() string
}

// Notifier is the user-facing outcome surface. Calls must not block.
type Notifier interface {
	ShowError(msg string)
	ShowSuccess(msg string)
}

// View is the display the controller writes into.
type View interface {
	ShowPage(page Page)
	SetActiveNav(page Page)
	SetPrice(symbol string, line display.PriceLine)
	SetLastUpdated(text string)
	SetAnalysis(page Page, panel display.AnalysisPanel)
	SetRefreshControl(enabled bool, label string)
	SetActiveTimeframe(tf string)
	SetActiveInstrument(sym string)
}

// EventKind identifies a class of user interaction.
type EventKind int

const (
	EventNavigate EventKind = iota
	EventRefresh
	EventTimeframe
	EventInstrument
)

func (k EventKind) String() string {
	switch k {
	case EventNavigate:
		return "navigate"
	case EventRefresh:
		return "refresh"
	case EventTimeframe:
		return "timeframe"
	case EventInstrument:
		return "instrument"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Handler reacts to an event. token carries the page, timeframe or
// instrument named by the triggering control and is empty for refresh.
type Handler func(ctx context.Context, token string)

// EventSource delivers user interactions to bound handlers.
type EventSource interface {
	Bind(kind EventKind, h Handler)
}
