// Package dashboard coordinates page navigation, data loading, polling and
// chart rendering for the crypto dashboard.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"CryptoBoard/internal/display"
	"CryptoBoard/internal/model"
	"CryptoBoard/internal/scheduler"

	"go.uber.org/zap"
)

// Notifier messages.
const (
	msgInitFailed      = "could not initialize, check connection"
	msgRefreshed       = "data refreshed"
	msgRefreshFailed   = "refresh failed"
	msgInstrumentError = "failed to change instrument"

	refreshLabel    = "Refresh"
	refreshingLabel = "Refreshing..."
)

// Settings configures a Controller.
type Settings struct {
	RefreshInterval   time.Duration
	DefaultInstrument string
	DefaultTimeframe  string
	InstrumentPages   []InstrumentPage
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Data    DataClient
	Charts  ChartRenderer
	Notify  Notifier
	View    View
	Sources []EventSource
	Poller  *scheduler.Poller
	Logger  *zap.Logger
}

type loaderFunc func(ctx context.Context) error

// Controller owns the session state of one dashboard.
type Controller struct {
	data     DataClient
	charts   ChartRenderer
	notify   Notifier
	view     View
	sources  []EventSource
	poller   *scheduler.Poller
	logger   *zap.Logger
	settings Settings

	loaders map[Page]loaderFunc
	pages   []Page
	gens    *generations
	now     func() time.Time

	// viewMu makes a session change and the view update showing it one step,
	// so concurrent actions cannot leave the screen disagreeing with the
	// session. Never held across a fetch. Acquired before mu.
	viewMu sync.Mutex

	mu          sync.Mutex
	ctx         context.Context
	page        Page
	instrument  string
	timeframe   string
	initialized bool
	bound       bool

	destroyOnce sync.Once
}

// New creates a Controller. Nothing is fetched or bound until Start.
func New(deps Deps, settings Settings) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	poller := deps.Poller
	if poller == nil {
		poller = scheduler.NewPoller(logger)
	}
	if len(settings.InstrumentPages) == 0 {
		settings.InstrumentPages = DefaultInstrumentPages
	}

	c := &Controller{
		data:     deps.Data,
		charts:   deps.Charts,
		notify:   deps.Notify,
		view:     deps.View,
		sources:  deps.Sources,
		poller:   poller,
		logger:   logger,
		settings: settings,
		gens:     newGenerations(),
		now:      time.Now,
		ctx:      context.Background(),
		page:     PageHome,
	}

	if deps.Charts.SetInstrument(settings.DefaultInstrument) {
		c.instrument = settings.DefaultInstrument
	} else {
		c.instrument = deps.Charts.Instrument()
	}
	if deps.Charts.SetTimeframe(settings.DefaultTimeframe) {
		c.timeframe = settings.DefaultTimeframe
	} else {
		c.timeframe = deps.Charts.Timeframe()
	}

	c.loaders = map[Page]loaderFunc{
		PageHome:  c.loadHome,
		PageKline: c.loadKline,
	}
	for _, ip := range settings.InstrumentPages {
		c.loaders[ip.Page] = c.instrumentLoader(ip)
	}
	c.pages = PageOrder(settings.InstrumentPages)
	return c
}

// Pages returns the registered pages in navigation order.
func (c *Controller) Pages() []Page {
	return slices.Clone(c.pages)
}

// CurrentPage returns the visible page.
func (c *Controller) CurrentPage() Page {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Selection returns the current instrument and timeframe.
func (c *Controller) Selection() (instrument, timeframe string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instrument, c.timeframe
}

// Initialized reports whether Start completed successfully.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Start runs the startup sequence: health check, home view, event bindings,
// initial home data and polling. Any failure aborts the sequence, is shown
// once and leaves the controller uninitialized with no polling running.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return errors.New("dashboard already started")
	}
	c.ctx = ctx
	c.mu.Unlock()

	if err := c.start(ctx); err != nil {
		c.poller.Cancel()
		c.logger.Error("dashboard startup failed", zap.Error(err))
		c.notify.ShowError(msgInitFailed)
		return err
	}

	c.mu.Lock()
	c.initialized = true
	instrument, timeframe := c.instrument, c.timeframe
	c.mu.Unlock()
	c.logger.Info("dashboard started",
		zap.String("instrument", instrument),
		zap.String("timeframe", timeframe),
		zap.Duration("refresh_interval", c.settings.RefreshInterval))
	return nil
}

func (c *Controller) start(ctx context.Context) error {
	health, err := c.data.HealthCheck(ctx)
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	if !health.Healthy() {
		status := ""
		if health != nil {
			status = health.Status
		}
		return &ConnectivityError{Status: status}
	}

	c.showPage(PageHome)
	c.charts.InitSurface(SurfaceMain)

	c.bindEvents()

	if err := c.loaders[PageHome](ctx); err != nil {
		return &DataLoadError{Page: PageHome, Err: err}
	}

	if err := c.StartPolling(); err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	return nil
}

// bindEvents registers the handlers on every event source, once per controller.
func (c *Controller) bindEvents() {
	c.mu.Lock()
	if c.bound {
		c.mu.Unlock()
		return
	}
	c.bound = true
	c.mu.Unlock()

	for _, src := range c.sources {
		src.Bind(EventNavigate, func(ctx context.Context, token string) {
			c.NavigateTo(ctx, token)
		})
		src.Bind(EventRefresh, func(ctx context.Context, _ string) {
			_ = c.ManualRefresh(ctx)
		})
		src.Bind(EventTimeframe, func(ctx context.Context, token string) {
			c.ChangeTimeframe(ctx, token)
		})
		src.Bind(EventInstrument, func(ctx context.Context, token string) {
			c.ChangeInstrument(ctx, token)
		})
	}
}

// NavigateTo shows the named page and loads its data. Unregistered names are
// ignored. Navigating to the current page reloads it.
func (c *Controller) NavigateTo(ctx context.Context, name string) {
	page := Page(name)
	if _, ok := c.loaders[page]; !ok {
		c.logger.Debug("ignoring navigation to unknown page", zap.String("page", name))
		return
	}

	c.showPage(page)
	_ = c.LoadPageData(ctx, page)
}

// showPage makes page current and visible as one step.
func (c *Controller) showPage(page Page) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	c.view.ShowPage(page)
	c.view.SetActiveNav(page)
}

// LoadPageData runs the loader of page. A failure is logged, shown as
// "failed to load <page> data" and returned as a *DataLoadError.
func (c *Controller) LoadPageData(ctx context.Context, page Page) error {
	err := c.loadPage(ctx, page)
	if err != nil {
		c.notify.ShowError(fmt.Sprintf("failed to load %s data", page))
	}
	return err
}

// loadPage runs the loader of page and logs a failure without notifying.
func (c *Controller) loadPage(ctx context.Context, page Page) error {
	load, ok := c.loaders[page]
	if !ok {
		return &DataLoadError{Page: page, Err: fmt.Errorf("page not registered")}
	}
	if err := load(ctx); err != nil {
		c.logger.Error("page load failed", zap.String("page", string(page)), zap.Error(err))
		return &DataLoadError{Page: page, Err: err}
	}
	return nil
}

func (c *Controller) loadHome(ctx context.Context) error {
	if err := c.loadPrices(ctx); err != nil {
		return err
	}
	return c.loadMainChart(ctx)
}

func (c *Controller) instrumentLoader(ip InstrumentPage) loaderFunc {
	surface := string(ip.Page)
	return func(ctx context.Context) error {
		c.charts.InitSurface(surface)
		err := c.loadSeries(ctx, surface, func(ctx context.Context) (*model.Series, error) {
			return c.data.InstrumentChartData(ctx, ip.Symbol)
		})
		if err != nil {
			return err
		}
		return c.loadAnalysis(ctx, ip)
	}
}

func (c *Controller) loadKline(ctx context.Context) error {
	c.charts.InitSurface(SurfaceKline)
	instrument, _ := c.Selection()
	return c.loadSeries(ctx, SurfaceKline, func(ctx context.Context) (*model.Series, error) {
		return c.data.KlineChartData(ctx, instrument)
	})
}

func (c *Controller) loadMainChart(ctx context.Context) error {
	instrument, timeframe := c.Selection()
	return c.loadSeries(ctx, SurfaceMain, func(ctx context.Context) (*model.Series, error) {
		return c.data.ChartData(ctx, instrument, timeframe)
	})
}

// loadPrices fetches the price snapshot and writes every quote with a fresh
// last-updated stamp.
func (c *Controller) loadPrices(ctx context.Context) error {
	token := c.gens.begin(targetPrices)
	snap, err := c.data.LatestPrices(ctx)
	if err != nil {
		return fmt.Errorf("latest prices: %w", err)
	}
	stamp := display.FormatLastUpdated(c.now())
	applied := c.gens.apply(targetPrices, token, func() {
		for _, sym := range slices.Sorted(maps.Keys(snap)) {
			c.view.SetPrice(sym, display.FormatQuote(snap[sym]))
		}
		c.view.SetLastUpdated(stamp)
	})
	if !applied {
		c.logger.Debug("discarded stale price snapshot", zap.Uint64("request", token))
	}
	return nil
}

func (c *Controller) loadSeries(ctx context.Context, surface string, fetch func(context.Context) (*model.Series, error)) error {
	target := chartTarget(surface)
	token := c.gens.begin(target)
	series, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("%s chart: %w", surface, err)
	}
	var updateErr error
	applied := c.gens.apply(target, token, func() {
		updateErr = c.charts.UpdateSurface(surface, series)
	})
	if !applied {
		c.logger.Debug("discarded stale series", zap.String("surface", surface), zap.Uint64("request", token))
	}
	if updateErr != nil {
		return fmt.Errorf("%s chart: %w", surface, updateErr)
	}
	return nil
}

func (c *Controller) loadAnalysis(ctx context.Context, ip InstrumentPage) error {
	target := analysisTarget(ip.Page)
	token := c.gens.begin(target)
	report, err := c.data.AnalysisReport(ctx, ip.Symbol)
	if err != nil {
		return fmt.Errorf("%s analysis: %w", ip.Symbol, err)
	}
	panel := display.FormatAnalysis(report)
	if !c.gens.apply(target, token, func() { c.view.SetAnalysis(ip.Page, panel) }) {
		c.logger.Debug("discarded stale analysis", zap.String("page", string(ip.Page)), zap.Uint64("request", token))
	}
	return nil
}
