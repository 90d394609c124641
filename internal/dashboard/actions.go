package dashboard

import (
	"context"

	"go.uber.org/zap"
)

// ManualRefresh reloads the current page, disabling the refresh control
// until the load finishes either way.
func (c *Controller) ManualRefresh(ctx context.Context) error {
	c.view.SetRefreshControl(false, refreshingLabel)
	defer c.view.SetRefreshControl(true, refreshLabel)

	if err := c.loadPage(ctx, c.CurrentPage()); err != nil {
		c.notify.ShowError(msgRefreshFailed)
		return err
	}
	c.notify.ShowSuccess(msgRefreshed)
	return nil
}

// ChangeTimeframe selects tf and reloads the current page. Timeframes the
// chart renderer does not accept are ignored.
func (c *Controller) ChangeTimeframe(ctx context.Context, tf string) {
	page, ok := c.selectTimeframe(tf)
	if !ok {
		c.logger.Debug("ignoring unknown timeframe", zap.String("timeframe", tf))
		return
	}
	_ = c.LoadPageData(ctx, page)
}

// ChangeInstrument selects sym. On home only the main chart is reloaded, on
// kline the page is reloaded, other pages show fixed instruments and fetch
// nothing.
func (c *Controller) ChangeInstrument(ctx context.Context, sym string) {
	page, ok := c.selectInstrument(sym)
	if !ok {
		c.logger.Debug("ignoring unknown instrument", zap.String("instrument", sym))
		return
	}

	switch page {
	case PageHome:
		if err := c.loadMainChart(ctx); err != nil {
			c.logger.Error("instrument change failed", zap.String("instrument", sym), zap.Error(err))
			c.notify.ShowError(msgInstrumentError)
		}
	case PageKline:
		_ = c.LoadPageData(ctx, page)
	}
}

// selectTimeframe applies tf to the renderer, the session and the view as
// one step and returns the page to reload.
func (c *Controller) selectTimeframe(tf string) (Page, bool) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	if !c.charts.SetTimeframe(tf) {
		return "", false
	}
	c.mu.Lock()
	c.timeframe = tf
	page := c.page
	c.mu.Unlock()
	c.view.SetActiveTimeframe(tf)
	return page, true
}

func (c *Controller) selectInstrument(sym string) (Page, bool) {
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	if !c.charts.SetInstrument(sym) {
		return "", false
	}
	c.mu.Lock()
	c.instrument = sym
	page := c.page
	c.mu.Unlock()
	c.view.SetActiveInstrument(sym)
	return page, true
}

// Destroy stops polling, destroys every chart and marks the controller
// uninitialized. Only the first call has an effect.
func (c *Controller) Destroy() {
	c.destroyOnce.Do(func() {
		c.poller.Stop()
		c.charts.DestroyAll()
		c.mu.Lock()
		c.initialized = false
		c.mu.Unlock()
		c.logger.Info("dashboard destroyed")
	})
}
