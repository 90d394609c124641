package dashboard

import "go.uber.org/zap"

// StartPolling installs the recurring refresh, replacing any installed one.
func (c *Controller) StartPolling() error {
	return c.poller.Replace(c.settings.RefreshInterval, c.pollTick)
}

// StopPolling removes the recurring refresh. Safe to call when none is installed.
func (c *Controller) StopPolling() {
	c.poller.Cancel()
}

// Polling reports whether a recurring refresh is installed.
func (c *Controller) Polling() bool {
	return c.poller.Active()
}

func (c *Controller) pollTick() {
	if err := c.tick(); err != nil {
		c.logger.Warn("refresh tick failed", zap.Error(err))
	}
}

// tick refreshes the price display while home is visible and does nothing
// on other pages.
func (c *Controller) tick() error {
	page := c.CurrentPage()
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if page != PageHome {
		return nil
	}
	if err := c.loadPrices(ctx); err != nil {
		return &PollingTickError{Err: err}
	}
	return nil
}
