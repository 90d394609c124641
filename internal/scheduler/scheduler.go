// Package scheduler owns the dashboard's recurring background refresh.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Poller runs at most one recurring job on a cron runner.
type Poller struct {
	Cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	entry   cron.EntryID
	active  bool
	started bool
	stopped bool
}

// NewPoller creates a Poller. Panics inside a job are recovered and logged.
func NewPoller(logger *zap.Logger) *Poller {
	return &Poller{
		Cron:   cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
		logger: logger,
	}
}

// Replace installs job to run every interval, removing any previously
// installed job first. Clearing the old entry and storing the new one
// happen under one lock.
func (p *Poller) Replace(interval time.Duration, job func()) error {
	if interval < time.Second {
		return fmt.Errorf("refresh interval %v is below one second", interval)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return fmt.Errorf("poller stopped")
	}
	if p.active {
		p.Cron.Remove(p.entry)
		p.active = false
	}
	id, err := p.Cron.AddFunc(fmt.Sprintf("@every %s", interval), job)
	if err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	p.entry, p.active = id, true
	if !p.started {
		p.Cron.Start()
		p.started = true
		p.logger.Info("poller started")
	}
	p.logger.Debug("refresh job installed", zap.Duration("interval", interval))
	return nil
}

// Cancel removes the installed job, if any. Safe to call repeatedly.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.Cron.Remove(p.entry)
	p.active = false
	p.logger.Debug("refresh job removed")
}

// Active reports whether a job is installed.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Entries returns the number of jobs registered on the cron runner.
func (p *Poller) Entries() int {
	return len(p.Cron.Entries())
}

// Stop cancels the job and stops the cron runner, waiting for a running job.
func (p *Poller) Stop() {
	p.Cancel()
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	if started {
		<-p.Cron.Stop().Done()
	}
	p.logger.Info("poller stopped")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
