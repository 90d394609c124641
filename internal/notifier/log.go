package notifier

import (
	"CryptoBoard/internal/dashboard"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log. Used in headless mode.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (l *LogNotifier) ShowError(msg string) {
	l.logger.Error(msg)
}

func (l *LogNotifier) ShowSuccess(msg string) {
	l.logger.Info(msg)
}

// Fanout forwards every notification to all of its notifiers in order.
type Fanout []dashboard.Notifier

func (f Fanout) ShowError(msg string) {
	for _, n := range f {
		n.ShowError(msg)
	}
}

func (f Fanout) ShowSuccess(msg string) {
	for _, n := range f {
		n.ShowSuccess(msg)
	}
}
