package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"CryptoBoard/internal/board"
	"CryptoBoard/internal/chart"
	"CryptoBoard/internal/client"
	"CryptoBoard/internal/config"
	"CryptoBoard/internal/dashboard"
	"CryptoBoard/internal/notifier"
	"CryptoBoard/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal("load config", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("config validation", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fatal("init logger", err)
	}
	defer logger.Sync()
	logger.Info("CryptoBoard starting", zap.String("mode", cfg.Mode), zap.String("source", cfg.DataSource.Kind))

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, closeData, err := newDataClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init data client", zap.Error(err))
	}
	defer closeData()

	instrumentPages := make([]dashboard.InstrumentPage, 0, len(cfg.Dashboard.InstrumentPages))
	for _, p := range cfg.Dashboard.InstrumentPages {
		instrumentPages = append(instrumentPages, dashboard.InstrumentPage{Page: dashboard.Page(p.Page), Symbol: p.Symbol})
	}
	pages := dashboard.PageOrder(instrumentPages)

	charts := chart.NewManager(cfg.Dashboard.Instruments, cfg.Dashboard.Timeframes,
		cfg.Dashboard.DefaultInstrument, cfg.Dashboard.DefaultTimeframe)
	b := board.New()

	notifiers := notifier.Fanout{notifier.NewLogNotifier(logger)}
	var sources []dashboard.EventSource
	if cfg.Mode == config.ModeTUI {
		notifiers = append(notifiers, b)
	}

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(ctx, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		tn.NotifySuccess = cfg.Telegram.NotifySuccess
		notifiers = append(notifiers, tn)
		if cfg.Telegram.Commands {
			commands := notifier.NewCommandSource()
			sources = append(sources, commands)
			go tn.StartPolling(ctx, commands.HandleCommand)
			logger.Info("telegram polling started")
		}
	}

	var keyboard *ui.Keyboard
	if cfg.Mode == config.ModeTUI {
		keyboard = ui.NewKeyboard(ctx, pages, cfg.Dashboard.Instruments, cfg.Dashboard.Timeframes, func() (string, string) {
			return charts.Instrument(), charts.Timeframe()
		})
		sources = append(sources, keyboard)
	}

	ctrl := dashboard.New(dashboard.Deps{
		Data:    data,
		Charts:  charts,
		Notify:  notifiers,
		View:    b,
		Sources: sources,
		Logger:  logger,
	}, dashboard.Settings{
		RefreshInterval:   cfg.Dashboard.RefreshInterval,
		DefaultInstrument: cfg.Dashboard.DefaultInstrument,
		DefaultTimeframe:  cfg.Dashboard.DefaultTimeframe,
		InstrumentPages:   instrumentPages,
	})
	defer ctrl.Destroy()

	if cfg.Mode == config.ModeHeadless {
		if err := ctrl.Start(ctx); err != nil {
			logger.Error("dashboard startup failed", zap.Error(err))
			return
		}
		logger.Info("CryptoBoard is running. Press Ctrl+C to stop.")
		<-ctx.Done()
		logger.Info("shutdown signal received, stopping...")
		return
	}

	model := ui.NewModel(b, charts, keyboard, pages, cfg.Dashboard.Instruments)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	b.OnChange(func() { program.Send(ui.RedrawMsg{}) })

	go func() {
		// failures are shown on the status line
		_ = ctrl.Start(ctx)
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		logger.Error("terminal ui stopped", zap.Error(err))
	}
	logger.Info("CryptoBoard stopped")
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// newLogger writes JSON logs to the configured file. Headless mode also
// logs to stderr; the TUI owns the terminal otherwise.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.OutputPaths = []string{cfg.Log.File}
	zc.ErrorOutputPaths = []string{cfg.Log.File}
	if cfg.Mode == config.ModeHeadless {
		zc.OutputPaths = append(zc.OutputPaths, "stderr")
		zc.ErrorOutputPaths = append(zc.ErrorOutputPaths, "stderr")
	}
	return zc.Build()
}

// newDataClient builds the configured data source, wrapped in the live
// ticker overlay when a stream URL is set.
func newDataClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (dashboard.DataClient, func(), error) {
	var src client.Source
	closeFn := func() {}
	switch cfg.DataSource.Kind {
	case config.SourceAPI:
		src = client.NewAPIClient(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	case config.SourceSQLite:
		store, err := client.OpenStore(cfg.DataSource.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		src = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				logger.Warn("close store", zap.Error(err))
			}
		}
	default:
		src = client.NewMockClient()
	}
	if cfg.DataSource.StreamURL != "" && cfg.DataSource.Kind != config.SourceMock {
		stream := client.NewTickerStream(src, cfg.DataSource.StreamURL, cfg.Dashboard.Instruments,
			cfg.DataSource.QuoteAsset, cfg.DataSource.StreamMaxAge, logger)
		go stream.Run(ctx)
		src = stream
	}
	logger.Info("data source ready", zap.String("source", src.Name()))
	return src, closeFn, nil
}
