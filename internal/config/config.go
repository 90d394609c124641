package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source kinds.
const (
	SourceAPI    = "api"
	SourceSQLite = "sqlite"
	SourceMock   = "mock"
)

// Run modes.
const (
	ModeTUI      = "tui"
	ModeHeadless = "headless"
)

// InstrumentPage binds a detail page name to its symbol.
type InstrumentPage struct {
	Page   string `yaml:"page"`
	Symbol string `yaml:"symbol"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Kind       string `yaml:"kind"`
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		SQLitePath string `yaml:"sqlite_path"`
		// StreamURL enables the live ticker overlay when set.
		StreamURL    string        `yaml:"stream_url"`
		StreamMaxAge time.Duration `yaml:"stream_max_age"`
		QuoteAsset   string        `yaml:"quote_asset"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Dashboard struct {
		RefreshInterval   time.Duration    `yaml:"refresh_interval"`
		DefaultInstrument string           `yaml:"default_instrument"`
		DefaultTimeframe  string           `yaml:"default_timeframe"`
		Instruments       []string         `yaml:"instruments"`
		Timeframes        []string         `yaml:"timeframes"`
		InstrumentPages   []InstrumentPage `yaml:"instrument_pages"`
	} `yaml:"dashboard"`
	Telegram struct {
		BotToken      string `yaml:"bot_token"`
		ChatID        string `yaml:"chat_id"`
		NotifySuccess bool   `yaml:"notify_success"`
		Commands      bool   `yaml:"commands"`
	} `yaml:"telegram"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Mode  string `yaml:"mode"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file at path, then environment variable
// overrides, and fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BACKEND_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.DataSource.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := parseInterval(v)
		if err != nil {
			return nil, fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		cfg.Dashboard.RefreshInterval = d
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DASHBOARD_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

// parseInterval accepts a Go duration ("30s") or plain milliseconds ("30000").
func parseInterval(v string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", v)
	}
	return d, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Kind == "" {
		switch {
		case c.DataSource.BaseURL != "":
			c.DataSource.Kind = SourceAPI
		case c.DataSource.SQLitePath != "":
			c.DataSource.Kind = SourceSQLite
		default:
			c.DataSource.Kind = SourceMock
		}
	}
	c.DataSource.Kind = strings.ToLower(c.DataSource.Kind)
	if c.DataSource.StreamMaxAge == 0 {
		c.DataSource.StreamMaxAge = 10 * time.Second
	}
	if c.DataSource.QuoteAsset == "" {
		c.DataSource.QuoteAsset = "USDT"
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 10 * time.Second
	}
	if c.Dashboard.RefreshInterval == 0 {
		c.Dashboard.RefreshInterval = 30 * time.Second
	}
	if len(c.Dashboard.Instruments) == 0 {
		c.Dashboard.Instruments = []string{"BTC", "ETH"}
	}
	if len(c.Dashboard.Timeframes) == 0 {
		c.Dashboard.Timeframes = []string{"1h", "24h", "7d", "30d"}
	}
	if c.Dashboard.DefaultInstrument == "" {
		c.Dashboard.DefaultInstrument = c.Dashboard.Instruments[0]
	}
	if c.Dashboard.DefaultTimeframe == "" {
		c.Dashboard.DefaultTimeframe = "24h"
	}
	if len(c.Dashboard.InstrumentPages) == 0 {
		c.Dashboard.InstrumentPages = []InstrumentPage{
			{Page: "bitcoin", Symbol: "BTC"},
			{Page: "ethereum", Symbol: "ETH"},
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = "logs/cryptoboard.log"
	}
	if c.Mode == "" {
		c.Mode = ModeTUI
	}
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.DataSource.Kind {
	case SourceAPI:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for kind %q", SourceAPI)
		}
	case SourceSQLite:
		if c.DataSource.SQLitePath == "" {
			return fmt.Errorf("data_source.sqlite_path is required for kind %q", SourceSQLite)
		}
	case SourceMock:
	default:
		return fmt.Errorf("data_source.kind %q is not one of api, sqlite, mock", c.DataSource.Kind)
	}
	if c.Dashboard.RefreshInterval < time.Second {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1s")
	}
	if !slices.Contains(c.Dashboard.Instruments, c.Dashboard.DefaultInstrument) {
		return fmt.Errorf("dashboard.default_instrument %q is not in dashboard.instruments", c.Dashboard.DefaultInstrument)
	}
	if !slices.Contains(c.Dashboard.Timeframes, c.Dashboard.DefaultTimeframe) {
		return fmt.Errorf("dashboard.default_timeframe %q is not in dashboard.timeframes", c.Dashboard.DefaultTimeframe)
	}
	seen := map[string]bool{"home": true, "kline": true}
	for _, p := range c.Dashboard.InstrumentPages {
		if p.Page == "" || p.Symbol == "" {
			return fmt.Errorf("dashboard.instrument_pages entries need page and symbol")
		}
		if seen[p.Page] {
			return fmt.Errorf("dashboard.instrument_pages: duplicate page %q", p.Page)
		}
		seen[p.Page] = true
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Mode != ModeTUI && c.Mode != ModeHeadless {
		return fmt.Errorf("mode %q is not one of tui, headless", c.Mode)
	}
	return nil
}
