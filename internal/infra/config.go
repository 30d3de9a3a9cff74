package infra

import (
	"fmt"
	"os"
	"time"

	"rugwatch/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds the full application configuration. Values loaded from the
// YAML file can be overridden by environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Feed struct {
		WSURL           string   `yaml:"ws_url"`
		Channels        []string `yaml:"channels"`  // subscription channels, e.g. trades:all
		DefaultCoin     string   `yaml:"default_coin"` // set_coin target, "@global" for all coins
		HandshakeSec    int      `yaml:"handshake_sec"`
		ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
		BackoffBaseMS   int      `yaml:"backoff_base_ms"`
		BackoffMaxSec   int      `yaml:"backoff_max_sec"`
		StartupAttempts int      `yaml:"startup_attempts"` // 0 = retry forever from the start
	} `yaml:"feed"`

	Engine struct {
		TradeCapacity       int             `yaml:"trade_capacity"`
		PriceCapacity       int             `yaml:"price_capacity"` // per coin
		EventBuffer         int             `yaml:"event_buffer"`
		CommandBuffer       int             `yaml:"command_buffer"`
		TickIntervalMS int `yaml:"tick_interval_ms"`

		// LargeTradeThresholdRaw is the config-file form; the parsed
		// decimal is what the rest of the app reads.
		LargeTradeThresholdRaw string          `yaml:"large_trade_threshold"`
		LargeTradeThreshold    decimal.Decimal `yaml:"-"`
	} `yaml:"engine"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if raw := cfg.Engine.LargeTradeThresholdRaw; raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %w",
				&domain.ConfigError{Field: "engine.large_trade_threshold", Err: err})
		}
		cfg.Engine.LargeTradeThreshold = d
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values with sane defaults so the config file
// only needs to name what it changes.
func applyDefaults(cfg *Config) {
	if len(cfg.Feed.Channels) == 0 {
		// trades:all carries every trade, including the ones trades:large
		// rebroadcasts, so one subscription suffices.
		cfg.Feed.Channels = []string{"trades:all"}
	}
	if cfg.Feed.DefaultCoin == "" {
		cfg.Feed.DefaultCoin = "@global"
	}
	if cfg.Feed.HandshakeSec == 0 {
		cfg.Feed.HandshakeSec = 10
	}
	if cfg.Feed.ReadTimeoutSec == 0 {
		cfg.Feed.ReadTimeoutSec = 60
	}
	if cfg.Feed.BackoffBaseMS == 0 {
		cfg.Feed.BackoffBaseMS = 1000
	}
	if cfg.Feed.BackoffMaxSec == 0 {
		cfg.Feed.BackoffMaxSec = 60
	}
	if cfg.Engine.TradeCapacity == 0 {
		cfg.Engine.TradeCapacity = 1000
	}
	if cfg.Engine.PriceCapacity == 0 {
		cfg.Engine.PriceCapacity = 100
	}
	if cfg.Engine.EventBuffer == 0 {
		cfg.Engine.EventBuffer = 1024
	}
	if cfg.Engine.CommandBuffer == 0 {
		cfg.Engine.CommandBuffer = 64
	}
	if cfg.Engine.TickIntervalMS == 0 {
		cfg.Engine.TickIntervalMS = 100
	}
	if cfg.Engine.LargeTradeThreshold.IsZero() {
		cfg.Engine.LargeTradeThreshold = decimal.NewFromInt(1000)
	}
}

// Validate checks configuration validity. Misconfiguration is fatal at
// startup, never at runtime.
func (c *Config) Validate() error {
	if c.Feed.WSURL == "" || (!hasPrefix(c.Feed.WSURL, "ws://") && !hasPrefix(c.Feed.WSURL, "wss://")) {
		return &domain.ConfigError{Field: "feed.ws_url", Err: fmt.Errorf("invalid websocket URL: %q", c.Feed.WSURL)}
	}
	if c.Engine.TradeCapacity <= 0 {
		return &domain.ConfigError{Field: "engine.trade_capacity", Err: fmt.Errorf("must be positive, got %d", c.Engine.TradeCapacity)}
	}
	if c.Engine.PriceCapacity <= 0 {
		return &domain.ConfigError{Field: "engine.price_capacity", Err: fmt.Errorf("must be positive, got %d", c.Engine.PriceCapacity)}
	}
	if c.Engine.EventBuffer <= 0 {
		return &domain.ConfigError{Field: "engine.event_buffer", Err: fmt.Errorf("must be positive, got %d", c.Engine.EventBuffer)}
	}
	if c.Engine.TickIntervalMS <= 0 {
		return &domain.ConfigError{Field: "engine.tick_interval_ms", Err: fmt.Errorf("must be positive, got %d", c.Engine.TickIntervalMS)}
	}
	if c.Engine.LargeTradeThreshold.IsNegative() {
		return &domain.ConfigError{Field: "engine.large_trade_threshold", Err: fmt.Errorf("must not be negative")}
	}
	return nil
}

// TickInterval returns the render tick as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Engine.TickIntervalMS) * time.Millisecond
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv overrides configuration values from environment variables.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("RUGWATCH_FEED_URL"); url != "" {
		cfg.Feed.WSURL = url
	}
	if level := os.Getenv("RUGWATCH_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if threshold := os.Getenv("RUGWATCH_LARGE_THRESHOLD"); threshold != "" {
		if d, err := decimal.NewFromString(threshold); err == nil {
			cfg.Engine.LargeTradeThreshold = d
		}
	}
}
