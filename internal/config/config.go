// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AlijaY69/Team2-AlgoTrader/internal/strategy"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Broker describes connectivity to the brokerage HTTP API.
type Broker struct {
	BaseURL     string  `yaml:"base_url"`
	UserID      string  `yaml:"user_id"`
	Password    string  `yaml:"password"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	RetryCount  int     `yaml:"retry_count"`
	PaperCash   float64 `yaml:"paper_cash"`
}

// Trading controls the polling loop cadence.
type Trading struct {
	Symbol           string `yaml:"symbol"`
	PollIntervalSecs int    `yaml:"poll_interval_secs"`
	CooldownSecs     int    `yaml:"cooldown_secs"`
}

// StrategyParams groups tunable knobs for a strategy implementation.
type StrategyParams struct {
	Short         int     `yaml:"short"`
	Long          int     `yaml:"long"`
	Interval      string  `yaml:"interval"`
	FastInterval  string  `yaml:"fast_interval"`
	SlowInterval  string  `yaml:"slow_interval"`
	Points        int     `yaml:"points"`
	GateWindow    int     `yaml:"gate_window"`
	GateThreshold float64 `yaml:"gate_threshold"`
}

// Strategy specifies which signal generator is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode"`
	Params StrategyParams `yaml:"params"`
}

// Filters carries the confirmation filter settings.
type Filters struct {
	BandMultiplier    float64 `yaml:"band_multiplier"`
	BandWindow        int     `yaml:"band_window"`
	BookLevels        int     `yaml:"book_levels"`
	PressureThreshold float64 `yaml:"pressure_threshold"`
}

// Risk encodes guard-rails for how much size the planner may take on.
type Risk struct {
	CashPct             float64 `yaml:"cash_pct"`
	MaxTradeCap         float64 `yaml:"max_trade_cap"`
	MinQty              int     `yaml:"min_qty"`
	HighVolThreshold    float64 `yaml:"high_vol_threshold"`
	DerateFactor        float64 `yaml:"derate_factor"`
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Planner holds the order-decision thresholds, including the loosen override.
type Planner struct {
	LoosenVolThreshold float64 `yaml:"loosen_vol_threshold"`
	PriceDeltaPct      float64 `yaml:"price_delta_pct"`
	HeldLossFactor     float64 `yaml:"held_loss_factor"`
	MarketVolThreshold float64 `yaml:"market_vol_threshold"`
	LimitOffsetPct     float64 `yaml:"limit_offset_pct"`
}

// Pending configures stale limit order handling.
type Pending struct {
	StaleLifetimeSecs int  `yaml:"stale_lifetime_secs"`
	ReplaceWithMarket bool `yaml:"replace_with_market"`
}

// Record configures the append-only trade record.
type Record struct {
	TradesPath string `yaml:"trades_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Broker   Broker   `yaml:"broker"`
	Trading  Trading  `yaml:"trading"`
	Strategy Strategy `yaml:"strategy"`
	Filters  Filters  `yaml:"filters"`
	Risk     Risk     `yaml:"risk"`
	Planner  Planner  `yaml:"planner"`
	Pending  Pending  `yaml:"pending"`
	Record   Record   `yaml:"record"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects configurations that cannot run, before any network call.
func (c *Config) Validate() error {
	if c.Trading.Symbol == "" {
		return fmt.Errorf("trading.symbol is required")
	}
	if !strategy.Known(c.Strategy.Mode) {
		return fmt.Errorf("unknown strategy mode %q", c.Strategy.Mode)
	}
	p := c.Strategy.Params
	if p.Short <= 0 || p.Long <= 0 || p.Short >= p.Long {
		return fmt.Errorf("strategy windows invalid: short=%d long=%d", p.Short, p.Long)
	}
	if c.Trading.PollIntervalSecs <= 0 {
		return fmt.Errorf("trading.poll_interval_secs must be positive")
	}
	if c.Pending.StaleLifetimeSecs <= 0 {
		return fmt.Errorf("pending.stale_lifetime_secs must be positive")
	}
	return nil
}

// PollInterval returns the loop cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Trading.PollIntervalSecs) * time.Second
}

// Cooldown returns the minimum gap between trades as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Trading.CooldownSecs) * time.Second
}

// StaleLifetime returns the pending-order lifetime as a duration.
func (c *Config) StaleLifetime() time.Duration {
	return time.Duration(c.Pending.StaleLifetimeSecs) * time.Second
}
