package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete simulator configuration.
type Config struct {
	Accounts   []AccountConfig  `json:"accounts" yaml:"accounts"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
}

// AccountConfig describes one challenge account to seed.
type AccountConfig struct {
	ID              string  `json:"id" yaml:"id"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// SimulationConfig controls the price walk and risk loop cadence.
type SimulationConfig struct {
	TickInterval  string `json:"tick_interval" yaml:"tick_interval"`   // risk sweep cadence, e.g. "500ms"
	PriceInterval string `json:"price_interval" yaml:"price_interval"` // price walk cadence, e.g. "1s"
	Seed          int64  `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 = time-based
}

// ParseTickInterval returns the risk sweep cadence.
func (s SimulationConfig) ParseTickInterval() (time.Duration, error) {
	if s.TickInterval == "" {
		return 500 * time.Millisecond, nil
	}
	return time.ParseDuration(s.TickInterval)
}

// ParsePriceInterval returns the price walk cadence.
func (s SimulationConfig) ParsePriceInterval() (time.Duration, error) {
	if s.PriceInterval == "" {
		return time.Second, nil
	}
	return time.ParseDuration(s.PriceInterval)
}

// JournalConfig selects the close-record sink.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite", or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // empty disables the endpoint
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	seen := map[string]bool{}
	for i, a := range c.Accounts {
		if a.ID == "" {
			return fmt.Errorf("accounts[%d].id is required", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id %q", a.ID)
		}
		seen[a.ID] = true
		if a.StartingBalance <= 0 {
			return fmt.Errorf("accounts[%d].starting_balance must be positive", i)
		}
	}

	if _, err := c.Simulation.ParseTickInterval(); err != nil {
		return fmt.Errorf("simulation.tick_interval: %w", err)
	}
	if _, err := c.Simulation.ParsePriceInterval(); err != nil {
		return fmt.Errorf("simulation.price_interval: %w", err)
	}

	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite', or 'none'")
	}

	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Accounts: []AccountConfig{
			{ID: "CHALLENGE-001", StartingBalance: 100000},
		},
		Simulation: SimulationConfig{
			TickInterval:  "500ms",
			PriceInterval: "1s",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./propdesk.sqlite",
		},
		Metrics: MetricsConfig{
			Addr: ":9310",
		},
	}
}
