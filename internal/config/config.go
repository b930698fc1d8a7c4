package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all non-secret application configuration.
type Config struct {
	Symbol     string `yaml:"symbol"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		HistoryLimit int    `yaml:"history_limit"`
	} `yaml:"data_source"`
	Broker struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"broker"`
	Notify struct {
		URL string `yaml:"url"`
	} `yaml:"notify"`
	Cache struct {
		File string `yaml:"file"`
	} `yaml:"cache"`
	Indicator struct {
		ShortWindow int `yaml:"short_window"`
		LongWindow  int `yaml:"long_window"`
	} `yaml:"indicator"`
	MarketStatus struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"market_status"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Options carries the per-invocation CLI switches through the pipeline,
// replacing the ambient global flags of the earlier script.
type Options struct {
	UseCache    bool
	Simulate    bool
	TradeAmount int
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
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
	if v := os.Getenv("STOCK_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BROKER_BASE_URL"); v != "" {
		cfg.Broker.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Symbol == "" {
		cfg.Symbol = "00631L"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://stock-api.seriaati.xyz"
	}
	if cfg.DataSource.HistoryLimit == 0 {
		cfg.DataSource.HistoryLimit = 120
	}
	if cfg.Notify.URL == "" {
		cfg.Notify.URL = "https://notify-api.line.me/api/notify"
	}
	if cfg.Cache.File == "" {
		cfg.Cache.File = "last_close_price.json"
	}
	if cfg.Indicator.ShortWindow == 0 {
		cfg.Indicator.ShortWindow = 20
	}
	if cfg.Indicator.LongWindow == 0 {
		cfg.Indicator.LongWindow = 120
	}
	if cfg.MarketStatus.URL == "" {
		cfg.MarketStatus.URL = "https://tw.stock.yahoo.com/quote/2330.TW"
	}
	if cfg.Schedule.DailyCron == "" {
		// 14:30 Taipei, Monday through Friday
		cfg.Schedule.DailyCron = "0 30 14 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Broker.BaseURL == "" {
		return fmt.Errorf("broker.base_url is required")
	}
	if c.Indicator.ShortWindow >= c.Indicator.LongWindow {
		return fmt.Errorf("indicator.short_window must be smaller than indicator.long_window")
	}
	return nil
}
