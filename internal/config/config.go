package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TomMakinMPF/fifoinvestor/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo | rest
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Tickers struct {
		Dir           string   `yaml:"dir"`
		DefaultGroups []string `yaml:"default_groups"`
	} `yaml:"tickers"`
	Stochastic struct {
		K       int `yaml:"k"`
		KSmooth int `yaml:"k_smooth"`
		DSmooth int `yaml:"d_smooth"`
	} `yaml:"stochastic"`
	Scan struct {
		Workers  int                `yaml:"workers"`
		MinClose map[string]float64 `yaml:"min_close"` // price floor per market group
	} `yaml:"scan"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
		TTLHours   int    `yaml:"ttl_hours"`
	} `yaml:"cache"`
	Schedule struct {
		MonthlyCron string `yaml:"monthly_cron"`
	} `yaml:"schedule"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
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
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TICKERS_DIR"); v != "" {
		cfg.Tickers.Dir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		cfg.API.Addr = v
	}
	if v := os.Getenv("CRON_MONTHLY"); v != "" {
		cfg.Schedule.MonthlyCron = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.Workers = n
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.Tickers.Dir == "" {
		c.Tickers.Dir = "tickers"
	}
	if len(c.Tickers.DefaultGroups) == 0 {
		c.Tickers.DefaultGroups = []string{"asx", "us_stocks", "nasdaq", "nyse", "s_p_500", "currencies"}
	}
	if c.Stochastic.K == 0 {
		c.Stochastic.K = calculator.DefaultParams.K
	}
	if c.Stochastic.KSmooth == 0 {
		c.Stochastic.KSmooth = calculator.DefaultParams.KSmooth
	}
	if c.Stochastic.DSmooth == 0 {
		c.Stochastic.DSmooth = calculator.DefaultParams.DSmooth
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Scan.MinClose == nil {
		c.Scan.MinClose = map[string]float64{
			"asx":       0.50,
			"us_stocks": 1.00,
			"nasdaq":    1.00,
			"nyse":      1.00,
			"s_p_500":   1.00,
		}
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = 24
	}
	if c.Schedule.MonthlyCron == "" {
		c.Schedule.MonthlyCron = "0 0 9 1 * *"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "reports"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Params returns the configured stochastic windows.
func (c *Config) Params() calculator.Params {
	return calculator.Params{
		K:       c.Stochastic.K,
		KSmooth: c.Stochastic.KSmooth,
		DSmooth: c.Stochastic.DSmooth,
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("stochastic: %w", err)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1")
	}
	return nil
}
