package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"StockEstimator/internal/model"

	"gopkg.in/yaml.v3"
)

// DefaultCandidates are the backend base URLs probed in order. The first is the local default.
var DefaultCandidates = []string{
	"http://localhost:8083",
	"http://stockestimator.westus.cloudapp.azure.com",
	"http://104.196.239.135",
}

// Config holds all application configuration.
type Config struct {
	Discovery struct {
		Candidates   []string      `yaml:"candidates"`
		ProbeTimeout time.Duration `yaml:"probe_timeout"`
	} `yaml:"discovery"`
	Query struct {
		Ticker        string `yaml:"ticker"`
		Since         string `yaml:"since"`
		TillDaysAhead int    `yaml:"till_days_ahead"`
	} `yaml:"query"`
	HTTP struct {
		Proxy   string        `yaml:"proxy"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Chart struct {
		Output string `yaml:"output"`
	} `yaml:"chart"`
	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Zero is a valid horizon, so this default is set before the file is read.
	cfg.Query.TillDaysAhead = model.DefaultTillDaysAhead

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
	if v := os.Getenv("STOCKESTIMATOR_CANDIDATES"); v != "" {
		cfg.Discovery.Candidates = splitList(v)
	}
	if v := os.Getenv("STOCKESTIMATOR_TICKER"); v != "" {
		cfg.Query.Ticker = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.HTTP.Proxy = v
	}
	if v := os.Getenv("SERVER_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.JSON = b
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Discovery.Candidates) == 0 {
		c.Discovery.Candidates = append([]string(nil), DefaultCandidates...)
	}
	if c.Discovery.ProbeTimeout == 0 {
		c.Discovery.ProbeTimeout = 10 * time.Second
	}
	if c.Query.Ticker == "" {
		c.Query.Ticker = string(model.DefaultTicker)
	}
	if c.Query.Since == "" {
		c.Query.Since = model.DefaultSince
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8090"
	}
	if c.Chart.Output == "" {
		c.Chart.Output = "output/chart.svg"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are usable.
func (c *Config) Validate() error {
	if len(c.Discovery.Candidates) == 0 {
		return fmt.Errorf("discovery.candidates must not be empty")
	}
	for _, cand := range c.Discovery.Candidates {
		if !strings.HasPrefix(cand, "http://") && !strings.HasPrefix(cand, "https://") {
			return fmt.Errorf("discovery.candidates: %q is not an http(s) URL", cand)
		}
	}
	if _, err := model.ParseTicker(c.Query.Ticker); err != nil {
		return fmt.Errorf("query.ticker: %w", err)
	}
	if _, err := model.ParseDate(c.Query.Since); err != nil {
		return fmt.Errorf("query.since: %w", err)
	}
	if c.Query.TillDaysAhead < 0 {
		return fmt.Errorf("query.till_days_ahead must not be negative")
	}
	if c.Discovery.ProbeTimeout < 0 || c.HTTP.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// Selection builds the initial query selection from the configured defaults.
func (c *Config) Selection(now time.Time) model.QuerySelection {
	sel := model.DefaultSelection(now)
	if t, err := model.ParseTicker(c.Query.Ticker); err == nil {
		sel.Ticker = t
	}
	if d, err := model.ParseDate(c.Query.Since); err == nil {
		sel.Since = d.Format(model.DateLayout)
	}
	sel.Till = model.DaysFromNow(now, c.Query.TillDaysAhead)
	return sel
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
