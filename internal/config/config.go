package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"

	"TrendSignal/internal/calculator"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Price sources.
const (
	SourceYahoo     = "yahoo"
	SourceREST      = "rest"
	SourceCSV       = "csv"
	SourceSynthetic = "synthetic"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Source      string `yaml:"source"`
		Symbol      string `yaml:"symbol"`
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		CSVPath     string `yaml:"csv_path"`
		HistoryDays int    `yaml:"history_days"`
	} `yaml:"data_source"`
	Report struct {
		WindowDays int    `yaml:"window_days"`
		CSVOut     string `yaml:"csv_out"`
	} `yaml:"report"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // "off" disables the bar cache
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// CacheEnabled reports whether fetched bars go through the SQLite cache.
func (c *Config) CacheEnabled() bool {
	return c.Database.SQLitePath != "off"
}

// Load reads config from a YAML file, then .env, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SIGNALS_SYMBOL":   &c.DataSource.Symbol,
		"SIGNALS_SOURCE":   &c.DataSource.Source,
		"SIGNALS_BASE_URL": &c.DataSource.BaseURL,
		"SIGNALS_API_KEY":  &c.DataSource.APIKey,
		"SIGNALS_CSV_PATH": &c.DataSource.CSVPath,
		"SIGNALS_CRON":     &c.Schedule.Cron,
		"HTTPS_PROXY":      &c.Proxy,
		"SQLITE_PATH":      &c.Database.SQLitePath,
		"LOG_LEVEL":        &c.Log.Level,
		"LOG_FORMAT":       &c.Log.Format,
		"METRICS_ADDR":     &c.Metrics.Addr,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SIGNALS_HISTORY_DAYS": &c.DataSource.HistoryDays,
		"SIGNALS_WINDOW_DAYS":  &c.Report.WindowDays,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		*dst = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.DataSource.Source = strings.ToLower(c.DataSource.Source)
	if c.DataSource.Source == "" {
		c.DataSource.Source = SourceYahoo
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "TSLA"
	}
	if c.DataSource.HistoryDays == 0 {
		c.DataSource.HistoryDays = 3 * 365
	}
	if c.Report.WindowDays == 0 {
		c.Report.WindowDays = 8 * 30
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 30 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/bars.db"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9102"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	switch c.DataSource.Source {
	case SourceYahoo, SourceSynthetic:
	case SourceREST:
		if c.DataSource.BaseURL == "" {
			return errors.New("data_source.base_url is required for the rest source")
		}
	case SourceCSV:
		if c.DataSource.CSVPath == "" {
			return errors.New("data_source.csv_path is required for the csv source")
		}
	default:
		return errors.Errorf("unknown data_source.source %q", c.DataSource.Source)
	}
	if strings.TrimSpace(c.DataSource.Symbol) == "" {
		return errors.New("data_source.symbol is required")
	}
	if c.DataSource.HistoryDays < calculator.WarmupBars {
		return errors.Errorf("data_source.history_days must be at least %d", calculator.WarmupBars)
	}
	if c.Report.WindowDays <= 0 {
		return errors.New("report.window_days must be positive")
	}
	if _, err := cronParser.Parse(c.Schedule.Cron); err != nil {
		return errors.Wrap(err, "schedule.cron")
	}
	return nil
}
