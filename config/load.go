package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the per-run pipeline settings.
type Config struct {
	// Input is the path of the raw disclosure dataset (CSV).
	Input string `koanf:"input" yaml:"input"`

	// OutputDir receives the four derived tables and key_insights.json.
	OutputDir string `koanf:"output_dir" yaml:"output_dir"`

	// DBFile, when set, mirrors the run into a SQLite database.
	DBFile string `koanf:"db_file" yaml:"db_file"`

	// EarliestReport is the lower bound of the plausible submission window
	// (YYYY-MM-DD). Records before it are dropped.
	EarliestReport string `koanf:"earliest_report" yaml:"earliest_report"`

	// FutureSkew is how far past "now" a submission timestamp may sit
	// before the record is dropped. Guards against clock garbage.
	FutureSkew string `koanf:"future_skew" yaml:"future_skew"`

	// TopN bounds the console summary tables and the show command.
	TopN int `koanf:"top_n" yaml:"top_n"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		Input:          "data/raw/hackerone_disclosed_reports.csv",
		OutputDir:      "data/processed",
		EarliestReport: "2012-01-01",
		FutureSkew:     "24h",
		TopN:           5,
		LogLevel:       "info",
	}
}

// Load layers the configuration: defaults, then an optional YAML file,
// then BOUNTYLENS_-prefixed environment variables.
func Load(path string) (*Config, error) {
	cfg := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	envProvider := env.Provider("BOUNTYLENS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "bountylens_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("output_dir must not be empty")
	}
	if cfg.TopN < 1 {
		return nil, errors.New("top_n must be at least 1")
	}
	if _, _, err := cfg.Window(time.Now()); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Window resolves the plausible submission window [earliest, latest).
func (c *Config) Window(now time.Time) (time.Time, time.Time, error) {
	earliest, err := time.Parse("2006-01-02", c.EarliestReport)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("earliest_report: %w", err)
	}

	skew, err := time.ParseDuration(c.FutureSkew)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("future_skew: %w", err)
	}

	return earliest, now.Add(skew), nil
}
