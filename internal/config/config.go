// Package config loads epq settings from a TOML file, a .env file and EPQ_* environment
// variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/freyjadaisy/EPQ/internal/baseline"
	"github.com/freyjadaisy/EPQ/internal/logger"
	"github.com/freyjadaisy/EPQ/internal/significance"
	"github.com/freyjadaisy/EPQ/internal/workspace"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Workspace string         `toml:"workspace"`
	Analysis  AnalysisConfig `toml:"analysis"`
	Stats     StatsConfig    `toml:"stats"`
	Fetch     FetchConfig    `toml:"fetch"`
	Log       LogConfig      `toml:"log"`
	Store     StoreConfig    `toml:"store"`
}

type AnalysisConfig struct {
	// Baseline names the corpus whose marker ratio becomes the expected ratio.
	Baseline     string  `toml:"baseline"`
	DefaultRatio float64 `toml:"default_ratio"`
	Workers      int     `toml:"workers"`
	// LexiconFile replaces the built-in marker list when set.
	LexiconFile string `toml:"lexicon_file"`
	TopN        int    `toml:"top_n"`
}

type StatsConfig struct {
	// Engine disables significance testing when false, even if the engine is available.
	Engine bool    `toml:"engine"`
	Alpha  float64 `toml:"alpha"`
}

type FetchConfig struct {
	Limit             int     `toml:"limit"`
	SaveInterval      int     `toml:"save_interval"`
	Category          string  `toml:"category"`
	TimeFilter        string  `toml:"time_filter"`
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxRetries        int     `toml:"max_retries"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type StoreConfig struct {
	Enabled bool `toml:"enabled"`
	// Path defaults to <workspace>/data/analysis.db.
	Path string `toml:"path"`
}

var (
	categories  = []string{"hot", "new", "top", "rising"}
	timeFilters = []string{"hour", "day", "week", "month", "year", "all"}
)

func Defaults() Config {
	return Config{
		Analysis: AnalysisConfig{
			DefaultRatio: baseline.DefaultRatio,
			Workers:      4,
			TopN:         50,
		},
		Stats: StatsConfig{
			Engine: true,
			Alpha:  significance.DefaultAlpha,
		},
		Fetch: FetchConfig{
			Limit:             100,
			SaveInterval:      10,
			Category:          "top",
			TimeFilter:        "year",
			BaseURL:           "https://www.reddit.com",
			UserAgent:         "epq/0.1 (marker word research)",
			RequestsPerSecond: 1,
			MaxRetries:        3,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path on top of Defaults. A missing file is not an error when optional is true,
// which is the case for the workspace default location.
func Load(path string, optional bool) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := Decode(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && optional:
			logger.Debug("no config at %s, using defaults", path)
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode merges TOML bytes into cfg; keys absent from raw keep their current values.
func Decode(raw []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c *Config) applyEnv() error {
	if v := getEnv("EPQ_WORKSPACE", ""); v != "" {
		c.Workspace = v
	}
	if v := getEnv("EPQ_BASELINE", ""); v != "" {
		c.Analysis.Baseline = v
	}
	if v := getEnv("EPQ_LOG_LEVEL", ""); v != "" {
		c.Log.Level = v
	}
	if v := getEnv("EPQ_USER_AGENT", ""); v != "" {
		c.Fetch.UserAgent = v
	}
	var err error
	if c.Analysis.Workers, err = getEnvInt("EPQ_WORKERS", c.Analysis.Workers); err != nil {
		return err
	}
	if c.Analysis.TopN, err = getEnvInt("EPQ_TOP_N", c.Analysis.TopN); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	var problems []string
	if c.Analysis.Workers < 1 {
		problems = append(problems, "analysis.workers must be at least 1")
	}
	if c.Analysis.DefaultRatio < 0 || c.Analysis.DefaultRatio > 1 {
		problems = append(problems, "analysis.default_ratio must be within [0, 1]")
	}
	if c.Analysis.TopN < 1 {
		problems = append(problems, "analysis.top_n must be at least 1")
	}
	if c.Stats.Alpha <= 0 || c.Stats.Alpha >= 1 {
		problems = append(problems, "stats.alpha must be within (0, 1)")
	}
	if c.Fetch.Limit < 1 {
		problems = append(problems, "fetch.limit must be at least 1")
	}
	if c.Fetch.SaveInterval < 1 {
		problems = append(problems, "fetch.save_interval must be at least 1")
	}
	if !slices.Contains(categories, c.Fetch.Category) {
		problems = append(problems, fmt.Sprintf("fetch.category must be one of %s", strings.Join(categories, ", ")))
	}
	if !slices.Contains(timeFilters, c.Fetch.TimeFilter) {
		problems = append(problems, fmt.Sprintf("fetch.time_filter must be one of %s", strings.Join(timeFilters, ", ")))
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		problems = append(problems, "fetch.requests_per_second must be positive")
	}
	if c.Fetch.MaxRetries < 0 {
		problems = append(problems, "fetch.max_retries must not be negative")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, "log.level: "+err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Save writes cfg as TOML to path, replacing any existing file atomically.
func Save(path string, cfg Config) error {
	return workspace.WriteAtomic(path, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(cfg)
	})
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
	}
	return n, nil
}

