// Package config loads the folio command settings from an optional YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of every environment variable, e.g. FOLIO_EODHD_API_KEY.
const envPrefix = "FOLIO"

// Price sources.
const (
	SourceEODHD = "eodhd"
	SourceFile  = "file"
)

// Defaults.
const (
	DefaultDataDir           = ".folio"
	DefaultExchange          = "US"
	DefaultRequestsPerSecond = 5.0
	DefaultWorkers           = 8
)

// Config holds the folio command settings.
type Config struct {
	DataDir     string `mapstructure:"data_dir"`
	Source      string `mapstructure:"source"`
	PricesFile  string `mapstructure:"prices_file"`
	Workers     int    `mapstructure:"workers"`
	MetricsFile string `mapstructure:"metrics_file"`
	EODHD       EODHD  `mapstructure:"eodhd"`
	Log         Log    `mapstructure:"log"`
}

// EODHD configures the eodhd.com price source.
type EODHD struct {
	APIKey            string  `mapstructure:"api_key"`
	Exchange          string  `mapstructure:"exchange"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	CacheDir          string  `mapstructure:"cache_dir"`
}

// Log configures logging.
type Log struct {
	Dev bool `mapstructure:"dev"`
}

// newViper returns a viper bound to FOLIO_ environment variables, nested keys use "_", so
// "eodhd.api_key" reads FOLIO_EODHD_API_KEY.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only reads the environment for keys viper already knows.
	for key, zero := range map[string]any{
		"data_dir":                  "",
		"source":                    "",
		"prices_file":               "",
		"workers":                   0,
		"metrics_file":              "",
		"eodhd.api_key":             "",
		"eodhd.exchange":            "",
		"eodhd.requests_per_second": 0.0,
		"eodhd.cache_dir":           "",
		"log.dev":                   false,
	} {
		v.SetDefault(key, zero)
	}
	return v
}

// Load reads the YAML file at path, if not empty, then overrides it with the environment.
//
// Variables defined in a .env file in the working directory are added to the environment first,
// without replacing existing ones. Unset values get their defaults and the result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: cannot read .env: %w", err)
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: cannot read %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: cannot decode settings: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset values.
//
// The source defaults to eodhd when an API key is set, and to the prices file otherwise.
func ApplyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.Source == "" {
		cfg.Source = SourceFile
		if cfg.EODHD.APIKey != "" {
			cfg.Source = SourceEODHD
		}
	}
	if cfg.Source == SourceFile && cfg.PricesFile == "" {
		cfg.PricesFile = filepath.Join(cfg.DataDir, "prices.csv")
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.EODHD.Exchange == "" {
		cfg.EODHD.Exchange = DefaultExchange
	}
	if cfg.EODHD.RequestsPerSecond == 0 {
		cfg.EODHD.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.EODHD.CacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cfg.EODHD.CacheDir = filepath.Join(dir, "folio")
		} else {
			cfg.EODHD.CacheDir = filepath.Join(cfg.DataDir, "cache")
		}
	}
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceEODHD:
		if c.EODHD.APIKey == "" {
			errs = append(errs, errors.New("eodhd source requires eodhd.api_key"))
		}
		if c.EODHD.RequestsPerSecond < 0 {
			errs = append(errs, fmt.Errorf("eodhd.requests_per_second must not be negative, got %v", c.EODHD.RequestsPerSecond))
		}
	case SourceFile:
		if c.PricesFile == "" {
			errs = append(errs, errors.New("file source requires prices_file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q, want %q or %q", c.Source, SourceEODHD, SourceFile))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is missing"))
	}
	return errors.Join(errs...)
}
