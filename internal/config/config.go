// Package config loads server settings from the environment; command-line
// flags bound with AddFlags override them.
package config

import (
	"errors"
	"fmt"
	"strings"

	"worldharvest/internal/pkg/log"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

type Config struct {
	// DBDSN selects the postgres store. Empty keeps node instances in memory.
	DBDSN            string `env:"WORLDHARVEST_DB_DSN"`
	AutoMigrate      bool   `env:"WORLDHARVEST_AUTO_MIGRATE" envDefault:"true"`
	HTTPAddr         string `env:"WORLDHARVEST_HTTP_ADDR" envDefault:":8080"`
	DefinitionsPath  string `env:"WORLDHARVEST_DEFINITIONS_PATH"`
	LogLevel         string `env:"WORLDHARVEST_LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"WORLDHARVEST_LOG_FORMAT" envDefault:"json"`
	BatchParallelism int    `env:"WORLDHARVEST_BATCH_PARALLELISM" envDefault:"1"`
	CORSOrigin       string `env:"WORLDHARVEST_CORS_ORIGIN" envDefault:"*"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AddFlags binds command-line flags to the Config fields, using the current
// values as defaults.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.DBDSN, "db.dsn", c.DBDSN, "Postgres DSN. Leave empty to keep nodes in memory.")
	fs.BoolVar(&c.AutoMigrate, "db.auto-migrate", c.AutoMigrate, "Apply embedded SQL migrations at startup.")
	fs.StringVar(&c.HTTPAddr, "http.addr", c.HTTPAddr, "Address the HTTP server listens on.")
	fs.StringVar(&c.DefinitionsPath, "definitions", c.DefinitionsPath, "YAML resource node catalog. Empty uses the built-in catalog.")
	fs.StringVar(&c.LogLevel, "log.level", c.LogLevel, "The minimum log level to output (debug, info, warn, error).")
	fs.StringVar(&c.LogFormat, "log.format", c.LogFormat, "The log output format ('json' or 'console').")
	fs.IntVar(&c.BatchParallelism, "batch.parallelism", c.BatchParallelism, "Default degree of parallelism for command batches.")
	fs.StringVar(&c.CORSOrigin, "http.cors-origin", c.CORSOrigin, "Value of Access-Control-Allow-Origin. Empty disables CORS headers.")
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.BatchParallelism < 1 {
		errs = append(errs, fmt.Errorf("batch parallelism must be >= 1, got %d", c.BatchParallelism))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func (c Config) LogOptions() log.Options {
	opts := log.NewOptions()
	opts.Name = "worldharvest"
	opts.Level = c.LogLevel
	opts.Format = c.LogFormat
	return opts
}
