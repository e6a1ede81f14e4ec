// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata" // Timezone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// EnvFile is loaded on startup when present. Real environment variables win.
const EnvFile = ".env"

// Defaults
const (
	DefaultDatabaseURL    = "file:survey.db"
	DefaultDatabaseType   = "sqlite"
	DefaultTimezone       = "UTC"
	DefaultRemindSchedule = "0 17 * * 1-6"
	DefaultLogLevel       = "info"
)

type Config struct {
	DatabaseURL    string
	DatabaseType   string
	Timezone       string
	RemindSchedule string
	LogLevel       string
}

// ParseFlags reads global flags, falls back to SURVEY_* environment
// variables (optionally from .env) and validates the result. The remaining
// arguments (command and its flags) are returned alongside the config.
func ParseFlags(args []string) (Config, []string, error) {
	var cfg Config

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	fset := flag.NewFlagSet("ops-survey", flag.ContinueOnError)

	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fset.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fset.StringVar(&cfg.Timezone, "tz", "", "Timezone used to decide what 'today' is")
	fset.StringVar(&cfg.RemindSchedule, "remind", "", "Cron schedule for the completion reminder")
	fset.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fset.Parse(args); err != nil {
		return Config{}, nil, err
	}

	// Fall back to environment variables, then defaults
	fallback(&cfg.DatabaseURL, "SURVEY_DATABASE_URL", DefaultDatabaseURL)
	fallback(&cfg.DatabaseType, "SURVEY_DATABASE_TYPE", DefaultDatabaseType)
	fallback(&cfg.Timezone, "SURVEY_TIMEZONE", DefaultTimezone)
	fallback(&cfg.RemindSchedule, "SURVEY_REMIND_SCHEDULE", DefaultRemindSchedule)
	fallback(&cfg.LogLevel, "SURVEY_LOG_LEVEL", DefaultLogLevel)

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	return cfg, fset.Args(), nil
}

func fallback(field *string, env, def string) {
	if *field != "" {
		return
	}
	if v := os.Getenv(env); v != "" {
		*field = v
		return
	}
	*field = def
}

// Validate checks every field that can be wrong at startup.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or SURVEY_DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("invalid database type %q (use sqlite or postgres)", c.DatabaseType)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.RemindSchedule); err != nil {
		return fmt.Errorf("invalid remind schedule %q: %w", c.RemindSchedule, err)
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Today returns the current date in the configured timezone.
func (c Config) Today() time.Time {
	loc, err := c.Location()
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
