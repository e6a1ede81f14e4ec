// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"log/slog"
	"testing"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, rest, err := ParseFlags([]string{"completion", "-date", "2025-03-03"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseType != DefaultDatabaseType {
		t.Errorf("expected default database type, got %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("expected default database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.Timezone != "UTC" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(rest) != 3 || rest[0] != "completion" {
		t.Errorf("expected command args to pass through, got %v", rest)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("SURVEY_DATABASE_URL", "postgres://test")
	t.Setenv("SURVEY_DATABASE_TYPE", "postgres")
	t.Setenv("SURVEY_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("SURVEY_LOG_LEVEL", "debug")

	cfg, _, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "postgres://test" || cfg.DatabaseType != "postgres" {
		t.Errorf("expected env database settings, got %+v", cfg)
	}
	if cfg.Timezone != "America/Sao_Paulo" {
		t.Errorf("expected env timezone, got %q", cfg.Timezone)
	}
	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (err %v)", lvl, err)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("SURVEY_DATABASE_URL", "file:env.db")

	cfg, _, err := ParseFlags([]string{"-d", "file:cli.db", "-t", "sqlite"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.DatabaseURL != "file:cli.db" {
		t.Errorf("CLI should override env: expected file:cli.db, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown database type", []string{"-t", "mysql"}},
		{"unknown timezone", []string{"-tz", "Mars/Olympus"}},
		{"bad log level", []string{"-log-level", "loud"}},
		{"bad cron spec", []string{"-remind", "every day"}},
		{"unknown flag", []string{"-x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseFlags(tt.args); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}
