// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config and the arguments left after global flags
(the command and its own flags):

	cfg, rest, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - DatabaseURL: sqlite file URL or postgres connection string (default: file:survey.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - Timezone: IANA zone used to decide what "today" is (default: UTC)
  - RemindSchedule: 5-field cron spec for the reminder (default: 0 17 * * 1-6)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-d          Database URL
	-t          Database type
	-tz         Timezone
	-remind     Reminder cron schedule
	-log-level  Log level

# Environment Variables

Flags fall back to environment variables:

	SURVEY_DATABASE_URL    → -d
	SURVEY_DATABASE_TYPE   → -t
	SURVEY_TIMEZONE        → -tz
	SURVEY_REMIND_SCHEDULE → -remind
	SURVEY_LOG_LEVEL       → -log-level

A .env file in the working directory is loaded first if it exists; values
already set in the environment are not overwritten. CLI flags take
precedence over both.

# Validation

ParseFlags returns an error if the database type is unknown, the timezone
cannot be loaded, the log level does not parse or the reminder schedule is
not a valid cron expression.
*/
package cliparse
