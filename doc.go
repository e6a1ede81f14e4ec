// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ops-survey command.

ops-survey runs a daily operational survey: questions are scoped to
operations and sub-operations, scheduled daily or on the n-th working day
of the month (every day except Sunday is a working day), answered once per
user per day, and summarized as completion snapshots and pivots.

# Running Commands

Global flags come first, then the command and its own flags:

	go run . -d file:survey.db seed -f catalog.yaml
	go run . due -user alice -date 2025-03-04
	go run . answer -user alice -question <id> -value 42
	go run . completion
	go run . pivot -from 2025-03-01 -to 2025-03-31 -agg sum -group-by operation,date

Output is JSON on stdout. Errors are written as JSON to stderr; the exit
code is 2 for invalid input and 1 for other failures.

# Configuration

  - SURVEY_DATABASE_URL (-d): sqlite URL or postgres connection string (default: file:survey.db)
  - SURVEY_DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SURVEY_TIMEZONE (-tz): zone that decides "today" (default: UTC)
  - SURVEY_REMIND_SCHEDULE (-remind): reminder cron spec (default: 0 17 * * 1-6)
  - SURVEY_LOG_LEVEL (-log-level): debug, info, warn, error (default: info)

A .env file in the working directory is read if present.

# Architecture

  - schedule: working days, working-day index, due rules, scope matching
  - aggregate: completion snapshot, generic grouping, pivot
  - handlers: command handlers (survey, dashboard, catalog, health)
  - router: command registration and dispatch
  - middleware: command logging, JSON output, flag helpers, exit codes
  - reminder: cron-driven completion report
  - store: queries over database/sql
  - models: domain, request and response types
  - db: driver selection and schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
