// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the command handlers of the ops-survey binary.

# Handler Types

Each handler is a struct with store and config dependencies:

  - SurveyHandler: Due questions and answer submission
  - DashboardHandler: Completion snapshot and pivot
  - CatalogHandler: Seeding and managing operations, users and questions
  - HealthHandler: Status and working-day calendar

Handlers are created via constructor functions that accept *store.Store and Config:

	surveyHandler := handlers.NewSurveyHandler(st, cfg)

Every method has the middleware.HandlerFunc shape: it parses its own
flags from args and writes JSON to out.

# Dates

Commands that take -date default to today in the configured timezone.
Answering on a date where the question is not due (including Sundays)
is rejected with models.ErrInvalidInput; listing due questions on a
Sunday returns an empty list.

# Validation

Question and user definitions are checked with go-playground/validator
struct tags on the models request types, plus the monthly_day rule:
monthly questions need one, daily questions must not have one.
Failures wrap models.ErrInvalidInput and name the offending JSON fields.

# Seed Files

The seed command reads YAML or JSON (by extension). YAML is converted to
JSON and decoded strictly, so unknown keys are errors in both formats:

	operations:
	  - name: Mining
	    sub_operations: [North Pit]
	users:
	  - username: alice
	    operation: Mining
	    sub_operation: North Pit
	questions:
	  - prompt: Tons hauled
	    response_type: number
	    frequency: daily
	    operation: Mining

The whole file is validated before anything is written. Existing
usernames and questions with the same prompt and scope are skipped, so
seeding is repeatable.
*/
package handlers
