// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types.

# Domain Types

  - Operation, SubOperation: organizational scope
  - User: username, role, active flag, optional scope
  - Question: prompt, response type, frequency, monthly_day, scope
  - Answer: one value per (question, user, answer date)
  - Date: calendar day, JSON and SQL as YYYY-MM-DD

# Request Types

Types carrying input, with validator tags:

  - CreateQuestionRequest, CreateUserRequest, SubmitAnswerRequest
  - PivotRequest: optional date bounds and aggregation keyword
  - SeedFile: operations, users and questions referenced by name

# Response Types

  - QuestionWithAnswer: a due question and the user's answer, if any
  - CompletionSnapshot: total, completed and pending users for a day
  - PivotEntry: one aggregated group
  - HealthResponse, WorkingDay, SeedReport
  - ErrorResponse: error, message

# Constants

Role:

	RoleAdmin = "admin"
	RoleUser  = "user"

Response type:

	ResponseNumber = "number"
	ResponseText   = "text"

Frequency:

	FrequencyDaily   = "daily"
	FrequencyMonthly = "monthly"

# Errors

ErrInvalidInput marks input the caller must fix. Wrap it with
fmt.Errorf("%w: ...", models.ErrInvalidInput) and test with errors.Is.
*/
package models
