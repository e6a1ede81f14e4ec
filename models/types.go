// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"time"
)

// ErrInvalidInput marks requests the caller must fix (bad dates, missing
// monthly_day, answers for questions that are not due, ...)
var ErrInvalidInput = errors.New("invalid input")

// Role constants
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Response type constants
const (
	ResponseNumber = "number"
	ResponseText   = "text"
)

// Frequency constants
const (
	FrequencyDaily   = "daily"
	FrequencyMonthly = "monthly"
)

// Aggregation keywords accepted by the pivot
const (
	AggregationSum = "sum"
	AggregationAvg = "avg"
)

// Domain types

type Operation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SubOperation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OperationID string `json:"operation_id"`
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FullName       *string   `json:"full_name,omitempty"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	OperationID    *string   `json:"operation_id"`
	SubOperationID *string   `json:"sub_operation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Question is a recurring survey prompt. MonthlyDay is the working-day
// index within the month and is set only for monthly questions.
type Question struct {
	ID             string    `json:"id"`
	Prompt         string    `json:"prompt"`
	ResponseType   string    `json:"response_type"`
	Frequency      string    `json:"frequency"`
	MonthlyDay     *int      `json:"monthly_day"`
	IsActive       bool      `json:"is_active"`
	OperationID    *string   `json:"operation_id"`
	SubOperationID *string   `json:"sub_operation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Answer is one user's value for one question on one answer date.
type Answer struct {
	ID          string    `json:"id"`
	QuestionID  string    `json:"question_id"`
	UserID      string    `json:"user_id"`
	AnswerValue string    `json:"answer_value"`
	AnswerDate  Date      `json:"answer_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuestionWithAnswer struct {
	Question Question `json:"question"`
	Answer   *Answer  `json:"answer"`
}

// Request types

// CreateQuestionRequest carries a new question definition before it is
// stored. Operation scope may be given by ID or resolved by name upstream.
type CreateQuestionRequest struct {
	Prompt         string  `json:"prompt" validate:"required,max=500"`
	ResponseType   string  `json:"response_type" validate:"required,oneof=number text"`
	Frequency      string  `json:"frequency" validate:"required,oneof=daily monthly"`
	MonthlyDay     *int    `json:"monthly_day" validate:"required_if=Frequency monthly,omitempty,min=1,max=31"`
	IsActive       *bool   `json:"is_active"`
	OperationID    *string `json:"operation_id" validate:"omitempty,uuid4"`
	SubOperationID *string `json:"sub_operation_id" validate:"omitempty,uuid4"`
}

type CreateUserRequest struct {
	Username       string  `json:"username" validate:"required,min=2,max=50"`
	FullName       *string `json:"full_name" validate:"omitempty,max=120"`
	Role           string  `json:"role" validate:"omitempty,oneof=admin user"`
	OperationID    *string `json:"operation_id" validate:"omitempty,uuid4"`
	SubOperationID *string `json:"sub_operation_id" validate:"omitempty,uuid4"`
}

type SubmitAnswerRequest struct {
	QuestionID  string `json:"question_id" validate:"required"`
	AnswerValue string `json:"answer_value"`
	AnswerDate  *Date  `json:"answer_date"`
}

// Catalog seed file. Scope is referenced by name; operations and
// sub-operations are created on first reference.

type SeedFile struct {
	Operations []SeedOperation `json:"operations"`
	Users      []SeedUser      `json:"users"`
	Questions  []SeedQuestion  `json:"questions"`
}

type SeedOperation struct {
	Name          string   `json:"name"`
	SubOperations []string `json:"sub_operations"`
}

type SeedUser struct {
	Username     string  `json:"username"`
	FullName     *string `json:"full_name"`
	Role         string  `json:"role"`
	Operation    string  `json:"operation"`
	SubOperation string  `json:"sub_operation"`
}

type SeedQuestion struct {
	Prompt       string `json:"prompt"`
	ResponseType string `json:"response_type"`
	Frequency    string `json:"frequency"`
	MonthlyDay   *int   `json:"monthly_day"`
	IsActive     *bool  `json:"is_active"`
	Operation    string `json:"operation"`
	SubOperation string `json:"sub_operation"`
}

// PivotRequest selects the answers to pivot. Empty Aggregation means avg.
type PivotRequest struct {
	DateFrom    *Date  `json:"date_from"`
	DateTo      *Date  `json:"date_to"`
	Aggregation string `json:"aggregation"`
}

// Response types

type CompletionSnapshot struct {
	WorkingDay     Date `json:"working_day"`
	TotalUsers     int  `json:"total_users"`
	CompletedUsers int  `json:"completed_users"`
	PendingUsers   int  `json:"pending_users"`
}

// PivotRow is one flattened answer joined with its user and the question's
// organizational scope.
type PivotRow struct {
	AnswerDate   Date
	Operation    *string
	SubOperation *string
	Username     string
	AnswerValue  string
	QuestionID   string
}

type PivotEntry struct {
	AnswerDate   Date    `json:"answer_date"`
	Operation    *string `json:"operation"`
	SubOperation *string `json:"sub_operation"`
	Username     *string `json:"username"`
	Metric       float64 `json:"metric"`
	Aggregation  string  `json:"aggregation"`
	QuestionID   string  `json:"question_id"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Today           Date   `json:"today"`
	WorkingDayIndex int    `json:"working_day_index"`
}

type SeedReport struct {
	OperationsCreated    int `json:"operations_created"`
	SubOperationsCreated int `json:"sub_operations_created"`
	UsersCreated         int `json:"users_created"`
	UsersSkipped         int `json:"users_skipped"`
	QuestionsCreated     int `json:"questions_created"`
	QuestionsSkipped     int `json:"questions_skipped"`
}

type WorkingDay struct {
	Date  Date `json:"date"`
	Index int  `json:"index"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
