// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/db"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/store"
)

// SetupTestDB creates a fresh sqlite database with the full schema.
// The file lives in t.TempDir() and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "survey_test.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a Store over a fresh test database.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		DatabaseURL:    "file::memory:",
		DatabaseType:   db.TypeSQLite,
		Timezone:       "UTC",
		RemindSchedule: "0 17 * * 1-6",
		LogLevel:       "info",
	}
}

// CreateTestOperation creates an operation and returns it
func CreateTestOperation(t *testing.T, st *store.Store, name string) models.Operation {
	t.Helper()

	op, err := st.CreateOperation(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create test operation: %v", err)
	}
	return op
}

// CreateTestSubOperation creates a sub-operation under operationID
func CreateTestSubOperation(t *testing.T, st *store.Store, operationID, name string) models.SubOperation {
	t.Helper()

	sub, err := st.CreateSubOperation(context.Background(), name, operationID)
	if err != nil {
		t.Fatalf("Failed to create test sub-operation: %v", err)
	}
	return sub
}

// CreateTestUser creates an active user with the given scope (nil = unscoped)
func CreateTestUser(t *testing.T, st *store.Store, username string, operationID, subOperationID *string) models.User {
	t.Helper()

	u, err := st.CreateUser(context.Background(), models.User{
		Username:       username,
		Role:           models.RoleUser,
		IsActive:       true,
		OperationID:    operationID,
		SubOperationID: subOperationID,
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestQuestion stores q as an active question. Prompt, response type
// and frequency default to "Test question", number and daily.
func CreateTestQuestion(t *testing.T, st *store.Store, q models.Question) models.Question {
	t.Helper()

	q.IsActive = true
	if q.Prompt == "" {
		q.Prompt = "Test question"
	}
	if q.ResponseType == "" {
		q.ResponseType = models.ResponseNumber
	}
	if q.Frequency == "" {
		q.Frequency = models.FrequencyDaily
	}

	created, err := st.CreateQuestion(context.Background(), q)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return created
}

// SubmitTestAnswer upserts an answer and returns the stored record
func SubmitTestAnswer(t *testing.T, st *store.Store, questionID, userID, value string, day models.Date) models.Answer {
	t.Helper()

	a, err := st.UpsertAnswer(context.Background(), models.Answer{
		QuestionID:  questionID,
		UserID:      userID,
		AnswerValue: value,
		AnswerDate:  day,
	})
	if err != nil {
		t.Fatalf("Failed to submit test answer: %v", err)
	}
	return a
}

// DecodeJSON decodes command output into v
func DecodeJSON(t *testing.T, out *bytes.Buffer, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(out).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON output: %v (output: %s)", err, out.String())
	}
}

// StrPtr returns a pointer to s
func StrPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
