// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/testutil"
)

const catalogYAML = `
operations:
  - name: Mining
    sub_operations: [North Pit, South Pit]
users:
  - username: alice
    full_name: Alice Souza
    operation: Mining
    sub_operation: North Pit
  - username: admin
    role: admin
questions:
  - prompt: Tons hauled
    response_type: number
    frequency: daily
    operation: Mining
  - prompt: Safety audit done?
    response_type: text
    frequency: monthly
    monthly_day: 3
  - prompt: Trucks dispatched
    response_type: number
    frequency: daily
    operation: Logistics
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestSeed(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())
	ctx := context.Background()
	path := writeFile(t, "catalog.yaml", catalogYAML)

	out, err := run(t, h.Seed, "-f", path)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	var report models.SeedReport
	testutil.DecodeJSON(t, out, &report)

	want := models.SeedReport{
		OperationsCreated:    2, // Mining, plus Logistics on first reference
		SubOperationsCreated: 2,
		UsersCreated:         2,
		QuestionsCreated:     3,
	}
	if report != want {
		t.Errorf("Expected %+v, got %+v", want, report)
	}

	alice, err := st.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if alice.OperationID == nil || alice.SubOperationID == nil {
		t.Errorf("Expected alice to be scoped, got %+v", alice)
	}
	if alice.FullName == nil || *alice.FullName != "Alice Souza" || !alice.IsActive {
		t.Errorf("Unexpected alice: %+v", alice)
	}

	admin, err := st.GetUserByUsername(ctx, "admin")
	if err != nil || admin.Role != models.RoleAdmin {
		t.Errorf("Expected admin role, got %+v (err %v)", admin, err)
	}

	monthly, err := st.FindQuestion(ctx, "Safety audit done?", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if monthly.MonthlyDay == nil || *monthly.MonthlyDay != 3 || !monthly.IsActive {
		t.Errorf("Unexpected monthly question: %+v", monthly)
	}

	// Seeding again changes nothing
	out, err = run(t, h.Seed, "-f", path)
	if err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	var again models.SeedReport
	testutil.DecodeJSON(t, out, &again)

	want = models.SeedReport{UsersSkipped: 2, QuestionsSkipped: 3}
	if again != want {
		t.Errorf("Expected %+v on reseed, got %+v", want, again)
	}

	questions, err := st.ListQuestions(ctx)
	if err != nil || len(questions) != 3 {
		t.Errorf("Expected 3 questions after reseed, got %d (err %v)", len(questions), err)
	}
}

func TestSeed_JSON(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())

	path := writeFile(t, "catalog.json", `{
		"users": [{"username": "bob"}],
		"questions": [{"prompt": "Headcount", "response_type": "number", "frequency": "daily", "is_active": false}]
	}`)

	if _, err := run(t, h.Seed, "-f", path); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	bob, err := st.GetUserByUsername(context.Background(), "bob")
	if err != nil || bob.Role != models.RoleUser {
		t.Errorf("Expected default role user, got %+v (err %v)", bob, err)
	}

	active, err := st.ListActiveQuestions(context.Background())
	if err != nil || len(active) != 0 {
		t.Errorf("Expected the seeded question to be inactive, got %d active (err %v)", len(active), err)
	}
}

func TestSeed_InvalidInput(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		message string
	}{
		{
			name:    "monthly without day",
			file:    "c.yaml",
			content: "questions:\n  - prompt: Audit\n    response_type: text\n    frequency: monthly\n",
			message: "monthly_day",
		},
		{
			name:    "daily with day",
			file:    "c.yaml",
			content: "questions:\n  - prompt: Audit\n    response_type: text\n    frequency: daily\n    monthly_day: 2\n",
			message: "monthly_day",
		},
		{
			name:    "day out of range",
			file:    "c.yaml",
			content: "questions:\n  - prompt: Audit\n    response_type: text\n    frequency: monthly\n    monthly_day: 40\n",
			message: "monthly_day",
		},
		{
			name:    "unknown frequency",
			file:    "c.yaml",
			content: "questions:\n  - prompt: Audit\n    response_type: text\n    frequency: weekly\n",
			message: "frequency",
		},
		{
			name:    "unknown field",
			file:    "c.json",
			content: `{"users": [{"username": "bob", "password": "x"}]}`,
			message: "password",
		},
		{
			name:    "sub-operation without operation",
			file:    "c.yaml",
			content: "users:\n  - username: bob\n    sub_operation: North Pit\n",
			message: "needs an operation",
		},
		{
			name:    "bad role",
			file:    "c.yaml",
			content: "users:\n  - username: bob\n    role: root\n",
			message: "role",
		},
		{
			name:    "malformed yaml",
			file:    "c.yaml",
			content: "users: [unclosed\n",
			message: "yaml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := testutil.SetupTestStore(t)
			h := NewCatalogHandler(st, testutil.GetTestConfig())
			path := writeFile(t, tc.file, tc.content)

			_, err := run(t, h.Seed, "-f", path)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("Expected error mentioning %q, got %q", tc.message, err.Error())
			}

			// Nothing is written when validation fails
			users, _ := st.ListUsers(context.Background())
			questions, _ := st.ListQuestions(context.Background())
			if len(users) != 0 || len(questions) != 0 {
				t.Errorf("Expected no writes, got %d users and %d questions", len(users), len(questions))
			}
		})
	}
}

func TestSeed_MissingFile(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())

	if _, err := run(t, h.Seed); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput without -f, got %v", err)
	}
	if _, err := run(t, h.Seed, "-f", filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestCreateQuestion(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())
	mining := testutil.CreateTestOperation(t, st, "Mining")
	north := testutil.CreateTestSubOperation(t, st, mining.ID, "North Pit")

	out, err := run(t, h.CreateQuestion,
		"-prompt", "Safety audit done?",
		"-type", "text",
		"-frequency", "monthly",
		"-monthly-day", "5",
		"-operation", "Mining",
		"-sub-operation", "North Pit",
	)
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	var q models.Question
	testutil.DecodeJSON(t, out, &q)

	if q.ID == "" || !q.IsActive {
		t.Errorf("Expected an active stored question, got %+v", q)
	}
	if q.MonthlyDay == nil || *q.MonthlyDay != 5 {
		t.Errorf("Expected monthly_day 5, got %v", q.MonthlyDay)
	}
	if q.OperationID == nil || *q.OperationID != mining.ID || q.SubOperationID == nil || *q.SubOperationID != north.ID {
		t.Errorf("Expected Mining/North Pit scope, got %v/%v", q.OperationID, q.SubOperationID)
	}

	out, err = run(t, h.CreateQuestion, "-prompt", "Headcount", "-inactive")
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	var daily models.Question
	testutil.DecodeJSON(t, out, &daily)
	if daily.IsActive || daily.Frequency != models.FrequencyDaily || daily.ResponseType != models.ResponseNumber {
		t.Errorf("Unexpected defaults: %+v", daily)
	}
}

func TestCreateQuestion_InvalidInput(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())
	testutil.CreateTestOperation(t, st, "Mining")

	testCases := []struct {
		name string
		args []string
	}{
		{"missing prompt", []string{"-frequency", "daily"}},
		{"monthly without day", []string{"-prompt", "Audit", "-frequency", "monthly"}},
		{"daily with day", []string{"-prompt", "Audit", "-monthly-day", "2"}},
		{"day zero", []string{"-prompt", "Audit", "-frequency", "monthly", "-monthly-day", "0"}},
		{"bad response type", []string{"-prompt", "Audit", "-type", "photo"}},
		{"unknown operation", []string{"-prompt", "Audit", "-operation", "Logistics"}},
		{"unknown sub-operation", []string{"-prompt", "Audit", "-operation", "Mining", "-sub-operation", "East"}},
		{"sub-operation alone", []string{"-prompt", "Audit", "-sub-operation", "East"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(t, h.CreateQuestion, tc.args...); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())
	mining := testutil.CreateTestOperation(t, st, "Mining")

	out, err := run(t, h.CreateUser, "-username", "alice", "-full-name", "Alice Souza", "-operation", "Mining")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	var u models.User
	testutil.DecodeJSON(t, out, &u)
	if u.Role != models.RoleUser || !u.IsActive {
		t.Errorf("Unexpected user: %+v", u)
	}
	if u.OperationID == nil || *u.OperationID != mining.ID {
		t.Errorf("Expected Mining scope, got %v", u.OperationID)
	}

	if _, err := run(t, h.CreateUser, "-username", "alice"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for duplicate username, got %v", err)
	}
	if _, err := run(t, h.CreateUser, "-username", "a"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for short username, got %v", err)
	}
	if _, err := run(t, h.CreateUser, "-username", "bob", "-role", "root"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestListings(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewCatalogHandler(st, testutil.GetTestConfig())

	if _, err := run(t, h.Seed, "-f", writeFile(t, "catalog.yaml", catalogYAML)); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	out, err := run(t, h.Users)
	if err != nil {
		t.Fatal(err)
	}
	var users []models.User
	testutil.DecodeJSON(t, out, &users)
	if len(users) != 2 || users[0].Username != "admin" {
		t.Errorf("Expected users sorted by username, got %+v", users)
	}

	out, err = run(t, h.Questions, "-active")
	if err != nil {
		t.Fatal(err)
	}
	var questions []models.Question
	testutil.DecodeJSON(t, out, &questions)
	if len(questions) != 3 {
		t.Errorf("Expected 3 questions, got %d", len(questions))
	}

	out, err = run(t, h.Operations)
	if err != nil {
		t.Fatal(err)
	}
	var ops []struct {
		Name          string                `json:"name"`
		SubOperations []models.SubOperation `json:"sub_operations"`
	}
	testutil.DecodeJSON(t, out, &ops)
	if len(ops) != 2 || ops[0].Name != "Logistics" || len(ops[0].SubOperations) != 0 {
		t.Fatalf("Unexpected operations: %+v", ops)
	}
	if ops[1].Name != "Mining" || len(ops[1].SubOperations) != 2 {
		t.Errorf("Expected Mining with 2 sub-operations, got %+v", ops[1])
	}
}
