// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/ops-survey/aggregate"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/testutil"
)

func TestCompletion(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewDashboardHandler(st, testutil.GetTestConfig())

	q1 := testutil.CreateTestQuestion(t, st, models.Question{Prompt: "Headcount"})
	q2 := testutil.CreateTestQuestion(t, st, models.Question{Prompt: "Tons hauled"})
	alice := testutil.CreateTestUser(t, st, "alice", nil, nil)
	bob := testutil.CreateTestUser(t, st, "bob", nil, nil)
	testutil.CreateTestUser(t, st, "carol", nil, nil)

	day := models.NewDate(2025, time.March, 3)
	testutil.SubmitTestAnswer(t, st, q1.ID, alice.ID, "12", day)
	testutil.SubmitTestAnswer(t, st, q2.ID, alice.ID, "40", day)
	testutil.SubmitTestAnswer(t, st, q1.ID, bob.ID, "9", day)
	// Answers on other days do not count
	testutil.SubmitTestAnswer(t, st, q1.ID, alice.ID, "3", day.AddDays(1))

	out, err := run(t, h.Completion, "-date", "2025-03-03")
	if err != nil {
		t.Fatalf("Completion failed: %v", err)
	}

	var snapshot models.CompletionSnapshot
	testutil.DecodeJSON(t, out, &snapshot)

	want := models.CompletionSnapshot{
		WorkingDay:     day,
		TotalUsers:     3,
		CompletedUsers: 2,
		PendingUsers:   1,
	}
	if snapshot != want {
		t.Errorf("Expected %+v, got %+v", want, snapshot)
	}
}

func TestCompletion_NoUsers(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewDashboardHandler(st, testutil.GetTestConfig())

	out, err := run(t, h.Completion, "-date", "2025-03-03")
	if err != nil {
		t.Fatalf("Completion failed: %v", err)
	}

	var snapshot models.CompletionSnapshot
	testutil.DecodeJSON(t, out, &snapshot)

	if snapshot.TotalUsers != 0 || snapshot.CompletedUsers != 0 || snapshot.PendingUsers != 0 {
		t.Errorf("Expected an all-zero snapshot, got %+v", snapshot)
	}
}

func TestCompletion_Sunday(t *testing.T) {
	st := testutil.SetupTestStore(t)
	h := NewDashboardHandler(st, testutil.GetTestConfig())

	_, err := run(t, h.Completion, "-date", "2025-03-02")
	if !errors.Is(err, aggregate.ErrNotWorkingDay) {
		t.Errorf("Expected ErrNotWorkingDay, got %v", err)
	}
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func setupPivot(t *testing.T) (*DashboardHandler, models.Question) {
	t.Helper()

	st := testutil.SetupTestStore(t)
	mining := testutil.CreateTestOperation(t, st, "Mining")
	q := testutil.CreateTestQuestion(t, st, models.Question{Prompt: "Tons hauled", OperationID: &mining.ID})
	alice := testutil.CreateTestUser(t, st, "alice", &mining.ID, nil)
	bob := testutil.CreateTestUser(t, st, "bob", &mining.ID, nil)

	d1 := models.NewDate(2025, time.March, 3)
	d2 := models.NewDate(2025, time.March, 4)
	testutil.SubmitTestAnswer(t, st, q.ID, alice.ID, "10", d1)
	testutil.SubmitTestAnswer(t, st, q.ID, bob.ID, "6", d1)
	testutil.SubmitTestAnswer(t, st, q.ID, alice.ID, "20", d2)

	return NewDashboardHandler(st, testutil.GetTestConfig()), q
}

func TestPivot(t *testing.T) {
	h, q := setupPivot(t)

	testCases := []struct {
		name        string
		args        []string
		wantEntries int
		wantMetric  float64
		wantAgg     string
	}{
		{"full key keeps every answer", []string{"-agg", "sum"}, 3, 10, "sum"},
		{"default aggregation is avg", nil, 3, 10, "avg"},
		{"sum by operation", []string{"-agg", "sum", "-group-by", "operation"}, 1, 36, "sum"},
		{"avg by operation", []string{"-group-by", "operation"}, 1, 12, "avg"},
		{"unknown aggregation echoed, averaged", []string{"-agg", "median", "-group-by", "operation"}, 1, 12, "median"},
		{"date range", []string{"-from", "2025-03-04", "-to", "2025-03-04"}, 1, 20, "avg"},
		{"sum by date", []string{"-agg", "sum", "-group-by", "date"}, 2, 16, "sum"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, h.Pivot, tc.args...)
			if err != nil {
				t.Fatalf("Pivot failed: %v", err)
			}

			var entries []models.PivotEntry
			testutil.DecodeJSON(t, out, &entries)

			if len(entries) != tc.wantEntries {
				t.Fatalf("Expected %d entries, got %d", tc.wantEntries, len(entries))
			}
			first := entries[0]
			if first.Metric != tc.wantMetric {
				t.Errorf("Expected first metric %v, got %v", tc.wantMetric, first.Metric)
			}
			if first.Aggregation != tc.wantAgg {
				t.Errorf("Expected aggregation %q, got %q", tc.wantAgg, first.Aggregation)
			}
		})
	}

	t.Run("operation name comes from the question", func(t *testing.T) {
		out, err := run(t, h.Pivot)
		if err != nil {
			t.Fatal(err)
		}
		var entries []models.PivotEntry
		testutil.DecodeJSON(t, out, &entries)

		for _, e := range entries {
			if e.Operation == nil || *e.Operation != "Mining" {
				t.Errorf("Expected operation Mining, got %v", e.Operation)
			}
			if e.QuestionID != q.ID {
				t.Errorf("Expected question %s, got %s", q.ID, e.QuestionID)
			}
		}
	})
}

func TestPivot_NonFiniteValues(t *testing.T) {
	st := testutil.SetupTestStore(t)
	q := testutil.CreateTestQuestion(t, st, models.Question{Prompt: "Downtime notes", ResponseType: models.ResponseText})
	alice := testutil.CreateTestUser(t, st, "alice", nil, nil)
	bob := testutil.CreateTestUser(t, st, "bob", nil, nil)
	carol := testutil.CreateTestUser(t, st, "carol", nil, nil)

	day := models.NewDate(2025, time.March, 3)
	testutil.SubmitTestAnswer(t, st, q.ID, alice.ID, "5", day)
	testutil.SubmitTestAnswer(t, st, q.ID, bob.ID, "NaN", day)
	testutil.SubmitTestAnswer(t, st, q.ID, carol.ID, "Infinity", day)

	h := NewDashboardHandler(st, testutil.GetTestConfig())

	testCases := []struct {
		name string
		agg  string
		want float64
	}{
		{"sum", "sum", 5},
		{"avg", "avg", 5.0 / 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, h.Pivot, "-agg", tc.agg, "-group-by", "question")
			if err != nil {
				t.Fatalf("Pivot failed: %v", err)
			}

			var entries []models.PivotEntry
			testutil.DecodeJSON(t, out, &entries)

			if len(entries) != 1 {
				t.Fatalf("Expected 1 entry, got %d", len(entries))
			}
			if entries[0].Metric != tc.want {
				t.Errorf("Expected metric %v, got %v", tc.want, entries[0].Metric)
			}
		})
	}
}

func TestPivot_Empty(t *testing.T) {
	h, _ := setupPivot(t)

	out, err := run(t, h.Pivot, "-from", "2025-04-01")
	if err != nil {
		t.Fatalf("Pivot failed: %v", err)
	}

	var entries []models.PivotEntry
	testutil.DecodeJSON(t, out, &entries)
	if entries == nil || len(entries) != 0 {
		t.Errorf("Expected an empty array, got %v", entries)
	}
}

func TestPivot_InvalidInput(t *testing.T) {
	h, _ := setupPivot(t)

	testCases := []struct {
		name string
		args []string
	}{
		{"bad from", []string{"-from", "yesterday"}},
		{"bad to", []string{"-to", "2025-02-30"}},
		{"unknown dimension", []string{"-group-by", "site"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(t, h.Pivot, tc.args...); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
