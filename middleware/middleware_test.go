// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/store"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(ctx context.Context, args []string, out io.Writer) error {
		handlerCalled = true
		_, err := out.Write([]byte("success"))
		return err
	}

	wrapped := WithLogging("test", testHandler)

	var out bytes.Buffer
	if err := wrapped(context.Background(), nil, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if out.String() != "success" {
		t.Errorf("Expected output 'success', got '%s'", out.String())
	}
}

func TestWithLogging_PreservesError(t *testing.T) {
	want := fmt.Errorf("%w: bad date", models.ErrInvalidInput)
	wrapped := WithLogging("test", func(ctx context.Context, args []string, out io.Writer) error {
		return want
	})

	err := wrapped(context.Background(), []string{"-date", "x"}, io.Discard)
	if !errors.Is(err, want) {
		t.Errorf("Expected wrapped error to be returned unchanged, got %v", err)
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name:     "simple map",
			data:     map[string]string{"message": "hello"},
			expected: "{\n  \"message\": \"hello\"\n}",
		},
		{
			name:     "error response",
			data:     models.ErrorResponse{Error: "invalid_input", Message: "missing field"},
			expected: "{\n  \"error\": \"invalid_input\",\n  \"message\": \"missing field\"\n}",
		},
		{
			name:     "array data",
			data:     []string{"a", "b"},
			expected: "[\n  \"a\",\n  \"b\"\n]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := JSONResponse(&out, tc.data); err != nil {
				t.Fatal(err)
			}

			body := strings.TrimSpace(out.String())
			if body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name          string
		err           error
		expectedError string
	}{
		{"invalid input", fmt.Errorf("%w: date", models.ErrInvalidInput), "invalid_input"},
		{"not found", fmt.Errorf("user alice: %w", store.ErrNotFound), "not_found"},
		{"conflict", store.ErrConflict, "conflict"},
		{"internal", errors.New("database is locked"), "internal"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			ErrorResponse(&out, tc.err)

			var resp models.ErrorResponse
			if err := json.NewDecoder(&out).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.err.Error() {
				t.Errorf("Expected message '%s', got '%s'", tc.err.Error(), resp.Message)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"invalid input", fmt.Errorf("%w: x", models.ErrInvalidInput), ExitInvalidInput},
		{"help", flag.ErrHelp, ExitInvalidInput},
		{"not found", store.ErrNotFound, ExitFailure},
		{"other", errors.New("boom"), ExitFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	t.Run("valid flags", func(t *testing.T) {
		fs := NewFlagSet("due", io.Discard)
		user := fs.String("user", "", "")
		if err := ParseArgs(fs, []string{"-user", "alice"}); err != nil {
			t.Fatal(err)
		}
		if *user != "alice" {
			t.Errorf("Expected user alice, got %s", *user)
		}
	})

	t.Run("unknown flag is invalid input", func(t *testing.T) {
		fs := NewFlagSet("due", io.Discard)
		err := ParseArgs(fs, []string{"-nope"})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("positional arguments rejected", func(t *testing.T) {
		fs := NewFlagSet("due", io.Discard)
		err := ParseArgs(fs, []string{"extra"})
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestParseDate(t *testing.T) {
	today := time.Date(2025, time.March, 4, 22, 30, 0, 0, time.UTC)

	got, err := ParseDate("", today)
	if err != nil || got != models.NewDate(2025, time.March, 4) {
		t.Errorf("empty value should default to today, got %s (err %v)", got, err)
	}

	got, err = ParseDate("2025-03-01", today)
	if err != nil || got != models.NewDate(2025, time.March, 1) {
		t.Errorf("expected 2025-03-01, got %s (err %v)", got, err)
	}

	if _, err := ParseDate("03/01/2025", today); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	if err != nil || d != nil {
		t.Errorf("empty value should be unbounded, got %v (err %v)", d, err)
	}

	d, err = ParseOptionalDate("2025-03-31")
	if err != nil || d == nil || *d != models.NewDate(2025, time.March, 31) {
		t.Errorf("expected 2025-03-31, got %v (err %v)", d, err)
	}

	if _, err := ParseOptionalDate("2025-13-01"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		var req models.CreateQuestionRequest
		err := ParseJSONBody(strings.NewReader(`{"prompt":"Tons hauled","frequency":"daily"}`), &req)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if req.Prompt != "Tons hauled" || req.Frequency != "daily" {
			t.Errorf("unexpected request: %+v", req)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		var req models.CreateQuestionRequest
		if err := ParseJSONBody(strings.NewReader(`{invalid json}`), &req); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		var req models.CreateQuestionRequest
		err := ParseJSONBody(strings.NewReader(`{"prompt":"x","colour":"red"}`), &req)
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}
