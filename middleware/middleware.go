// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/store"
)

// HandlerFunc runs one command. args are the command's own flags and
// results are written to out.
type HandlerFunc func(ctx context.Context, args []string, out io.Writer) error

// Exit codes
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
)

// WithLogging wraps a handler with command logging
func WithLogging(name string, next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, args []string, out io.Writer) error {
		start := time.Now()

		slog.Info("command started",
			"command", name,
			"args", len(args),
		)

		err := next(ctx, args, out)

		duration := time.Since(start)
		if err != nil {
			slog.Error("command failed",
				"command", name,
				"duration_ms", duration.Milliseconds(),
				"error", err,
			)
			return err
		}
		slog.Info("command completed",
			"command", name,
			"duration_ms", duration.Milliseconds(),
		)
		return nil
	}
}

// JSONResponse writes v as indented JSON
func JSONResponse(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		return err
	}
	return nil
}

// ErrorResponse writes a JSON error body describing err
func ErrorResponse(w io.Writer, err error) {
	_ = JSONResponse(w, models.ErrorResponse{
		Error:   errorKind(err),
		Message: err.Error(),
	})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, flag.ErrHelp):
		return "invalid_input"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, flag.ErrHelp):
		return ExitInvalidInput
	default:
		return ExitFailure
	}
}

// NewFlagSet returns a command flag set that reports errors instead of exiting.
func NewFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// ParseArgs parses command flags, marking parse failures as invalid input.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", models.ErrInvalidInput, fs.Args())
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD flag value, or returns today when s is empty.
func ParseDate(s string, today time.Time) (models.Date, error) {
	if s == "" {
		return models.DateOf(today), nil
	}
	return models.ParseDate(s)
}

// ParseOptionalDate parses a YYYY-MM-DD flag value; empty means unbounded.
func ParseOptionalDate(s string) (*models.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseJSONBody decodes a JSON document from r, rejecting unknown fields.
func ParseJSONBody(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return nil
}
