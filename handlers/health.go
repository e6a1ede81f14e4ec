// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/schedule"
	"github.com/danielhkuo/ops-survey/store"
)

type HealthHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewHealthHandler(st *store.Store, cfg cliparse.Config) *HealthHandler {
	return &HealthHandler{st: st, cfg: cfg, now: cfg.Today}
}

// Health handles `health`
func (h *HealthHandler) Health(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("health", os.Stderr)
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	if err := h.st.DB().PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	today := h.now()
	return middleware.JSONResponse(out, models.HealthResponse{
		Status:          "ok",
		Today:           models.DateOf(today),
		WorkingDayIndex: schedule.WorkingDayIndex(today),
	})
}

// Calendar handles `calendar [-month YYYY-MM]`
func (h *HealthHandler) Calendar(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("calendar", os.Stderr)
	monthStr := fs.String("month", "", "Month (YYYY-MM), default current month")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	month := h.now()
	if *monthStr != "" {
		t, err := time.Parse("2006-01", *monthStr)
		if err != nil {
			return fmt.Errorf("%w: month %q must be YYYY-MM", models.ErrInvalidInput, *monthStr)
		}
		month = t
	}

	days := schedule.WorkingDaysIn(month.Year(), month.Month())
	result := make([]models.WorkingDay, 0, len(days))
	for _, d := range days {
		result = append(result, models.WorkingDay{
			Date:  models.DateOf(d),
			Index: schedule.WorkingDayIndex(d),
		})
	}

	return middleware.JSONResponse(out, result)
}
