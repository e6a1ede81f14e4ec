// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/danielhkuo/ops-survey/aggregate"
	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/schedule"
	"github.com/danielhkuo/ops-survey/store"
)

type DashboardHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewDashboardHandler(st *store.Store, cfg cliparse.Config) *DashboardHandler {
	return &DashboardHandler{st: st, cfg: cfg, now: cfg.Today}
}

// Completion handles `completion [-date D]`
func (h *DashboardHandler) Completion(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("completion", os.Stderr)
	dateStr := fs.String("date", "", "Working day (YYYY-MM-DD), default today")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	day, err := middleware.ParseDate(*dateStr, h.now())
	if err != nil {
		return err
	}

	snapshot, err := completionFor(ctx, h.st, day)
	if err != nil {
		return err
	}

	return middleware.JSONResponse(out, snapshot)
}

// completionFor loads what the snapshot needs and computes it.
func completionFor(ctx context.Context, st *store.Store, day models.Date) (models.CompletionSnapshot, error) {
	if !schedule.IsWorkingDay(day.Time) {
		return models.CompletionSnapshot{}, aggregate.ErrNotWorkingDay
	}

	total, err := st.CountUsers(ctx)
	if err != nil {
		return models.CompletionSnapshot{}, err
	}
	answers, err := st.ListAnswersByDate(ctx, day)
	if err != nil {
		return models.CompletionSnapshot{}, err
	}

	return aggregate.Completion(day, total, answers)
}

// Pivot handles `pivot [-from D] [-to D] [-agg sum|avg] [-group-by dims]`
func (h *DashboardHandler) Pivot(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("pivot", os.Stderr)
	fromStr := fs.String("from", "", "First answer date, inclusive (YYYY-MM-DD)")
	toStr := fs.String("to", "", "Last answer date, inclusive (YYYY-MM-DD)")
	agg := fs.String("agg", models.AggregationAvg, "Aggregation: sum, or avg for anything else")
	groupBy := fs.String("group-by", "", "Comma-separated dimensions (default: all)")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	from, err := middleware.ParseOptionalDate(*fromStr)
	if err != nil {
		return err
	}
	to, err := middleware.ParseOptionalDate(*toStr)
	if err != nil {
		return err
	}

	key := aggregate.KeyFunc(aggregate.FullKey)
	if *groupBy != "" {
		key, err = aggregate.KeyFor(strings.Split(*groupBy, ","))
		if err != nil {
			return err
		}
	}

	req := models.PivotRequest{DateFrom: from, DateTo: to, Aggregation: *agg}

	rows, err := h.st.ListPivotRows(ctx, from, to)
	if err != nil {
		return err
	}

	entries := aggregate.PivotWith(rows, req, key)

	slog.Debug("pivot computed", "rows", len(rows), "entries", len(entries), "aggregation", req.Aggregation)

	return middleware.JSONResponse(out, entries)
}
