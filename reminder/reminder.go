// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/ops-survey/aggregate"
	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/schedule"
	"github.com/danielhkuo/ops-survey/store"
)

// Report is the outcome of one reminder check.
type Report struct {
	Date         models.Date                `json:"date"`
	Skipped      bool                       `json:"skipped"`
	Snapshot     *models.CompletionSnapshot `json:"snapshot,omitempty"`
	PendingUsers []string                   `json:"pending_users"`
}

type Reminder struct {
	st     *store.Store
	spec   string
	loc    *time.Location
	parser cron.Parser
	log    *slog.Logger
	now    func() time.Time
}

// New builds a reminder for cfg.RemindSchedule in cfg.Timezone. A nil
// logger means slog.Default().
func New(st *store.Store, cfg cliparse.Config, logger *slog.Logger) (*Reminder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	r := &Reminder{
		st:     st,
		spec:   cfg.RemindSchedule,
		loc:    loc,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		log:    logger.With("component", "reminder"),
		now:    time.Now,
	}
	if _, err := r.parser.Parse(r.spec); err != nil {
		return nil, fmt.Errorf("%w: remind schedule %q: %v", models.ErrInvalidInput, r.spec, err)
	}
	return r, nil
}

// Run triggers Check on the schedule until ctx is cancelled, then waits
// for a running check to finish.
func (r *Reminder) Run(ctx context.Context) error {
	c := cron.New(cron.WithParser(r.parser), cron.WithLocation(r.loc))

	if _, err := c.AddFunc(r.spec, func() {
		if _, err := r.Check(ctx, r.now()); err != nil {
			r.log.Error("reminder check failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}

	c.Start()
	r.log.Info("reminder started", "schedule", r.spec, "tz", r.loc.String())

	<-ctx.Done()

	start := time.Now()
	<-c.Stop().Done()
	r.log.Info("reminder stopped", "took_ms", time.Since(start).Milliseconds())
	return nil
}

// Check computes the completion snapshot for the local date of now and
// logs who is still pending. Non-working days are skipped.
func (r *Reminder) Check(ctx context.Context, now time.Time) (Report, error) {
	local := now.In(r.loc)
	report := Report{Date: models.DateOf(local), PendingUsers: []string{}}

	if !schedule.IsWorkingDay(local) {
		report.Skipped = true
		r.log.Info("not a working day, skipping reminder", "date", report.Date.String())
		return report, nil
	}

	users, err := r.st.ListUsers(ctx)
	if err != nil {
		return report, err
	}
	answers, err := r.st.ListAnswersByDate(ctx, report.Date)
	if err != nil {
		return report, err
	}

	snapshot, err := aggregate.Completion(report.Date, len(users), answers)
	if err != nil {
		return report, err
	}
	report.Snapshot = &snapshot

	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.UserID] = true
	}
	for _, u := range users {
		if !answered[u.ID] {
			report.PendingUsers = append(report.PendingUsers, u.Username)
		}
	}

	if len(report.PendingUsers) > 0 {
		r.log.Warn("survey answers pending",
			"date", report.Date.String(),
			"completed", snapshot.CompletedUsers,
			"pending", snapshot.PendingUsers,
			"pending_users", report.PendingUsers,
		)
	} else {
		r.log.Info("all users answered",
			"date", report.Date.String(),
			"total", snapshot.TotalUsers,
		)
	}

	return report, nil
}

// Command handles `remind [-once] [-date D]`. Without -once it blocks
// until the context is cancelled.
func (r *Reminder) Command(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("remind", os.Stderr)
	once := fs.Bool("once", false, "Run a single check now and print the report")
	dateStr := fs.String("date", "", "Check this date instead of now (implies -once)")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	if !*once && *dateStr == "" {
		return r.Run(ctx)
	}

	now := r.now()
	if *dateStr != "" {
		day, err := models.ParseDate(*dateStr)
		if err != nil {
			return err
		}
		// Noon keeps the date stable in any configured zone
		now = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, r.loc)
	}

	report, err := r.Check(ctx, now)
	if err != nil {
		return err
	}
	return middleware.JSONResponse(out, report)
}
