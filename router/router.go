// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/handlers"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/reminder"
	"github.com/danielhkuo/ops-survey/store"
)

type route struct {
	name    string
	summary string
	handler middleware.HandlerFunc
}

// Router maps command names to handlers.
type Router struct {
	routes map[string]route
	order  []string
}

func NewRouter(st *store.Store, cfg cliparse.Config) (*Router, error) {
	r := &Router{routes: make(map[string]route)}

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(st, cfg)
	dashboardHandler := handlers.NewDashboardHandler(st, cfg)
	catalogHandler := handlers.NewCatalogHandler(st, cfg)
	healthHandler := handlers.NewHealthHandler(st, cfg)

	remind, err := reminder.New(st, cfg, slog.Default())
	if err != nil {
		return nil, err
	}

	// Health
	r.Handle("health", "Report status and today's working-day index", healthHandler.Health)
	r.Handle("calendar", "List working days of a month [-month YYYY-MM]", healthHandler.Calendar)

	// Answering
	r.Handle("due", "Questions due for a user [-user NAME -date D]", surveyHandler.Due)
	r.Handle("answer", "Record an answer [-user NAME -question ID -value V -date D]", surveyHandler.Answer)

	// Dashboard
	r.Handle("completion", "Completion snapshot for a working day [-date D]", dashboardHandler.Completion)
	r.Handle("pivot", "Aggregate answers [-from D -to D -agg sum|avg -group-by dims]", dashboardHandler.Pivot)

	// Catalog management
	r.Handle("seed", "Load operations, users and questions from a file [-f PATH]", catalogHandler.Seed)
	r.Handle("add-question", "Create a question", catalogHandler.CreateQuestion)
	r.Handle("add-user", "Create a user", catalogHandler.CreateUser)
	r.Handle("questions", "List questions [-active]", catalogHandler.Questions)
	r.Handle("users", "List users", catalogHandler.Users)
	r.Handle("operations", "List operations and sub-operations", catalogHandler.Operations)

	// Scheduled reminder
	r.Handle("remind", "Run the completion reminder [-once -date D]", remind.Command)

	return r, nil
}

// Handle registers a command wrapped with logging.
func (r *Router) Handle(name, summary string, h middleware.HandlerFunc) {
	if _, exists := r.routes[name]; !exists {
		r.order = append(r.order, name)
	}
	r.routes[name] = route{name: name, summary: summary, handler: middleware.WithLogging(name, h)}
}

// Commands returns the registered command names in registration order.
func (r *Router) Commands() []string {
	return append([]string(nil), r.order...)
}

// Dispatch runs the command named by args[0] with the remaining arguments.
func (r *Router) Dispatch(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given (try 'help')", models.ErrInvalidInput)
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		r.Usage(out)
		return nil
	}

	rt, ok := r.routes[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q (try 'help')", models.ErrInvalidInput, name)
	}
	return rt.handler(ctx, args[1:], out)
}

// Usage writes the command list.
func (r *Router) Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ops-survey [global flags] <command> [command flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range r.order {
		fmt.Fprintf(tw, "  %s\t%s\n", name, r.routes[name].summary)
	}
	tw.Flush()
}
