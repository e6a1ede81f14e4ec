package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/db"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/router"
	"github.com/danielhkuo/ops-survey/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse configuration
	cfg, args, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		return middleware.ExitInvalidInput
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		return middleware.ExitFailure
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		return middleware.ExitFailure
	}
	slog.Debug("Database schema ready")

	r, err := router.NewRouter(store.New(dbConn, cfg.DatabaseType), cfg)
	if err != nil {
		slog.Error("router setup failed", "error", err)
		return middleware.ExitCode(err)
	}

	// Ctrl-C cancels the running command
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 {
		r.Usage(os.Stderr)
	}

	if err := r.Dispatch(ctx, args, os.Stdout); err != nil {
		middleware.ErrorResponse(os.Stderr, err)
		return middleware.ExitCode(err)
	}
	return middleware.ExitOK
}
