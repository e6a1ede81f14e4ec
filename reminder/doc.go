// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reminder reports, on a cron schedule, who has not answered yet.

	r, err := reminder.New(st, cfg, slog.Default())
	err = r.Run(ctx) // blocks until ctx is cancelled

Each tick computes the completion snapshot for the current date in the
configured timezone and logs the usernames still pending. Sundays are
skipped. Check runs a single evaluation and is what the `remind -once`
command uses.
*/
package reminder
