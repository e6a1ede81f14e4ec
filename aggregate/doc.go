// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate builds dashboard numbers from recorded answers.

# Completion

	snap, err := aggregate.Completion(day, totalUsers, answers)

Counts distinct users with at least one answer dated day. Pending users
never go below zero. Sundays return ErrNotWorkingDay, which wraps
models.ErrInvalidInput.

# Pivot

	entries := aggregate.Pivot(rows, models.PivotRequest{
		DateFrom:    &from,
		Aggregation: "sum",
	})

Steps:

 1. keep rows with DateFrom <= answer_date <= DateTo (nil bound = open)
 2. parse answer_value as a float; anything unparsable becomes 0
 3. group by (answer_date, question_id, operation, sub_operation, username)
 4. reduce with "sum", or the mean for "avg" and any unknown keyword
 5. emit one entry per group, in first-seen order

The grouping key is pluggable. PivotWith takes any KeyFunc and KeyFor
builds one from dimension names, so dropping "user" aggregates across a
team without touching the reducer:

	key, _ := aggregate.KeyFor([]string{"date", "question", "operation"})
	entries := aggregate.PivotWith(rows, req, key)

Nothing here fails on dirty data: bad numbers and unknown aggregation
keywords degrade to safe defaults.
*/
package aggregate
