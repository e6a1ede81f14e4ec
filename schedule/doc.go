// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package schedule decides which survey questions are due on a given date.

# Working Days

Every day except Sunday is a working day:

	schedule.IsWorkingDay(t)

The working-day index is the 1-based position of a date among the working
days of its month. Monthly questions use it instead of the calendar day so
that "the 3rd working day" never lands on a Sunday:

	idx := schedule.WorkingDayIndex(t) // 2025-06-03 → 2 (June 1st is a Sunday)

Indices are always computed from the month's dates, never stored.

# Due Rule

	schedule.IsDue(question, t)

  - inactive → never due
  - daily → due on every working day
  - monthly → due when WorkingDayIndex(t) == MonthlyDay on a working day
  - anything else → never due

# Scope

Questions and users may be pinned to an operation and sub-operation.
AppliesTo checks scope only and is evaluated before IsDue:

	due := schedule.DueFor(questions, user, t)

All functions are pure and safe for concurrent use.
*/
package schedule
