// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schedule

import (
	"time"

	"github.com/danielhkuo/ops-survey/models"
)

// NonWorkingDay is the one weekday on which nothing is scheduled.
const NonWorkingDay = time.Sunday

// Day truncates t to midnight of its calendar date, keeping t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsWorkingDay reports whether t falls on a working day (any day but Sunday).
func IsWorkingDay(t time.Time) bool {
	return t.Weekday() != NonWorkingDay
}

// WorkingDayIndex returns the 1-based position of t among the working days
// of its month. For a non-working day it returns the number of working days
// before t in that month, so the index never decreases within a month.
func WorkingDayIndex(t time.Time) int {
	y, m, d := t.Date()
	count := 0
	for day := 1; day <= d; day++ {
		if IsWorkingDay(time.Date(y, m, day, 0, 0, 0, 0, t.Location())) {
			count++
		}
	}
	return count
}

// WorkingDaysIn lists the working days of a month in calendar order.
func WorkingDaysIn(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, 27)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// NthWorkingDay returns the date of the n-th working day of a month.
// ok is false when the month has fewer than n working days.
func NthWorkingDay(year int, month time.Month, n int) (time.Time, bool) {
	if n < 1 {
		return time.Time{}, false
	}
	days := WorkingDaysIn(year, month)
	if n > len(days) {
		return time.Time{}, false
	}
	return days[n-1], true
}

// IsDue reports whether q must be answered on the date of t.
//
// Daily questions are due on every working day. Monthly questions are due
// only on the working day whose index equals MonthlyDay; a monthly question
// without MonthlyDay is never due. Inactive questions and unknown
// frequencies are never due.
func IsDue(q models.Question, t time.Time) bool {
	if !q.IsActive {
		return false
	}

	switch q.Frequency {
	case models.FrequencyDaily:
		return IsWorkingDay(t)
	case models.FrequencyMonthly:
		if q.MonthlyDay == nil {
			return false
		}
		return IsWorkingDay(t) && WorkingDayIndex(t) == *q.MonthlyDay
	default:
		return false
	}
}

// AppliesTo reports whether q is a candidate for u. A nil scope on the
// question matches any user; a set scope must equal the user's.
func AppliesTo(q models.Question, u models.User) bool {
	return scopeMatches(q.OperationID, u.OperationID) &&
		scopeMatches(q.SubOperationID, u.SubOperationID)
}

func scopeMatches(question, user *string) bool {
	if question == nil {
		return true
	}
	return user != nil && *user == *question
}

// DueFor filters questions down to those that apply to u and are due on t,
// preserving input order.
func DueFor(questions []models.Question, u models.User, t time.Time) []models.Question {
	due := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if AppliesTo(q, u) && IsDue(q, t) {
			due = append(due, q)
		}
	}
	return due
}
