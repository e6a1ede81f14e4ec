// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/schedule"
)

// ErrNotWorkingDay is returned when a completion snapshot is requested for
// a Sunday.
var ErrNotWorkingDay = fmt.Errorf("%w: the provided date is not a working day", models.ErrInvalidInput)

// Completion counts how many users answered at least one question on day.
// Answers dated on other days are ignored; each user counts once.
func Completion(day models.Date, totalUsers int, answers []models.Answer) (models.CompletionSnapshot, error) {
	if !schedule.IsWorkingDay(day.Time) {
		return models.CompletionSnapshot{}, ErrNotWorkingDay
	}

	answered := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if a.AnswerDate != day {
			continue
		}
		answered[a.UserID] = struct{}{}
	}

	completed := len(answered)
	return models.CompletionSnapshot{
		WorkingDay:     day,
		TotalUsers:     totalUsers,
		CompletedUsers: completed,
		PendingUsers:   max(totalUsers-completed, 0),
	}, nil
}

// Metric converts a raw answer to a number. Text that does not parse as a
// finite number, including "NaN" and "Inf", counts as 0.
func Metric(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Reduce folds values with the named aggregation. "sum" adds them; any
// other keyword, including unknown ones, takes the arithmetic mean.
func Reduce(values []float64, aggregation string) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	if aggregation == models.AggregationSum {
		return finite(total)
	}
	return finite(total / float64(len(values)))
}

// InRange reports whether d lies within the optional inclusive bounds.
func InRange(d models.Date, from, to *models.Date) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}
