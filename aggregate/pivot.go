// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/ops-survey/models"
)

// Pivot dimension names accepted by KeyFor
const (
	DimDate         = "date"
	DimQuestion     = "question"
	DimOperation    = "operation"
	DimSubOperation = "sub_operation"
	DimUser         = "user"
)

// AllDimensions is the full pivot key, in output order.
var AllDimensions = []string{DimDate, DimQuestion, DimOperation, DimSubOperation, DimUser}

// Group is one bucket produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets items by key. Groups come out in the order their first
// item was seen, so identical input yields identical output.
func GroupBy[T any, K comparable](items []T, key func(T) K) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// optional is a comparable stand-in for *string.
type optional struct {
	value string
	set   bool
}

func optionalOf(p *string) optional {
	if p == nil {
		return optional{}
	}
	return optional{value: *p, set: true}
}

func (o optional) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// PivotKey identifies one pivot group. Dimensions left out of a narrower
// key stay at their zero value.
type PivotKey struct {
	AnswerDate   models.Date
	QuestionID   string
	Operation    optional
	SubOperation optional
	Username     optional
}

// KeyFunc maps a row to its pivot group.
type KeyFunc func(models.PivotRow) PivotKey

// FullKey groups by (answer_date, question_id, operation, sub_operation, username).
func FullKey(r models.PivotRow) PivotKey {
	return PivotKey{
		AnswerDate:   r.AnswerDate,
		QuestionID:   r.QuestionID,
		Operation:    optionalOf(r.Operation),
		SubOperation: optionalOf(r.SubOperation),
		Username:     optional{value: r.Username, set: true},
	}
}

// KeyFor builds a key over the named dimensions. An empty list means the
// full key.
func KeyFor(dims []string) (KeyFunc, error) {
	if len(dims) == 0 {
		return FullKey, nil
	}

	keep := make(map[string]bool, len(dims))
	for _, d := range dims {
		d = strings.TrimSpace(strings.ToLower(d))
		switch d {
		case DimDate, DimQuestion, DimOperation, DimSubOperation, DimUser:
			keep[d] = true
		default:
			return nil, fmt.Errorf("%w: unknown pivot dimension %q (use %s)",
				models.ErrInvalidInput, d, strings.Join(AllDimensions, ", "))
		}
	}

	return func(r models.PivotRow) PivotKey {
		full := FullKey(r)
		var k PivotKey
		if keep[DimDate] {
			k.AnswerDate = full.AnswerDate
		}
		if keep[DimQuestion] {
			k.QuestionID = full.QuestionID
		}
		if keep[DimOperation] {
			k.Operation = full.Operation
		}
		if keep[DimSubOperation] {
			k.SubOperation = full.SubOperation
		}
		if keep[DimUser] {
			k.Username = full.Username
		}
		return k
	}, nil
}

// Pivot summarizes rows by the full key. See PivotWith.
func Pivot(rows []models.PivotRow, req models.PivotRequest) []models.PivotEntry {
	return PivotWith(rows, req, FullKey)
}

// PivotWith filters rows to the request's date range, coerces each answer
// to a number, groups by key and reduces every group with the requested
// aggregation. One entry is emitted per group in first-seen order.
func PivotWith(rows []models.PivotRow, req models.PivotRequest, key KeyFunc) []models.PivotEntry {
	aggregation := req.Aggregation
	if aggregation == "" {
		aggregation = models.AggregationAvg
	}

	filtered := make([]models.PivotRow, 0, len(rows))
	for _, r := range rows {
		if InRange(r.AnswerDate, req.DateFrom, req.DateTo) {
			filtered = append(filtered, r)
		}
	}

	groups := GroupBy(filtered, key)
	entries := make([]models.PivotEntry, 0, len(groups))
	for _, g := range groups {
		values := make([]float64, len(g.Items))
		for i, r := range g.Items {
			values[i] = Metric(r.AnswerValue)
		}

		entries = append(entries, models.PivotEntry{
			AnswerDate:   g.Key.AnswerDate,
			Operation:    g.Key.Operation.ptr(),
			SubOperation: g.Key.SubOperation.ptr(),
			Username:     g.Key.Username.ptr(),
			Metric:       Reduce(values, aggregation),
			Aggregation:  aggregation,
			QuestionID:   g.Key.QuestionID,
		})
	}
	return entries
}
