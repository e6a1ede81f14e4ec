// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists operations, users, questions and answers.

	st := store.New(conn, cfg.DatabaseType)
	q, err := st.GetQuestion(ctx, id)

The same SQL runs on sqlite and postgres; placeholders are written as ? and
rewritten to $n for postgres. Record IDs are random UUIDs.

# Answers

UpsertAnswer keeps at most one answer per (question, user, answer_date):

	a, err := st.UpsertAnswer(ctx, models.Answer{
		QuestionID:  q.ID,
		UserID:      u.ID,
		AnswerValue: "42",
		AnswerDate:  day,
	})

Resubmitting overwrites answer_value in place, so distinct-user counts never
see duplicates.

# Errors

Lookups return ErrNotFound and unique-key collisions return ErrConflict,
both wrapped with the offending key; test with errors.Is.
*/
package store
