// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/ops-survey/models"
)

const answerColumns = `id, question_id, user_id, answer_value, answer_date, created_at`

func scanAnswer(row scanner) (models.Answer, error) {
	var a models.Answer
	err := row.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.AnswerValue, &a.AnswerDate, &a.CreatedAt)
	return a, err
}

// UpsertAnswer records a's value for (question, user, answer_date). A second
// submission for the same triple overwrites the value and keeps the original
// ID and created_at.
func (s *Store) UpsertAnswer(ctx context.Context, a models.Answer) (models.Answer, error) {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO answer (id, question_id, user_id, answer_value, answer_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (question_id, user_id, answer_date)
		DO UPDATE SET answer_value = excluded.answer_value
	`), newID(), a.QuestionID, a.UserID, a.AnswerValue, a.AnswerDate, s.now().UTC())
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to upsert answer: %w", err)
	}

	stored, err := scanAnswer(s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+answerColumns+` FROM answer
		WHERE question_id = ? AND user_id = ? AND answer_date = ?
	`), a.QuestionID, a.UserID, a.AnswerDate))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Answer{}, fmt.Errorf("answer vanished after upsert: %w", ErrNotFound)
	}
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to read back answer: %w", err)
	}
	return stored, nil
}

// ListAnswersByDate returns every answer dated day.
func (s *Store) ListAnswersByDate(ctx context.Context, day models.Date) ([]models.Answer, error) {
	return s.listAnswers(ctx, s.rebind(`
		SELECT `+answerColumns+` FROM answer WHERE answer_date = ? ORDER BY created_at, id
	`), day)
}

// ListAnswersForUser returns the user's answers dated day.
func (s *Store) ListAnswersForUser(ctx context.Context, userID string, day models.Date) ([]models.Answer, error) {
	return s.listAnswers(ctx, s.rebind(`
		SELECT `+answerColumns+` FROM answer
		WHERE user_id = ? AND answer_date = ?
		ORDER BY created_at, id
	`), userID, day)
}

func (s *Store) listAnswers(ctx context.Context, query string, args ...any) ([]models.Answer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListPivotRows flattens answers for the pivot. Operation and sub-operation
// names come from the question's scope, not the user's.
func (s *Store) ListPivotRows(ctx context.Context, from, to *models.Date) ([]models.PivotRow, error) {
	var where []string
	var args []any
	if from != nil {
		where = append(where, "a.answer_date >= ?")
		args = append(args, *from)
	}
	if to != nil {
		where = append(where, "a.answer_date <= ?")
		args = append(args, *to)
	}

	query := `
		SELECT a.answer_date, o.name, so.name, u.username, a.answer_value, a.question_id
		FROM answer a
		JOIN app_user u ON u.id = a.user_id
		JOIN question q ON q.id = a.question_id
		LEFT JOIN operation o ON o.id = q.operation_id
		LEFT JOIN sub_operation so ON so.id = q.sub_operation_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY a.answer_date, a.created_at, a.id"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pivot rows: %w", err)
	}
	defer rows.Close()

	out := []models.PivotRow{}
	for rows.Next() {
		var r models.PivotRow
		var opName, subName sql.NullString
		if err := rows.Scan(&r.AnswerDate, &opName, &subName, &r.Username, &r.AnswerValue, &r.QuestionID); err != nil {
			return nil, fmt.Errorf("failed to scan pivot row: %w", err)
		}
		r.Operation = nullString(opName)
		r.SubOperation = nullString(subName)
		out = append(out, r)
	}
	return out, rows.Err()
}
