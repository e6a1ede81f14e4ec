// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/ops-survey/models"
)

const questionColumns = `id, prompt, response_type, frequency, monthly_day, is_active, operation_id, sub_operation_id, created_at`

func scanQuestion(row scanner) (models.Question, error) {
	var q models.Question
	var monthlyDay sql.NullInt64
	var opID, subOpID sql.NullString
	err := row.Scan(&q.ID, &q.Prompt, &q.ResponseType, &q.Frequency, &monthlyDay, &q.IsActive, &opID, &subOpID, &q.CreatedAt)
	if err != nil {
		return models.Question{}, err
	}
	if monthlyDay.Valid {
		d := int(monthlyDay.Int64)
		q.MonthlyDay = &d
	}
	q.OperationID = nullString(opID)
	q.SubOperationID = nullString(subOpID)
	return q, nil
}

// CreateQuestion inserts q with a fresh ID. Callers validate the definition
// first; the schema rejects a monthly_day that does not match the frequency.
func (s *Store) CreateQuestion(ctx context.Context, q models.Question) (models.Question, error) {
	q.ID = newID()
	q.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO question (id, prompt, response_type, frequency, monthly_day, is_active, operation_id, sub_operation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), q.ID, q.Prompt, q.ResponseType, q.Frequency, q.MonthlyDay, q.IsActive, q.OperationID, q.SubOperationID, q.CreatedAt)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}
	return q, nil
}

func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+questionColumns+` FROM question WHERE id = ?
	`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

// FindQuestion looks up a question by prompt and exact scope (nil = unscoped).
func (s *Store) FindQuestion(ctx context.Context, prompt string, operationID, subOperationID *string) (models.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+questionColumns+` FROM question
		WHERE prompt = ?
		  AND COALESCE(operation_id, '') = ?
		  AND COALESCE(sub_operation_id, '') = ?
		ORDER BY created_at
		LIMIT 1
	`), prompt, scopeKey(operationID), scopeKey(subOperationID)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, fmt.Errorf("question %q: %w", prompt, ErrNotFound)
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return s.listQuestions(ctx, `SELECT `+questionColumns+` FROM question ORDER BY created_at, id`)
}

// ListActiveQuestions returns questions with is_active set, oldest first.
func (s *Store) ListActiveQuestions(ctx context.Context) ([]models.Question, error) {
	return s.listQuestions(ctx, s.rebind(`
		SELECT `+questionColumns+` FROM question WHERE is_active = ? ORDER BY created_at, id
	`), true)
}

func (s *Store) listQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
