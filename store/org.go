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

func (s *Store) CreateOperation(ctx context.Context, name string) (models.Operation, error) {
	op := models.Operation{ID: newID(), Name: name}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO operation (id, name) VALUES (?, ?)
	`), op.ID, op.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Operation{}, fmt.Errorf("operation %q: %w", name, ErrConflict)
		}
		return models.Operation{}, fmt.Errorf("failed to insert operation: %w", err)
	}
	return op, nil
}

func (s *Store) GetOperation(ctx context.Context, id string) (models.Operation, error) {
	var op models.Operation
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name FROM operation WHERE id = ?
	`), id).Scan(&op.ID, &op.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Operation{}, fmt.Errorf("operation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Operation{}, fmt.Errorf("failed to query operation: %w", err)
	}
	return op, nil
}

func (s *Store) GetOperationByName(ctx context.Context, name string) (models.Operation, error) {
	var op models.Operation
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name FROM operation WHERE name = ?
	`), name).Scan(&op.ID, &op.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Operation{}, fmt.Errorf("operation %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return models.Operation{}, fmt.Errorf("failed to query operation: %w", err)
	}
	return op, nil
}

func (s *Store) ListOperations(ctx context.Context) ([]models.Operation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM operation ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	ops := []models.Operation{}
	for rows.Next() {
		var op models.Operation
		if err := rows.Scan(&op.ID, &op.Name); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// CreateSubOperation adds a unit under an existing operation.
func (s *Store) CreateSubOperation(ctx context.Context, name, operationID string) (models.SubOperation, error) {
	if _, err := s.GetOperation(ctx, operationID); err != nil {
		return models.SubOperation{}, err
	}

	sub := models.SubOperation{ID: newID(), Name: name, OperationID: operationID}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO sub_operation (id, name, operation_id) VALUES (?, ?, ?)
	`), sub.ID, sub.Name, sub.OperationID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.SubOperation{}, fmt.Errorf("sub-operation %q: %w", name, ErrConflict)
		}
		return models.SubOperation{}, fmt.Errorf("failed to insert sub-operation: %w", err)
	}
	return sub, nil
}

func (s *Store) GetSubOperation(ctx context.Context, id string) (models.SubOperation, error) {
	var sub models.SubOperation
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name, operation_id FROM sub_operation WHERE id = ?
	`), id).Scan(&sub.ID, &sub.Name, &sub.OperationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SubOperation{}, fmt.Errorf("sub-operation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.SubOperation{}, fmt.Errorf("failed to query sub-operation: %w", err)
	}
	return sub, nil
}

func (s *Store) GetSubOperationByName(ctx context.Context, operationID, name string) (models.SubOperation, error) {
	var sub models.SubOperation
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, name, operation_id FROM sub_operation
		WHERE operation_id = ? AND name = ?
	`), operationID, name).Scan(&sub.ID, &sub.Name, &sub.OperationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SubOperation{}, fmt.Errorf("sub-operation %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return models.SubOperation{}, fmt.Errorf("failed to query sub-operation: %w", err)
	}
	return sub, nil
}

func (s *Store) ListSubOperations(ctx context.Context) ([]models.SubOperation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, operation_id FROM sub_operation ORDER BY operation_id, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-operations: %w", err)
	}
	defer rows.Close()

	subs := []models.SubOperation{}
	for rows.Next() {
		var sub models.SubOperation
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.OperationID); err != nil {
			return nil, fmt.Errorf("failed to scan sub-operation: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
