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

const userColumns = `id, username, full_name, role, is_active, operation_id, sub_operation_id, created_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var fullName, opID, subOpID sql.NullString
	err := row.Scan(&u.ID, &u.Username, &fullName, &u.Role, &u.IsActive, &opID, &subOpID, &u.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	u.FullName = nullString(fullName)
	u.OperationID = nullString(opID)
	u.SubOperationID = nullString(subOpID)
	return u, nil
}

// CreateUser inserts u with a fresh ID. Usernames are unique.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.ID = newID()
	u.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO app_user (id, username, full_name, role, is_active, operation_id, sub_operation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), u.ID, u.Username, u.FullName, u.Role, u.IsActive, u.OperationID, u.SubOperationID, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("username %q: %w", u.Username, ErrConflict)
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+userColumns+` FROM app_user WHERE id = ?
	`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, s.rebind(`
		SELECT `+userColumns+` FROM app_user WHERE username = ?
	`), username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM app_user ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers counts every user row, active or not.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_user`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
