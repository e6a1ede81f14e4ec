// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to types both sqlite and postgres accept.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Operations
CREATE TABLE IF NOT EXISTS operation (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- Sub-operations
CREATE TABLE IF NOT EXISTS sub_operation (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    operation_id TEXT NOT NULL REFERENCES operation(id) ON DELETE CASCADE,
    UNIQUE (operation_id, name)
);

CREATE INDEX IF NOT EXISTS idx_sub_operation_operation_id ON sub_operation(operation_id);

-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    full_name TEXT,
    role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    operation_id TEXT REFERENCES operation(id) ON DELETE SET NULL,
    sub_operation_id TEXT REFERENCES sub_operation(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL,
    response_type TEXT NOT NULL DEFAULT 'text' CHECK (response_type IN ('number', 'text')),
    frequency TEXT NOT NULL DEFAULT 'daily' CHECK (frequency IN ('daily', 'monthly')),
    monthly_day INTEGER CHECK (monthly_day BETWEEN 1 AND 31),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    operation_id TEXT REFERENCES operation(id) ON DELETE SET NULL,
    sub_operation_id TEXT REFERENCES sub_operation(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((frequency = 'monthly') = (monthly_day IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_question_active ON question(is_active);

-- Answers (answer_date is YYYY-MM-DD text)
CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    answer_value TEXT NOT NULL,
    answer_date TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (question_id, user_id, answer_date)
);

CREATE INDEX IF NOT EXISTS idx_answer_date ON answer(answer_date);
CREATE INDEX IF NOT EXISTS idx_answer_user_date ON answer(user_id, answer_date);
`
