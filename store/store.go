// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/ops-survey/db"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store reads and writes survey records. Queries are written with ?
// placeholders and rebound for postgres.
type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func New(conn *sql.DB, dialect string) *Store {
	return &Store{db: conn, dialect: dialect, now: time.Now}
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// rebind rewrites ? placeholders to $1, $2, ... for postgres
func (s *Store) rebind(query string) string {
	if s.dialect != db.TypePostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newID() string {
	return uuid.NewString()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"))
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// scopeKey maps an optional scope id to the value COALESCE(col, '') yields.
func scopeKey(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
