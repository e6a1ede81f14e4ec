// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Two database types are supported:

  - sqlite: modernc.org/sqlite (pure Go), WAL mode, one open connection
  - postgres: github.com/lib/pq

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
There is no migration system; the DDL only ever adds tables.

# Tables

  - operation: Top level of the organization
  - sub_operation: Units inside an operation
  - app_user: People who answer questions
  - question: Recurring prompts with frequency and scope
  - answer: One value per (question, user, answer_date)

# Relationships

	operation 1──* sub_operation
	operation 1──* app_user, question (optional scope)
	sub_operation 1──* app_user, question (optional scope)
	question 1──* answer *──1 app_user

answer_date is stored as YYYY-MM-DD text so both databases compare it the
same way.
*/
package db
