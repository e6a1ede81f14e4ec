// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the commands of the ops-survey binary.

# Command Registration

NewRouter creates a Router with every command registered:

	r, err := router.NewRouter(st, cfg)
	err = r.Dispatch(ctx, args, os.Stdout)

Every handler is wrapped with middleware.WithLogging.

# Commands

Health:

	health                       - Status, today, working-day index
	calendar [-month YYYY-MM]    - Working days of a month with indices

Answering:

	due -user NAME [-date D]                          - Questions due, with existing answers
	answer -user NAME -question ID -value V [-date D] - Record or overwrite an answer

Dashboard:

	completion [-date D]                               - Completed vs pending users
	pivot [-from D] [-to D] [-agg A] [-group-by dims]  - Aggregated answers

Catalog:

	seed -f catalog.yaml  - Get-or-create operations, users and questions
	add-question ...      - Create one question
	add-user ...          - Create one user
	questions [-active]   - List questions
	users                 - List users
	operations            - List operations with their sub-operations

Reminder:

	remind [-once] [-date D] - Scheduled completion report

Unknown commands and a missing command wrap models.ErrInvalidInput.
*/
package router
