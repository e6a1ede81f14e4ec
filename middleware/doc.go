// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides command middleware and helper functions.

# Command Logging

Wrap handlers with command logging:

	r.Register("due", middleware.WithLogging("due", surveyHandler.Due))

Logs command start (command, arg count) and completion (duration_ms), or
failure with the error.

# JSON Helpers

Write JSON output:

	middleware.JSONResponse(out, data)
	middleware.ErrorResponse(os.Stderr, err)

Parse JSON documents strictly:

	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(os.Stdin, &req); err != nil {
		return err
	}

# Flags

Commands parse their own flags with NewFlagSet and ParseArgs. Parse
failures and stray positional arguments wrap models.ErrInvalidInput.
ParseDate and ParseOptionalDate read YYYY-MM-DD flag values.

# Exit Codes

ExitCode maps errors to process exit status: 0 on success, 2 for
models.ErrInvalidInput, 1 for everything else.
*/
package middleware
