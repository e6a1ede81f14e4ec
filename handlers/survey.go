// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/schedule"
	"github.com/danielhkuo/ops-survey/store"
)

type SurveyHandler struct {
	st  *store.Store
	cfg cliparse.Config
	now func() time.Time
}

func NewSurveyHandler(st *store.Store, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{st: st, cfg: cfg, now: cfg.Today}
}

// Due handles `due -user NAME [-date D]`
func (h *SurveyHandler) Due(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("due", os.Stderr)
	username := fs.String("user", "", "Username to list questions for")
	dateStr := fs.String("date", "", "Date (YYYY-MM-DD), default today")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	day, err := middleware.ParseDate(*dateStr, h.now())
	if err != nil {
		return err
	}

	user, err := activeUser(ctx, h.st, *username)
	if err != nil {
		return err
	}

	result := []models.QuestionWithAnswer{}

	// Nothing is due on a non-working day
	if !schedule.IsWorkingDay(day.Time) {
		return middleware.JSONResponse(out, result)
	}

	questions, err := h.st.ListActiveQuestions(ctx)
	if err != nil {
		return err
	}
	due := schedule.DueFor(questions, user, day.Time)

	answers, err := h.st.ListAnswersForUser(ctx, user.ID, day)
	if err != nil {
		return err
	}
	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	for _, q := range due {
		item := models.QuestionWithAnswer{Question: q}
		if a, ok := byQuestion[q.ID]; ok {
			item.Answer = &a
		}
		result = append(result, item)
	}

	slog.Debug("due questions listed", "user", user.Username, "date", day.String(), "count", len(result))

	return middleware.JSONResponse(out, result)
}

// Answer handles `answer -user NAME -question ID -value V [-date D]`
func (h *SurveyHandler) Answer(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("answer", os.Stderr)
	username := fs.String("user", "", "Username answering")
	questionID := fs.String("question", "", "Question ID")
	value := fs.String("value", "", "Answer value")
	dateStr := fs.String("date", "", "Answer date (YYYY-MM-DD), default today")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	day, err := middleware.ParseDate(*dateStr, h.now())
	if err != nil {
		return err
	}

	req := models.SubmitAnswerRequest{
		QuestionID:  *questionID,
		AnswerValue: *value,
		AnswerDate:  &day,
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	user, err := activeUser(ctx, h.st, *username)
	if err != nil {
		return err
	}

	question, err := h.st.GetQuestion(ctx, req.QuestionID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: question %q not found", models.ErrInvalidInput, req.QuestionID)
	}
	if err != nil {
		return err
	}

	if !schedule.IsDue(question, day.Time) {
		return fmt.Errorf("%w: question is not scheduled for %s", models.ErrInvalidInput, day)
	}

	answer, err := h.st.UpsertAnswer(ctx, models.Answer{
		QuestionID:  question.ID,
		UserID:      user.ID,
		AnswerValue: req.AnswerValue,
		AnswerDate:  day,
	})
	if err != nil {
		return err
	}

	slog.Info("answer recorded",
		"user", user.Username,
		"question_id", question.ID,
		"answer_date", day.String(),
	)

	return middleware.JSONResponse(out, answer)
}

// activeUser resolves a username to an active user, reporting unknown or
// inactive users as invalid input.
func activeUser(ctx context.Context, st *store.Store, username string) (models.User, error) {
	if username == "" {
		return models.User{}, fmt.Errorf("%w: -user is required", models.ErrInvalidInput)
	}

	user, err := st.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("%w: unknown user %q", models.ErrInvalidInput, username)
	}
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, fmt.Errorf("%w: user %q is inactive", models.ErrInvalidInput, username)
	}
	return user, nil
}
