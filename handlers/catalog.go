// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/danielhkuo/ops-survey/cliparse"
	"github.com/danielhkuo/ops-survey/middleware"
	"github.com/danielhkuo/ops-survey/models"
	"github.com/danielhkuo/ops-survey/store"
)

type CatalogHandler struct {
	st  *store.Store
	cfg cliparse.Config
}

func NewCatalogHandler(st *store.Store, cfg cliparse.Config) *CatalogHandler {
	return &CatalogHandler{st: st, cfg: cfg}
}

// Seed handles `seed -f catalog.yaml|catalog.json`
func (h *CatalogHandler) Seed(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("seed", os.Stderr)
	path := fs.String("f", "", "Catalog file (.yaml, .yml or .json)")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("%w: -f is required", models.ErrInvalidInput)
	}

	seed, err := readSeedFile(*path)
	if err != nil {
		return err
	}
	if err := validateSeed(seed); err != nil {
		return err
	}

	report, err := h.applySeed(ctx, seed)
	if err != nil {
		return err
	}

	slog.Info("catalog seeded",
		"file", *path,
		"operations_created", report.OperationsCreated,
		"users_created", report.UsersCreated,
		"questions_created", report.QuestionsCreated,
	)

	return middleware.JSONResponse(out, report)
}

func readSeedFile(path string) (models.SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.SeedFile{}, fmt.Errorf("read catalog: %w", err)
	}

	jb, err := coerceToJSONBytes(path, data)
	if err != nil {
		return models.SeedFile{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	var seed models.SeedFile
	if err := middleware.ParseJSONBody(bytes.NewReader(jb), &seed); err != nil {
		return models.SeedFile{}, fmt.Errorf("catalog %s: %w", filepath.Base(path), err)
	}
	return seed, nil
}

// coerceToJSONBytes converts a YAML catalog to JSON so both formats go
// through the same strict decoder.
func coerceToJSONBytes(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	j, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = normalizeYAML(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}

// validateSeed checks every entry before anything is written.
func validateSeed(seed models.SeedFile) error {
	for i, op := range seed.Operations {
		if strings.TrimSpace(op.Name) == "" {
			return fmt.Errorf("%w: operations[%d]: name is required", models.ErrInvalidInput, i)
		}
	}
	for i, u := range seed.Users {
		req := models.CreateUserRequest{Username: u.Username, FullName: u.FullName, Role: u.Role}
		if err := validateRequest(req); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		if err := checkScopeNames(u.Operation, u.SubOperation); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
	}
	for i, q := range seed.Questions {
		if err := validateQuestion(questionRequest(q)); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
		if err := checkScopeNames(q.Operation, q.SubOperation); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
	}
	return nil
}

// Sub-operation names are only unique within an operation.
func checkScopeNames(operation, subOperation string) error {
	if subOperation != "" && operation == "" {
		return fmt.Errorf("%w: sub_operation %q needs an operation", models.ErrInvalidInput, subOperation)
	}
	return nil
}

func questionRequest(q models.SeedQuestion) models.CreateQuestionRequest {
	return models.CreateQuestionRequest{
		Prompt:       q.Prompt,
		ResponseType: q.ResponseType,
		Frequency:    q.Frequency,
		MonthlyDay:   q.MonthlyDay,
		IsActive:     q.IsActive,
	}
}

func (h *CatalogHandler) applySeed(ctx context.Context, seed models.SeedFile) (models.SeedReport, error) {
	var report models.SeedReport

	for _, op := range seed.Operations {
		operation, err := h.ensureOperation(ctx, op.Name, &report)
		if err != nil {
			return report, err
		}
		for _, sub := range op.SubOperations {
			if _, err := h.ensureSubOperation(ctx, operation.ID, sub, &report); err != nil {
				return report, err
			}
		}
	}

	for _, u := range seed.Users {
		if _, err := h.st.GetUserByUsername(ctx, u.Username); err == nil {
			report.UsersSkipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return report, err
		}

		opID, subID, err := h.ensureScope(ctx, u.Operation, u.SubOperation, &report)
		if err != nil {
			return report, err
		}

		if _, err := h.st.CreateUser(ctx, models.User{
			Username:       u.Username,
			FullName:       u.FullName,
			Role:           u.Role,
			IsActive:       true,
			OperationID:    opID,
			SubOperationID: subID,
		}); err != nil {
			return report, err
		}
		report.UsersCreated++
	}

	for _, q := range seed.Questions {
		opID, subID, err := h.ensureScope(ctx, q.Operation, q.SubOperation, &report)
		if err != nil {
			return report, err
		}

		if _, err := h.st.FindQuestion(ctx, q.Prompt, opID, subID); err == nil {
			report.QuestionsSkipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return report, err
		}

		req := questionRequest(q)
		req.OperationID, req.SubOperationID = opID, subID
		if _, err := h.createQuestion(ctx, req); err != nil {
			return report, err
		}
		report.QuestionsCreated++
	}

	return report, nil
}

func (h *CatalogHandler) ensureOperation(ctx context.Context, name string, report *models.SeedReport) (models.Operation, error) {
	op, err := h.st.GetOperationByName(ctx, name)
	if err == nil {
		return op, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.Operation{}, err
	}

	op, err = h.st.CreateOperation(ctx, name)
	if err != nil {
		return models.Operation{}, err
	}
	report.OperationsCreated++
	return op, nil
}

func (h *CatalogHandler) ensureSubOperation(ctx context.Context, operationID, name string, report *models.SeedReport) (models.SubOperation, error) {
	sub, err := h.st.GetSubOperationByName(ctx, operationID, name)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.SubOperation{}, err
	}

	sub, err = h.st.CreateSubOperation(ctx, name, operationID)
	if err != nil {
		return models.SubOperation{}, err
	}
	report.SubOperationsCreated++
	return sub, nil
}

// ensureScope resolves scope names to IDs, creating what is missing.
// Empty names mean unscoped.
func (h *CatalogHandler) ensureScope(ctx context.Context, operation, subOperation string, report *models.SeedReport) (*string, *string, error) {
	if operation == "" {
		return nil, nil, nil
	}

	op, err := h.ensureOperation(ctx, operation, report)
	if err != nil {
		return nil, nil, err
	}
	if subOperation == "" {
		return &op.ID, nil, nil
	}

	sub, err := h.ensureSubOperation(ctx, op.ID, subOperation, report)
	if err != nil {
		return nil, nil, err
	}
	return &op.ID, &sub.ID, nil
}

// lookupScope resolves scope names to existing IDs. Unknown names are
// invalid input.
func (h *CatalogHandler) lookupScope(ctx context.Context, operation, subOperation string) (*string, *string, error) {
	if err := checkScopeNames(operation, subOperation); err != nil {
		return nil, nil, err
	}
	if operation == "" {
		return nil, nil, nil
	}

	op, err := h.st.GetOperationByName(ctx, operation)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: unknown operation %q", models.ErrInvalidInput, operation)
	}
	if err != nil {
		return nil, nil, err
	}
	if subOperation == "" {
		return &op.ID, nil, nil
	}

	sub, err := h.st.GetSubOperationByName(ctx, op.ID, subOperation)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: unknown sub-operation %q in %q", models.ErrInvalidInput, subOperation, operation)
	}
	if err != nil {
		return nil, nil, err
	}
	return &op.ID, &sub.ID, nil
}

// createQuestion validates req and stores it. Questions are active unless
// is_active is explicitly false.
func (h *CatalogHandler) createQuestion(ctx context.Context, req models.CreateQuestionRequest) (models.Question, error) {
	if err := validateQuestion(req); err != nil {
		return models.Question{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return h.st.CreateQuestion(ctx, models.Question{
		Prompt:         req.Prompt,
		ResponseType:   req.ResponseType,
		Frequency:      req.Frequency,
		MonthlyDay:     req.MonthlyDay,
		IsActive:       active,
		OperationID:    req.OperationID,
		SubOperationID: req.SubOperationID,
	})
}

// CreateQuestion handles `add-question -prompt P [-type number|text]
// [-frequency daily|monthly] [-monthly-day N] [-operation NAME]
// [-sub-operation NAME] [-inactive]`
func (h *CatalogHandler) CreateQuestion(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("add-question", os.Stderr)
	prompt := fs.String("prompt", "", "Question text")
	responseType := fs.String("type", models.ResponseNumber, "Response type: number or text")
	frequency := fs.String("frequency", models.FrequencyDaily, "Frequency: daily or monthly")
	monthlyDay := fs.Int("monthly-day", 0, "Working-day index for monthly questions (1-31)")
	operation := fs.String("operation", "", "Operation name (empty: all operations)")
	subOperation := fs.String("sub-operation", "", "Sub-operation name within -operation")
	inactive := fs.Bool("inactive", false, "Create the question inactive")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	opID, subID, err := h.lookupScope(ctx, *operation, *subOperation)
	if err != nil {
		return err
	}

	active := !*inactive
	req := models.CreateQuestionRequest{
		Prompt:         *prompt,
		ResponseType:   *responseType,
		Frequency:      *frequency,
		IsActive:       &active,
		OperationID:    opID,
		SubOperationID: subID,
	}
	if flagSet(fs, "monthly-day") {
		req.MonthlyDay = monthlyDay
	}

	q, err := h.createQuestion(ctx, req)
	if err != nil {
		return err
	}

	slog.Info("question created", "question_id", q.ID, "frequency", q.Frequency)

	return middleware.JSONResponse(out, q)
}

// CreateUser handles `add-user -username NAME [-full-name N] [-role admin|user]
// [-operation NAME] [-sub-operation NAME]`
func (h *CatalogHandler) CreateUser(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("add-user", os.Stderr)
	username := fs.String("username", "", "Unique username")
	fullName := fs.String("full-name", "", "Display name")
	role := fs.String("role", models.RoleUser, "Role: admin or user")
	operation := fs.String("operation", "", "Operation name")
	subOperation := fs.String("sub-operation", "", "Sub-operation name within -operation")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	opID, subID, err := h.lookupScope(ctx, *operation, *subOperation)
	if err != nil {
		return err
	}

	req := models.CreateUserRequest{
		Username:       *username,
		Role:           *role,
		OperationID:    opID,
		SubOperationID: subID,
	}
	if *fullName != "" {
		req.FullName = fullName
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	u, err := h.st.CreateUser(ctx, models.User{
		Username:       req.Username,
		FullName:       req.FullName,
		Role:           req.Role,
		IsActive:       true,
		OperationID:    req.OperationID,
		SubOperationID: req.SubOperationID,
	})
	if errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: username already registered", models.ErrInvalidInput)
	}
	if err != nil {
		return err
	}

	slog.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)

	return middleware.JSONResponse(out, u)
}

// Questions handles `questions`
func (h *CatalogHandler) Questions(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("questions", os.Stderr)
	activeOnly := fs.Bool("active", false, "Only list active questions")
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	var (
		questions []models.Question
		err       error
	)
	if *activeOnly {
		questions, err = h.st.ListActiveQuestions(ctx)
	} else {
		questions, err = h.st.ListQuestions(ctx)
	}
	if err != nil {
		return err
	}
	return middleware.JSONResponse(out, questions)
}

// Users handles `users`
func (h *CatalogHandler) Users(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("users", os.Stderr)
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	users, err := h.st.ListUsers(ctx)
	if err != nil {
		return err
	}
	return middleware.JSONResponse(out, users)
}

// Operations handles `operations`: every operation with its sub-operations.
func (h *CatalogHandler) Operations(ctx context.Context, args []string, out io.Writer) error {
	fs := middleware.NewFlagSet("operations", os.Stderr)
	if err := middleware.ParseArgs(fs, args); err != nil {
		return err
	}

	ops, err := h.st.ListOperations(ctx)
	if err != nil {
		return err
	}
	subs, err := h.st.ListSubOperations(ctx)
	if err != nil {
		return err
	}

	type operationView struct {
		models.Operation
		SubOperations []models.SubOperation `json:"sub_operations"`
	}

	bySub := make(map[string][]models.SubOperation, len(ops))
	for _, s := range subs {
		bySub[s.OperationID] = append(bySub[s.OperationID], s)
	}

	views := make([]operationView, 0, len(ops))
	for _, op := range ops {
		children := bySub[op.ID]
		if children == nil {
			children = []models.SubOperation{}
		}
		views = append(views, operationView{Operation: op, SubOperations: children})
	}
	return middleware.JSONResponse(out, views)
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
