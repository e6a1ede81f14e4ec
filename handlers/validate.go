// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/ops-survey/models"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and turns failures into
// models.ErrInvalidInput listing each offending field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, strings.Join(msgs, "; "))
}

// validateQuestion adds the cross-field rule the tags cannot express.
func validateQuestion(req models.CreateQuestionRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if req.Frequency == models.FrequencyMonthly && req.MonthlyDay == nil {
		return fmt.Errorf("%w: monthly_day is required for monthly questions", models.ErrInvalidInput)
	}
	if req.Frequency != models.FrequencyMonthly && req.MonthlyDay != nil {
		return fmt.Errorf("%w: monthly_day is only valid for monthly questions", models.ErrInvalidInput)
	}
	return nil
}
