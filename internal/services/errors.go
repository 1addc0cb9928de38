package services

import (
	"errors"

	apperrors "github.com/formlab/formbuilder/internal/errors"
	"github.com/formlab/formbuilder/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal error")

	// Form specific errors
	ErrFormNotFound      = errors.New("form not found")
	ErrFormNotRenderable = errors.New("form has no questions and cannot be answered")

	// Question specific errors
	ErrQuestionNotFound       = errors.New("question not found")
	ErrQuestionInvalidType    = errors.New("invalid question type")
	ErrQuestionTypeMismatch   = errors.New("answer type does not match question type")
	ErrQuestionInvalidContent = errors.New("invalid question content for type")

	// Edit boundary errors: removal below the variant minimum is rejected
	// rather than producing an invalid question.
	ErrMinCategories = errors.New("categorize questions keep at least 2 categories")
	ErrMinItems      = errors.New("categorize questions keep at least 2 items")
	ErrMinOptions    = errors.New("comprehension questions keep at least 2 options")
	ErrMinBlanks     = errors.New("cloze questions keep at least 1 blank")

	// Answering session errors
	ErrSessionSubmitted = errors.New("response already submitted")
	ErrNotAnswered      = errors.New("question has no answer yet")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, repositories.ErrNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsMinimumViolation checks if error represents a rejected removal below a
// variant's minimum list size
func IsMinimumViolation(err error) bool {
	return errors.Is(err, ErrMinCategories) ||
		errors.Is(err, ErrMinItems) ||
		errors.Is(err, ErrMinOptions) ||
		errors.Is(err, ErrMinBlanks)
}
