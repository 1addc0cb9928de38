package errors

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError(t *testing.T) {
	// Test NewValidationError
	err := NewValidationError("test_field", "test message", "test_value")

	if err.Field != "test_field" {
		t.Errorf("Expected field to be 'test_field', got '%s'", err.Field)
	}

	if err.Message != "test message" {
		t.Errorf("Expected message to be 'test message', got '%s'", err.Message)
	}

	if err.Value != "test_value" {
		t.Errorf("Expected value to be 'test_value', got '%v'", err.Value)
	}

	// Test Error method
	expected := "validation error on field 'test_field': test message"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	// Test empty ValidationErrors
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	// Test single ValidationError
	errs = append(errs, *NewValidationError("field1", "message1", nil))
	expected := "validation failed: field1 message1"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	// Test multiple ValidationErrors
	errs = append(errs, *NewValidationError("field2", "message2", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestToValidationErrors(t *testing.T) {
	type payload struct {
		Title      string   `validate:"required"`
		Categories []string `validate:"min=2"`
	}

	err := validator.New().Struct(payload{Categories: []string{"only"}})
	if err == nil {
		t.Fatal("expected struct validation to fail")
	}

	converted := ToValidationErrors(err)
	if len(converted) != 2 {
		t.Fatalf("expected 2 converted errors, got %d", len(converted))
	}

	if converted[0].Rule != "required" {
		t.Errorf("Expected rule 'required', got '%s'", converted[0].Rule)
	}
	if converted[0].Message != "is required" {
		t.Errorf("Expected message 'is required', got '%s'", converted[0].Message)
	}
	if converted[1].Message != "must be at least 2" {
		t.Errorf("Expected message 'must be at least 2', got '%s'", converted[1].Message)
	}
}

func TestToValidationErrorsIgnoresOtherErrors(t *testing.T) {
	converted := ToValidationErrors(errors.New("not a validator error"))
	if len(converted) != 0 {
		t.Errorf("Expected no converted errors, got %d", len(converted))
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("test_field", "test message", "required", "test_value")

	if err.Rule != "required" {
		t.Errorf("Expected rule to be 'required', got '%s'", err.Rule)
	}

	if err.Field != "test_field" {
		t.Errorf("Expected field to be 'test_field', got '%s'", err.Field)
	}
}
