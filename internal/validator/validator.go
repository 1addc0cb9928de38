package validator

import (
	"reflect"
	"strings"

	"github.com/formlab/formbuilder/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance combining struct-tag validation
// with per-variant question content validation.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateForm performs complete form validation: struct tags first, then
// the content payload of every question.
func (v *Validator) ValidateForm(form *models.Form) error {
	if err := v.structValidator.Struct(form); err != nil {
		return err
	}
	for i := range form.Questions {
		if err := v.questionValidator.ValidateQuestion(&form.Questions[i]); err != nil {
			return err
		}
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.Categorize, models.Cloze, models.Comprehension:
		return true
	}
	return false
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)

	// Report fields under their json names for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
