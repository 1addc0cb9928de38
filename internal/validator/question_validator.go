package validator

import (
	"fmt"

	"github.com/formlab/formbuilder/internal/models"
)

// Minimum list sizes enforced at the construction/edit boundary. Removal
// below these counts is rejected rather than producing an invalid question.
const (
	MinCategories = 2
	MinItems      = 2
	MinOptions    = 2
	MinBlanks     = 1
)

// QuestionValidator handles validation logic for questions
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if question.Content == nil {
		return fmt.Errorf("question content cannot be nil")
	}
	if question.Content.QuestionType() != question.Type {
		return fmt.Errorf("question type %q does not match its %q content payload",
			question.Type, question.Content.QuestionType())
	}
	return v.ValidateContent(question.Type, question.Content)
}

// ValidateContent validates question content based on question type
func (v *QuestionValidator) ValidateContent(questionType models.QuestionType, content models.QuestionContent) error {
	if content == nil {
		return fmt.Errorf("content cannot be nil")
	}

	switch questionType {
	case models.Categorize:
		return v.validateCategorizeContent(content)
	case models.Cloze:
		return v.validateClozeContent(content)
	case models.Comprehension:
		return v.validateComprehensionContent(content)
	default:
		return fmt.Errorf("unsupported question type: %s", questionType)
	}
}

// BlankDrift returns the difference between the marker count in the question
// text and the stored blanks list for a cloze question, and zero for every
// other variant. Drift is legal while a form is being edited; callers may
// surface it as a warning.
func (v *QuestionValidator) BlankDrift(question *models.Question) int {
	content := question.Cloze()
	if content == nil {
		return 0
	}
	markers := 0
	for _, r := range question.Text {
		if string(r) == models.BlankMarker {
			markers++
		}
	}
	return markers - len(content.Blanks)
}

func (v *QuestionValidator) validateCategorizeContent(content models.QuestionContent) error {
	c, ok := content.(*models.CategorizeContent)
	if !ok {
		return fmt.Errorf("invalid categorize content structure: %T", content)
	}

	if len(c.Categories) < MinCategories {
		return fmt.Errorf("categorize questions must have at least %d categories", MinCategories)
	}
	if len(c.Items) < MinItems {
		return fmt.Errorf("categorize questions must have at least %d items", MinItems)
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, category := range c.Categories {
		if seen[category] {
			return fmt.Errorf("duplicate category %q", category)
		}
		seen[category] = true
	}
	return nil
}

func (v *QuestionValidator) validateClozeContent(content models.QuestionContent) error {
	c, ok := content.(*models.ClozeContent)
	if !ok {
		return fmt.Errorf("invalid cloze content structure: %T", content)
	}

	// Blank entries may be empty while editing; only the count is enforced.
	// That the entry count matches the marker count in the text is not
	// enforced either, see BlankDrift.
	if len(c.Blanks) < MinBlanks {
		return fmt.Errorf("cloze questions must have at least %d blank", MinBlanks)
	}
	return nil
}

func (v *QuestionValidator) validateComprehensionContent(content models.QuestionContent) error {
	c, ok := content.(*models.ComprehensionContent)
	if !ok {
		return fmt.Errorf("invalid comprehension content structure: %T", content)
	}

	if len(c.Options) < MinOptions {
		return fmt.Errorf("comprehension questions must have at least %d options", MinOptions)
	}
	return nil
}
