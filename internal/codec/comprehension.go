package codec

import (
	"encoding/json"
	"fmt"

	"github.com/formlab/formbuilder/internal/models"
)

// ComprehensionCodec handles single-selection answers. The persisted value
// is the literal option string; earlier deployments stored an object with a
// selectedOption field, which Decode still accepts.
type ComprehensionCodec struct{}

func (ComprehensionCodec) Type() models.QuestionType { return models.Comprehension }

func (ComprehensionCodec) Decode(raw json.RawMessage) (models.Answer, error) {
	var selected string
	if err := json.Unmarshal(raw, &selected); err == nil {
		return models.ComprehensionAnswer{SelectedOption: selected}, nil
	}

	var legacy struct {
		SelectedOption string `json:"selectedOption"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("invalid comprehension answer: %w", err)
	}
	return models.ComprehensionAnswer{SelectedOption: legacy.SelectedOption}, nil
}

func (ComprehensionCodec) Encode(answer models.Answer) (json.RawMessage, error) {
	a, ok := answer.(models.ComprehensionAnswer)
	if !ok {
		return nil, fmt.Errorf("expected comprehension answer, got %T", answer)
	}
	return json.Marshal(a.SelectedOption)
}

// Answered reports whether an option has been selected.
func (ComprehensionCodec) Answered(answer models.Answer) bool {
	a, ok := answer.(models.ComprehensionAnswer)
	return ok && a.SelectedOption != ""
}

// Validate requires the selection, when present, to match one of the
// question's current options. Stored responses are not revalidated after an
// option-text edit; a non-matching historical selection simply no longer
// resolves.
func (ComprehensionCodec) Validate(question *models.Question, answer models.Answer) error {
	content := question.Comprehension()
	if content == nil {
		return fmt.Errorf("question %s is not a comprehension question", question.ID)
	}
	a, ok := answer.(models.ComprehensionAnswer)
	if !ok {
		return fmt.Errorf("expected comprehension answer, got %T", answer)
	}

	if a.SelectedOption == "" {
		return nil
	}
	if !content.HasOption(a.SelectedOption) {
		return fmt.Errorf("selected option %q is not one of the question's options", a.SelectedOption)
	}
	return nil
}
