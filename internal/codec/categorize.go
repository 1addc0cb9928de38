package codec

import (
	"encoding/json"
	"fmt"

	"github.com/formlab/formbuilder/internal/models"
)

// CategorizeCodec handles drag-and-drop category assignments. An item lives
// in at most one category's list; moves performed through
// models.CategorizeAnswer.Assign keep that invariant in steady state.
type CategorizeCodec struct{}

func (CategorizeCodec) Type() models.QuestionType { return models.Categorize }

func (CategorizeCodec) Decode(raw json.RawMessage) (models.Answer, error) {
	var answer models.CategorizeAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, fmt.Errorf("invalid categorize answer: %w", err)
	}
	if answer == nil {
		answer = models.CategorizeAnswer{}
	}
	return answer, nil
}

func (CategorizeCodec) Encode(answer models.Answer) (json.RawMessage, error) {
	return json.Marshal(answer)
}

// Answered reports whether at least one item has been assigned. Full
// assignment of every item is deliberately not required.
func (CategorizeCodec) Answered(answer models.Answer) bool {
	a, ok := answer.(models.CategorizeAnswer)
	return ok && a.AssignedCount() > 0
}

// Validate checks the assignments against the question definition: every
// category key must be defined, every assigned item must come from the
// question's item list, and no item may be assigned more than once.
func (CategorizeCodec) Validate(question *models.Question, answer models.Answer) error {
	content := question.Categorize()
	if content == nil {
		return fmt.Errorf("question %s is not a categorize question", question.ID)
	}
	a, ok := answer.(models.CategorizeAnswer)
	if !ok {
		return fmt.Errorf("expected categorize answer, got %T", answer)
	}

	seen := make(map[string]bool)
	for category, items := range a {
		if !content.HasCategory(category) {
			return fmt.Errorf("unknown category %q", category)
		}
		for _, item := range items {
			if !content.HasItem(item) {
				return fmt.Errorf("item %q is not part of the question", item)
			}
			if seen[item] {
				return fmt.Errorf("item %q is assigned to more than one category", item)
			}
			seen[item] = true
		}
	}
	return nil
}
