package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/formlab/formbuilder/internal/models"
)

// BlankCount returns the number of answer slots a cloze text renders, which
// is the number of blank marker occurrences. This count is authoritative
// over the length of the stored blanks list, which may drift during editing.
func BlankCount(text string) int {
	return strings.Count(text, models.BlankMarker)
}

// Segments splits a cloze text on its blank markers. A slot is rendered
// between every pair of adjacent segments.
func Segments(text string) []string {
	return strings.Split(text, models.BlankMarker)
}

// ClozeCodec handles fill-in-the-blank answers keyed by 0-based slot index.
type ClozeCodec struct{}

func (ClozeCodec) Type() models.QuestionType { return models.Cloze }

func (ClozeCodec) Decode(raw json.RawMessage) (models.Answer, error) {
	var answer models.ClozeAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, fmt.Errorf("invalid cloze answer: %w", err)
	}
	if answer == nil {
		answer = models.ClozeAnswer{}
	}
	// Untouched slots stay absent rather than empty.
	for index, text := range answer {
		if text == "" {
			delete(answer, index)
		}
	}
	return answer, nil
}

func (ClozeCodec) Encode(answer models.Answer) (json.RawMessage, error) {
	return json.Marshal(answer)
}

// Answered reports whether at least one blank holds a non-empty string.
func (ClozeCodec) Answered(answer models.Answer) bool {
	a, ok := answer.(models.ClozeAnswer)
	return ok && len(a) > 0
}

// Validate checks slot indices against the marker count of the question
// text. Indices are 0-based and must fall inside the rendered slot range.
func (ClozeCodec) Validate(question *models.Question, answer models.Answer) error {
	if question.Cloze() == nil {
		return fmt.Errorf("question %s is not a cloze question", question.ID)
	}
	a, ok := answer.(models.ClozeAnswer)
	if !ok {
		return fmt.Errorf("expected cloze answer, got %T", answer)
	}

	slots := BlankCount(question.Text)
	for index := range a {
		if index < 0 || index >= slots {
			return fmt.Errorf("blank index %d is outside the question's %d slots", index, slots)
		}
	}
	return nil
}
