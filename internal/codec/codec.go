package codec

import (
	"encoding/json"
	"fmt"

	"github.com/formlab/formbuilder/internal/models"
)

// Codec translates between the persisted answer encoding and the typed
// answer value for one question variant, and carries the variant's
// completeness predicate used to gate submission.
type Codec interface {
	Type() models.QuestionType
	Decode(raw json.RawMessage) (models.Answer, error)
	Encode(answer models.Answer) (json.RawMessage, error)
	Answered(answer models.Answer) bool
	Validate(question *models.Question, answer models.Answer) error
}

var codecs = map[models.QuestionType]Codec{
	models.Categorize:    CategorizeCodec{},
	models.Cloze:         ClozeCodec{},
	models.Comprehension: ComprehensionCodec{},
}

// ForType returns the codec for a question type.
func ForType(t models.QuestionType) (Codec, error) {
	c, ok := codecs[t]
	if !ok {
		return nil, fmt.Errorf("no answer codec for question type %q", t)
	}
	return c, nil
}

// ForQuestion returns the codec selected by the question's type tag.
func ForQuestion(q *models.Question) (Codec, error) {
	return ForType(q.Type)
}

// DecodeAnswer resolves the codec through the owning question's definition
// and decodes the raw payload into its typed answer value.
func DecodeAnswer(q *models.Question, raw json.RawMessage) (models.Answer, error) {
	c, err := ForQuestion(q)
	if err != nil {
		return nil, err
	}
	return c.Decode(raw)
}

// EncodeAnswer encodes a typed answer value into its persisted form using
// the owning question's codec.
func EncodeAnswer(q *models.Question, answer models.Answer) (json.RawMessage, error) {
	c, err := ForQuestion(q)
	if err != nil {
		return nil, err
	}
	if answer.AnswerType() != q.Type {
		return nil, fmt.Errorf("answer type %q does not match question type %q", answer.AnswerType(), q.Type)
	}
	return c.Encode(answer)
}
