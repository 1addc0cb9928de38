package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// FormResponse is one respondent's submission. The form reference is weak:
// deleting the form later does not invalidate stored responses. Answers are
// keyed by question id and kept in their persisted encoding; decode them
// through the codec package against the owning question's definition.
// Responses are immutable once submitted.
type FormResponse struct {
	ID          string                     `json:"id" validate:"required,uuid4"`
	FormID      string                     `json:"formId" validate:"required"`
	Answers     map[string]json.RawMessage `json:"answers"`
	SubmittedAt time.Time                  `json:"submittedAt"`
}

// AnswerCount returns the number of answered questions.
func (r *FormResponse) AnswerCount() int {
	return len(r.Answers)
}

// Answered reports whether the question has an entry that is neither JSON
// null nor an empty string. This is the uniform session-level gate; the
// per-variant completeness predicates live in the codec package.
func (r *FormResponse) Answered(questionID string) bool {
	raw, ok := r.Answers[questionID]
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return false
	}
	return true
}
