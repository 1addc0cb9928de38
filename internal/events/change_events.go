package events

import (
	"time"

	"github.com/google/uuid"
)

// ChangesTopic carries every collection change. It is the in-process
// analogue of the browser's storage event: observers (another "tab", an
// analytics cache) learn that the persisted collections moved.
const ChangesTopic = "formbuilder.changes"

type EventType string

const (
	EventFormSaved         EventType = "form.saved"
	EventFormDeleted       EventType = "form.deleted"
	EventResponseSubmitted EventType = "response.submitted"
)

// ChangeEvent describes one mutation of the persisted collections.
type ChangeEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	FormID     string    `json:"form_id"`
	ResponseID string    `json:"response_id,omitempty"`
	Source     string    `json:"source"`
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
}

func newChangeEvent(eventType EventType, formID, responseID string) *ChangeEvent {
	return &ChangeEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		FormID:     formID,
		ResponseID: responseID,
		Source:     "formbuilder",
		Version:    "1.0",
		Timestamp:  time.Now(),
	}
}

// NewFormSaved creates the event published after a successful form upsert.
func NewFormSaved(formID string) *ChangeEvent {
	return newChangeEvent(EventFormSaved, formID, "")
}

// NewFormDeleted creates the event published after a form removal.
func NewFormDeleted(formID string) *ChangeEvent {
	return newChangeEvent(EventFormDeleted, formID, "")
}

// NewResponseSubmitted creates the event published after a response append.
func NewResponseSubmitted(formID, responseID string) *ChangeEvent {
	return newChangeEvent(EventResponseSubmitted, formID, responseID)
}
