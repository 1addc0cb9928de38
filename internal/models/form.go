package models

import (
	"strings"
	"time"
)

// UntitledForm is the display fallback for forms saved without a title.
const UntitledForm = "Untitled Form"

// Form aggregates an ordered question sequence with its metadata. Question
// order is display and answer order. CreatedAt is immutable after the first
// save; UpdatedAt is refreshed on every save.
type Form struct {
	ID          string     `json:"id" validate:"required,uuid4"`
	Title       string     `json:"title" validate:"max=200"`
	HeaderImage string     `json:"headerImage,omitempty" validate:"omitempty,url"`
	Questions   []Question `json:"questions" validate:"dive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// DisplayTitle returns the title, falling back to UntitledForm when empty.
func (f *Form) DisplayTitle() string {
	if strings.TrimSpace(f.Title) == "" {
		return UntitledForm
	}
	return f.Title
}

// Renderable reports whether the form can be meaningfully answered. A form
// without questions is still a valid persisted draft.
func (f *Form) Renderable() bool {
	return len(f.Questions) > 0
}

// Question returns the question with the given id, or nil when absent.
func (f *Form) Question(id string) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}
