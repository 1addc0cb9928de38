package models

import (
	"encoding/json"
	"fmt"
)

type QuestionType string

const (
	Categorize    QuestionType = "categorize"
	Cloze         QuestionType = "cloze"
	Comprehension QuestionType = "comprehension"
)

// BlankMarker is the character that marks a blank inside cloze question text.
const BlankMarker = "_"

// QuestionContent is the payload carried by exactly one question variant.
// The concrete type is determined by the question's Type tag; payloads of
// other variants are never present on the same question.
type QuestionContent interface {
	QuestionType() QuestionType
}

// CategorizeContent holds the categories and the items to be distributed
// among them by the respondent.
type CategorizeContent struct {
	Categories []string `json:"categories" validate:"required,min=2,unique"`
	Items      []string `json:"options" validate:"required,min=2"`
}

func (CategorizeContent) QuestionType() QuestionType { return Categorize }

// HasCategory reports whether label is one of the defined categories.
func (c *CategorizeContent) HasCategory(label string) bool {
	for _, cat := range c.Categories {
		if cat == label {
			return true
		}
	}
	return false
}

// HasItem reports whether label is one of the items to categorize.
func (c *CategorizeContent) HasItem(label string) bool {
	for _, item := range c.Items {
		if item == label {
			return true
		}
	}
	return false
}

// ClozeContent holds the expected answers, one per blank marker occurrence
// in the question text. The marker count in the text is authoritative for
// rendering; Blanks may diverge from it while the form is being edited.
type ClozeContent struct {
	Blanks []string `json:"blanks" validate:"required,min=1"`
}

func (ClozeContent) QuestionType() QuestionType { return Cloze }

// ComprehensionContent holds a reading passage and the single-choice options.
type ComprehensionContent struct {
	Passage string   `json:"passage"`
	Options []string `json:"options" validate:"required,min=2"`
}

func (ComprehensionContent) QuestionType() QuestionType { return Comprehension }

// HasOption reports whether option is one of the defined choices.
func (c *ComprehensionContent) HasOption(option string) bool {
	for _, opt := range c.Options {
		if opt == option {
			return true
		}
	}
	return false
}

// Question is a tagged variant: Type selects which QuestionContent payload
// is carried. On the wire the payload fields are flattened into the question
// object (options, categories, passage, blanks) with foreign-variant fields
// absent, matching the persisted format.
type Question struct {
	ID      string          `json:"id" validate:"required,uuid4"`
	Type    QuestionType    `json:"type" validate:"required,question_type"`
	Text    string          `json:"text"`
	Image   string          `json:"image,omitempty" validate:"omitempty,url"`
	Content QuestionContent `json:"-" validate:"required"`
}

// questionWire is the flat persisted shape shared by all variants.
type questionWire struct {
	ID         string       `json:"id"`
	Type       QuestionType `json:"type"`
	Text       string       `json:"text"`
	Image      string       `json:"image,omitempty"`
	Options    []string     `json:"options,omitempty"`
	Categories []string     `json:"categories,omitempty"`
	Passage    *string      `json:"passage,omitempty"`
	Blanks     []string     `json:"blanks,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID:    q.ID,
		Type:  q.Type,
		Text:  q.Text,
		Image: q.Image,
	}

	switch content := q.Content.(type) {
	case *CategorizeContent:
		w.Categories = content.Categories
		w.Options = content.Items
	case *ClozeContent:
		w.Blanks = content.Blanks
	case *ComprehensionContent:
		w.Passage = &content.Passage
		w.Options = content.Options
	case nil:
		return nil, fmt.Errorf("question %s has no content payload", q.ID)
	default:
		return nil, fmt.Errorf("question %s has unsupported content type %T", q.ID, q.Content)
	}

	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	q.ID = w.ID
	q.Type = w.Type
	q.Text = w.Text
	q.Image = w.Image

	// Fields belonging to other variants are dropped here; only the payload
	// selected by the type tag survives the round trip.
	switch w.Type {
	case Categorize:
		q.Content = &CategorizeContent{
			Categories: w.Categories,
			Items:      w.Options,
		}
	case Cloze:
		q.Content = &ClozeContent{Blanks: w.Blanks}
	case Comprehension:
		content := &ComprehensionContent{Options: w.Options}
		if w.Passage != nil {
			content.Passage = *w.Passage
		}
		q.Content = content
	default:
		return fmt.Errorf("unsupported question type: %q", w.Type)
	}

	return nil
}

// Categorize returns the categorize payload, or nil when the question is of
// another variant.
func (q *Question) Categorize() *CategorizeContent {
	content, _ := q.Content.(*CategorizeContent)
	return content
}

// Cloze returns the cloze payload, or nil when the question is of another
// variant.
func (q *Question) Cloze() *ClozeContent {
	content, _ := q.Content.(*ClozeContent)
	return content
}

// Comprehension returns the comprehension payload, or nil when the question
// is of another variant.
func (q *Question) Comprehension() *ComprehensionContent {
	content, _ := q.Content.(*ComprehensionContent)
	return content
}
