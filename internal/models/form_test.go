package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormDisplayTitle(t *testing.T) {
	form := &Form{Title: "Customer Survey"}
	assert.Equal(t, "Customer Survey", form.DisplayTitle())

	form.Title = ""
	assert.Equal(t, UntitledForm, form.DisplayTitle())

	form.Title = "   "
	assert.Equal(t, UntitledForm, form.DisplayTitle())
}

func TestFormRenderable(t *testing.T) {
	form := &Form{}
	assert.False(t, form.Renderable(), "a draft without questions cannot be answered")

	form.Questions = []Question{{ID: "q1", Type: Cloze, Content: &ClozeContent{Blanks: []string{""}}}}
	assert.True(t, form.Renderable())
}

func TestFormQuestionLookup(t *testing.T) {
	form := &Form{Questions: []Question{
		{ID: "q1", Type: Cloze, Content: &ClozeContent{Blanks: []string{""}}},
		{ID: "q2", Type: Comprehension, Content: &ComprehensionContent{Options: []string{"A", "B"}}},
	}}

	q := form.Question("q2")
	assert.NotNil(t, q)
	assert.Equal(t, Comprehension, q.Type)

	assert.Nil(t, form.Question("missing"))

	// The lookup aliases the slice entry so edits stick.
	q.Text = "updated"
	assert.Equal(t, "updated", form.Questions[1].Text)
}

func TestFormResponseAnswered(t *testing.T) {
	response := &FormResponse{Answers: map[string]json.RawMessage{
		"present": json.RawMessage(`"B"`),
		"null":    json.RawMessage(`null`),
		"empty":   json.RawMessage(`""`),
		"object":  json.RawMessage(`{"Fruits":["Apple"]}`),
	}}

	assert.True(t, response.Answered("present"))
	assert.True(t, response.Answered("object"))
	assert.False(t, response.Answered("null"))
	assert.False(t, response.Answered("empty"))
	assert.False(t, response.Answered("absent"))
	assert.Equal(t, 4, response.AnswerCount())
}
