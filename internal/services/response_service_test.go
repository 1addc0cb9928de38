package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/formlab/formbuilder/internal/events"
	"github.com/formlab/formbuilder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("unknown form", func(t *testing.T) {
		_, err := f.responses.StartSession(ctx, "missing")
		assert.ErrorIs(t, err, ErrFormNotFound)
	})

	t.Run("form without questions", func(t *testing.T) {
		draft := f.forms.NewForm()
		draft.Title = "Empty draft"
		require.NoError(t, f.forms.SaveForm(ctx, draft))

		_, err := f.responses.StartSession(ctx, draft.ID)
		assert.ErrorIs(t, err, ErrFormNotRenderable)
	})

	t.Run("renderable form", func(t *testing.T) {
		form := f.savedForm(t, ctx, "Quiz", models.Comprehension)

		session, err := f.responses.StartSession(ctx, form.ID)
		require.NoError(t, err)
		assert.Equal(t, form.ID, session.Form().ID)
	})
}

func TestSessionSetAnswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := f.savedForm(t, ctx, "Quiz", models.Comprehension, models.Categorize)
	session, err := f.responses.StartSession(ctx, form.ID)
	require.NoError(t, err)

	comprehensionID := form.Questions[0].ID
	categorizeID := form.Questions[1].ID

	t.Run("valid answer", func(t *testing.T) {
		require.NoError(t, session.SetAnswer(comprehensionID, models.ComprehensionAnswer{SelectedOption: "Option B"}))
		assert.True(t, session.Answered(comprehensionID))
	})

	t.Run("replaces prior answer", func(t *testing.T) {
		require.NoError(t, session.SetAnswer(comprehensionID, models.ComprehensionAnswer{SelectedOption: "Option C"}))
		answer := session.Answer(comprehensionID).(models.ComprehensionAnswer)
		assert.Equal(t, "Option C", answer.SelectedOption)
	})

	t.Run("variant mismatch", func(t *testing.T) {
		err := session.SetAnswer(comprehensionID, models.ClozeAnswer{0: "nope"})
		assert.ErrorIs(t, err, ErrQuestionTypeMismatch)
	})

	t.Run("unknown question", func(t *testing.T) {
		err := session.SetAnswer("missing", models.ComprehensionAnswer{SelectedOption: "Option A"})
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("selection outside current options", func(t *testing.T) {
		err := session.SetAnswer(comprehensionID, models.ComprehensionAnswer{SelectedOption: "Option Z"})
		assert.Error(t, err)
	})

	t.Run("clear answer", func(t *testing.T) {
		answer := models.CategorizeAnswer{}
		answer.Assign("Option 1", "Category 1")
		require.NoError(t, session.SetAnswer(categorizeID, answer))
		assert.True(t, session.Answered(categorizeID))

		require.NoError(t, session.ClearAnswer(categorizeID))
		assert.False(t, session.Answered(categorizeID))
	})
}

func TestSessionAnsweredPredicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := f.savedForm(t, ctx, "All variants", models.Categorize, models.Cloze, models.Comprehension)
	form.Questions[1].Text = "Fill _ in"
	require.NoError(t, f.forms.SaveForm(ctx, form))

	session, err := f.responses.StartSession(ctx, form.ID)
	require.NoError(t, err)

	categorizeID := form.Questions[0].ID
	clozeID := form.Questions[1].ID
	comprehensionID := form.Questions[2].ID

	// Nothing recorded yet.
	assert.False(t, session.Answered(categorizeID))
	assert.Equal(t, 0, session.AnsweredCount())

	// Empty answers are recorded but not substantive.
	require.NoError(t, session.SetAnswer(categorizeID, models.CategorizeAnswer{}))
	require.NoError(t, session.SetAnswer(clozeID, models.ClozeAnswer{}))
	require.NoError(t, session.SetAnswer(comprehensionID, models.ComprehensionAnswer{}))
	assert.Equal(t, 0, session.AnsweredCount())

	categorize := models.CategorizeAnswer{}
	categorize.Assign("Option 1", "Category 2")
	require.NoError(t, session.SetAnswer(categorizeID, categorize))

	cloze := models.ClozeAnswer{}
	cloze.Set(0, "this")
	require.NoError(t, session.SetAnswer(clozeID, cloze))

	require.NoError(t, session.SetAnswer(comprehensionID, models.ComprehensionAnswer{SelectedOption: "Option A"}))
	assert.Equal(t, 3, session.AnsweredCount())
}

// The end-to-end shape: one comprehension question, option "B" selected, and
// the stored answers map holds the literal string "B" under the question id.
func TestSubmitStoresLiteralSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := f.forms.NewForm()
	form.Title = "Reading check"
	q, err := f.forms.AddQuestion(form, models.Comprehension)
	require.NoError(t, err)
	q.Comprehension().Options = []string{"A", "B"}
	require.NoError(t, f.forms.SaveForm(ctx, form))

	session, err := f.responses.StartSession(ctx, form.ID)
	require.NoError(t, err)
	require.NoError(t, session.SetAnswer(q.ID, models.ComprehensionAnswer{SelectedOption: "B"}))

	response, err := session.Submit(ctx)
	require.NoError(t, err)

	stored, err := f.responses.ListByForm(ctx, form.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, response.ID, stored[0].ID)
	assert.Equal(t, json.RawMessage(`"B"`), stored[0].Answers[q.ID])
	assert.False(t, stored[0].SubmittedAt.IsZero())
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := f.savedForm(t, ctx, "Quiz", models.Comprehension, models.Cloze)
	f.publisher.ClearEvents()

	session, err := f.responses.StartSession(ctx, form.ID)
	require.NoError(t, err)
	require.NoError(t, session.SetAnswer(form.Questions[0].ID, models.ComprehensionAnswer{SelectedOption: "Option A"}))

	response, err := session.Submit(ctx)
	require.NoError(t, err)

	t.Run("partial submission keeps unanswered questions absent", func(t *testing.T) {
		assert.Equal(t, 1, response.AnswerCount())
		_, present := response.Answers[form.Questions[1].ID]
		assert.False(t, present)
	})

	t.Run("publishes the submission event", func(t *testing.T) {
		published := f.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventResponseSubmitted, published[0].Type)
		assert.Equal(t, form.ID, published[0].FormID)
		assert.Equal(t, response.ID, published[0].ResponseID)
	})

	t.Run("session is closed after submit", func(t *testing.T) {
		_, err := session.Submit(ctx)
		assert.ErrorIs(t, err, ErrSessionSubmitted)

		err = session.SetAnswer(form.Questions[0].ID, models.ComprehensionAnswer{SelectedOption: "Option B"})
		assert.ErrorIs(t, err, ErrSessionSubmitted)
	})
}

func TestSessionSnapshotIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := f.savedForm(t, ctx, "Before edit", models.Comprehension)
	session, err := f.responses.StartSession(ctx, form.ID)
	require.NoError(t, err)

	// Rename the form after the session opened; the snapshot is unaffected.
	form.Title = "After edit"
	require.NoError(t, f.forms.SaveForm(ctx, form))

	assert.Equal(t, "Before edit", session.Form().Title)
}
