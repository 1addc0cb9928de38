package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionMarshalJSON(t *testing.T) {
	t.Run("categorize carries only its own fields", func(t *testing.T) {
		q := Question{
			ID:   "q1",
			Type: Categorize,
			Text: "Sort these",
			Content: &CategorizeContent{
				Categories: []string{"Fruits", "Vegetables"},
				Items:      []string{"Apple", "Carrot"},
			},
		}

		data, err := json.Marshal(q)
		require.NoError(t, err)

		var wire map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &wire))

		assert.Contains(t, wire, "categories")
		assert.Contains(t, wire, "options")
		assert.NotContains(t, wire, "passage")
		assert.NotContains(t, wire, "blanks")
	})

	t.Run("cloze carries only blanks", func(t *testing.T) {
		q := Question{
			ID:      "q2",
			Type:    Cloze,
			Text:    "Paris is the capital of _.",
			Content: &ClozeContent{Blanks: []string{"France"}},
		}

		data, err := json.Marshal(q)
		require.NoError(t, err)

		var wire map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &wire))

		assert.Contains(t, wire, "blanks")
		assert.NotContains(t, wire, "options")
		assert.NotContains(t, wire, "categories")
		assert.NotContains(t, wire, "passage")
	})

	t.Run("comprehension keeps empty passage present", func(t *testing.T) {
		q := Question{
			ID:      "q3",
			Type:    Comprehension,
			Content: &ComprehensionContent{Options: []string{"A", "B"}},
		}

		data, err := json.Marshal(q)
		require.NoError(t, err)

		var wire map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &wire))

		assert.Contains(t, wire, "passage")
		assert.Contains(t, wire, "options")
		assert.NotContains(t, wire, "categories")
	})

	t.Run("missing content payload is an error", func(t *testing.T) {
		q := Question{ID: "q4", Type: Cloze}

		_, err := json.Marshal(q)
		assert.Error(t, err)
	})
}

func TestQuestionUnmarshalJSON(t *testing.T) {
	t.Run("selects payload by type tag", func(t *testing.T) {
		data := []byte(`{"id":"q1","type":"categorize","text":"Sort","categories":["A","B"],"options":["x","y"]}`)

		var q Question
		require.NoError(t, json.Unmarshal(data, &q))

		content := q.Categorize()
		require.NotNil(t, content)
		assert.Equal(t, []string{"A", "B"}, content.Categories)
		assert.Equal(t, []string{"x", "y"}, content.Items)
		assert.Nil(t, q.Cloze())
		assert.Nil(t, q.Comprehension())
	})

	t.Run("drops foreign variant fields", func(t *testing.T) {
		data := []byte(`{"id":"q2","type":"cloze","text":"_ and _","blanks":["a","b"],"options":["stale"],"passage":"stale"}`)

		var q Question
		require.NoError(t, json.Unmarshal(data, &q))

		require.NotNil(t, q.Cloze())
		assert.Equal(t, []string{"a", "b"}, q.Cloze().Blanks)

		out, err := json.Marshal(q)
		require.NoError(t, err)
		var wire map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &wire))
		assert.NotContains(t, wire, "options")
		assert.NotContains(t, wire, "passage")
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		data := []byte(`{"id":"q3","type":"essay","text":"?"}`)

		var q Question
		assert.Error(t, json.Unmarshal(data, &q))
	})

	t.Run("round trip preserves the wire shape", func(t *testing.T) {
		original := []byte(`{"id":"q4","type":"comprehension","text":"Read","passage":"Once upon a time","options":["A","B","C"]}`)

		var q Question
		require.NoError(t, json.Unmarshal(original, &q))
		out, err := json.Marshal(q)
		require.NoError(t, err)

		assert.JSONEq(t, string(original), string(out))
	})
}

func TestContentLookups(t *testing.T) {
	categorize := &CategorizeContent{Categories: []string{"A"}, Items: []string{"x"}}
	assert.True(t, categorize.HasCategory("A"))
	assert.False(t, categorize.HasCategory("B"))
	assert.True(t, categorize.HasItem("x"))
	assert.False(t, categorize.HasItem("y"))

	comprehension := &ComprehensionContent{Options: []string{"A", "B"}}
	assert.True(t, comprehension.HasOption("B"))
	assert.False(t, comprehension.HasOption("C"))
}
