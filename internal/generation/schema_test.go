package generation_test

import (
	"encoding/json"
	"testing"

	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(generation.LemmaDetailsSchema())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []any{"lemma_details"}, doc["required"])

	details := doc["properties"].(map[string]any)["lemma_details"].(map[string]any)
	assert.Equal(t, "array", details["type"])

	item := details["items"].(map[string]any)
	props := item["properties"].(map[string]any)

	pos := props["part_of_speech"].(map[string]any)
	assert.Contains(t, pos["enum"], "noun")
	assert.Contains(t, pos["enum"], "interj")

	pron := props["pronunciation"].(map[string]any)
	assert.Equal(t, []any{"string", "null"}, pron["type"])
}

func TestVerificationSchema_Bounds(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(generation.VerificationSchema())
	require.NoError(t, err)

	var doc struct {
		Properties map[string]struct {
			Type    any     `json:"type"`
			Minimum float64 `json:"minimum"`
			Maximum float64 `json:"maximum"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	score := doc.Properties["quality_score"]
	assert.Equal(t, "integer", score.Type)
	assert.Equal(t, 1.0, score.Minimum)
	assert.Equal(t, 5.0, score.Maximum)
}

func TestSchema_OrNullCopies(t *testing.T) {
	t.Parallel()

	base := generation.StringSchema("x")
	nullable := base.OrNull()
	assert.False(t, base.Nullable)
	assert.True(t, nullable.Nullable)
}
