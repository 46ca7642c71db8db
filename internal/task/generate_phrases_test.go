package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePhrases_StoresLinkedPairs(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	unit := h.newUnit(t, "rain", "en", domain.POSNoun)
	h.linguist.GeneratePhrasesFn = func(_ context.Context, req generation.PhraseRequest) ([]generation.GeneratedPhrase, error) {
		assert.Equal(t, generation.PhraseRequest{
			Lemma:          "rain",
			PartOfSpeech:   domain.POSNoun,
			SourceLanguage: "en",
			TargetLanguage: "es",
			CEFR:           domain.CEFRA2,
			Count:          2,
		}, req)
		return []generation.GeneratedPhrase{
			{OriginalPhrase: "The rain stopped.", TranslatedPhrase: "La lluvia paró.", CEFR: domain.CEFRA2},
			{OriginalPhrase: "I like the rain.", TranslatedPhrase: "  ", CEFR: domain.CEFRA1},
		}, nil
	}

	result, err := h.run(t, task.TypeGeneratePhrases, task.GeneratePhrasesPayload{
		UnitID: unit.ID, UserID: h.user.ID, TargetLanguage: "es", CEFR: domain.CEFRA2, Count: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeOK, result.Outcome)

	out := result.Data.(task.GeneratePhrasesOutput)
	require.Len(t, out.Pairs, 1)
	assert.Equal(t, 2, out.Created)

	// The pair with an empty translation is rolled back entirely.
	phrases := h.store.AllPhrases()
	require.Len(t, phrases, 2)
	var source *domain.Phrase
	for _, p := range phrases {
		if p.Language == "en" {
			source = p
		}
	}
	require.NotNil(t, source)
	assert.Equal(t, "The rain stopped.", source.Text)
	assert.Equal(t, out.Pairs[0].PhraseID, source.ID)
	assert.Equal(t, []uuid.UUID{unit.ID}, source.UnitIDs)

	edges := h.store.AllPhraseTranslations()
	require.Len(t, edges, 1)
	assert.Equal(t, source.ID, edges[0].SourcePhraseID)

	assert.Len(t, h.scheduler.OfType(task.TypeEnrichPhrase), 2)
}

func TestGeneratePhrases_FailedCommitReportsNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	unit := h.newUnit(t, "rain", "en", domain.POSNoun)
	h.linguist.GeneratePhrasesFn = func(context.Context, generation.PhraseRequest) ([]generation.GeneratedPhrase, error) {
		return []generation.GeneratedPhrase{
			{OriginalPhrase: "The rain stopped.", TranslatedPhrase: "La lluvia paró.", CEFR: domain.CEFRA2},
		}, nil
	}
	h.store.Fail = func(op string) error {
		if op == "uow.Commit" {
			return errors.New("could not serialize access")
		}
		return nil
	}

	result, err := h.run(t, task.TypeGeneratePhrases, task.GeneratePhrasesPayload{
		UnitID: unit.ID, UserID: h.user.ID, TargetLanguage: "es",
	})

	require.Error(t, err)
	assert.Nil(t, result.Data)
	assert.Empty(t, h.store.AllPhrases())
	assert.Empty(t, h.scheduler.Scheduled())
}

func TestGeneratePhrases_Rejections(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	unit := h.newUnit(t, "rain", "en", domain.POSNoun)

	result, err := h.run(t, task.TypeGeneratePhrases, task.GeneratePhrasesPayload{
		UnitID: unit.ID, UserID: h.user.ID, TargetLanguage: "en-GB",
	})
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeSkipped, result.Outcome)

	_, err = h.run(t, task.TypeGeneratePhrases, task.GeneratePhrasesPayload{
		UnitID: unit.ID, UserID: h.user.ID, TargetLanguage: "es", CEFR: "D1",
	})
	require.ErrorIs(t, err, task.ErrInvalidPayload)
	assert.False(t, task.IsRetryable(err))

	other := h.newUser(t, "other@example.com")
	result, err = h.run(t, task.TypeGeneratePhrases, task.GeneratePhrasesPayload{
		UnitID: unit.ID, UserID: other.ID, TargetLanguage: "es",
	})
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeNotFound, result.Outcome)

	assert.Zero(t, h.linguist.Calls("GeneratePhrases"))
	assert.Empty(t, h.store.AllPhrases())
}
