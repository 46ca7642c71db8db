package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func casaTranslation(_ context.Context, source *domain.LexicalUnit, target string) (*generation.TranslationResponse, error) {
	return &generation.TranslationResponse{
		TranslatedLemma: " Casa",
		TranslationDetails: []generation.LemmaDetail{
			{PartOfSpeech: domain.POSNoun, Pronunciation: ipa("/ˈka.sa/")},
			{PartOfSpeech: "bogus"},
		},
	}, nil
}

func TestTranslateUnit_CreatesOwnedTargetsAndSchedulesVerification(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.linguist.TranslateFn = casaTranslation
	source := h.newUnit(t, "house", "en", domain.POSNoun)

	result, err := h.run(t, task.TypeTranslateUnit, task.TranslateUnitPayload{
		UnitID: source.ID, UserID: h.user.ID, TargetLanguage: "es",
	})
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeOK, result.Outcome)

	out := result.Data.(task.TranslateUnitOutput)
	assert.Equal(t, "casa", out.TranslatedLemma)
	require.Len(t, out.Targets, 1)
	require.Len(t, out.Edges, 1)

	target := h.unit(t, out.Targets[0])
	assert.Equal(t, h.user.ID, target.UserID)
	assert.Equal(t, "casa", target.Lemma)
	assert.Equal(t, "es", target.Language)
	assert.Equal(t, domain.POSNoun, target.PartOfSpeech)
	assert.Equal(t, "/ˈka.sa/", target.Pronunciation)

	edges := h.store.AllTranslations()
	require.Len(t, edges, 1)
	assert.Equal(t, source.ID, edges[0].SourceUnitID)
	assert.Equal(t, target.ID, edges[0].TargetUnitID)
	assert.Equal(t, domain.TranslationAI, edges[0].Type)

	scheduled := h.scheduler.OfType(task.TypeVerifyTranslation)
	require.Len(t, scheduled, 1)
	assert.Equal(t, task.TranslationPayload{TranslationID: edges[0].ID}, scheduled[0].Payload)
	validations := h.scheduler.OfType(task.TypeValidateUnit)
	require.Len(t, validations, 1)
	assert.Equal(t, task.UnitPayload{UnitID: target.ID}, validations[0].Payload)

	// Running again reuses the target and the edge.
	_, err = h.run(t, task.TypeTranslateUnit, task.TranslateUnitPayload{
		UnitID: source.ID, UserID: h.user.ID, TargetLanguage: "es",
	})
	require.NoError(t, err)
	assert.Len(t, h.store.AllTranslations(), 1)
	assert.Len(t, h.store.AllUnits(), 2)
	assert.Len(t, h.scheduler.OfType(task.TypeVerifyTranslation), 1)
	assert.Len(t, h.scheduler.OfType(task.TypeValidateUnit), 1)
}

func TestTranslateUnit_FailedCommitReportsNothing(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.linguist.TranslateFn = casaTranslation
	source := h.newUnit(t, "house", "en", domain.POSNoun)
	h.store.Fail = func(op string) error {
		if op == "uow.Commit" {
			return errors.New("could not serialize access")
		}
		return nil
	}

	result, err := h.run(t, task.TypeTranslateUnit, task.TranslateUnitPayload{
		UnitID: source.ID, UserID: h.user.ID, TargetLanguage: "es",
	})

	require.Error(t, err)
	assert.True(t, task.IsRetryable(err))
	assert.Nil(t, result.Data)
	assert.Len(t, h.store.AllUnits(), 1)
	assert.Empty(t, h.store.AllTranslations())
	assert.Empty(t, h.scheduler.Scheduled())
}

func TestTranslateUnit_Skips(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.linguist.TranslateFn = casaTranslation
	source := h.newUnit(t, "house", "en", domain.POSNoun)
	stub := h.newUnit(t, "home", "en", domain.POSUnspecified)
	other := h.newUser(t, "other@example.com")

	tests := []struct {
		name    string
		payload task.TranslateUnitPayload
		want    task.Outcome
	}{
		{"same primary language", task.TranslateUnitPayload{UnitID: source.ID, UserID: h.user.ID, TargetLanguage: "en-GB"}, task.OutcomeSkipped},
		{"stub source", task.TranslateUnitPayload{UnitID: stub.ID, UserID: h.user.ID, TargetLanguage: "es"}, task.OutcomeSkipped},
		{"unit of another user", task.TranslateUnitPayload{UnitID: source.ID, UserID: other.ID, TargetLanguage: "es"}, task.OutcomeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.run(t, task.TypeTranslateUnit, tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Outcome)
		})
	}

	assert.Zero(t, h.linguist.Calls("Translate"))
	assert.Empty(t, h.store.AllTranslations())
}

func TestTranslateUnit_EmptyAnswerAndBadLanguage(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	source := h.newUnit(t, "house", "en", domain.POSNoun)

	result, err := h.run(t, task.TypeTranslateUnit, task.TranslateUnitPayload{
		UnitID: source.ID, UserID: h.user.ID, TargetLanguage: "de",
	})
	require.NoError(t, err)
	assert.Equal(t, task.OutcomeSkipped, result.Outcome)
	assert.Len(t, h.store.AllUnits(), 1)

	_, err = h.run(t, task.TypeTranslateUnit, task.TranslateUnitPayload{
		UnitID: source.ID, UserID: h.user.ID, TargetLanguage: "",
	})
	require.ErrorIs(t, err, task.ErrInvalidPayload)
	assert.False(t, task.IsRetryable(err))
}
