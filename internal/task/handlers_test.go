package task_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/phrazzld/lingo-api/internal/testutils/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs registered handlers directly against an in-memory store.
type harness struct {
	store     *memstore.Store
	linguist  *mocks.MockLinguist
	extractor *mocks.MockExtractor
	scheduler *mocks.MockScheduler
	registry  *task.Registry
	user      *domain.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		store:     memstore.New(),
		linguist:  &mocks.MockLinguist{},
		extractor: &mocks.MockExtractor{},
		scheduler: &mocks.MockScheduler{},
		registry:  task.NewRegistry(),
	}
	require.NoError(t, task.RegisterAll(h.registry, task.Dependencies{
		Repos:      h.store.Repositories(),
		UnitOfWork: h.store,
		Linguist:   h.linguist,
		Extractor:  h.extractor,
		Scheduler:  h.scheduler,
		Logger:     logger.Discard(),
	}, 0))
	h.user = h.newUser(t, "learner@example.com")
	return h
}

func (h *harness) newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email)
	require.NoError(t, err)
	require.NoError(t, h.store.Repositories().Users.Create(context.Background(), user))
	return user
}

func (h *harness) newUnit(t *testing.T, lemma, language string, pos domain.PartOfSpeech) *domain.LexicalUnit {
	t.Helper()
	unit, created, err := h.store.Repositories().Units.GetOrCreate(context.Background(), domain.UnitKey{
		UserID:       h.user.ID,
		Lemma:        lemma,
		Language:     language,
		PartOfSpeech: pos,
	}, "")
	require.NoError(t, err)
	require.True(t, created)
	return unit
}

func (h *harness) newPhrase(t *testing.T, text, language string, cefr *domain.CEFRLevel) *domain.Phrase {
	t.Helper()
	phrase, _, err := h.store.Repositories().Phrases.GetOrCreate(context.Background(), text, language, cefr)
	require.NoError(t, err)
	return phrase
}

func (h *harness) unit(t *testing.T, id uuid.UUID) *domain.LexicalUnit {
	t.Helper()
	for _, u := range h.store.AllUnits() {
		if u.ID == id {
			return u
		}
	}
	t.Fatalf("unit %v not found", id)
	return nil
}

func (h *harness) run(t *testing.T, taskType string, payload any) (task.Result, error) {
	t.Helper()
	tk, err := h.registry.NewTask(taskType, payload)
	require.NoError(t, err)
	return tk.Execute(context.Background())
}

func ipa(s string) *string { return &s }

func TestRegisterAll_RequiresDependencies(t *testing.T) {
	t.Parallel()

	err := task.RegisterAll(task.NewRegistry(), task.Dependencies{}, 0)
	assert.Error(t, err)

	h := newHarness(t)
	for _, taskType := range []string{
		task.TypeResolveLemma,
		task.TypeEnrichDetails,
		task.TypeTranslateUnit,
		task.TypeValidateUnit,
		task.TypeVerifyTranslation,
		task.TypeEnrichPhrase,
		task.TypeAnalyzeText,
		task.TypeGeneratePhrases,
	} {
		assert.Contains(t, h.registry.Types(), taskType)
	}
	assert.Equal(t, uint(3), h.registry.Policy(task.TypeEnrichDetails).MaxRetries)
	assert.Equal(t, uint(2), h.registry.Policy(task.TypeValidateUnit).MaxRetries)
	assert.Equal(t, task.NoRetry(), h.registry.Policy(task.TypeVerifyTranslation))
	assert.Equal(t, task.DefaultRetryDelay, h.registry.Policy(task.TypeEnrichPhrase).Delay)
}

func TestHandlers_RejectMalformedPayload(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	tk, err := h.registry.Build(h.user.ID, task.TypeValidateUnit, []byte("{not json"))
	require.NoError(t, err)

	_, err = tk.Execute(context.Background())
	require.ErrorIs(t, err, task.ErrInvalidPayload)
	assert.False(t, task.IsRetryable(err))
}
