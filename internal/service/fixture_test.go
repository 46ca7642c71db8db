package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/phrazzld/lingo-api/internal/testutils/memstore"
	"github.com/stretchr/testify/require"
)

// fixture wires every service to one in-memory store.
type fixture struct {
	store        *memstore.Store
	scheduler    *mocks.MockScheduler
	tasks        *task.MockTaskStore
	units        service.LexicalUnitService
	translations service.TranslationService
	phrases      service.PhraseService
	triggers     service.TaskService
	user         *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:     memstore.New(),
		scheduler: &mocks.MockScheduler{},
		tasks:     task.NewMockTaskStore(),
	}
	repos := f.store.Repositories()
	log := logger.Discard()

	var err error
	f.units, err = service.NewLexicalUnitService(repos.Units, f.scheduler, log)
	require.NoError(t, err)
	f.translations, err = service.NewTranslationService(repos, f.store, f.scheduler, log)
	require.NoError(t, err)
	f.phrases, err = service.NewPhraseService(repos, f.store, f.scheduler, log)
	require.NoError(t, err)
	f.triggers, err = service.NewTaskService(repos, f.scheduler, f.tasks, log)
	require.NoError(t, err)

	f.user = f.newUser(t, "learner@example.com")
	return f
}

func (f *fixture) newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email)
	require.NoError(t, err)
	require.NoError(t, f.store.Repositories().Users.Create(context.Background(), user))
	return user
}

func (f *fixture) newUnit(t *testing.T, owner *domain.User, lemma, language string, pos domain.PartOfSpeech) *domain.LexicalUnit {
	t.Helper()
	unit, _, err := f.store.Repositories().Units.GetOrCreate(context.Background(), domain.UnitKey{
		UserID:       owner.ID,
		Lemma:        lemma,
		Language:     language,
		PartOfSpeech: pos,
	}, "")
	require.NoError(t, err)
	return unit
}

func (f *fixture) newPhrase(t *testing.T, text, language string) *domain.Phrase {
	t.Helper()
	phrase, _, err := f.store.Repositories().Phrases.GetOrCreate(context.Background(), text, language, nil)
	require.NoError(t, err)
	return phrase
}

func userMessage(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	msg, ok := service.UserMessage(err)
	require.True(t, ok, "expected a service error, got %v", err)
	return msg
}
