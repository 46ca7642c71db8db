package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
	"github.com/phrazzld/lingo-api/internal/auth"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/mocks"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/phrazzld/lingo-api/internal/testutils/memstore"
	"github.com/stretchr/testify/require"
)

// apiFixture serves the full router over an in-memory store. Bearer tokens
// are user IDs.
type apiFixture struct {
	store     *memstore.Store
	scheduler *mocks.MockScheduler
	tasks     *task.MockTaskStore
	router    http.Handler
	user      *domain.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	f := &apiFixture{
		store:     memstore.New(),
		scheduler: &mocks.MockScheduler{},
		tasks:     task.NewMockTaskStore(),
	}
	repos := f.store.Repositories()
	log := logger.Discard()

	units, err := service.NewLexicalUnitService(repos.Units, f.scheduler, log)
	require.NoError(t, err)
	translations, err := service.NewTranslationService(repos, f.store, f.scheduler, log)
	require.NoError(t, err)
	phrases, err := service.NewPhraseService(repos, f.store, f.scheduler, log)
	require.NoError(t, err)
	triggers, err := service.NewTaskService(repos, f.scheduler, f.tasks, log)
	require.NoError(t, err)

	jwt := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			id, err := uuid.Parse(token)
			if err != nil {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: id}, nil
		},
	}

	f.router = api.NewRouter(api.RouterConfig{
		Units:        api.NewUnitHandler(units, translations, triggers, log),
		Translations: api.NewTranslationHandler(translations, triggers, log),
		Phrases:      api.NewPhraseHandler(phrases, triggers, log),
		Tasks:        api.NewTaskHandler(triggers, log),
		Health:       api.NewHealthHandler(nil, log),
		Auth:         apiMiddleware.NewAuthMiddleware(jwt),
		Logger:       log,
	})
	f.user = f.newUser(t, "learner@example.com")
	return f
}

func (f *apiFixture) newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email)
	require.NoError(t, err)
	require.NoError(t, f.store.Repositories().Users.Create(context.Background(), user))
	return user
}

func (f *apiFixture) newUnit(t *testing.T, owner *domain.User, lemma, language string, pos domain.PartOfSpeech) *domain.LexicalUnit {
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

func (f *apiFixture) newPhrase(t *testing.T, text, language string) *domain.Phrase {
	t.Helper()
	phrase, _, err := f.store.Repositories().Phrases.GetOrCreate(context.Background(), text, language, nil)
	require.NoError(t, err)
	return phrase
}

// do sends a request as user; a nil user sends no Authorization header.
func (f *apiFixture) do(t *testing.T, user *domain.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+user.ID.String())
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}
