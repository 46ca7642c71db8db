package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseHandler_Create(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rain := f.newUnit(t, f.user, "rain", "en", domain.POSNoun)

	w := f.do(t, f.user, http.MethodPost, "/api/phrases",
		fmt.Sprintf(`{"text":"It is raining.","language":"en","cefr":"a2","category":"general","unit_ids":[%q]}`, rain.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	phrase := decode[domain.Phrase](t, w)
	require.NotNil(t, phrase.CEFR)
	assert.Equal(t, domain.CEFRA2, *phrase.CEFR)
	assert.Equal(t, []uuid.UUID{rain.ID}, phrase.UnitIDs)
	assert.Len(t, f.scheduler.OfType(task.TypeEnrichPhrase), 1)

	w = f.do(t, f.user, http.MethodGet, "/api/phrases/"+phrase.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "It is raining.", decode[domain.Phrase](t, w).Text)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"duplicate", `{"text":"It is raining.","language":"en"}`, http.StatusConflict,
			"A phrase with this text and language already exists."},
		{"bad cefr", `{"text":"Hi.","language":"en","cefr":"D1"}`, http.StatusBadRequest, "Invalid cefr: invalid CEFR level"},
		{"bad category", `{"text":"Hi.","language":"en","category":"JOKE"}`, http.StatusBadRequest,
			"Invalid category: invalid phrase category"},
		{"missing text", `{"language":"en"}`, http.StatusBadRequest, "Invalid text: required field"},
		{"foreign unit", fmt.Sprintf(`{"text":"Hi.","language":"en","unit_ids":[%q]}`, uuid.New()), http.StatusNotFound, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, f.user, http.MethodPost, "/api/phrases", tc.body)
			assert.Equal(t, tc.status, w.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, errorMessage(t, w))
			}
		})
	}
	assert.Len(t, f.store.AllPhrases(), 1)
}

func TestPhraseHandler_TranslationAndEnrich(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	hello := f.newPhrase(t, "Hello.", "en")
	hola := f.newPhrase(t, "Hola.", "es")
	hi := f.newPhrase(t, "Hi.", "en-US")

	body := func(a, b *domain.Phrase) string {
		return fmt.Sprintf(`{"source_phrase_id":%q,"target_phrase_id":%q}`, a.ID, b.ID)
	}

	w := f.do(t, f.user, http.MethodPost, "/api/phrase-translations", body(hello, hola))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, hola.ID, decode[domain.PhraseTranslation](t, w).TargetPhraseID)

	w = f.do(t, f.user, http.MethodPost, "/api/phrase-translations", body(hello, hola))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This phrase translation already exists.", errorMessage(t, w))

	w = f.do(t, f.user, http.MethodPost, "/api/phrase-translations", body(hello, hello))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A phrase cannot translate to itself.", errorMessage(t, w))

	w = f.do(t, f.user, http.MethodPost, "/api/phrase-translations", body(hello, hi))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Source and target phrases must be in different languages.", errorMessage(t, w))

	w = f.do(t, f.user, http.MethodPost, "/api/phrases/"+hello.ID.String()+"/enrich", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, task.PhrasePayload{PhraseID: hello.ID}, f.scheduler.OfType(task.TypeEnrichPhrase)[0].Payload)

	w = f.do(t, f.user, http.MethodPost, "/api/phrases/"+uuid.NewString()+"/enrich", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
