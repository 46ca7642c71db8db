package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitHandler_CRUD(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	w := f.do(t, f.user, http.MethodPost, "/api/units",
		`{"lemma":"  Record ","language":"en","part_of_speech":"noun","pronunciation":"ˈrekərd"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.LexicalUnit](t, w)
	assert.Equal(t, "record", created.Lemma)
	assert.Equal(t, domain.CategorySingleWord, created.LexicalCategory)
	assert.Equal(t, domain.ValidationUnverified, created.Validation)
	assert.Len(t, f.scheduler.OfType(task.TypeValidateUnit), 1)

	w = f.do(t, f.user, http.MethodPost, "/api/units", `{"lemma":"record","language":"en","part_of_speech":"noun"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This lexical unit already exists in your list.", errorMessage(t, w))

	path := "/api/units/" + created.ID.String()
	w = f.do(t, f.user, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[domain.LexicalUnit](t, w).ID)

	w = f.do(t, f.user, http.MethodPut, path,
		`{"lemma":"record","language":"en","part_of_speech":"verb","status":"known"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.LexicalUnit](t, w)
	assert.Equal(t, domain.POSVerb, updated.PartOfSpeech)
	assert.Equal(t, domain.LearningStatusKnown, updated.Status)
	assert.Len(t, f.scheduler.OfType(task.TypeValidateUnit), 2)

	w = f.do(t, f.user, http.MethodGet, "/api/units?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[api.UnitListResponse](t, w)
	assert.Len(t, list.Units, 1)
	assert.Equal(t, 10, list.Limit)

	w = f.do(t, f.user, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, f.user, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnitHandler_Isolation(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	other := f.newUser(t, "other@example.com")
	theirs := f.newUnit(t, other, "house", "en", domain.POSNoun)

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/units/" + theirs.ID.String(), ""},
		{http.MethodPut, "/api/units/" + theirs.ID.String(), `{"lemma":"home","language":"en"}`},
		{http.MethodDelete, "/api/units/" + theirs.ID.String(), ""},
		{http.MethodPost, "/api/units/" + theirs.ID.String() + "/validate", ""},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := f.do(t, f.user, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}

	w := f.do(t, f.user, http.MethodGet, "/api/units", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[api.UnitListResponse](t, w).Units)
}

func TestUnitHandler_RequestValidation(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		message string
	}{
		{"missing lemma", http.MethodPost, "/api/units", `{"language":"en"}`, "Invalid lemma: required field"},
		{"bad language", http.MethodPost, "/api/units", `{"lemma":"run","language":"english"}`, "Invalid language: invalid language code"},
		{"bad part of speech", http.MethodPost, "/api/units", `{"lemma":"run","language":"en","part_of_speech":"thing"}`, "Invalid part_of_speech: invalid part of speech"},
		{"malformed body", http.MethodPost, "/api/units", `{"lemma":`, "Invalid request format"},
		{"bad id", http.MethodGet, "/api/units/not-a-uuid", "", "id has invalid format"},
		{"bad pagination", http.MethodGet, "/api/units?limit=-1", "", "limit must be a positive integer"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := f.do(t, f.user, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, errorMessage(t, w))
		})
	}
	assert.Empty(t, f.store.AllUnits())
}

func TestUnitHandler_Triggers(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	house := f.newUnit(t, f.user, "house", "en", domain.POSNoun)
	stub := f.newUnit(t, f.user, "record", "en", domain.POSUnspecified)
	base := "/api/units/" + house.ID.String()

	w := f.do(t, f.user, http.MethodPost, "/api/units/resolve", `{"lemma":"run","language":"en"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	accepted := decode[api.TaskAcceptedResponse](t, w)
	assert.NotEqual(t, uuid.Nil, accepted.TaskID)
	assert.Equal(t, accepted.TaskID, f.scheduler.OfType(task.TypeResolveLemma)[0].ID)

	w = f.do(t, f.user, http.MethodPost, base+"/enrich-details", "")
	require.Equal(t, http.StatusAccepted, w.Code)
	w = f.do(t, f.user, http.MethodPost, base+"/enrich-details", `{"force_update":true}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	enrich := f.scheduler.OfType(task.TypeEnrichDetails)
	require.Len(t, enrich, 2)
	assert.False(t, enrich[0].Payload.(task.EnrichDetailsPayload).ForceUpdate)
	assert.True(t, enrich[1].Payload.(task.EnrichDetailsPayload).ForceUpdate)

	w = f.do(t, f.user, http.MethodPost, base+"/translate", `{"target_language":"es"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = f.do(t, f.user, http.MethodPost, "/api/units/"+stub.ID.String()+"/translate", `{"target_language":"es"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot translate. Please run 'enrich-details' first.", errorMessage(t, w))

	w = f.do(t, f.user, http.MethodPost, base+"/translate", `{"target_language":"en-GB"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Target language cannot be the same as the source language.", errorMessage(t, w))

	w = f.do(t, f.user, http.MethodPost, base+"/generate-phrases", `{"target_language":"es","cefr":"b2","count":3}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	gen := f.scheduler.OfType(task.TypeGeneratePhrases)
	require.Len(t, gen, 1)
	assert.Equal(t, domain.CEFRB2, gen[0].Payload.(task.GeneratePhrasesPayload).CEFR)

	w = f.do(t, f.user, http.MethodPost, base+"/generate-phrases", `{"target_language":"es","cefr":"Z9"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, f.user, http.MethodPost, base+"/validate", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, f.scheduler.OfType(task.TypeValidateUnit), 1)
}

func TestUnitHandler_ScheduleFailure(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	f.scheduler.Err = assert.AnError

	w := f.do(t, f.user, http.MethodPost, "/api/units/resolve", `{"lemma":"run","language":"en"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Failed to queue task.", errorMessage(t, w))
}

func TestUnitHandler_ListTranslations(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	house := f.newUnit(t, f.user, "house", "en", domain.POSNoun)

	w := f.do(t, f.user, http.MethodGet, "/api/units/"+house.ID.String()+"/translations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
