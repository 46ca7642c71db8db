package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
)

// PhraseHandler serves phrases and phrase translations.
type PhraseHandler struct {
	phrases service.PhraseService
	tasks   service.TaskService
	logger  *slog.Logger
}

// NewPhraseHandler creates a PhraseHandler.
func NewPhraseHandler(phrases service.PhraseService, tasks service.TaskService, log *slog.Logger) *PhraseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PhraseHandler{
		phrases: phrases,
		tasks:   tasks,
		logger:  log.With(slog.String("component", "phrase_handler")),
	}
}

// CreatePhrase handles POST /phrases.
func (h *PhraseHandler) CreatePhrase(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req PhraseRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}
	level, err := domain.ParseCEFR(req.CEFR)
	if err != nil {
		HandleAPIError(w, r, badRequest("Invalid cefr: invalid CEFR level"), "")
		return
	}
	category, err := domain.ParsePhraseCategory(req.Category)
	if err != nil {
		HandleAPIError(w, r, badRequest("Invalid category: invalid phrase category"), "")
		return
	}

	phrase, err := h.phrases.Create(r.Context(), userID, service.PhraseInput{
		Text:     req.Text,
		Language: req.Language,
		CEFR:     level,
		Category: category,
		UnitIDs:  req.UnitIDs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create phrase")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, phrase)
}

// GetPhrase handles GET /phrases/{id}.
func (h *PhraseHandler) GetPhrase(w http.ResponseWriter, r *http.Request) {
	phraseID, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	phrase, err := h.phrases.Get(r.Context(), phraseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get phrase")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, phrase)
}

// EnrichPhrase handles POST /phrases/{id}/enrich.
func (h *PhraseHandler) EnrichPhrase(w http.ResponseWriter, r *http.Request) {
	phraseID, ok := handlePathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	taskID, err := h.tasks.EnrichPhrase(r.Context(), phraseID)
	respondTaskAccepted(w, r, taskID, err, "Phrase enrichment started.")
}

// CreatePhraseTranslation handles POST /phrase-translations.
func (h *PhraseHandler) CreatePhraseTranslation(w http.ResponseWriter, r *http.Request) {
	var req PhraseTranslationRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}
	link, err := h.phrases.CreateTranslation(r.Context(), req.SourcePhraseID, req.TargetPhraseID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create phrase translation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, link)
}
