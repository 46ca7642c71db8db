package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
)

// UnitHandler serves the lexical unit endpoints and the task triggers that
// act on a single unit.
type UnitHandler struct {
	units        service.LexicalUnitService
	translations service.TranslationService
	tasks        service.TaskService
	logger       *slog.Logger
}

// NewUnitHandler creates a UnitHandler.
func NewUnitHandler(
	units service.LexicalUnitService,
	translations service.TranslationService,
	tasks service.TaskService,
	log *slog.Logger,
) *UnitHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UnitHandler{
		units:        units,
		translations: translations,
		tasks:        tasks,
		logger:       log.With(slog.String("component", "unit_handler")),
	}
}

// CreateUnit handles POST /units.
func (h *UnitHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req UnitRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	unit, err := h.units.Create(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create lexical unit")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, unit)
}

// ListUnits handles GET /units.
func (h *UnitHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	limit, offset, err := parsePagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	units, err := h.units.List(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lexical units")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UnitListResponse{Units: units, Limit: limit, Offset: offset})
}

// GetUnit handles GET /units/{id}.
func (h *UnitHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	unit, err := h.units.Get(r.Context(), userID, unitID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get lexical unit")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, unit)
}

// UpdateUnit handles PUT /units/{id}.
func (h *UnitHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req UnitRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	unit, err := h.units.Update(r.Context(), userID, unitID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update lexical unit")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, unit)
}

// DeleteUnit handles DELETE /units/{id}.
func (h *UnitHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.units.Delete(r.Context(), userID, unitID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete lexical unit")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("lexical unit deleted", "unit_id", unitID)
	w.WriteHeader(http.StatusNoContent)
}

// ListUnitTranslations handles GET /units/{id}/translations.
func (h *UnitHandler) ListUnitTranslations(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	links, err := h.translations.ListForUnit(r.Context(), userID, unitID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list translations")
		return
	}
	if links == nil {
		links = []*domain.LexicalUnitTranslation{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, links)
}

// ResolveLemma handles POST /units/resolve.
func (h *UnitHandler) ResolveLemma(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req ResolveLemmaRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	taskID, err := h.tasks.ResolveLemma(r.Context(), userID, req.Lemma, req.Language)
	respondTaskAccepted(w, r, taskID, err, "Lemma resolution started.")
}

// EnrichDetails handles POST /units/{id}/enrich-details. The body is
// optional.
func (h *UnitHandler) EnrichDetails(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req EnrichDetailsRequest
	if !parseOptionalRequest(w, r, &req, h.logger) {
		return
	}

	taskID, err := h.tasks.EnrichDetails(r.Context(), userID, unitID, req.ForceUpdate)
	respondTaskAccepted(w, r, taskID, err, "Detail enrichment started.")
}

// Translate handles POST /units/{id}/translate.
func (h *UnitHandler) Translate(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req TranslateRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	taskID, err := h.tasks.Translate(r.Context(), userID, unitID, req.TargetLanguage)
	respondTaskAccepted(w, r, taskID, err, "Translation started.")
}

// GeneratePhrases handles POST /units/{id}/generate-phrases.
func (h *UnitHandler) GeneratePhrases(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req GeneratePhrasesRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}
	level, err := domain.ParseCEFR(req.CEFR)
	if err != nil {
		HandleAPIError(w, r, badRequest("Invalid cefr: invalid CEFR level"), "")
		return
	}

	taskID, err := h.tasks.GeneratePhrases(r.Context(), userID, unitID, service.GenerateInput{
		TargetLanguage: req.TargetLanguage,
		CEFR:           level,
		Count:          req.Count,
	})
	respondTaskAccepted(w, r, taskID, err, "Phrase generation started.")
}

// ValidateUnit handles POST /units/{id}/validate.
func (h *UnitHandler) ValidateUnit(w http.ResponseWriter, r *http.Request) {
	userID, unitID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	taskID, err := h.tasks.ValidateUnit(r.Context(), userID, unitID)
	respondTaskAccepted(w, r, taskID, err, "Validation started.")
}
