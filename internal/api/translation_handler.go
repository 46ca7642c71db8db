package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
)

// TranslationHandler serves translation links, bulk creation and import.
type TranslationHandler struct {
	translations service.TranslationService
	tasks        service.TaskService
	logger       *slog.Logger
}

// NewTranslationHandler creates a TranslationHandler.
func NewTranslationHandler(
	translations service.TranslationService,
	tasks service.TaskService,
	log *slog.Logger,
) *TranslationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TranslationHandler{
		translations: translations,
		tasks:        tasks,
		logger:       log.With(slog.String("component", "translation_handler")),
	}
}

// CreateTranslation handles POST /translations.
func (h *TranslationHandler) CreateTranslation(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req LinkRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	link, err := h.translations.Link(r.Context(), userID, service.LinkInput{
		SourceUnitID: req.SourceUnitID,
		TargetUnitID: req.TargetUnitID,
		Type:         domain.TranslationType(req.TranslationType),
		Confidence:   req.Confidence,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create translation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, link)
}

// BulkCreate handles POST /translations/bulk.
func (h *TranslationHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req BulkTranslationRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	in := service.BulkInput{
		Source:     req.Source.toInput(),
		Targets:    make([]service.UnitInput, 0, len(req.Targets)),
		Type:       domain.TranslationType(req.TranslationType),
		Confidence: req.Confidence,
	}
	for _, t := range req.Targets {
		in.Targets = append(in.Targets, t.toInput())
	}

	result, err := h.translations.BulkCreate(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create translations")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, BulkTranslationResponse{
		Source:       result.Source,
		Translations: result.Translations,
	})
}

// GetTranslation handles GET /translations/{id}.
func (h *TranslationHandler) GetTranslation(w http.ResponseWriter, r *http.Request) {
	userID, translationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	t, err := h.translations.Get(r.Context(), userID, translationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get translation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TranslationResponse{
		LexicalUnitTranslation: t.Translation,
		Source:                 t.Source,
		Target:                 t.Target,
	})
}

// VerifyTranslation handles POST /translations/{id}/verify.
func (h *TranslationHandler) VerifyTranslation(w http.ResponseWriter, r *http.Request) {
	userID, translationID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	taskID, err := h.tasks.VerifyTranslation(r.Context(), userID, translationID)
	respondTaskAccepted(w, r, taskID, err, "Verification started.")
}

// Import handles POST /import.
func (h *TranslationHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, h.logger)
	if !ok {
		return
	}
	var req ImportRequest
	if !parseAndValidateRequest(w, r, &req, h.logger) {
		return
	}

	in := service.ImportInput{
		EntityType: service.ImportEntityType(req.EntityType),
		Source:     req.Source.toItem(),
		Confidence: req.Confidence,
	}
	for _, t := range req.Targets {
		in.Targets = append(in.Targets, t.toItem())
	}

	result, err := h.translations.Import(r.Context(), userID, in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import entry")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{
		EntityType:    string(result.EntityType),
		SourceUnit:    result.SourceUnit,
		TargetUnits:   result.TargetUnits,
		SourcePhrase:  result.SourcePhrase,
		TargetPhrases: result.TargetPhrases,
	})
}
