package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

// MaxGeneratedPhrases bounds the phrase count of one generation request.
const MaxGeneratedPhrases = 20

const (
	msgRunEnrichFirst   = "Cannot translate. Please run 'enrich-details' first."
	msgSameTargetLang   = "Target language cannot be the same as the source language."
	msgFailedToQueue    = "Failed to queue task."
	msgTaskNotFound     = "task not found"
	msgUnitNotFound     = "lexical unit not found"
	msgPhraseNotFound   = "phrase not found"
	msgTranslationGone  = "translation not found"
	msgTextRequired     = "text is required"
	msgLemmaRequired    = "lemma is required"
	msgCountOutOfBounds = "count must be between 1 and 20"
)

// TaskReader reads persisted task records.
type TaskReader interface {
	GetTask(ctx context.Context, taskID uuid.UUID) (*task.Record, error)
}

// GenerateInput asks for example phrases of one unit.
type GenerateInput struct {
	TargetLanguage string
	CEFR           *domain.CEFRLevel
	Count          int
}

// TaskService queues the enrichment tasks a user triggers explicitly and
// reports their status. Every trigger checks its entities up front so
// obvious mistakes are rejected synchronously instead of as a task outcome.
type TaskService interface {
	ResolveLemma(ctx context.Context, userID uuid.UUID, lemma, language string) (uuid.UUID, error)
	EnrichDetails(ctx context.Context, userID, unitID uuid.UUID, force bool) (uuid.UUID, error)
	Translate(ctx context.Context, userID, unitID uuid.UUID, targetLanguage string) (uuid.UUID, error)
	GeneratePhrases(ctx context.Context, userID, unitID uuid.UUID, in GenerateInput) (uuid.UUID, error)
	ValidateUnit(ctx context.Context, userID, unitID uuid.UUID) (uuid.UUID, error)
	VerifyTranslation(ctx context.Context, userID, translationID uuid.UUID) (uuid.UUID, error)
	EnrichPhrase(ctx context.Context, phraseID uuid.UUID) (uuid.UUID, error)
	AnalyzeText(ctx context.Context, userID uuid.UUID, text, language string) (uuid.UUID, error)

	// Status returns the persisted record of a task.
	Status(ctx context.Context, taskID uuid.UUID) (*task.Record, error)
}

type taskService struct {
	repos     store.Repositories
	scheduler task.Scheduler
	tasks     TaskReader
	logger    *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(
	repos store.Repositories,
	scheduler task.Scheduler,
	tasks TaskReader,
	logger *slog.Logger,
) (TaskService, error) {
	switch {
	case repos.Units == nil || repos.Translations == nil || repos.Phrases == nil:
		return nil, errors.New("task service: unit, translation and phrase stores are required")
	case scheduler == nil:
		return nil, errors.New("task service: scheduler is required")
	case tasks == nil:
		return nil, errors.New("task service: task reader is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		repos:     repos,
		scheduler: scheduler,
		tasks:     tasks,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskService) ResolveLemma(ctx context.Context, userID uuid.UUID, lemma, language string) (uuid.UUID, error) {
	const op = "resolve lemma"
	if domain.Canonicalize(lemma) == "" {
		return uuid.Nil, invalidInput(op, errors.New(msgLemmaRequired))
	}
	if err := domain.ValidateLanguageCode(language); err != nil {
		return uuid.Nil, invalidInput(op, err)
	}
	return s.schedule(ctx, op, task.TypeResolveLemma, task.ResolveLemmaPayload{
		Lemma:    lemma,
		Language: language,
		UserID:   userID,
	})
}

func (s *taskService) EnrichDetails(ctx context.Context, userID, unitID uuid.UUID, force bool) (uuid.UUID, error) {
	const op = "enrich details"
	if _, err := s.ownedUnit(ctx, op, userID, unitID); err != nil {
		return uuid.Nil, err
	}
	return s.schedule(ctx, op, task.TypeEnrichDetails, task.EnrichDetailsPayload{
		UnitID:      unitID,
		UserID:      userID,
		ForceUpdate: force,
	})
}

func (s *taskService) Translate(
	ctx context.Context,
	userID, unitID uuid.UUID,
	targetLanguage string,
) (uuid.UUID, error) {
	const op = "translate unit"
	if err := domain.ValidateLanguageCode(targetLanguage); err != nil {
		return uuid.Nil, invalidInput(op, err)
	}
	unit, err := s.ownedUnit(ctx, op, userID, unitID)
	if err != nil {
		return uuid.Nil, err
	}
	if unit.IsStub() {
		return uuid.Nil, invalidInput(op, errors.New(msgRunEnrichFirst))
	}
	if domain.SamePrimaryLanguage(unit.Language, targetLanguage) {
		return uuid.Nil, invalidInput(op, errors.New(msgSameTargetLang))
	}
	return s.schedule(ctx, op, task.TypeTranslateUnit, task.TranslateUnitPayload{
		UnitID:         unitID,
		UserID:         userID,
		TargetLanguage: targetLanguage,
	})
}

func (s *taskService) GeneratePhrases(
	ctx context.Context,
	userID, unitID uuid.UUID,
	in GenerateInput,
) (uuid.UUID, error) {
	const op = "generate phrases"
	if err := domain.ValidateLanguageCode(in.TargetLanguage); err != nil {
		return uuid.Nil, invalidInput(op, err)
	}
	if in.Count < 0 || in.Count > MaxGeneratedPhrases {
		return uuid.Nil, invalidInput(op, errors.New(msgCountOutOfBounds))
	}
	unit, err := s.ownedUnit(ctx, op, userID, unitID)
	if err != nil {
		return uuid.Nil, err
	}
	if domain.SamePrimaryLanguage(unit.Language, in.TargetLanguage) {
		return uuid.Nil, invalidInput(op, errors.New(msgSameTargetLang))
	}

	payload := task.GeneratePhrasesPayload{
		UnitID:         unitID,
		UserID:         userID,
		TargetLanguage: in.TargetLanguage,
		Count:          in.Count,
	}
	if in.CEFR != nil {
		payload.CEFR = *in.CEFR
	}
	return s.schedule(ctx, op, task.TypeGeneratePhrases, payload)
}

func (s *taskService) ValidateUnit(ctx context.Context, userID, unitID uuid.UUID) (uuid.UUID, error) {
	const op = "validate unit"
	if _, err := s.ownedUnit(ctx, op, userID, unitID); err != nil {
		return uuid.Nil, err
	}
	return s.schedule(ctx, op, task.TypeValidateUnit, task.UnitPayload{UnitID: unitID})
}

func (s *taskService) VerifyTranslation(ctx context.Context, userID, translationID uuid.UUID) (uuid.UUID, error) {
	const op = "verify translation"
	t, err := s.repos.Translations.GetWithUnits(ctx, translationID)
	if err != nil {
		return uuid.Nil, NewServiceError(op, msgTranslationGone, err)
	}
	if t.Source.UserID != userID {
		return uuid.Nil, NewServiceError(op, msgTranslationGone, store.ErrTranslationNotFound)
	}
	return s.schedule(ctx, op, task.TypeVerifyTranslation, task.TranslationPayload{TranslationID: translationID})
}

func (s *taskService) EnrichPhrase(ctx context.Context, phraseID uuid.UUID) (uuid.UUID, error) {
	const op = "enrich phrase"
	if _, err := s.repos.Phrases.GetByID(ctx, phraseID); err != nil {
		return uuid.Nil, NewServiceError(op, msgPhraseNotFound, err)
	}
	return s.schedule(ctx, op, task.TypeEnrichPhrase, task.PhrasePayload{PhraseID: phraseID})
}

func (s *taskService) AnalyzeText(ctx context.Context, userID uuid.UUID, text, language string) (uuid.UUID, error) {
	const op = "analyze text"
	if strings.TrimSpace(text) == "" {
		return uuid.Nil, invalidInput(op, errors.New(msgTextRequired))
	}
	if language != "" {
		if err := domain.ValidateLanguageCode(language); err != nil {
			return uuid.Nil, invalidInput(op, err)
		}
	}
	return s.schedule(ctx, op, task.TypeAnalyzeText, task.AnalyzeTextPayload{
		Text:     text,
		UserID:   userID,
		Language: language,
	})
}

func (s *taskService) Status(ctx context.Context, taskID uuid.UUID) (*task.Record, error) {
	rec, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("task status", msgTaskNotFound, err)
	}
	return rec, nil
}

func (s *taskService) ownedUnit(ctx context.Context, op string, userID, unitID uuid.UUID) (*domain.LexicalUnit, error) {
	unit, err := s.repos.Units.GetForUser(ctx, unitID, userID)
	if err != nil {
		return nil, NewServiceError(op, msgUnitNotFound, err)
	}
	return unit, nil
}

func (s *taskService) schedule(ctx context.Context, op, taskType string, payload any) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	id, err := s.scheduler.Schedule(ctx, taskType, payload)
	if err != nil {
		log.Error("failed to queue task",
			"task_type", taskType,
			"error", err)
		return uuid.Nil, NewServiceError(op, msgFailedToQueue, fmt.Errorf("%w: %w", ErrScheduleFailed, err))
	}
	log.Info("task queued",
		"task_type", taskType,
		"task_id", id)
	return id, nil
}
