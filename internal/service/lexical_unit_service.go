package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

const msgUnitExists = "This lexical unit already exists in your list."

// UnitInput holds the user-editable fields of a lexical unit.
type UnitInput struct {
	Lemma           string
	Language        string
	PartOfSpeech    domain.PartOfSpeech
	LexicalCategory domain.LexicalCategory
	Pronunciation   string
	Notes           string

	// Status is ignored on create; empty keeps the current status on update.
	Status domain.LearningStatus
}

func (in UnitInput) key(userID uuid.UUID) domain.UnitKey {
	return domain.UnitKey{
		UserID:          userID,
		Lemma:           in.Lemma,
		Language:        strings.TrimSpace(in.Language),
		PartOfSpeech:    in.PartOfSpeech,
		LexicalCategory: in.LexicalCategory,
	}
}

// LexicalUnitService manages a user's lexical units. Every operation is
// scoped to the calling user; another user's unit is reported as not found.
type LexicalUnitService interface {
	// Create stores a new unit. An empty part of speech creates a stub.
	Create(ctx context.Context, userID uuid.UUID, in UnitInput) (*domain.LexicalUnit, error)

	Get(ctx context.Context, userID, unitID uuid.UUID) (*domain.LexicalUnit, error)

	// List returns the user's units, newest first.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.LexicalUnit, error)

	// Update replaces the user fields of a unit and queues it for validation.
	Update(ctx context.Context, userID, unitID uuid.UUID, in UnitInput) (*domain.LexicalUnit, error)

	// Delete removes a unit together with its translation links.
	Delete(ctx context.Context, userID, unitID uuid.UUID) error
}

type lexicalUnitService struct {
	units     store.LexicalUnitStore
	scheduler task.Scheduler
	logger    *slog.Logger
}

// NewLexicalUnitService creates a LexicalUnitService.
func NewLexicalUnitService(
	units store.LexicalUnitStore,
	scheduler task.Scheduler,
	logger *slog.Logger,
) (LexicalUnitService, error) {
	if units == nil {
		return nil, errors.New("lexical unit service: unit store is required")
	}
	if scheduler == nil {
		return nil, errors.New("lexical unit service: scheduler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &lexicalUnitService{
		units:     units,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "lexical_unit_service")),
	}, nil
}

func (s *lexicalUnitService) Create(
	ctx context.Context,
	userID uuid.UUID,
	in UnitInput,
) (*domain.LexicalUnit, error) {
	const op = "create lexical unit"
	log := logger.FromContextOrDefault(ctx, s.logger)

	unit, err := domain.NewLexicalUnit(in.key(userID), strings.TrimSpace(in.Pronunciation))
	if err != nil {
		return nil, invalidInput(op, err)
	}
	unit.Notes = in.Notes

	if err := s.units.Create(ctx, unit); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("lexical unit already exists",
				"user_id", userID,
				"lemma", unit.Lemma)
			return nil, NewServiceError(op, msgUnitExists, err)
		}
		log.Error("failed to create lexical unit",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError(op, "failed to save lexical unit", err)
	}

	log.Info("lexical unit created",
		"unit_id", unit.ID,
		"user_id", userID,
		"stub", unit.IsStub())

	var after triggers
	after.validateUnit(unit.ID)
	after.flush(ctx, s.scheduler, s.logger)
	return unit, nil
}

func (s *lexicalUnitService) Get(ctx context.Context, userID, unitID uuid.UUID) (*domain.LexicalUnit, error) {
	unit, err := s.units.GetForUser(ctx, unitID, userID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load lexical unit",
				"error", err,
				"unit_id", unitID)
		}
		return nil, NewServiceError("get lexical unit", "lexical unit not found", err)
	}
	return unit, nil
}

func (s *lexicalUnitService) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.LexicalUnit, error) {
	units, err := s.units.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, NewServiceError("list lexical units", "failed to list lexical units", err)
	}
	if units == nil {
		units = []*domain.LexicalUnit{}
	}
	return units, nil
}

func (s *lexicalUnitService) Update(
	ctx context.Context,
	userID, unitID uuid.UUID,
	in UnitInput,
) (*domain.LexicalUnit, error) {
	const op = "update lexical unit"
	log := logger.FromContextOrDefault(ctx, s.logger)

	unit, err := s.Get(ctx, userID, unitID)
	if err != nil {
		return nil, err
	}

	key := in.key(userID).Normalize()
	unit.Lemma = key.Lemma
	unit.Language = key.Language
	unit.PartOfSpeech = key.PartOfSpeech
	unit.LexicalCategory = key.LexicalCategory
	unit.Pronunciation = strings.TrimSpace(in.Pronunciation)
	unit.Notes = in.Notes
	if in.Status != "" {
		unit.Status = in.Status
	}
	unit.Validation = domain.ValidationUnverified
	unit.ValidationNotes = ""
	unit.UpdatedAt = time.Now().UTC()

	if err := unit.Validate(); err != nil {
		return nil, invalidInput(op, err)
	}

	if err := s.units.Update(ctx, unit); err != nil {
		switch {
		case store.IsDuplicateError(err):
			return nil, NewServiceError(op, msgUnitExists, err)
		case store.IsNotFoundError(err):
			return nil, NewServiceError(op, "lexical unit not found", err)
		}
		log.Error("failed to update lexical unit",
			"error", err,
			"unit_id", unitID)
		return nil, NewServiceError(op, "failed to save lexical unit", err)
	}

	log.Info("lexical unit updated", "unit_id", unit.ID)

	var after triggers
	after.validateUnit(unit.ID)
	after.flush(ctx, s.scheduler, s.logger)
	return unit, nil
}

func (s *lexicalUnitService) Delete(ctx context.Context, userID, unitID uuid.UUID) error {
	const op = "delete lexical unit"
	if _, err := s.Get(ctx, userID, unitID); err != nil {
		return err
	}
	if err := s.units.Delete(ctx, unitID); err != nil {
		if store.IsNotFoundError(err) {
			return NewServiceError(op, "lexical unit not found", err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete lexical unit",
			"error", err,
			"unit_id", unitID)
		return NewServiceError(op, "failed to delete lexical unit", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("lexical unit deleted", "unit_id", unitID)
	return nil
}
