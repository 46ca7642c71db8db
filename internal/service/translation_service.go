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

const (
	msgNotOwnedSource     = "You can only create translations for your own lexical units."
	msgTranslationExists  = "This translation already exists."
	msgImportPartRequired = "'part_of_speech' and 'lexical_category' are required for a LEXICAL_UNIT."
)

// ImportEntityType selects what an external import creates.
type ImportEntityType string

// Supported import entity types.
const (
	ImportLexicalUnit ImportEntityType = "LEXICAL_UNIT"
	ImportPhrase      ImportEntityType = "PHRASE"
)

// LinkInput describes a translation link between two existing units.
type LinkInput struct {
	SourceUnitID uuid.UUID
	TargetUnitID uuid.UUID
	Type         domain.TranslationType
	Confidence   *float64
}

// BulkInput creates one source unit and links it to every target, creating
// missing units on the way.
type BulkInput struct {
	Source     UnitInput
	Targets    []UnitInput
	Type       domain.TranslationType
	Confidence *float64
}

// BulkResult is the outcome of a bulk creation.
type BulkResult struct {
	Source       *domain.LexicalUnit
	Translations []*domain.LexicalUnitTranslation
}

// ImportItem is one text payload of an external import.
type ImportItem struct {
	Text            string
	Language        string
	PartOfSpeech    domain.PartOfSpeech
	LexicalCategory domain.LexicalCategory
	Pronunciation   string
}

func (it ImportItem) key(userID uuid.UUID) domain.UnitKey {
	return domain.UnitKey{
		UserID:          userID,
		Lemma:           it.Text,
		Language:        strings.TrimSpace(it.Language),
		PartOfSpeech:    it.PartOfSpeech,
		LexicalCategory: it.LexicalCategory,
	}
}

// ImportInput is a record pushed by an external service.
type ImportInput struct {
	EntityType ImportEntityType
	Source     ImportItem
	Targets    []ImportItem
	Confidence *float64
}

// ImportResult lists the entities an import resolved to. Only the fields of
// the imported entity type are set.
type ImportResult struct {
	EntityType    ImportEntityType
	SourceUnit    *domain.LexicalUnit
	TargetUnits   []*domain.LexicalUnit
	SourcePhrase  *domain.Phrase
	TargetPhrases []*domain.Phrase
}

// TranslationService manages translation links between a user's units.
type TranslationService interface {
	// Link connects two existing units owned by the caller.
	Link(ctx context.Context, userID uuid.UUID, in LinkInput) (*domain.LexicalUnitTranslation, error)

	// Get returns a link together with both of its units.
	Get(ctx context.Context, userID, translationID uuid.UUID) (*domain.TranslationWithUnits, error)

	// ListForUnit returns the links whose source is the given unit.
	ListForUnit(ctx context.Context, userID, unitID uuid.UUID) ([]*domain.LexicalUnitTranslation, error)

	// BulkCreate writes the source, targets and links in one transaction.
	BulkCreate(ctx context.Context, userID uuid.UUID, in BulkInput) (*BulkResult, error)

	// Import stores an externally produced unit or phrase and its
	// translations in one transaction.
	Import(ctx context.Context, userID uuid.UUID, in ImportInput) (*ImportResult, error)
}

type translationService struct {
	repos     store.Repositories
	uow       store.UnitOfWork
	scheduler task.Scheduler
	logger    *slog.Logger
}

// NewTranslationService creates a TranslationService.
func NewTranslationService(
	repos store.Repositories,
	uow store.UnitOfWork,
	scheduler task.Scheduler,
	logger *slog.Logger,
) (TranslationService, error) {
	switch {
	case repos.Units == nil || repos.Translations == nil || repos.Phrases == nil:
		return nil, errors.New("translation service: unit, translation and phrase stores are required")
	case uow == nil:
		return nil, errors.New("translation service: unit of work is required")
	case scheduler == nil:
		return nil, errors.New("translation service: scheduler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &translationService{
		repos:     repos,
		uow:       uow,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "translation_service")),
	}, nil
}

func (s *translationService) Link(
	ctx context.Context,
	userID uuid.UUID,
	in LinkInput,
) (*domain.LexicalUnitTranslation, error) {
	const op = "link translation"
	log := logger.FromContextOrDefault(ctx, s.logger)

	source, err := s.loadUnit(ctx, op, in.SourceUnitID)
	if err != nil {
		return nil, err
	}
	target, err := s.loadUnit(ctx, op, in.TargetUnitID)
	if err != nil {
		return nil, err
	}

	t, err := domain.NewLexicalUnitTranslation(source, target, in.Type)
	if err != nil {
		return nil, invalidInput(op, err)
	}
	if source.UserID != userID {
		return nil, NewServiceError(op, msgNotOwnedSource, ErrNotOwned)
	}
	t.Confidence = in.Confidence
	if err := t.Validate(); err != nil {
		return nil, invalidInput(op, err)
	}

	if err := s.repos.Translations.Create(ctx, t); err != nil {
		if store.IsDuplicateError(err) {
			return nil, NewServiceError(op, msgTranslationExists, err)
		}
		log.Error("failed to create translation",
			"error", err,
			"source_unit_id", source.ID,
			"target_unit_id", target.ID)
		return nil, NewServiceError(op, "failed to save translation", err)
	}

	log.Info("translation linked",
		"translation_id", t.ID,
		"source_unit_id", source.ID,
		"target_unit_id", target.ID)

	var after triggers
	after.verifyTranslation(t.ID)
	after.flush(ctx, s.scheduler, s.logger)
	return t, nil
}

func (s *translationService) loadUnit(ctx context.Context, op string, id uuid.UUID) (*domain.LexicalUnit, error) {
	unit, err := s.repos.Units.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError(op, "lexical unit not found", err)
	}
	return unit, nil
}

func (s *translationService) Get(
	ctx context.Context,
	userID, translationID uuid.UUID,
) (*domain.TranslationWithUnits, error) {
	const op = "get translation"
	t, err := s.repos.Translations.GetWithUnits(ctx, translationID)
	if err != nil {
		return nil, NewServiceError(op, "translation not found", err)
	}
	if t.Source.UserID != userID {
		return nil, NewServiceError(op, "translation not found", store.ErrTranslationNotFound)
	}
	return t, nil
}

func (s *translationService) ListForUnit(
	ctx context.Context,
	userID, unitID uuid.UUID,
) ([]*domain.LexicalUnitTranslation, error) {
	const op = "list translations"
	if _, err := s.repos.Units.GetForUser(ctx, unitID, userID); err != nil {
		return nil, NewServiceError(op, "lexical unit not found", err)
	}
	links, err := s.repos.Translations.ListBySource(ctx, unitID)
	if err != nil {
		return nil, NewServiceError(op, "failed to list translations", err)
	}
	if links == nil {
		links = []*domain.LexicalUnitTranslation{}
	}
	return links, nil
}

func (s *translationService) BulkCreate(ctx context.Context, userID uuid.UUID, in BulkInput) (*BulkResult, error) {
	const op = "bulk create translations"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(in.Targets) == 0 {
		return nil, invalidInput(op, errors.New("at least one target is required"))
	}
	for _, unit := range append([]UnitInput{in.Source}, in.Targets...) {
		if !unit.PartOfSpeech.IsValid() {
			return nil, invalidInput(op, fmt.Errorf("%w: %q", domain.ErrInvalidPartOfSpeech, unit.PartOfSpeech))
		}
	}
	if in.Type == "" {
		in.Type = domain.TranslationManual
	}

	var (
		result BulkResult
		after  triggers
	)
	err := s.uow.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
		result = BulkResult{Translations: []*domain.LexicalUnitTranslation{}}
		after = nil

		source, created, err := repos.Units.GetOrCreate(ctx, in.Source.key(userID), strings.TrimSpace(in.Source.Pronunciation))
		if err != nil {
			return err
		}
		if created {
			after.validateUnit(source.ID)
		}
		result.Source = source

		for _, target := range in.Targets {
			unit, created, err := repos.Units.GetOrCreate(ctx, target.key(userID), strings.TrimSpace(target.Pronunciation))
			if err != nil {
				return err
			}
			if created {
				after.validateUnit(unit.ID)
			}
			t, created, err := linkUnits(ctx, repos, source, unit, in.Type, in.Confidence)
			if err != nil {
				return err
			}
			if created {
				after.verifyTranslation(t.ID)
			}
			result.Translations = append(result.Translations, t)
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(ctx, op, err)
	}

	log.Info("bulk translations created",
		"source_unit_id", result.Source.ID,
		"translation_count", len(result.Translations),
		"scheduled_count", len(after))
	after.flush(ctx, s.scheduler, s.logger)
	return &result, nil
}

func (s *translationService) Import(ctx context.Context, userID uuid.UUID, in ImportInput) (*ImportResult, error) {
	const op = "import"

	var (
		result *ImportResult
		after  triggers
	)
	var write func(ctx context.Context, repos store.Repositories) error

	switch in.EntityType {
	case ImportLexicalUnit:
		if !in.Source.PartOfSpeech.IsValid() || !in.Source.LexicalCategory.IsValid() {
			return nil, invalidInput(op, errors.New(msgImportPartRequired))
		}
		write = func(ctx context.Context, repos store.Repositories) error {
			result, after = &ImportResult{EntityType: ImportLexicalUnit, TargetUnits: []*domain.LexicalUnit{}}, nil

			source, created, err := repos.Units.GetOrCreate(ctx, in.Source.key(userID), in.Source.Pronunciation)
			if err != nil {
				return err
			}
			if created {
				after.validateUnit(source.ID)
			}
			result.SourceUnit = source

			for _, item := range in.Targets {
				target, created, err := repos.Units.GetOrCreate(ctx, item.key(userID), item.Pronunciation)
				if err != nil {
					return err
				}
				if created {
					after.validateUnit(target.ID)
				}
				result.TargetUnits = append(result.TargetUnits, target)

				t, created, err := linkUnits(ctx, repos, source, target, domain.TranslationImported, in.Confidence)
				if err != nil {
					return err
				}
				if created {
					after.verifyTranslation(t.ID)
				}
			}
			return nil
		}

	case ImportPhrase:
		write = func(ctx context.Context, repos store.Repositories) error {
			result, after = &ImportResult{EntityType: ImportPhrase, TargetPhrases: []*domain.Phrase{}}, nil

			source, created, err := repos.Phrases.GetOrCreate(ctx, in.Source.Text, strings.TrimSpace(in.Source.Language), nil)
			if err != nil {
				return err
			}
			if created {
				after.enrichPhrase(source.ID)
			}
			result.SourcePhrase = source

			for _, item := range in.Targets {
				target, created, err := repos.Phrases.GetOrCreate(ctx, item.Text, strings.TrimSpace(item.Language), nil)
				if err != nil {
					return err
				}
				if created {
					after.enrichPhrase(target.ID)
				}
				result.TargetPhrases = append(result.TargetPhrases, target)

				if _, err := domain.NewPhraseTranslation(source, target); err != nil {
					return &domainRejection{err: err}
				}
				if _, _, err := repos.Phrases.GetOrCreateTranslation(ctx, source.ID, target.ID); err != nil {
					return err
				}
			}
			return nil
		}

	default:
		return nil, invalidInput(op, fmt.Errorf("unsupported entity type %q", in.EntityType))
	}

	if err := s.uow.Within(ctx, write); err != nil {
		return nil, s.writeError(ctx, op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("external record imported",
		"entity_type", string(in.EntityType),
		"target_count", len(in.Targets),
		"scheduled_count", len(after))
	after.flush(ctx, s.scheduler, s.logger)
	return result, nil
}

// writeError converts a failed transactional write into a ServiceError.
func (s *translationService) writeError(ctx context.Context, op string, err error) error {
	var domainErr *domainRejection
	switch {
	case errors.As(err, &domainErr):
		return invalidInput(op, domainErr.err)
	case errors.Is(err, store.ErrInvalidEntity):
		return invalidInput(op, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("transactional write failed",
		"operation", op,
		"error", err)
	return NewServiceError(op, "failed to save translations", err)
}

// domainRejection carries a domain validation error out of a transaction
// so its message reaches the client unchanged.
type domainRejection struct{ err error }

func (e *domainRejection) Error() string { return e.err.Error() }
func (e *domainRejection) Unwrap() error { return e.err }

// linkUnits returns the edge from source to target, creating it when
// missing. A non-nil confidence is stored only on a new edge.
func linkUnits(
	ctx context.Context,
	repos store.Repositories,
	source, target *domain.LexicalUnit,
	translationType domain.TranslationType,
	confidence *float64,
) (*domain.LexicalUnitTranslation, bool, error) {
	if err := domain.ValidateTranslationEndpoints(source, target); err != nil {
		return nil, false, &domainRejection{err: err}
	}
	if confidence == nil {
		return repos.Translations.GetOrCreate(ctx, source.ID, target.ID, translationType)
	}

	existing, err := repos.Translations.ListBySource(ctx, source.ID)
	if err != nil {
		return nil, false, err
	}
	for _, t := range existing {
		if t.TargetUnitID == target.ID {
			return t, false, nil
		}
	}

	t, err := domain.NewLexicalUnitTranslation(source, target, translationType)
	if err != nil {
		return nil, false, &domainRejection{err: err}
	}
	t.Confidence = confidence
	if err := t.Validate(); err != nil {
		return nil, false, &domainRejection{err: err}
	}
	if err := repos.Translations.Create(ctx, t); err != nil {
		return nil, false, err
	}
	return t, true, nil
}
