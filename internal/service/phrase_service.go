package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

const (
	msgPhraseExists            = "A phrase with this text and language already exists."
	msgPhraseTranslationExists = "This phrase translation already exists."
)

// PhraseInput describes a new phrase. UnitIDs must name units owned by the
// caller; they are linked to the phrase.
type PhraseInput struct {
	Text     string
	Language string
	CEFR     *domain.CEFRLevel
	Category *domain.PhraseCategory
	UnitIDs  []uuid.UUID
}

// PhraseService manages phrases and phrase translations. Phrases are shared
// between users; unit links stay scoped to the caller's units.
type PhraseService interface {
	Create(ctx context.Context, userID uuid.UUID, in PhraseInput) (*domain.Phrase, error)
	Get(ctx context.Context, phraseID uuid.UUID) (*domain.Phrase, error)
	CreateTranslation(ctx context.Context, sourceID, targetID uuid.UUID) (*domain.PhraseTranslation, error)
}

type phraseService struct {
	repos     store.Repositories
	uow       store.UnitOfWork
	scheduler task.Scheduler
	logger    *slog.Logger
}

// NewPhraseService creates a PhraseService.
func NewPhraseService(
	repos store.Repositories,
	uow store.UnitOfWork,
	scheduler task.Scheduler,
	logger *slog.Logger,
) (PhraseService, error) {
	switch {
	case repos.Phrases == nil || repos.Units == nil:
		return nil, errors.New("phrase service: phrase and unit stores are required")
	case uow == nil:
		return nil, errors.New("phrase service: unit of work is required")
	case scheduler == nil:
		return nil, errors.New("phrase service: scheduler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &phraseService{
		repos:     repos,
		uow:       uow,
		scheduler: scheduler,
		logger:    logger.With(slog.String("component", "phrase_service")),
	}, nil
}

func (s *phraseService) Create(ctx context.Context, userID uuid.UUID, in PhraseInput) (*domain.Phrase, error) {
	const op = "create phrase"
	log := logger.FromContextOrDefault(ctx, s.logger)

	phrase, err := domain.NewPhrase(in.Text, strings.TrimSpace(in.Language), in.CEFR, in.Category)
	if err != nil {
		return nil, invalidInput(op, err)
	}

	err = s.uow.Within(ctx, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Phrases.Create(ctx, phrase); err != nil {
			return err
		}
		for _, unitID := range in.UnitIDs {
			if _, err := repos.Units.GetForUser(ctx, unitID, userID); err != nil {
				return err
			}
			if err := repos.Phrases.LinkUnit(ctx, phrase.ID, unitID); err != nil {
				return err
			}
			phrase.UnitIDs = append(phrase.UnitIDs, unitID)
		}
		return nil
	})
	if err != nil {
		switch {
		case store.IsDuplicateError(err):
			log.Debug("phrase already exists", "language", phrase.Language)
			return nil, NewServiceError(op, msgPhraseExists, err)
		case store.IsNotFoundError(err):
			return nil, NewServiceError(op, "lexical unit not found", err)
		case errors.Is(err, store.ErrInvalidEntity):
			return nil, invalidInput(op, err)
		}
		log.Error("failed to create phrase", "error", err)
		return nil, NewServiceError(op, "failed to save phrase", err)
	}

	log.Info("phrase created",
		"phrase_id", phrase.ID,
		"unit_count", len(phrase.UnitIDs))

	var after triggers
	after.enrichPhrase(phrase.ID)
	after.flush(ctx, s.scheduler, s.logger)
	return phrase, nil
}

func (s *phraseService) Get(ctx context.Context, phraseID uuid.UUID) (*domain.Phrase, error) {
	phrase, err := s.repos.Phrases.GetByID(ctx, phraseID)
	if err != nil {
		return nil, NewServiceError("get phrase", "phrase not found", err)
	}
	return phrase, nil
}

func (s *phraseService) CreateTranslation(
	ctx context.Context,
	sourceID, targetID uuid.UUID,
) (*domain.PhraseTranslation, error) {
	const op = "create phrase translation"
	if sourceID == targetID {
		return nil, invalidInput(op, domain.ErrSelfPhraseTranslate)
	}

	source, err := s.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	t, err := domain.NewPhraseTranslation(source, target)
	if err != nil {
		return nil, invalidInput(op, err)
	}
	if err := s.repos.Phrases.CreateTranslation(ctx, t); err != nil {
		if store.IsDuplicateError(err) {
			return nil, NewServiceError(op, msgPhraseTranslationExists, err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create phrase translation",
			"error", err,
			"source_phrase_id", sourceID,
			"target_phrase_id", targetID)
		return nil, NewServiceError(op, "failed to save phrase translation", err)
	}
	return t, nil
}
