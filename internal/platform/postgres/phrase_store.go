package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresPhraseStore implements store.PhraseStore.
type PostgresPhraseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.PhraseStore = (*PostgresPhraseStore)(nil)

// NewPostgresPhraseStore creates a phrase store on db.
func NewPostgresPhraseStore(db store.DBTX, logger *slog.Logger) *PostgresPhraseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPhraseStore{
		db:     db,
		logger: logger.With(slog.String("component", "phrase_store")),
	}
}

const phraseColumns = `id, text, language, cefr, category, validation_status, validation_notes, created_at, updated_at`

// Create implements store.PhraseStore.Create
func (s *PostgresPhraseStore) Create(ctx context.Context, phrase *domain.Phrase) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := phrase.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phrases (`+phraseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, phraseArgs(phrase)...)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("phrase already exists", slog.String("language", phrase.Language))
			return store.ErrPhraseExists
		}
		log.Error("failed to create phrase", slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.PhraseStore.GetByID
func (s *PostgresPhraseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Phrase, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+phraseColumns+` FROM phrases WHERE id = $1`, id)
	phrase, err := scanPhrase(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT unit_id FROM phrase_units WHERE phrase_id = $1 ORDER BY unit_id`, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var unitID uuid.UUID
		if err := rows.Scan(&unitID); err != nil {
			return nil, MapError(err)
		}
		phrase.UnitIDs = append(phrase.UnitIDs, unitID)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return phrase, nil
}

// GetOrCreate implements store.PhraseStore.GetOrCreate
func (s *PostgresPhraseStore) GetOrCreate(
	ctx context.Context,
	text, language string,
	cefr *domain.CEFRLevel,
) (*domain.Phrase, bool, error) {
	phrase, err := domain.NewPhrase(text, language, cefr, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO phrases (`+phraseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT ON CONSTRAINT phrases_text_language DO NOTHING
		RETURNING id
	`, phraseArgs(phrase)...).Scan(&id)
	switch {
	case err == nil:
		return phrase, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, MapError(err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+phraseColumns+` FROM phrases WHERE text = $1 AND language = $2`,
		strings.TrimSpace(text), language)
	existing, err := scanPhrase(row)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateEnrichment implements store.PhraseStore.UpdateEnrichment
func (s *PostgresPhraseStore) UpdateEnrichment(ctx context.Context, phrase *domain.Phrase) error {
	if err := phrase.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	phrase.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE phrases
		SET cefr = $1, category = $2, validation_status = $3, validation_notes = $4, updated_at = $5
		WHERE id = $6
	`, nullable(phrase.CEFR), nullable(phrase.Category), phrase.Validation,
		phrase.ValidationNotes, phrase.UpdatedAt, phrase.ID)
	if err != nil {
		return MapError(err)
	}
	return phraseRowsAffected(result)
}

// UpdateValidation implements store.PhraseStore.UpdateValidation
func (s *PostgresPhraseStore) UpdateValidation(
	ctx context.Context,
	id uuid.UUID,
	status domain.ValidationStatus,
	notes string,
) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidValidation)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE phrases SET validation_status = $1, validation_notes = $2, updated_at = $3
		WHERE id = $4
	`, status, notes, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return phraseRowsAffected(result)
}

// LinkUnit implements store.PhraseStore.LinkUnit
func (s *PostgresPhraseStore) LinkUnit(ctx context.Context, phraseID, unitID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phrase_units (phrase_id, unit_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, phraseID, unitID)
	return MapError(err)
}

// GetOrCreateTranslation implements store.PhraseStore.GetOrCreateTranslation
func (s *PostgresPhraseStore) GetOrCreateTranslation(
	ctx context.Context,
	sourceID, targetID uuid.UUID,
) (*domain.PhraseTranslation, bool, error) {
	if sourceID == targetID {
		return nil, false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrSelfPhraseTranslate)
	}
	t := &domain.PhraseTranslation{
		ID:             uuid.New(),
		SourcePhraseID: sourceID,
		TargetPhraseID: targetID,
		CreatedAt:      time.Now().UTC(),
	}

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO phrase_translations (id, source_phrase_id, target_phrase_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT phrase_translations_pair DO NOTHING
		RETURNING id
	`, t.ID, t.SourcePhraseID, t.TargetPhraseID, t.CreatedAt).Scan(&id)
	switch {
	case err == nil:
		return t, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, MapError(err)
	}

	var existing domain.PhraseTranslation
	err = s.db.QueryRowContext(ctx, `
		SELECT id, source_phrase_id, target_phrase_id, created_at FROM phrase_translations
		WHERE source_phrase_id = $1 AND target_phrase_id = $2
	`, sourceID, targetID).Scan(
		&existing.ID, &existing.SourcePhraseID, &existing.TargetPhraseID, &existing.CreatedAt)
	if err != nil {
		return nil, false, MapError(err)
	}
	return &existing, false, nil
}

// CreateTranslation implements store.PhraseStore.CreateTranslation
func (s *PostgresPhraseStore) CreateTranslation(ctx context.Context, t *domain.PhraseTranslation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phrase_translations (id, source_phrase_id, target_phrase_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.SourcePhraseID, t.TargetPhraseID, t.CreatedAt)
	return MapError(err)
}

func phraseRowsAffected(result sql.Result) error {
	if err := CheckRowsAffected(result, "phrase"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrPhraseNotFound
		}
		return err
	}
	return nil
}

func nullable[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func phraseArgs(p *domain.Phrase) []any {
	return []any{
		p.ID, p.Text, p.Language, nullable(p.CEFR), nullable(p.Category),
		p.Validation, p.ValidationNotes, p.CreatedAt, p.UpdatedAt,
	}
}

func scanPhrase(row rowScanner) (*domain.Phrase, error) {
	var (
		p        domain.Phrase
		cefr     sql.NullString
		category sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Text, &p.Language, &cefr, &category,
		&p.Validation, &p.ValidationNotes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPhraseNotFound
		}
		return nil, MapError(err)
	}
	if cefr.Valid {
		level := domain.CEFRLevel(cefr.String)
		p.CEFR = &level
	}
	if category.Valid {
		c := domain.PhraseCategory(category.String)
		p.Category = &c
	}
	return &p, nil
}
