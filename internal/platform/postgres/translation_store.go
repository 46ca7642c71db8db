package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// PostgresTranslationStore implements store.TranslationStore.
type PostgresTranslationStore struct {
	db     store.DBTX
	units  *PostgresLexicalUnitStore
	logger *slog.Logger
}

var _ store.TranslationStore = (*PostgresTranslationStore)(nil)

// NewPostgresTranslationStore creates a translation store on db.
func NewPostgresTranslationStore(db store.DBTX, logger *slog.Logger) *PostgresTranslationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTranslationStore{
		db:     db,
		units:  NewPostgresLexicalUnitStore(db, logger),
		logger: logger.With(slog.String("component", "translation_store")),
	}
}

const translationColumns = `id, source_unit_id, target_unit_id, translation_type, confidence,
	validation_status, validation_notes, created_at, updated_at`

// Create implements store.TranslationStore.Create
func (s *PostgresTranslationStore) Create(ctx context.Context, t *domain.LexicalUnitTranslation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lexical_unit_translations (`+translationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, translationArgs(t)...)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrTranslationExists
		}
		log.Error("failed to create translation",
			slog.String("source_unit_id", t.SourceUnitID.String()),
			slog.String("target_unit_id", t.TargetUnitID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetOrCreate implements store.TranslationStore.GetOrCreate
func (s *PostgresTranslationStore) GetOrCreate(
	ctx context.Context,
	sourceID, targetID uuid.UUID,
	translationType domain.TranslationType,
) (*domain.LexicalUnitTranslation, bool, error) {
	if translationType == "" {
		translationType = domain.TranslationManual
	}
	now := time.Now().UTC()
	t := &domain.LexicalUnitTranslation{
		ID:           uuid.New(),
		SourceUnitID: sourceID,
		TargetUnitID: targetID,
		Type:         translationType,
		Validation:   domain.ValidationUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lexical_unit_translations (`+translationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT ON CONSTRAINT lexical_unit_translations_pair DO NOTHING
		RETURNING id
	`, translationArgs(t)...).Scan(&id)
	switch {
	case err == nil:
		return t, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, MapError(err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+translationColumns+` FROM lexical_unit_translations
		WHERE source_unit_id = $1 AND target_unit_id = $2
	`, sourceID, targetID)
	existing, err := scanTranslation(row)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID implements store.TranslationStore.GetByID
func (s *PostgresTranslationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LexicalUnitTranslation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+translationColumns+` FROM lexical_unit_translations WHERE id = $1`, id)
	return scanTranslation(row)
}

// GetWithUnits implements store.TranslationStore.GetWithUnits
func (s *PostgresTranslationStore) GetWithUnits(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TranslationWithUnits, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	source, err := s.units.GetByID(ctx, t.SourceUnitID)
	if err != nil {
		return nil, fmt.Errorf("loading source unit: %w", err)
	}
	target, err := s.units.GetByID(ctx, t.TargetUnitID)
	if err != nil {
		return nil, fmt.Errorf("loading target unit: %w", err)
	}
	return &domain.TranslationWithUnits{Translation: t, Source: source, Target: target}, nil
}

// ListBySource implements store.TranslationStore.ListBySource
func (s *PostgresTranslationStore) ListBySource(
	ctx context.Context,
	sourceID uuid.UUID,
) ([]*domain.LexicalUnitTranslation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+translationColumns+` FROM lexical_unit_translations
		WHERE source_unit_id = $1
		ORDER BY created_at
	`, sourceID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var translations []*domain.LexicalUnitTranslation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, err
		}
		translations = append(translations, t)
	}
	return translations, MapError(rows.Err())
}

// UpdateVerification implements store.TranslationStore.UpdateVerification
func (s *PostgresTranslationStore) UpdateVerification(
	ctx context.Context,
	id uuid.UUID,
	status domain.ValidationStatus,
	notes string,
	confidence float64,
) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidValidation)
	}
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidConfidence)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE lexical_unit_translations
		SET validation_status = $1, validation_notes = $2, confidence = $3, updated_at = $4
		WHERE id = $5
	`, status, notes, confidence, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "translation"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTranslationNotFound
		}
		return err
	}
	return nil
}

func translationArgs(t *domain.LexicalUnitTranslation) []any {
	return []any{
		t.ID, t.SourceUnitID, t.TargetUnitID, t.Type, t.Confidence,
		t.Validation, t.ValidationNotes, t.CreatedAt, t.UpdatedAt,
	}
}

func scanTranslation(row rowScanner) (*domain.LexicalUnitTranslation, error) {
	var (
		t          domain.LexicalUnitTranslation
		confidence sql.NullFloat64
	)
	err := row.Scan(
		&t.ID, &t.SourceUnitID, &t.TargetUnitID, &t.Type, &confidence,
		&t.Validation, &t.ValidationNotes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTranslationNotFound
		}
		return nil, MapError(err)
	}
	if confidence.Valid {
		c := confidence.Float64
		t.Confidence = &c
	}
	return &t, nil
}
