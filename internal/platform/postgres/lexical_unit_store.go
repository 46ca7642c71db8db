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

// PostgresLexicalUnitStore implements store.LexicalUnitStore.
type PostgresLexicalUnitStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.LexicalUnitStore = (*PostgresLexicalUnitStore)(nil)

// NewPostgresLexicalUnitStore creates a lexical unit store on db.
func NewPostgresLexicalUnitStore(db store.DBTX, logger *slog.Logger) *PostgresLexicalUnitStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLexicalUnitStore{
		db:     db,
		logger: logger.With(slog.String("component", "lexical_unit_store")),
	}
}

const unitColumns = `id, user_id, lemma, lexical_category, language, part_of_speech, status,
	pronunciation, notes, validation_status, validation_notes, date_added, last_reviewed, updated_at`

// Create implements store.LexicalUnitStore.Create
func (s *PostgresLexicalUnitStore) Create(ctx context.Context, unit *domain.LexicalUnit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unit.Lemma = domain.Canonicalize(unit.Lemma)
	if err := unit.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lexical_units (`+unitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, unitArgs(unit)...)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("lexical unit already exists",
				slog.String("lemma", unit.Lemma),
				slog.String("language", unit.Language),
				slog.String("part_of_speech", string(unit.PartOfSpeech)))
			return store.ErrUnitExists
		}
		log.Error("failed to create lexical unit", slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.LexicalUnitStore.GetByID
func (s *PostgresLexicalUnitStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LexicalUnit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM lexical_units WHERE id = $1`, id)
	return scanUnit(row)
}

// GetForUser implements store.LexicalUnitStore.GetForUser
func (s *PostgresLexicalUnitStore) GetForUser(
	ctx context.Context,
	id, userID uuid.UUID,
) (*domain.LexicalUnit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM lexical_units WHERE id = $1 AND user_id = $2`, id, userID)
	return scanUnit(row)
}

// GetOrCreate implements store.LexicalUnitStore.GetOrCreate. The insert
// uses ON CONFLICT DO NOTHING so that two concurrent callers converge on
// the same row.
func (s *PostgresLexicalUnitStore) GetOrCreate(
	ctx context.Context,
	key domain.UnitKey,
	pronunciation string,
) (*domain.LexicalUnit, bool, error) {
	key = key.Normalize()
	unit, err := domain.NewLexicalUnit(key, pronunciation)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var id uuid.UUID
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO lexical_units (`+unitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT ON CONSTRAINT lexical_units_natural_key DO NOTHING
		RETURNING id
	`, unitArgs(unit)...).Scan(&id)
	switch {
	case err == nil:
		return unit, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, MapError(err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+unitColumns+` FROM lexical_units
		WHERE user_id = $1 AND lemma = $2 AND language = $3
		  AND part_of_speech = $4 AND lexical_category = $5
	`, key.UserID, key.Lemma, key.Language, key.PartOfSpeech, key.LexicalCategory)
	existing, err := scanUnit(row)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// ListByUser implements store.LexicalUnitStore.ListByUser
func (s *PostgresLexicalUnitStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.LexicalUnit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+unitColumns+` FROM lexical_units
		WHERE user_id = $1
		ORDER BY date_added DESC, id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var units []*domain.LexicalUnit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return units, nil
}

// PartsOfSpeech implements store.LexicalUnitStore.PartsOfSpeech
func (s *PostgresLexicalUnitStore) PartsOfSpeech(
	ctx context.Context,
	userID uuid.UUID,
	lemma, language string,
) ([]domain.PartOfSpeech, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT part_of_speech FROM lexical_units
		WHERE user_id = $1 AND lemma = $2 AND language = $3
		ORDER BY part_of_speech
	`, userID, domain.Canonicalize(lemma), language)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var parts []domain.PartOfSpeech
	for rows.Next() {
		var pos domain.PartOfSpeech
		if err := rows.Scan(&pos); err != nil {
			return nil, MapError(err)
		}
		parts = append(parts, pos)
	}
	return parts, MapError(rows.Err())
}

// Lemmas implements store.LexicalUnitStore.Lemmas
func (s *PostgresLexicalUnitStore) Lemmas(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT lemma FROM lexical_units WHERE user_id = $1 ORDER BY lemma`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var lemmas []string
	for rows.Next() {
		var lemma string
		if err := rows.Scan(&lemma); err != nil {
			return nil, MapError(err)
		}
		lemmas = append(lemmas, lemma)
	}
	return lemmas, MapError(rows.Err())
}

// Update implements store.LexicalUnitStore.Update
func (s *PostgresLexicalUnitStore) Update(ctx context.Context, unit *domain.LexicalUnit) error {
	unit.Lemma = domain.Canonicalize(unit.Lemma)
	if err := unit.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	unit.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE lexical_units
		SET lemma = $1, lexical_category = $2, language = $3, part_of_speech = $4,
		    status = $5, pronunciation = $6, notes = $7, validation_status = $8,
		    validation_notes = $9, last_reviewed = $10, updated_at = $11
		WHERE id = $12
	`,
		unit.Lemma, unit.LexicalCategory, unit.Language, unit.PartOfSpeech,
		unit.Status, unit.Pronunciation, unit.Notes, unit.Validation,
		unit.ValidationNotes, unit.LastReviewed, unit.UpdatedAt, unit.ID,
	)
	if err != nil {
		return MapUniqueViolation(err, store.ErrUnitExists)
	}
	return unitRowsAffected(result)
}

// UpdateValidation implements store.LexicalUnitStore.UpdateValidation
func (s *PostgresLexicalUnitStore) UpdateValidation(
	ctx context.Context,
	id uuid.UUID,
	status domain.ValidationStatus,
	notes string,
) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidValidation)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE lexical_units
		SET validation_status = $1, validation_notes = $2, updated_at = $3
		WHERE id = $4
	`, status, notes, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return unitRowsAffected(result)
}

// UpdatePronunciation implements store.LexicalUnitStore.UpdatePronunciation
func (s *PostgresLexicalUnitStore) UpdatePronunciation(ctx context.Context, id uuid.UUID, pronunciation string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE lexical_units SET pronunciation = $1, updated_at = $2 WHERE id = $3
	`, pronunciation, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}
	return unitRowsAffected(result)
}

// HasLinks implements store.LexicalUnitStore.HasLinks
func (s *PostgresLexicalUnitStore) HasLinks(ctx context.Context, id uuid.UUID) (bool, error) {
	var linked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM lexical_unit_translations
			WHERE source_unit_id = $1 OR target_unit_id = $1
		) OR EXISTS (
			SELECT 1 FROM phrase_units WHERE unit_id = $1
		)
	`, id).Scan(&linked)
	if err != nil {
		return false, MapError(err)
	}
	return linked, nil
}

// Delete implements store.LexicalUnitStore.Delete
func (s *PostgresLexicalUnitStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lexical_units WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return unitRowsAffected(result)
}

func unitRowsAffected(result sql.Result) error {
	if err := CheckRowsAffected(result, "lexical unit"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrUnitNotFound
		}
		return err
	}
	return nil
}

func unitArgs(u *domain.LexicalUnit) []any {
	return []any{
		u.ID, u.UserID, u.Lemma, u.LexicalCategory, u.Language, u.PartOfSpeech, u.Status,
		u.Pronunciation, u.Notes, u.Validation, u.ValidationNotes, u.DateAdded, u.LastReviewed, u.UpdatedAt,
	}
}

func scanUnit(row rowScanner) (*domain.LexicalUnit, error) {
	var (
		u            domain.LexicalUnit
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.UserID, &u.Lemma, &u.LexicalCategory, &u.Language, &u.PartOfSpeech, &u.Status,
		&u.Pronunciation, &u.Notes, &u.Validation, &u.ValidationNotes, &u.DateAdded, &lastReviewed, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUnitNotFound
		}
		return nil, MapError(err)
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time.UTC()
		u.LastReviewed = &t
	}
	return &u, nil
}
