package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/lingo-api/internal/store"
)

// UnitOfWork runs functions inside a database transaction with stores bound
// to that transaction.
type UnitOfWork struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork creates a UnitOfWork on db.
func NewUnitOfWork(db *sql.DB, logger *slog.Logger) *UnitOfWork {
	if db == nil {
		panic("db cannot be nil")
	}
	return &UnitOfWork{db: db, logger: logger}
}

// Within implements store.UnitOfWork.
func (u *UnitOfWork) Within(
	ctx context.Context,
	fn func(ctx context.Context, repos store.Repositories) error,
) error {
	return store.RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewRepositories(tx, u.logger))
	})
}

// NewRepositories builds every entity store on db.
func NewRepositories(db store.DBTX, logger *slog.Logger) store.Repositories {
	return store.Repositories{
		Users:        NewPostgresUserStore(db, logger),
		Units:        NewPostgresLexicalUnitStore(db, logger),
		Translations: NewPostgresTranslationStore(db, logger),
		Phrases:      NewPostgresPhraseStore(db, logger),
	}
}
