// Package postgres provides PostgreSQL implementations of the store
// interfaces and of task.TaskStore, plus the embedded goose migrations that
// create the schema they expect.
//
// Every store accepts a store.DBTX, so the same code runs against a *sql.DB
// or inside a transaction opened by UnitOfWork.
package postgres
