package services

import (
	"database/sql"
	"errors"

	"tableorder_backend/internal/repositories"
)

// Shared service-level errors.
var (
	ErrValidation = errors.New("validation error")
)

// runInTx runs fn inside a database transaction when a database is
// configured, handing it the transaction as the repositories.SQLExecutor.
// In local-only mode (nil db) fn runs against the store directly; the
// in-memory adapter ignores the executor argument.
func runInTx(db *sql.DB, fn func(executor repositories.SQLExecutor) error) error {
	if db == nil {
		return fn(nil)
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
