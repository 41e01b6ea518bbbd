package storage

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bookcore/internal/engine"
)

// Postgres error codes that signal a losing writer: exclusion_violation from
// the appointment overlap constraints, unique_violation elsewhere.
const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"
)

// errNoRows lets repositories signal a zero-row UPDATE/DELETE through the
// same wrapNotFound path as QueryRow scans.
var errNoRows = pgx.ErrNoRows

// wrapNotFound converts a missing-row error into the engine's typed
// not-found error, leaving everything else untouched.
func wrapNotFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %q: %w", what, id, engine.ErrNotFound)
	}
	return err
}

// wrapConflict converts a constraint violation into the engine's typed
// conflict error, leaving everything else untouched.
func wrapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == codeExclusionViolation || pgErr.Code == codeUniqueViolation) {
		return fmt.Errorf("overlapping appointment: %w", engine.ErrConflict)
	}
	return err
}
