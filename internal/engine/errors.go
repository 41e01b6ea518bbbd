package engine

import "errors"

// Engine operations fail with exactly one of these kinds, wrapped with a
// message via fmt.Errorf("...: %w", kind). Callers branch with errors.Is or
// the helpers below; there is no partial-commit path.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
)

func IsNotFound(err error) bool          { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool        { return errors.Is(err, ErrValidation) }
func IsConflict(err error) bool          { return errors.Is(err, ErrConflict) }
func IsUnauthorized(err error) bool      { return errors.Is(err, ErrUnauthorized) }
func IsInvalidTransition(err error) bool { return errors.Is(err, ErrInvalidTransition) }
