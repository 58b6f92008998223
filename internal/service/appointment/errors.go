package appointment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrPermissionDenied  = errors.New("role is not allowed to perform this operation")
	ErrInvalidTransition = errors.New("appointment status does not allow this transition")
	ErrIncompleteResults = errors.New("session results are incomplete")
	ErrValidation        = errors.New("invalid appointment data")
	ErrNotCompleted      = errors.New("documents can only be attached to completed appointments")
	ErrRepository        = errors.New("appointment store unavailable")
)

// IncompleteResultsError names the outcome fields missing from a completion
// payload. It matches ErrIncompleteResults under errors.Is.
type IncompleteResultsError struct {
	Missing []string
}

func (e *IncompleteResultsError) Error() string {
	return fmt.Sprintf("session results are incomplete: missing %s", strings.Join(e.Missing, ", "))
}

func (e *IncompleteResultsError) Unwrap() error { return ErrIncompleteResults }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func repositoryErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRepository, op, err)
}
