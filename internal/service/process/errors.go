package process

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("process not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrRepository       = errors.New("repository failure")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func repositoryErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRepository, op, err)
}
