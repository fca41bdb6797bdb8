package service

import (
	"database/sql"
	"errors"
	"fmt"

	"rentalapi/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("token authentication is not configured")
)

// ValidationError reports a rejected input field. It matches ErrValidation
// with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// classify maps repository errors on reads and writes for the named entity.
// A foreign key failure on write means a referenced row does not exist.
func classify(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s already exists: %w", entity, ErrConflict)
	case errors.Is(err, repository.ErrForeignKey):
		return fmt.Errorf("%s references a record that does not exist: %w", entity, ErrNotFound)
	}
	return err
}

// classifyDelete maps repository errors on delete, where a foreign key
// failure means other rows still reference the entity.
func classifyDelete(entity string, err error) error {
	if errors.Is(err, repository.ErrForeignKey) {
		return fmt.Errorf("%s is still referenced by other records: %w", entity, ErrConflict)
	}
	return classify(entity, err)
}
