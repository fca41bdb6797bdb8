// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.
package repository

import "errors"

// Errors surfaced by implementations for constraint violations. A missing row
// is reported as sql.ErrNoRows.
var (
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate value")
	// ErrForeignKey reports a foreign key violation: the referenced row is
	// absent on insert/update, or the row is still referenced on delete.
	ErrForeignKey = errors.New("foreign key violation")
)
