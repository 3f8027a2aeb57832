package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEntry is returned when a natural key is already taken
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrValidation is returned when input cannot be stored as given
	ErrValidation = errors.New("validation error")

	// ErrForeignKey is returned when a referenced row does not exist
	ErrForeignKey = errors.New("foreign key violation")

	// ErrNoUpdatableFields is returned when a partial update carries no allowed field
	ErrNoUpdatableFields = errors.New("no valid fields to update")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID, or the ID of the existing row for duplicates
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *RepositoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// NotFoundByError creates a "not found" error for a lookup by a secondary key
func NotFoundByError(entity, field, value string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with %s '%s' not found", entity, field, value),
	}
}

// DuplicateError creates a "duplicate entry" repository error
func DuplicateError(entity, field, value string) *RepositoryError {
	return &RepositoryError{
		Op:      "create",
		Entity:  entity,
		Err:     ErrDuplicateEntry,
		Message: fmt.Sprintf("%s with %s '%s' already exists", entity, field, value),
	}
}

// ConflictError creates a "duplicate entry" error that points at the row already holding the key
func ConflictError(entity, field, value, existingID string) *RepositoryError {
	err := DuplicateError(entity, field, value)
	err.ID = existingID
	return err
}

// ValidationError creates a "validation" repository error
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     ErrValidation,
		Message: fmt.Sprintf("validation failed for %s: %v", entity, err),
	}
}

// ForeignKeyError creates a "foreign key" repository error for a missing referenced row
func ForeignKeyError(entity, field string) *RepositoryError {
	return &RepositoryError{
		Op:      "write",
		Entity:  entity,
		Err:     ErrForeignKey,
		Message: fmt.Sprintf("referenced %s does not exist", field),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if an error is a "duplicate entry" error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForeignKey checks if an error is a "foreign key" error
func IsForeignKey(err error) bool {
	return errors.Is(err, ErrForeignKey)
}

// IsNoUpdatableFields checks if a partial update carried nothing to write
func IsNoUpdatableFields(err error) bool {
	return errors.Is(err, ErrNoUpdatableFields)
}

// ExistingID returns the ID of the row that caused a duplicate error, if known
func ExistingID(err error) string {
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) && errors.Is(repoErr.Err, ErrDuplicateEntry) {
		return repoErr.ID
	}
	return ""
}
