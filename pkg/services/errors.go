// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/agp-labs/builder/pkg/persistence"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidStatus    = errors.New("invalid app status")
	ErrEmptyOwnerID     = errors.New("owner ID cannot be empty")

	// Component validation errors.
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrInvalidProps         = errors.New("invalid component props")

	// ErrComponentNotFound aliases the persistence sentinel so lookups
	// surface as 404 regardless of which layer produced the error.
	ErrComponentNotFound = persistence.ErrComponentNotFound

	// Connection validation errors.
	ErrInvalidConnectionData = errors.New("invalid connection data")
	ErrSelfLoopConnection    = errors.New("connection cannot target its own source node")
	ErrUnknownPort           = errors.New("port does not exist on node")

	// Publishing validation errors.
	ErrAppNameRequired     = errors.New("app name is required")
	ErrComponentsRequired  = errors.New("app must have at least one component")
	ErrDanglingConnections = errors.New("app has connections referencing missing components")
	ErrAppNil              = errors.New("app cannot be nil")

	// Business Logic Conflicts (409 Conflict).
	ErrCannotModifyPublished   = errors.New("cannot modify published app")
	ErrCannotModifyUnpublished = errors.New("cannot modify unpublished app")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrEmptyOwnerID) ||
		errors.Is(err, ErrUnknownComponentType) ||
		errors.Is(err, ErrInvalidProps) ||
		errors.Is(err, ErrInvalidConnectionData) ||
		errors.Is(err, ErrSelfLoopConnection) ||
		errors.Is(err, ErrUnknownPort) ||
		errors.Is(err, ErrAppNameRequired) ||
		errors.Is(err, ErrComponentsRequired) ||
		errors.Is(err, ErrDanglingConnections) ||
		errors.Is(err, ErrAppNil)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrCannotModifyPublished) ||
		errors.Is(err, ErrCannotModifyUnpublished)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
