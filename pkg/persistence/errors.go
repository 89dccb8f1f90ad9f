// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrAppNotFound indicates an app was not found by the given identifier.
	ErrAppNotFound = errors.New("app not found")

	// ErrPublishedAppNotFound indicates no published app exists for the given group.
	ErrPublishedAppNotFound = errors.New("published app not found")

	// ErrDraftAppNotFound indicates no draft app exists for the given group.
	ErrDraftAppNotFound = errors.New("draft app not found")

	// ErrAppAlreadyExists indicates an app with the same identifier already exists.
	ErrAppAlreadyExists = errors.New("app already exists")

	// ErrInvalidAppStatus indicates an invalid app status was provided.
	ErrInvalidAppStatus = errors.New("invalid app status")

	// ErrComponentNotFound indicates a placed component was not found.
	ErrComponentNotFound = errors.New("component not found")

	// ErrConnectionNotFound indicates a connection was not found.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrInvalidSortField indicates a sort field outside the allowlist.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidPortFormat indicates a connection port reference that does not
	// parse as "{node_id}:{port_name}".
	ErrInvalidPortFormat = errors.New("invalid port format")
)

// AppError wraps app-related errors with additional context.
type AppError struct {
	Op      string // Operation being performed (e.g., "GetByID", "Save", "Delete")
	AppID   string // App ID if applicable
	GroupID string // App group ID if applicable
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *AppError) Error() string {
	target := e.AppID
	if e.GroupID != "" {
		target = fmt.Sprintf("group %s", e.GroupID)
	}

	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for app %s: %s (%v)", e.Op, target, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for app %s: %v", e.Op, target, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for app errors.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewAppError creates a new app error with context.
func NewAppError(op, appID string, err error) *AppError {
	return &AppError{
		Op:    op,
		AppID: appID,
		Err:   err,
	}
}

// NewAppGroupError creates a new app error for group operations.
func NewAppGroupError(op, groupID string, err error) *AppError {
	return &AppError{
		Op:      op,
		GroupID: groupID,
		Err:     err,
	}
}

// IsAppNotFound checks whether an error means the app does not exist.
func IsAppNotFound(err error) bool {
	return errors.Is(err, ErrAppNotFound)
}

// IsPublishedAppNotFound checks whether an error means no published version exists.
func IsPublishedAppNotFound(err error) bool {
	return errors.Is(err, ErrPublishedAppNotFound)
}

// IsDraftAppNotFound checks whether an error means no draft version exists.
func IsDraftAppNotFound(err error) bool {
	return errors.Is(err, ErrDraftAppNotFound)
}

// IsComponentNotFound checks whether an error means the component does not exist.
func IsComponentNotFound(err error) bool {
	return errors.Is(err, ErrComponentNotFound)
}

// IsConnectionNotFound checks whether an error means the connection does not exist.
func IsConnectionNotFound(err error) bool {
	return errors.Is(err, ErrConnectionNotFound)
}

// IsInvalidSortField checks whether an error is a sort allowlist violation.
func IsInvalidSortField(err error) bool {
	return errors.Is(err, ErrInvalidSortField)
}

// IsInvalidPortFormat checks whether an error is a malformed port reference.
func IsInvalidPortFormat(err error) bool {
	return errors.Is(err, ErrInvalidPortFormat)
}
