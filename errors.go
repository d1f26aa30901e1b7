package teamkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for TeamKit operations.
var (
	// ErrValidation is the umbrella error for malformed input. The more
	// specific validation sentinels below all wrap it, so callers can
	// classify with a single errors.Is(err, ErrValidation).
	ErrValidation = errors.New("teamkit: validation failed")

	// ErrInvalidRole is returned when a role neither resolves in the
	// catalog nor references an active custom permission set.
	ErrInvalidRole = fmt.Errorf("%w: invalid role", ErrValidation)

	// ErrInvalidScope is returned when scope and event IDs are
	// inconsistent (per-event scope with no event IDs).
	ErrInvalidScope = fmt.Errorf("%w: invalid scope", ErrValidation)

	// ErrInvalidPermission is returned when a permission ID is unknown.
	ErrInvalidPermission = fmt.Errorf("%w: invalid permission", ErrValidation)

	// ErrInvalidExpiry is returned when an expiry timestamp is not in
	// the future.
	ErrInvalidExpiry = fmt.Errorf("%w: invalid expiry", ErrValidation)

	// ErrEmptyField is returned when a required field is empty.
	ErrEmptyField = fmt.Errorf("%w: required field is empty", ErrValidation)

	// ErrNotFound is returned when a referenced assignment or permission
	// set does not exist.
	ErrNotFound = errors.New("teamkit: not found")

	// ErrConflict is returned when a concurrent modification is detected
	// via the assignment version check. Callers should re-read and retry.
	ErrConflict = errors.New("teamkit: concurrent modification")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("teamkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err          error  // Underlying sentinel error
	Message      string // Additional context
	AssignmentID string // Assignment involved (if applicable)
	FollowerID   string // Follower involved (if applicable)
	OrganizerID  string // Organizer involved (if applicable)
	Role         string // Role involved (if applicable)
	Field        string // Offending field (for validation errors)
	ActorID      string // Actor who triggered the error (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithAssignment adds the assignment ID to the error.
func (e *Error) WithAssignment(assignmentID string) *Error {
	e.AssignmentID = assignmentID
	return e
}

// WithFollower adds the follower ID to the error.
func (e *Error) WithFollower(followerID string) *Error {
	e.FollowerID = followerID
	return e
}

// WithOrganizer adds the organizer ID to the error.
func (e *Error) WithOrganizer(organizerID string) *Error {
	e.OrganizerID = organizerID
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(role string) *Error {
	e.Role = role
	return e
}

// WithField names the offending field for validation errors.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithActor adds the actor that triggered the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// IsValidation checks if an error is any validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a concurrent-modification conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInvalidRole checks if an error is due to an unresolvable role.
func IsInvalidRole(err error) bool {
	return errors.Is(err, ErrInvalidRole)
}

// IsInvalidScope checks if an error is due to inconsistent scope/event IDs.
func IsInvalidScope(err error) bool {
	return errors.Is(err, ErrInvalidScope)
}
