// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrInvalidFormat = errors.New("invalid format")

	// Policy errors
	ErrLimitExceeded = errors.New("limit exceeded")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrAlreadyProcessed = errors.New("already processed")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Infrastructure errors
	ErrStorage            = errors.New("storage error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "assessment", "ledger"
	Op      string // Operation that failed, e.g., "Create", "Submit"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrInvalidPointAmount   = NewDomainError("student", "Credit", ErrInvalidInput, "point amount must be positive")
	ErrNegativeBalance      = NewDomainError("student", "Validate", ErrNegativeValue, "balance cannot be negative")
)

// Mentor domain errors
var (
	ErrMentorNotFound     = NewDomainError("mentor", "Find", ErrNotFound, "mentor not found")
	ErrInvalidPointLimit  = NewDomainError("mentor", "Validate", ErrInvalidInput, "point limit must be positive")
	ErrGrantLimitExceeded = NewDomainError("mentor", "Grant", ErrLimitExceeded, "grant exceeds mentor point limit")
)

// Assessment domain errors
var (
	ErrTestNotFound         = NewDomainError("assessment", "FindTest", ErrNotFound, "test not found")
	ErrQuestionNotFound     = NewDomainError("assessment", "FindQuestion", ErrNotFound, "question not found")
	ErrOptionNotFound       = NewDomainError("assessment", "FindOption", ErrNotFound, "answer option not found")
	ErrOptionMismatch       = NewDomainError("assessment", "Evaluate", ErrValidation, "option does not belong to question")
	ErrEmptyAnswerSet       = NewDomainError("assessment", "Submit", ErrEmptyValue, "answer set is empty")
	ErrDuplicateSubmission  = NewDomainError("assessment", "Submit", ErrAlreadyExists, "test already submitted by this student")
	ErrDuplicateAnswer      = NewDomainError("assessment", "Submit", ErrValidation, "duplicate answer for question")
	ErrNoCorrectOption      = NewDomainError("assessment", "Validate", ErrInvalidEntity, "question has no correct option")
	ErrMultipleCorrect      = NewDomainError("assessment", "Validate", ErrInvalidEntity, "question has more than one correct option")
	ErrDuplicateOptionLabel = NewDomainError("assessment", "Validate", ErrInvalidEntity, "duplicate option label within question")
)

// User / auth domain errors
var (
	ErrUserNotFound       = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists  = NewDomainError("user", "Create", ErrAlreadyExists, "username already taken")
	ErrInvalidCredentials = NewDomainError("user", "Authenticate", ErrUnauthorized, "invalid username or password")
	ErrInvalidRole        = NewDomainError("user", "Validate", ErrInvalidInput, "invalid role")
)

// Catalog domain errors
var (
	ErrCourseNotFound = NewDomainError("catalog", "FindCourse", ErrNotFound, "course not found")
	ErrGroupNotFound  = NewDomainError("catalog", "FindGroup", ErrNotFound, "group not found")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrInvalidEntity)
}

// IsLimitExceeded checks if the error is a policy limit violation.
func IsLimitExceeded(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}

// IsStorage checks if the error is an infrastructure storage error.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrServiceUnavailable)
}
