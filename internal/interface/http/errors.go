package http

import (
	"errors"
	"net/http"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/catalog"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/shared"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/auth"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// Every domain error kind maps to a distinct HTTP status. Infrastructure
// failures stay opaque: the client sees a generic 500, the log sees the
// cause.
// ══════════════════════════════════════════════════════════════════════════════

// writeError maps a domain error to an HTTP status and writes it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak storage details to clients.
		message = "An unexpected error occurred"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
	}

	writeJSONError(w, status, code, message)
}

// classifyError resolves the (status, code) pair for an error.
func classifyError(err error) (int, string) {
	switch {
	// 409: duplicates
	case errors.Is(err, assessment.ErrAttemptExists),
		errors.Is(err, assessment.ErrDuplicateAnswer),
		errors.Is(err, student.ErrAlreadyExists),
		errors.Is(err, user.ErrAlreadyExists),
		errors.Is(err, shared.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"

	// 404: absent entities
	case errors.Is(err, student.ErrNotFound),
		errors.Is(err, mentor.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, catalog.ErrCourseNotFound),
		errors.Is(err, catalog.ErrGroupNotFound),
		errors.Is(err, assessment.ErrTestNotFound),
		errors.Is(err, assessment.ErrQuestionNotFound),
		errors.Is(err, assessment.ErrAttemptNotFound),
		errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, "not_found"

	// 422: policy violations
	case isLimitExceeded(err), errors.Is(err, shared.ErrLimitExceeded):
		return http.StatusUnprocessableEntity, "limit_exceeded"

	// 401 / 403
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, "forbidden"

	// 400: malformed input
	case isValidationError(err):
		return http.StatusBadRequest, "invalid_request"

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// pathID extracts a path parameter and validates it as a UUID.
func pathID(r *http.Request, name string) (string, error) {
	id, err := shared.NewID(r.PathValue(name))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// isLimitExceeded matches the typed grant-ceiling error.
func isLimitExceeded(err error) bool {
	var limitErr *mentor.LimitExceededError
	return errors.As(err, &limitErr)
}

// isValidationError matches the field-validation sentinels of the domain
// packages.
func isValidationError(err error) bool {
	for _, target := range []error{
		shared.ErrValidation,
		shared.ErrInvalidInput,
		shared.ErrEmptyValue,
		shared.ErrInvalidID,
		student.ErrInvalidName,
		student.ErrInvalidAmount,
		student.ErrInvalidEventType,
		mentor.ErrInvalidName,
		mentor.ErrInvalidPointLimit,
		catalog.ErrInvalidName,
		user.ErrInvalidUsername,
		user.ErrInvalidRole,
		auth.ErrPasswordTooShort,
		assessment.ErrEmptyAnswerSet,
		assessment.ErrOptionMismatch,
		assessment.ErrOptionNotFound,
		assessment.ErrInvalidLabel,
		assessment.ErrDuplicateLabel,
		assessment.ErrNoCorrectOption,
		assessment.ErrMultipleCorrectOptions,
		assessment.ErrTooFewOptions,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
