package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/command"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/catalog"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/shared"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/auth"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"duplicate attempt", assessment.ErrAttemptExists, http.StatusConflict, "already_exists"},
		{"duplicate answer", assessment.ErrDuplicateAnswer, http.StatusConflict, "already_exists"},
		{"duplicate account", user.ErrAlreadyExists, http.StatusConflict, "already_exists"},

		{"student missing", student.ErrNotFound, http.StatusNotFound, "not_found"},
		{"mentor missing", mentor.ErrNotFound, http.StatusNotFound, "not_found"},
		{"test missing", assessment.ErrTestNotFound, http.StatusNotFound, "not_found"},
		{"question missing", assessment.ErrQuestionNotFound, http.StatusNotFound, "not_found"},
		{"course missing", catalog.ErrCourseNotFound, http.StatusNotFound, "not_found"},

		{"grant over limit", &mentor.LimitExceededError{Requested: 60, Limit: 50}, http.StatusUnprocessableEntity, "limit_exceeded"},

		{"bad token", auth.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"bad password", auth.ErrPasswordMismatch, http.StatusUnauthorized, "unauthorized"},

		{"option mismatch", assessment.ErrOptionMismatch, http.StatusBadRequest, "invalid_request"},
		{"empty answers", assessment.ErrEmptyAnswerSet, http.StatusBadRequest, "invalid_request"},
		{"bad amount", student.ErrInvalidAmount, http.StatusBadRequest, "invalid_request"},
		{"bad role", user.ErrInvalidRole, http.StatusBadRequest, "invalid_request"},
		{"short password", auth.ErrPasswordTooShort, http.StatusBadRequest, "invalid_request"},
		{"grant without student", command.GrantPointsCommand{MentorID: "m1", Amount: 10}.Validate(), http.StatusBadRequest, "invalid_request"},
		{"answer without option", command.SubmitTestCommand{
			StudentID: "st1",
			TestID:    "t1",
			Answers:   []command.AnswerInput{{QuestionID: "q1"}},
		}.Validate(), http.StatusBadRequest, "invalid_request"},

		{"storage failure", errors.New("pgx: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classifyError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestClassifyError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", assessment.ErrAttemptExists)
	status, code := classifyError(wrapped)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_exists", code)

	wrapped = fmt.Errorf("grant: %w", &mentor.LimitExceededError{Requested: 99, Limit: 10})
	status, code = classifyError(wrapped)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "limit_exceeded", code)
}

func TestPathID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/x", nil)
	req.SetPathValue("id", "1b4e28ba-2fa1-11d2-883f-0016d3cca427")

	id, err := pathID(req, "id")
	assert.NoError(t, err)
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", id)
}

func TestPathID_Invalid(t *testing.T) {
	for _, raw := range []string{"", "42", "not-a-uuid", "1b4e28ba-2fa1-11d2-883f"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/students/x", nil)
		req.SetPathValue("id", raw)

		_, err := pathID(req, "id")
		assert.ErrorIs(t, err, shared.ErrInvalidID, "raw=%q", raw)

		status, code := classifyError(err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid_request", code)
	}
}
