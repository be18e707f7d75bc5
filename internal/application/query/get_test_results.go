package query

import (
	"context"
	"errors"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/catalog"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TEST RESULTS QUERY
// Scoped result listing: a student sees only their own attempts, a mentor
// sees attempts of students in the mentor's groups.
// ══════════════════════════════════════════════════════════════════════════════

// GetTestResultsQuery selects the scope of the listing.
// Exactly one of StudentID or MentorID must be set.
type GetTestResultsQuery struct {
	// StudentID scopes the listing to one student's own attempts.
	StudentID string

	// MentorID scopes the listing to students of the mentor's groups.
	MentorID string

	// Limit is the page size (default 50).
	Limit int

	// Offset is the pagination offset.
	Offset int
}

// AttemptView is one attempt as exposed to clients.
type AttemptView struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	TestID    string    `json:"test_id"`
	Score     int       `json:"score"`
	TakenAt   time.Time `json:"taken_at"`
}

// TestResultsResult is a page of attempts.
type TestResultsResult struct {
	Attempts []AttemptView `json:"attempts"`
}

// GetTestResultsHandler handles scoped result listings.
type GetTestResultsHandler struct {
	attempts assessment.AttemptRepository
	students student.Repository
	groups   catalog.GroupRepository
}

// NewGetTestResultsHandler creates a new GetTestResultsHandler.
func NewGetTestResultsHandler(
	attempts assessment.AttemptRepository,
	students student.Repository,
	groups catalog.GroupRepository,
) *GetTestResultsHandler {
	return &GetTestResultsHandler{
		attempts: attempts,
		students: students,
		groups:   groups,
	}
}

// Handle executes the query.
func (h *GetTestResultsHandler) Handle(ctx context.Context, q GetTestResultsQuery) (*TestResultsResult, error) {
	opts := student.DefaultListOptions()
	if q.Limit > 0 {
		opts = opts.WithLimit(q.Limit)
	}
	if q.Offset > 0 {
		opts = opts.WithOffset(q.Offset)
	}

	switch {
	case q.StudentID != "":
		attempts, err := h.attempts.GetByStudent(ctx, q.StudentID, opts)
		if err != nil {
			return nil, err
		}
		return toResult(attempts), nil

	case q.MentorID != "":
		return h.forMentor(ctx, q.MentorID, opts)

	default:
		return nil, errors.New("get_test_results: student_id or mentor_id is required")
	}
}

// forMentor collects attempts of every student in the mentor's groups.
func (h *GetTestResultsHandler) forMentor(ctx context.Context, mentorID string, opts student.ListOptions) (*TestResultsResult, error) {
	groups, err := h.groups.GetByMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	var studentIDs []string
	for _, g := range groups {
		members, err := h.students.GetByGroup(ctx, g.ID, student.ListOptions{Limit: 1000})
		if err != nil {
			return nil, err
		}
		for _, s := range members {
			studentIDs = append(studentIDs, s.ID)
		}
	}

	if len(studentIDs) == 0 {
		return &TestResultsResult{Attempts: []AttemptView{}}, nil
	}

	attempts, err := h.attempts.GetByStudents(ctx, studentIDs, opts)
	if err != nil {
		return nil, err
	}

	return toResult(attempts), nil
}

func toResult(attempts []*assessment.Attempt) *TestResultsResult {
	views := make([]AttemptView, 0, len(attempts))
	for _, a := range attempts {
		views = append(views, AttemptView{
			ID:        a.ID,
			StudentID: a.StudentID,
			TestID:    a.TestID,
			Score:     a.Score,
			TakenAt:   a.TakenAt,
		})
	}
	return &TestResultsResult{Attempts: views}
}
