package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/command"
	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT HANDLERS: TESTS, QUESTIONS, SUBMISSIONS
// ══════════════════════════════════════════════════════════════════════════════

type testRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	CreatedBy       string `json:"created_by,omitempty"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type optionView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

type questionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []optionView `json:"options"`
}

type testView struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	CreatedBy       string         `json:"created_by"`
	DurationSeconds int64          `json:"duration_seconds"`
	Questions       []questionView `json:"questions,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// toTestView renders a test. Correctness flags are included only for
// authoring roles; students must not see the answer key.
func toTestView(t *assessment.Test, revealAnswers bool) testView {
	v := testView{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		CreatedBy:       t.CreatedBy,
		DurationSeconds: int64(t.Duration / time.Second),
		CreatedAt:       t.CreatedAt,
	}

	for _, q := range t.Questions {
		qv := questionView{ID: q.ID, Text: q.Text}
		for _, opt := range q.Options {
			ov := optionView{ID: opt.ID, Label: opt.Label.String(), Text: opt.Text}
			if revealAnswers {
				correct := opt.IsCorrect
				ov.IsCorrect = &correct
			}
			qv.Options = append(qv.Options, ov)
		}
		v.Questions = append(v.Questions, qv)
	}

	return v
}

// handleListTests handles GET /api/v1/tests
// Students see only tests authored by mentors of their group; authoring
// roles see everything.
func (s *Server) handleListTests(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	opts := listOptionsFromQuery(r)

	var (
		tests []*assessment.Test
		err   error
	)
	switch p.Role {
	case user.RoleStudent:
		tests, err = s.listTestsForStudent(r, p)
	default:
		if authorID := r.URL.Query().Get("created_by"); authorID != "" {
			tests, err = s.deps.Tests.GetTestsByAuthor(r.Context(), authorID, opts)
		} else {
			tests, err = s.deps.Tests.GetAllTests(r.Context(), opts)
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]testView, 0, len(tests))
	for _, t := range tests {
		views = append(views, toTestView(t, false))
	}

	writeJSON(w, http.StatusOK, views)
}

// listTestsForStudent resolves the caller's group and collects the tests
// of its mentors.
func (s *Server) listTestsForStudent(r *http.Request, p principal) ([]*assessment.Test, error) {
	st, err := s.deps.Students.GetByUserID(r.Context(), p.UserID)
	if err != nil {
		return nil, err
	}

	if st.GroupID == "" {
		return nil, nil
	}

	g, err := s.deps.Groups.GetByID(r.Context(), st.GroupID)
	if err != nil {
		return nil, err
	}

	opts := listOptionsFromQuery(r)

	var tests []*assessment.Test
	for _, mentorID := range g.MentorIDs {
		byAuthor, err := s.deps.Tests.GetTestsByAuthor(r.Context(), mentorID, opts)
		if err != nil {
			return nil, err
		}
		tests = append(tests, byAuthor...)
	}
	return tests, nil
}

// handleCreateTest handles POST /api/v1/tests
func (s *Server) handleCreateTest(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	createdBy := req.CreatedBy
	if p.Role == user.RoleMentor {
		// The authoring mentor is always the caller.
		m, err := s.deps.Mentors.GetByUserID(r.Context(), p.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		createdBy = m.ID
	}

	t, err := assessment.NewTest(assessment.NewTestParams{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   createdBy,
		Duration:    time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Tests.CreateTest(r.Context(), t); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTestView(t, true))
}

// handleGetTest handles GET /api/v1/tests/{id}
func (s *Server) handleGetTest(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.deps.Tests.GetTest(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTestView(t, p.Role.CanAuthorTests()))
}

// handleDeleteTest handles DELETE /api/v1/tests/{id}
func (s *Server) handleDeleteTest(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.deps.Tests.GetTest(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Mentors may delete only their own tests.
	if p.Role == user.RoleMentor {
		m, err := s.deps.Mentors.GetByUserID(r.Context(), p.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if t.CreatedBy != m.ID {
			writeJSONError(w, http.StatusForbidden, "forbidden", "Mentors may delete only their own tests")
			return
		}
	}

	if err := s.deps.Tests.DeleteTest(r.Context(), t.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Questions
// ─────────────────────────────────────────────────────────────────────────────

type optionRequest struct {
	Label     string `json:"label"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type questionRequest struct {
	Text    string          `json:"text"`
	Options []optionRequest `json:"options"`
}

// handleAddQuestion handles POST /api/v1/tests/{id}/questions
func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	testID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	q := assessment.Question{
		ID:     uuid.NewString(),
		TestID: testID,
		Text:   req.Text,
	}
	for _, opt := range req.Options {
		q.Options = append(q.Options, assessment.AnswerOption{
			ID:         uuid.NewString(),
			QuestionID: q.ID,
			Label:      assessment.OptionLabel(strings.ToUpper(strings.TrimSpace(opt.Label))),
			Text:       opt.Text,
			IsCorrect:  opt.IsCorrect,
		})
	}

	// Option invariants are checked before any write.
	if err := q.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Tests.AddQuestion(r.Context(), &q); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, questionView{ID: q.ID, Text: q.Text})
}

// ─────────────────────────────────────────────────────────────────────────────
// Submissions and results
// ─────────────────────────────────────────────────────────────────────────────

type submitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type submitTestRequest struct {
	Answers []submitAnswerRequest `json:"answers"`
}

// handleSubmitTest handles POST /api/v1/tests/{id}/submit
func (s *Server) handleSubmitTest(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req submitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	testID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	st, err := s.deps.Students.GetByUserID(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cmd := command.SubmitTestCommand{
		StudentID: st.ID,
		TestID:    testID,
	}
	for _, a := range req.Answers {
		cmd.Answers = append(cmd.Answers, command.AnswerInput{
			QuestionID: a.QuestionID,
			OptionID:   a.OptionID,
		})
	}

	result, err := s.deps.SubmitTest.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleGetResults handles GET /api/v1/results
func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	q := query.GetTestResultsQuery{
		Limit:  getQueryParamInt(r, "limit", 0),
		Offset: getQueryParamInt(r, "offset", 0),
	}

	switch p.Role {
	case user.RoleStudent:
		st, err := s.deps.Students.GetByUserID(r.Context(), p.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		q.StudentID = st.ID
	case user.RoleMentor:
		m, err := s.deps.Mentors.GetByUserID(r.Context(), p.UserID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		q.MentorID = m.ID
	}

	result, err := s.deps.GetTestResults.Handle(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
