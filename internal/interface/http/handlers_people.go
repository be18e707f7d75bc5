package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
	"github.com/akbarkhojayev/coinMarkaz/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PEOPLE HANDLERS: MENTORS AND STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

type mentorRequest struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	PointLimit int      `json:"point_limit"`
	CourseIDs  []string `json:"course_ids"`
}

type mentorView struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	PointLimit int       `json:"point_limit"`
	CourseIDs  []string  `json:"course_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMentorView(m *mentor.Mentor) mentorView {
	return mentorView{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		PointLimit: m.PointLimit,
		CourseIDs:  m.CourseIDs,
		CreatedAt:  m.CreatedAt,
	}
}

// handleListMentors handles GET /api/v1/mentors
func (s *Server) handleListMentors(w http.ResponseWriter, r *http.Request) {
	mentors, err := s.deps.Mentors.GetAll(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]mentorView, 0, len(mentors))
	for _, m := range mentors {
		views = append(views, toMentorView(m))
	}

	writeJSON(w, http.StatusOK, views)
}

// handleCreateMentor handles POST /api/v1/mentors
func (s *Server) handleCreateMentor(w http.ResponseWriter, r *http.Request) {
	var req mentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	m, err := mentor.NewMentor(mentor.NewMentorParams{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		Name:       req.Name,
		PointLimit: req.PointLimit,
		CourseIDs:  req.CourseIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Mentors.Create(r.Context(), m); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMentorView(m))
}

// handleGetMentorMe handles GET /api/v1/mentors/get-me
func (s *Server) handleGetMentorMe(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	m, err := s.deps.Mentors.GetByUserID(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMentorView(m))
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

type studentRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty"`
	Bio       string `json:"bio,omitempty"`
	GroupID   string `json:"group_id"`
}

type studentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	BirthDate string    `json:"birth_date,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	GroupID   string    `json:"group_id,omitempty"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func toStudentView(st *student.Student) studentView {
	v := studentView{
		ID:        st.ID,
		UserID:    st.UserID,
		Name:      st.Name,
		Bio:       st.Bio,
		GroupID:   st.GroupID,
		Balance:   int(st.Balance),
		CreatedAt: st.CreatedAt,
	}
	if !st.BirthDate.IsZero() {
		v.BirthDate = timeutil.FormatDateStr(st.BirthDate)
	}
	return v
}

// handleListStudents handles GET /api/v1/students
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	var (
		students []*student.Student
		err      error
	)
	if groupID := r.URL.Query().Get("group_id"); groupID != "" {
		students, err = s.deps.Students.GetByGroup(r.Context(), groupID, opts)
	} else {
		students, err = s.deps.Students.GetAll(r.Context(), opts)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]studentView, 0, len(students))
	for _, st := range students {
		views = append(views, toStudentView(st))
	}

	writeJSON(w, http.StatusOK, views)
}

// handleCreateStudent handles POST /api/v1/students
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	var birthDate time.Time
	if req.BirthDate != "" {
		parsed, err := timeutil.ParseDate(req.BirthDate)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "birth_date must be YYYY-MM-DD")
			return
		}
		birthDate = parsed
	}

	st, err := student.NewStudent(student.NewStudentParams{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Name:      req.Name,
		BirthDate: birthDate,
		Bio:       req.Bio,
		GroupID:   req.GroupID,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Students.Create(r.Context(), st); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStudentView(st))
}

// handleGetStudentMe handles GET /api/v1/students/get-me
func (s *Server) handleGetStudentMe(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	st, err := s.deps.Students.GetByUserID(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentView(st))
}

// handleGetStudent handles GET /api/v1/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStudentScoped(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toStudentView(st))
}

// handleGetStudentPoints handles GET /api/v1/students/{id}/points
func (s *Server) handleGetStudentPoints(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStudentScoped(w, r)
	if !ok {
		return
	}

	result, err := s.deps.GetPointHistory.Handle(r.Context(), query.GetPointHistoryQuery{
		StudentID: st.ID,
		Limit:     getQueryParamInt(r, "limit", 0),
		Offset:    getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: result.TotalCount})
}

// loadStudentScoped loads the path student and enforces that a student
// role only reads its own record. Writes the error response itself.
func (s *Server) loadStudentScoped(w http.ResponseWriter, r *http.Request) (*student.Student, bool) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return nil, false
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}

	st, err := s.deps.Students.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}

	if p.Role == user.RoleStudent && st.UserID != p.UserID {
		writeJSONError(w, http.StatusForbidden, "forbidden", "Students may only view their own record")
		return nil, false
	}

	return st, true
}
