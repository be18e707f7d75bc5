package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/catalog"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG HANDLERS: COURSES AND GROUPS
// ══════════════════════════════════════════════════════════════════════════════

// listOptionsFromQuery builds pagination options from limit/offset params.
func listOptionsFromQuery(r *http.Request) student.ListOptions {
	opts := student.DefaultListOptions()
	if limit := getQueryParamInt(r, "limit", 0); limit > 0 {
		opts = opts.WithLimit(limit)
	}
	if offset := getQueryParamInt(r, "offset", 0); offset > 0 {
		opts = opts.WithOffset(offset)
	}
	return opts
}

type courseRequest struct {
	Name string `json:"name"`
}

type courseView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toCourseView(c *catalog.Course) courseView {
	return courseView{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// handleListCourses handles GET /api/v1/courses
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.Courses.GetAll(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]courseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, toCourseView(c))
	}

	writeJSON(w, http.StatusOK, views)
}

// handleCreateCourse handles POST /api/v1/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	c, err := catalog.NewCourse(uuid.NewString(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Courses.Create(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCourseView(c))
}

// handleGetCourse handles GET /api/v1/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.deps.Courses.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseView(c))
}

// handleUpdateCourse handles PUT /api/v1/courses/{id}
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.deps.Courses.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Re-run name validation through the constructor.
	updated, err := catalog.NewCourse(c.ID, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated.CreatedAt = c.CreatedAt

	if err := s.deps.Courses.Update(r.Context(), updated); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseView(updated))
}

// handleDeleteCourse handles DELETE /api/v1/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Courses.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ─────────────────────────────────────────────────────────────────────────────
// Groups
// ─────────────────────────────────────────────────────────────────────────────

type groupRequest struct {
	Name      string   `json:"name"`
	CourseIDs []string `json:"course_ids"`
	MentorIDs []string `json:"mentor_ids"`
	Active    *bool    `json:"active,omitempty"`
}

type groupView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CourseIDs []string  `json:"course_ids"`
	MentorIDs []string  `json:"mentor_ids"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toGroupView(g *catalog.Group) groupView {
	return groupView{
		ID:        g.ID,
		Name:      g.Name,
		CourseIDs: g.CourseIDs,
		MentorIDs: g.MentorIDs,
		Active:    g.Active,
		CreatedAt: g.CreatedAt,
	}
}

// handleListGroups handles GET /api/v1/groups
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.deps.Groups.GetAll(r.Context(), listOptionsFromQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, toGroupView(g))
	}

	writeJSON(w, http.StatusOK, views)
}

// handleCreateGroup handles POST /api/v1/groups
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	g, err := catalog.NewGroup(uuid.NewString(), req.Name, req.CourseIDs, req.MentorIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Groups.Create(r.Context(), g); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupView(g))
}

// handleGetGroup handles GET /api/v1/groups/{id}
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.deps.Groups.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupView(g))
}

// handleUpdateGroup handles PUT /api/v1/groups/{id}
func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.deps.Groups.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := catalog.NewGroup(g.ID, req.Name, req.CourseIDs, req.MentorIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	updated.CreatedAt = g.CreatedAt
	updated.Active = g.Active
	if req.Active != nil {
		updated.Active = *req.Active
	}

	if err := s.deps.Groups.Update(r.Context(), updated); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupView(updated))
}

// handleDeleteGroup handles DELETE /api/v1/groups/{id}
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Groups.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
