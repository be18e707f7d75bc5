package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/command"
	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// POINT ECONOMY HANDLERS: GRANTS AND LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

type givePointsRequest struct {
	StudentID   string `json:"student_id"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// handleGivePoints handles POST /api/v1/give-points
func (s *Server) handleGivePoints(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req givePointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	// The granting mentor is always the caller.
	m, err := s.deps.Mentors.GetByUserID(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.GrantPoints.Handle(r.Context(), command.GrantPointsCommand{
		MentorID:    m.ID,
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type givePointView struct {
	ID          string    `json:"id"`
	MentorID    string    `json:"mentor_id"`
	StudentID   string    `json:"student_id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

func toGivePointView(gp *mentor.GivePoint) givePointView {
	return givePointView{
		ID:          gp.ID,
		MentorID:    gp.MentorID,
		StudentID:   gp.StudentID,
		Amount:      gp.Amount,
		Description: gp.Description,
		Date:        gp.Date,
	}
}

// handleListGivePoints handles GET /api/v1/give-points
// Mentors see grants they issued, students see grants they received,
// admins see everything.
func (s *Server) handleListGivePoints(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	opts := listOptionsFromQuery(r)

	var (
		grants []*mentor.GivePoint
		err    error
	)
	switch p.Role {
	case user.RoleMentor:
		var m *mentor.Mentor
		m, err = s.deps.Mentors.GetByUserID(r.Context(), p.UserID)
		if err == nil {
			grants, err = s.deps.GivePoints.GetByMentor(r.Context(), m.ID, opts)
		}
	case user.RoleStudent:
		st, stErr := s.deps.Students.GetByUserID(r.Context(), p.UserID)
		if stErr != nil {
			err = stErr
		} else {
			grants, err = s.deps.GivePoints.GetByStudent(r.Context(), st.ID, opts)
		}
	default:
		grants, err = s.deps.GivePoints.GetAll(r.Context(), opts)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	views := make([]givePointView, 0, len(grants))
	for _, gp := range grants {
		views = append(views, toGivePointView(gp))
	}

	writeJSON(w, http.StatusOK, views)
}

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Limit:  getQueryParamInt(r, "limit", 20),
		Offset: getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: result.TotalCount})
}
