package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/user"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// Bearer-token middleware plus the token and account endpoints. The
// verified identity travels through the request context as a principal.
// ══════════════════════════════════════════════════════════════════════════════

// principal is the authenticated identity of a request.
type principal struct {
	UserID string
	Role   user.Role
}

// authed wraps a handler with bearer-token verification. When roles are
// given, only those roles pass; with no roles any authenticated account
// passes.
func (s *Server) authed(next http.HandlerFunc, roles ...user.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Bearer token is required")
			return
		}

		claims, err := s.deps.Tokens.Verify(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		role, err := user.ParseRole(claims.Role)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		p := principal{UserID: claims.UserID, Role: role}

		if len(roles) > 0 && !roleAllowed(role, roles) {
			writeJSONError(w, http.StatusForbidden, "forbidden", "Insufficient role for this operation")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyPrincipal, p)
		next(w, r.WithContext(ctx))
	}
}

func roleAllowed(role user.Role, allowed []user.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// getPrincipal extracts the authenticated identity from context.
func getPrincipal(ctx context.Context) (principal, bool) {
	p, ok := ctx.Value(contextKeyPrincipal).(principal)
	return p, ok
}

// ══════════════════════════════════════════════════════════════════════════════
// TOKEN AND ACCOUNT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
}

// handleToken handles POST /api/v1/token
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Username and password are required")
		return
	}

	u, err := s.deps.Users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		// A missing account answers the same as a wrong password.
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}

	if err := s.deps.Passwords.Verify(u.PasswordHash, req.Password); err != nil {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
		return
	}

	token, err := s.deps.Tokens.Issue(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("token issued",
		logger.UserID(u.ID),
		logger.String("role", u.Role.String()),
	)

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(s.deps.Tokens.TTL()).UTC(),
		Role:        u.Role.String(),
	})
}

type createUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *user.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

// handleCreateUser handles POST /api/v1/users (admin only).
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	role, err := user.ParseRole(req.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	hash, err := s.deps.Passwords.Hash(req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := user.NewUser(user.NewUserParams{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Users.Create(r.Context(), u); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserView(u))
}

// handleGetMe handles GET /api/v1/users/get-me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	u, err := s.deps.Users.GetByID(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserView(u))
}
