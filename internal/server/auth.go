package server

import (
	"net/http"
	"strings"

	"github.com/facturador/facturador/internal/auth"
	"github.com/facturador/facturador/internal/errs"
	"github.com/facturador/facturador/internal/logging"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func sanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	email := sanitizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		s.writeError(w, errs.Validation("a valid email is required"))
		return
	}
	if len(req.Password) < 6 {
		s.writeError(w, errs.Validation("password must be at least 6 characters"))
		return
	}

	existing, err := s.store.UserByEmail(email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if existing != nil {
		s.writeError(w, errs.Validation("user already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	user, err := s.store.CreateUser(email, hash)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := auth.NewSessionToken(user.ID, s.jwtSecret)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("user registered", logging.UserHash(email))
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	user, err := s.store.UserByEmail(sanitizeEmail(req.Email))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.writeError(w, errs.Validation("invalid credentials"))
		return
	}

	token, err := auth.NewSessionToken(user.ID, s.jwtSecret)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.UserByID(userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if user == nil {
		s.writeError(w, errs.NotFound("user not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": user.ID, "email": user.Email})
}

// Sessions are stateless JWTs; logout exists so clients have a uniform
// endpoint to call while discarding their token.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": "logged out"})
}
