package server

import (
	"net/http"

	"github.com/facturador/facturador/internal/auth"
	"github.com/facturador/facturador/internal/errs"
	"github.com/facturador/facturador/internal/logging"
)

// handleGmailAuth returns the Google authorization URL. The state carries
// a short-lived signed token naming the user, so the callback can tie the
// grant back to the right account.
func (s *Server) handleGmailAuth(w http.ResponseWriter, r *http.Request) {
	state, err := auth.NewStateToken(userIDFrom(r.Context()), s.jwtSecret)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": s.oauth.AuthURL(state)})
}

func (s *Server) handleGmailCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		s.writeError(w, errs.Validation("code and state are required"))
		return
	}

	userID, err := auth.ParseStateToken(state, s.jwtSecret)
	if err != nil {
		s.writeError(w, errs.Validation("invalid or expired state"))
		return
	}

	tok, err := s.oauth.Exchange(r.Context(), code)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tok.RefreshToken == "" {
		s.writeError(w, errs.Validation("no refresh token granted, revoke access and reconnect"))
		return
	}

	enc, err := s.box.Encrypt(tok.RefreshToken)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveCredential(userID, enc); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("mailbox connected", logging.UserID(userID))
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Gmail connected"})
}

func (s *Server) handleGmailStatus(w http.ResponseWriter, r *http.Request) {
	cred, err := s.store.Credential(userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": cred != nil})
}

func (s *Server) handleGmailDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCredential(userIDFrom(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Gmail disconnected"})
}
