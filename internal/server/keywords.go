package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/facturador/facturador/internal/errs"
)

func (s *Server) respondKeywords(w http.ResponseWriter, userID string) {
	keywords, err := s.store.Keywords(userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if keywords == nil {
		keywords = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"custom": keywords})
}

func (s *Server) handleGetKeywords(w http.ResponseWriter, r *http.Request) {
	s.respondKeywords(w, userIDFrom(r.Context()))
}

func (s *Server) handleAddKeyword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		s.writeError(w, errs.Validation("keyword is required"))
		return
	}

	userID := userIDFrom(r.Context())
	if err := s.store.AddKeyword(userID, keyword); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondKeywords(w, userID)
}

func (s *Server) handleRemoveKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")
	if unescaped, err := url.PathUnescape(keyword); err == nil {
		keyword = unescaped
	}

	userID := userIDFrom(r.Context())
	if err := s.store.RemoveKeyword(userID, keyword); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondKeywords(w, userID)
}
