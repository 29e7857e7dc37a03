package server

import (
	"context"
	"net/http"

	"github.com/facturador/facturador/internal/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// requireAuth rejects requests without a valid session token and stores
// the caller's user ID in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "no token, authorization denied"})
			return
		}
		userID, err := auth.ParseSessionToken(token, s.jwtSecret)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "token is not valid"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
