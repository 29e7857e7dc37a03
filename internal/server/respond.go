package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/facturador/facturador/internal/errs"
	"github.com/facturador/facturador/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps classified errors to their HTTP status. Unclassified
// errors are logged with detail but surface as an opaque 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var classified *errs.Error
	if errors.As(err, &classified) {
		if classified.Status >= http.StatusInternalServerError {
			s.logger.Error("request failed", logging.Err(err))
		}
		writeJSON(w, classified.Status, errorResponse{
			Error: classified.Message,
			Code:  string(classified.Kind),
		})
		return
	}

	s.logger.Error("request failed", logging.Err(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Validation("invalid JSON body")
	}
	return nil
}
