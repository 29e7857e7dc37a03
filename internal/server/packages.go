package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/facturador/facturador/internal/errs"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	res, err := s.pipe.Generate(r.Context(), userIDFrom(r.Context()), req.StartDate, req.EndDate)
	s.metrics.ObserveRun(time.Since(start), err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.AddFilesSaved(res.Summary.FilesSaved)

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	pkg, err := s.store.PackageOwned(chi.URLParam(r, "id"), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := os.Stat(pkg.ArchivePath); err != nil {
		// The retention sweep may have removed the archive after the
		// record was written.
		s.writeError(w, errs.NotFound("archive no longer available"))
		return
	}

	filename := filepath.Base(pkg.ArchivePath)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/zip")
	http.ServeFile(w, r, pkg.ArchivePath)
}
