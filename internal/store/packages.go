package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturador/facturador/internal/errs"
)

// Package is the durable record of one successful ingestion run.
type Package struct {
	ID            string
	UserID        string
	BatchLabel    string
	ArchivePath   string
	SizeBytes     int64
	FilesSaved    int
	MessagesFound int
	CreatedAt     time.Time
}

// CreatePackage persists a package record, assigning its ID.
func (s *Store) CreatePackage(pkg *Package) error {
	pkg.ID = uuid.NewString()
	pkg.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(`
		INSERT INTO packages (id, user_id, batch_label, archive_path, size_bytes, files_saved, messages_found, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, pkg.ID, pkg.UserID, pkg.BatchLabel, pkg.ArchivePath, pkg.SizeBytes, pkg.FilesSaved, pkg.MessagesFound, pkg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create package record: %w", err)
	}
	return nil
}

// PackageOwned returns the package with the given ID if it belongs to the
// user. A miss and an ownership mismatch are indistinguishable to the
// caller: both yield a not-found error.
func (s *Store) PackageOwned(id, userID string) (*Package, error) {
	var p Package
	err := s.db.QueryRow(`
		SELECT id, user_id, batch_label, archive_path, size_bytes, files_saved, messages_found, created_at
		FROM packages WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&p.ID, &p.UserID, &p.BatchLabel, &p.ArchivePath, &p.SizeBytes, &p.FilesSaved, &p.MessagesFound, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("package not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load package: %w", err)
	}
	return &p, nil
}
