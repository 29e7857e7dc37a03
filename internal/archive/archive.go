// Package archive zips batch workspaces and enforces retention on old
// artifacts.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/facturador/facturador/internal/errs"
	"github.com/facturador/facturador/internal/logging"
)

// Zip compresses the directory at srcDir into destPath and returns the
// archive size in bytes. Paths inside the archive are relative to srcDir
// with forward slashes. The destination is excluded if it lives inside
// the source tree.
func Zip(srcDir, destPath string) (int64, error) {
	absDest, err := filepath.Abs(destPath)
	if err != nil {
		return 0, errs.ArchiveIO("failed to resolve archive path", err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return 0, errs.ArchiveIO("failed to create archive", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && abs == absDest {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		return 0, errs.ArchiveIO(fmt.Sprintf("failed to archive %s", srcDir), err)
	}

	if err := zw.Close(); err != nil {
		return 0, errs.ArchiveIO("failed to finalize archive", err)
	}
	if err := f.Close(); err != nil {
		return 0, errs.ArchiveIO("failed to flush archive", err)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return 0, errs.ArchiveIO("failed to stat archive", err)
	}
	return info.Size(), nil
}

// CleanOld removes entries directly under root whose modification time is
// older than maxAge, both stale workspaces and old zips. Failures on
// individual entries are logged and skipped. Returns the number of
// entries removed.
func CleanOld(root string, maxAge time.Duration, logger *slog.Logger) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("retention scan failed", logging.Err(err))
		}
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			logger.Warn("retention stat failed", slog.String("entry", entry.Name()), logging.Err(err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("retention removal failed", slog.String("entry", entry.Name()), logging.Err(err))
			continue
		}
		removed++
	}
	return removed
}
