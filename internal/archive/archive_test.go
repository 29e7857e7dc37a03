package archive

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestZip(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "JSON_y_PDFS", "Factura_julio", "invoice.pdf"), "pdf-bytes")
	writeFile(t, filepath.Join(src, "JSON_y_PDFS", "Factura_julio", "message.json"), `{"id":"m1"}`)
	writeFile(t, filepath.Join(src, "SOLO_PDF", "2026-07_m1_invoice.pdf"), "pdf-bytes")

	dest := filepath.Join(t.TempDir(), "2026-07.zip")
	size, err := Zip(src, dest)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	got := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		got[f.Name] = string(data)
	}
	assert.Equal(t, map[string]string{
		"JSON_y_PDFS/Factura_julio/invoice.pdf":  "pdf-bytes",
		"JSON_y_PDFS/Factura_julio/message.json": `{"id":"m1"}`,
		"SOLO_PDF/2026-07_m1_invoice.pdf":        "pdf-bytes",
	}, got)
}

func TestZipExcludesDestinationInsideSource(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")

	dest := filepath.Join(src, "out.zip")
	_, err := Zip(src, dest)
	require.NoError(t, err)

	r, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 1)
	assert.Equal(t, "a.txt", r.File[0].Name)
}

func TestCleanOld(t *testing.T) {
	root := t.TempDir()

	oldZip := filepath.Join(root, "2026-05.zip")
	writeFile(t, oldZip, "zip")
	oldDir := filepath.Join(root, "2026-05")
	writeFile(t, filepath.Join(oldDir, "JSON_y_PDFS", "x.json"), "{}")
	fresh := filepath.Join(root, "2026-07.zip")
	writeFile(t, fresh, "zip")

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldZip, stale, stale))
	require.NoError(t, os.Chtimes(oldDir, stale, stale))

	removed := CleanOld(root, 24*time.Hour, discardLogger())
	assert.Equal(t, 2, removed)

	assert.NoFileExists(t, oldZip)
	assert.NoDirExists(t, oldDir)
	assert.FileExists(t, fresh)
}

func TestCleanOldMissingRoot(t *testing.T) {
	removed := CleanOld(filepath.Join(t.TempDir(), "nope"), time.Hour, discardLogger())
	assert.Equal(t, 0, removed)
}
