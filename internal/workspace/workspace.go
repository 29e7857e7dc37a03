// Package workspace manages the on-disk layout of an ingestion batch:
// a per-message tree plus a flat folder of every PDF, rooted under the
// user and batch label.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// MessagesDir holds one subfolder per processed message.
	MessagesDir = "JSON_y_PDFS"

	// FlatPDFDir holds a flat copy of every PDF in the batch, with
	// prefixed filenames to keep them unique.
	FlatPDFDir = "SOLO_PDF"
)

// Workspace is the working directory for a single batch run. The directory
// key is deterministic, so rerunning the same label for the same user
// targets the same tree and overwrites earlier output.
type Workspace struct {
	root  string
	label string
}

// Prepare ensures the workspace for a user's batch label exists under root.
func Prepare(root, userID, label string) (*Workspace, error) {
	ws := &Workspace{root: filepath.Join(root, userID, label), label: label}
	for _, dir := range []string{ws.MessagesRoot(), ws.FlatPDFRoot()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare workspace: %w", err)
		}
	}
	return ws, nil
}

// Label returns the batch label.
func (w *Workspace) Label() string { return w.label }

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// MessagesRoot returns the directory holding per-message subfolders.
func (w *Workspace) MessagesRoot() string {
	return filepath.Join(w.root, MessagesDir)
}

// FlatPDFRoot returns the flat PDF directory.
func (w *Workspace) FlatPDFRoot() string {
	return filepath.Join(w.root, FlatPDFDir)
}

// MessageDir returns the folder for one message. The folder is not created
// until an attachment needs it.
func (w *Workspace) MessageDir(folderName string) string {
	return filepath.Join(w.MessagesRoot(), folderName)
}

// FlatPDFPath returns the flat-copy path for a PDF, prefixed with the
// message's folder name so identical filenames never collide.
func (w *Workspace) FlatPDFPath(folderName, filename string) string {
	return filepath.Join(w.FlatPDFRoot(), folderName+"_"+filename)
}

// ArchivePath returns where the batch zip lives, inside the workspace.
func (w *Workspace) ArchivePath() string {
	return filepath.Join(w.root, w.label+".zip")
}
