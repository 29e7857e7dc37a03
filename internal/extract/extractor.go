// Package extract pulls invoice attachments out of mail messages into a
// batch workspace, with run-scoped duplicate suppression and per-message
// failure isolation.
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/facturador/facturador/internal/logging"
	"github.com/facturador/facturador/internal/workspace"
)

// maxPartDepth bounds MIME tree traversal so a pathological or
// self-referencing part tree cannot blow the stack.
const maxPartDepth = 100

// maxLabelLen caps the sanitized subject used in folder names.
const maxLabelLen = 50

// Fetcher retrieves full messages and attachment payloads.
type Fetcher interface {
	GetMessage(ctx context.Context, messageID string) (*gmail.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// Summary reports what one extraction run accomplished. Processed counts
// messages that yielded at least one accepted attachment; FilesSaved counts
// every file written to a per-message folder, including those from a
// message that later failed midway.
type Summary struct {
	Processed  int
	FilesSaved int
}

// Extractor walks a batch of messages and writes their PDF and JSON
// attachments into a workspace. The dedup set is scoped to one Extractor,
// never shared across runs.
type Extractor struct {
	fetcher Fetcher
	ws      *workspace.Workspace
	logger  *slog.Logger
	seen    map[string]struct{}
}

// New creates an extractor writing into the given workspace.
func New(fetcher Fetcher, ws *workspace.Workspace, logger *slog.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		ws:      ws,
		logger:  logger,
		seen:    make(map[string]struct{}),
	}
}

// Run extracts attachments from each message in order. A failure on one
// message is logged and skipped; the remaining messages still run.
func (e *Extractor) Run(ctx context.Context, messageIDs []string) Summary {
	var sum Summary
	for _, id := range messageIDs {
		saved, err := e.extractMessage(ctx, id)
		sum.FilesSaved += saved
		if err != nil {
			e.logger.Warn("message extraction failed, skipping",
				logging.MessageID(id), logging.Err(err))
			continue
		}
		if saved > 0 {
			sum.Processed++
		}
	}
	return sum
}

func (e *Extractor) extractMessage(ctx context.Context, messageID string) (int, error) {
	msg, err := e.fetcher.GetMessage(ctx, messageID)
	if err != nil {
		return 0, err
	}

	subject := headerValue(msg.Payload, "Subject")
	if subject == "" {
		subject = "No Subject"
	}
	folderName := subjectLabel(subject) + "_" + messageID
	msgDir := e.ws.MessageDir(folderName)

	saved := 0
	dirReady := false
	for _, part := range flattenParts(msg.Payload) {
		if part.Filename == "" || part.Body == nil || part.Body.AttachmentId == "" {
			continue
		}
		ext := strings.ToLower(filepath.Ext(part.Filename))
		if ext != ".pdf" && ext != ".json" {
			continue
		}

		key := messageID + ":" + part.Body.AttachmentId
		if _, dup := e.seen[key]; dup {
			continue
		}
		e.seen[key] = struct{}{}

		data, err := e.fetcher.GetAttachment(ctx, messageID, part.Body.AttachmentId)
		if err != nil {
			return saved, err
		}

		// Created lazily so messages without relevant attachments leave
		// no empty folder behind.
		if !dirReady {
			if err := os.MkdirAll(msgDir, 0o755); err != nil {
				return saved, err
			}
			dirReady = true
		}

		filename := sanitizeFilename(part.Filename)
		if err := os.WriteFile(filepath.Join(msgDir, filename), data, 0o644); err != nil {
			return saved, err
		}
		if ext == ".pdf" {
			if err := os.WriteFile(e.ws.FlatPDFPath(folderName, filename), data, 0o644); err != nil {
				return saved, err
			}
		}
		saved++
	}

	return saved, nil
}

// flattenParts collects the leaf parts of a MIME tree in document order.
// Traversal is an explicit stack with a depth cap rather than recursion.
func flattenParts(root *gmail.MessagePart) []*gmail.MessagePart {
	if root == nil {
		return nil
	}

	type frame struct {
		part  *gmail.MessagePart
		depth int
	}

	var leaves []*gmail.MessagePart
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.part.Parts) == 0 {
			leaves = append(leaves, f.part)
			continue
		}
		if f.depth >= maxPartDepth {
			continue
		}
		for i := len(f.part.Parts) - 1; i >= 0; i-- {
			if f.part.Parts[i] == nil {
				continue
			}
			stack = append(stack, frame{f.part.Parts[i], f.depth + 1})
		}
	}
	return leaves
}

// subjectLabel turns a subject line into a filesystem-safe label:
// non-alphanumeric runes become underscores and the result is truncated.
func subjectLabel(subject string) string {
	var b strings.Builder
	b.Grow(len(subject))
	for _, r := range subject {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	label := b.String()
	if len(label) > maxLabelLen {
		label = label[:maxLabelLen]
	}
	return label
}

// sanitizeFilename strips path separators and traversal sequences from an
// attachment filename before it touches the filesystem.
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}

func headerValue(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
