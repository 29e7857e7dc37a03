package pipeline

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/facturador/facturador/internal/errs"
	"github.com/facturador/facturador/internal/store"
)

type fakeTokens struct {
	token string
	err   error
	calls int
}

func (f *fakeTokens) AccessToken(context.Context, string) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeKeywords struct {
	custom []string
}

func (f *fakeKeywords) Keywords(string) ([]string, error) {
	return f.custom, nil
}

type fakePackages struct {
	created []*store.Package
}

func (f *fakePackages) CreatePackage(pkg *store.Package) error {
	pkg.ID = fmt.Sprintf("pkg-%d", len(f.created)+1)
	f.created = append(f.created, pkg)
	return nil
}

type fakeMail struct {
	query       string
	messageIDs  []string
	messages    map[string]*gmail.Message
	attachments map[string][]byte
	failMessage map[string]bool
}

func (f *fakeMail) ListMessages(_ context.Context, query string, max int) ([]string, error) {
	f.query = query
	if max > 0 && len(f.messageIDs) > max {
		return f.messageIDs[:max], nil
	}
	return f.messageIDs, nil
}

func (f *fakeMail) GetMessage(_ context.Context, id string) (*gmail.Message, error) {
	if f.failMessage[id] {
		return nil, errors.New("fetch failed")
	}
	msg, ok := f.messages[id]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return msg, nil
}

func (f *fakeMail) GetAttachment(_ context.Context, msgID, attID string) ([]byte, error) {
	data, ok := f.attachments[msgID+":"+attID]
	if !ok {
		return nil, errors.New("unknown attachment")
	}
	return data, nil
}

func pdfMessage(subject, attachmentID string) *gmail.Message {
	return &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{{Name: "Subject", Value: subject}},
			Parts: []*gmail.MessagePart{{
				Filename: "invoice.pdf",
				Body:     &gmail.MessagePartBody{AttachmentId: attachmentID},
			}},
		},
	}
}

func plainMessage(subject string) *gmail.Message {
	return &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{{Name: "Subject", Value: subject}},
			Parts:   []*gmail.MessagePart{{MimeType: "text/plain"}},
		},
	}
}

func newTestPipeline(t *testing.T, root string, mail *fakeMail) (*Pipeline, *fakeTokens, *fakePackages) {
	t.Helper()
	tokens := &fakeTokens{token: "tok"}
	packages := &fakePackages{}
	cfg := Config{
		ArchiveRoot:     root,
		BaseKeywords:    []string{"factura", "invoice"},
		MaxMessages:     100,
		RetentionMaxAge: 24 * time.Hour,
	}
	factory := func(context.Context, string) (MailClient, error) { return mail, nil }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, tokens, &fakeKeywords{custom: []string{"nomina"}}, packages, factory, logger), tokens, packages
}

func TestGenerateEndToEnd(t *testing.T) {
	root := t.TempDir()
	mail := &fakeMail{
		messageIDs: []string{"m1", "m2", "m3"},
		messages: map[string]*gmail.Message{
			"m1": pdfMessage("Factura Enero", "a1"),
			"m2": pdfMessage("Invoice January", "a2"),
			"m3": plainMessage("Sin adjuntos"),
		},
		attachments: map[string][]byte{
			"m1:a1": []byte("pdf-one"),
			"m2:a2": []byte("pdf-two"),
		},
	}
	p, _, packages := newTestPipeline(t, root, mail)

	res, err := p.Generate(context.Background(), "u1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	assert.Equal(t, Summary{Processed: 2, MessagesFound: 3, FilesSaved: 2}, res.Summary)
	assert.Equal(t, "pkg-1", res.PackageID)
	assert.Equal(t, filepath.Join(root, "u1", "2024-01", "2024-01.zip"), res.ArchivePath)
	assert.Greater(t, res.SizeBytes, int64(0))

	t.Run("query includes keywords and window", func(t *testing.T) {
		assert.Contains(t, mail.query, `"factura" OR "invoice" OR "nomina"`)
		assert.Contains(t, mail.query, "has:attachment")
		assert.Contains(t, mail.query, "after:1704067200")
		assert.Contains(t, mail.query, "before:1706745600")
	})

	t.Run("archive holds both trees", func(t *testing.T) {
		r, err := zip.OpenReader(res.ArchivePath)
		require.NoError(t, err)
		defer r.Close()

		names := make([]string, 0, len(r.File))
		for _, f := range r.File {
			names = append(names, f.Name)
		}
		assert.ElementsMatch(t, []string{
			"JSON_y_PDFS/Factura_Enero_m1/invoice.pdf",
			"JSON_y_PDFS/Invoice_January_m2/invoice.pdf",
			"SOLO_PDF/Factura_Enero_m1_invoice.pdf",
			"SOLO_PDF/Invoice_January_m2_invoice.pdf",
		}, names)
	})

	t.Run("record persisted once", func(t *testing.T) {
		require.Len(t, packages.created, 1)
		pkg := packages.created[0]
		assert.Equal(t, "u1", pkg.UserID)
		assert.Equal(t, "2024-01", pkg.BatchLabel)
		assert.Equal(t, 2, pkg.FilesSaved)
		assert.Equal(t, 3, pkg.MessagesFound)
	})
}

func TestGenerateRerunOverwrites(t *testing.T) {
	root := t.TempDir()
	mail := &fakeMail{
		messageIDs:  []string{"m1"},
		messages:    map[string]*gmail.Message{"m1": pdfMessage("Factura", "a1")},
		attachments: map[string][]byte{"m1:a1": []byte("pdf")},
	}
	p, _, packages := newTestPipeline(t, root, mail)

	first, err := p.Generate(context.Background(), "u1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	second, err := p.Generate(context.Background(), "u1", "2024-01-05", "2024-01-20")
	require.NoError(t, err)

	// Same user-month targets the same workspace and archive path.
	assert.Equal(t, first.ArchivePath, second.ArchivePath)
	assert.Len(t, packages.created, 2)

	matches, err := filepath.Glob(filepath.Join(root, "u1", "2024-01", "*.zip"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestGenerateRefreshFailureAborts(t *testing.T) {
	mail := &fakeMail{}
	p, tokens, packages := newTestPipeline(t, t.TempDir(), mail)
	tokens.err = errs.RefreshFailed("upstream said no", errors.New("invalid_grant"))
	tokens.token = ""

	_, err := p.Generate(context.Background(), "u1", "2024-01-01", "2024-01-31")
	assert.Equal(t, errs.KindRefreshFailed, errs.KindOf(err))
	assert.Empty(t, packages.created)
	assert.Empty(t, mail.query)
}

func TestGenerateValidationStopsBeforeTokenRefresh(t *testing.T) {
	p, tokens, packages := newTestPipeline(t, t.TempDir(), &fakeMail{})

	_, err := p.Generate(context.Background(), "u1", "2024-02-01", "2024-01-01")
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Zero(t, tokens.calls)
	assert.Empty(t, packages.created)
}

func TestGenerateIsolatesFailingMessage(t *testing.T) {
	root := t.TempDir()
	mail := &fakeMail{
		messageIDs: []string{"m1", "m2", "m3"},
		messages: map[string]*gmail.Message{
			"m1": pdfMessage("Uno", "a1"),
			"m3": pdfMessage("Tres", "a3"),
		},
		failMessage: map[string]bool{"m2": true},
		attachments: map[string][]byte{
			"m1:a1": []byte("pdf"),
			"m3:a3": []byte("pdf"),
		},
	}
	p, _, _ := newTestPipeline(t, root, mail)

	res, err := p.Generate(context.Background(), "u1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	// The failing message still counts toward messagesFound.
	assert.Equal(t, Summary{Processed: 2, MessagesFound: 3, FilesSaved: 2}, res.Summary)
}

func TestGenerateQueryDedupesBaseAndCustom(t *testing.T) {
	root := t.TempDir()
	mail := &fakeMail{messageIDs: nil}
	tokens := &fakeTokens{token: "tok"}
	packages := &fakePackages{}
	cfg := Config{ArchiveRoot: root, BaseKeywords: []string{"factura"}, MaxMessages: 10, RetentionMaxAge: time.Hour}
	factory := func(context.Context, string) (MailClient, error) { return mail, nil }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(cfg, tokens, &fakeKeywords{custom: []string{"Factura", "recibo"}}, packages, factory, logger)

	_, err := p.Generate(context.Background(), "u1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(strings.ToLower(mail.query), `"factura"`))
	assert.Contains(t, mail.query, `"recibo"`)
}
