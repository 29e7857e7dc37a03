// Package pipeline orchestrates one ingestion run: validate the range,
// refresh mailbox access, search, extract attachments, archive the
// workspace and persist the package record. Any fatal stage aborts the run
// before a record is written.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/facturador/facturador/internal/archive"
	"github.com/facturador/facturador/internal/extract"
	"github.com/facturador/facturador/internal/gmail"
	"github.com/facturador/facturador/internal/logging"
	"github.com/facturador/facturador/internal/store"
	"github.com/facturador/facturador/internal/workspace"
)

// TokenProvider mints a live mailbox access token for a user.
type TokenProvider interface {
	AccessToken(ctx context.Context, userID string) (string, error)
}

// KeywordSource yields a user's custom subject keywords.
type KeywordSource interface {
	Keywords(userID string) ([]string, error)
}

// PackageStore persists package records.
type PackageStore interface {
	CreatePackage(pkg *store.Package) error
}

// MailClient is the provider surface one run needs: search plus the
// fetch operations used during extraction.
type MailClient interface {
	ListMessages(ctx context.Context, query string, max int) ([]string, error)
	extract.Fetcher
}

// MailClientFactory builds a MailClient from a fresh access token.
type MailClientFactory func(ctx context.Context, accessToken string) (MailClient, error)

// Config holds the run parameters shared by all users.
type Config struct {
	ArchiveRoot     string
	BaseKeywords    []string
	MaxMessages     int
	RetentionMaxAge time.Duration
}

// Summary reports the outcome of a run's extraction phase.
type Summary struct {
	Processed     int `json:"processedMessageCount"`
	MessagesFound int `json:"messagesFound"`
	FilesSaved    int `json:"filesSaved"`
}

// Result is the product of a successful run.
type Result struct {
	PackageID   string  `json:"packageId"`
	ArchivePath string  `json:"archivePath"`
	SizeBytes   int64   `json:"sizeBytes"`
	Summary     Summary `json:"summary"`
}

// Pipeline runs ingestion batches. One Pipeline serves all users; each run
// is single-threaded and carries its own dedup state.
type Pipeline struct {
	cfg           Config
	tokens        TokenProvider
	keywords      KeywordSource
	packages      PackageStore
	newMailClient MailClientFactory
	logger        *slog.Logger
}

// New assembles a pipeline from its collaborators.
func New(cfg Config, tokens TokenProvider, keywords KeywordSource, packages PackageStore, factory MailClientFactory, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		tokens:        tokens,
		keywords:      keywords,
		packages:      packages,
		newMailClient: factory,
		logger:        logging.WithOperation(logger, "generate"),
	}
}

// Generate executes one run for a user and date range. On success the
// archive exists on disk and exactly one package record references it; on
// failure no record is persisted.
func (p *Pipeline) Generate(ctx context.Context, userID, startDate, endDate string) (*Result, error) {
	rng, err := ParseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	logger := p.logger.With(logging.UserID(userID), logging.Batch(rng.BatchLabel))

	// Opportunistic retention sweep; a failed sweep never blocks the run.
	if removed := archive.CleanOld(p.cfg.ArchiveRoot, p.cfg.RetentionMaxAge, logger); removed > 0 {
		logger.Info("removed expired archives", slog.Int("count", removed))
	}

	accessToken, err := p.tokens.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	custom, err := p.keywords.Keywords(userID)
	if err != nil {
		return nil, err
	}
	query := gmail.BuildQuery(append(append([]string{}, p.cfg.BaseKeywords...), custom...), rng.StartEpoch, rng.EndEpoch)

	client, err := p.newMailClient(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	messageIDs, err := client.ListMessages(ctx, query, p.cfg.MaxMessages)
	if err != nil {
		return nil, err
	}
	logger.Info("search complete", slog.Int("messages_found", len(messageIDs)))

	ws, err := workspace.Prepare(p.cfg.ArchiveRoot, userID, rng.BatchLabel)
	if err != nil {
		return nil, err
	}

	sum := extract.New(client, ws, logger).Run(ctx, messageIDs)

	size, err := archive.Zip(ws.Root(), ws.ArchivePath())
	if err != nil {
		return nil, err
	}

	pkg := &store.Package{
		UserID:        userID,
		BatchLabel:    rng.BatchLabel,
		ArchivePath:   ws.ArchivePath(),
		SizeBytes:     size,
		FilesSaved:    sum.FilesSaved,
		MessagesFound: len(messageIDs),
	}
	if err := p.packages.CreatePackage(pkg); err != nil {
		return nil, err
	}

	logger.Info("package generated",
		slog.String("package_id", pkg.ID),
		slog.Int64("size_bytes", size),
		slog.Int("processed", sum.Processed),
		slog.Int("files_saved", sum.FilesSaved),
		logging.Status("success"))

	return &Result{
		PackageID:   pkg.ID,
		ArchivePath: ws.ArchivePath(),
		SizeBytes:   size,
		Summary: Summary{
			Processed:     sum.Processed,
			MessagesFound: len(messageIDs),
			FilesSaved:    sum.FilesSaved,
		},
	}, nil
}
