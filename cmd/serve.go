package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/facturador/facturador/internal/config"
	"github.com/facturador/facturador/internal/gmail"
	"github.com/facturador/facturador/internal/google"
	"github.com/facturador/facturador/internal/logging"
	"github.com/facturador/facturador/internal/pipeline"
	"github.com/facturador/facturador/internal/secrets"
	"github.com/facturador/facturador/internal/server"
	"github.com/facturador/facturador/internal/store"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the REST API: account registration and login, Gmail mailbox
connection via OAuth, keyword management, package generation and download.

Configuration comes from the environment; JWT_SECRET is required, and
GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET/GOOGLE_REDIRECT_URL are needed for
mailbox connections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides FACTURADOR_ADDR)")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := logging.New(cfg.Debug)

	box, err := secrets.New(cfg.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}
	if !box.Enabled() {
		logger.Warn("refresh token encryption is DISABLED, set ENCRYPTION_KEY in production")
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	oauth := google.NewOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.ForceConsent)
	tokens := google.NewTokenProvider(st, box, oauth)

	factory := func(ctx context.Context, accessToken string) (pipeline.MailClient, error) {
		return gmail.NewClient(ctx, accessToken)
	}
	pipe := pipeline.New(pipeline.Config{
		ArchiveRoot:     cfg.ArchiveRoot,
		BaseKeywords:    cfg.BaseKeywords,
		MaxMessages:     int(cfg.MaxMessages),
		RetentionMaxAge: cfg.RetentionMaxAge,
	}, tokens, st, st, factory, logger)

	metrics := server.NewMetrics(prometheus.DefaultRegisterer)
	srv := server.New(st, oauth, box, pipe, cfg.JWTSecret, logger, metrics)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
