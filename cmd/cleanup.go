package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/facturador/facturador/internal/archive"
	"github.com/facturador/facturador/internal/config"
	"github.com/facturador/facturador/internal/logging"
)

func newCleanupCmd() *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove archives and workspaces older than the retention window",
		Long: `Scan the archive root and delete entries whose modification time is
older than the retention window. The same sweep runs opportunistically
before every package generation; this command exists for cron-style use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			maxAge := cfg.RetentionMaxAge
			if maxAgeHours > 0 {
				maxAge = time.Duration(maxAgeHours) * time.Hour
			}

			logger := logging.New(cfg.Debug)
			removed := archive.CleanOld(cfg.ArchiveRoot, maxAge, logger)
			logger.Info("cleanup complete",
				slog.String("root", cfg.ArchiveRoot),
				slog.Int("removed", removed))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", 0, "retention window in hours (overrides FACTURADOR_RETENTION_HOURS)")

	return cmd
}
