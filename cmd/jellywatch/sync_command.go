package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"jellywatch/internal/jellyfin"
	"jellywatch/internal/logging"
	"jellywatch/internal/reconcile"
	"jellywatch/internal/store"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one library reconciliation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Jellyfin.URL) == "" {
				return errors.New("jellyfin.url is not configured")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DatabasePath(), logger)
			if err != nil {
				return err
			}
			defer st.Close()

			client := jellyfin.NewClient(cfg, logger)
			reconciler := reconcile.New(cfg, client, st, logger)
			if reconciler == nil {
				return errors.New("sync is disabled in configuration")
			}
			if err := reconciler.SyncOnce(cmd.Context()); err != nil {
				return fmt.Errorf("sync library: %w", err)
			}

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				logger.Warn("stats after sync", slog.Any("error", err))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Library reconciled: %d records tracked\n", stats.TotalRecords)
			return nil
		},
	}
}
