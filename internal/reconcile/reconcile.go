// Package reconcile periodically pulls the full library snapshot from
// Jellyfin and converges the record store onto it, covering webhook
// deliveries that were missed or arrived out of order.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jellywatch/internal/config"
	"jellywatch/internal/jellyfin"
	"jellywatch/internal/media"
	"jellywatch/internal/store"
)

// Reconciler owns the interval sync loop and optional periodic
// compaction.
type Reconciler struct {
	client         *jellyfin.Client
	store          *store.Store
	interval       time.Duration
	vacuumInterval time.Duration
	logger         *slog.Logger
}

// New builds a reconciler; returns nil when sync is disabled or the
// interval is not positive.
func New(cfg *config.Config, client *jellyfin.Client, st *store.Store, logger *slog.Logger) *Reconciler {
	if !cfg.Sync.Enabled || cfg.Sync.IntervalMinutes <= 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	var vacuumInterval time.Duration
	if cfg.Sync.VacuumIntervalHours > 0 {
		vacuumInterval = time.Duration(cfg.Sync.VacuumIntervalHours) * time.Hour
	}
	return &Reconciler{
		client:         client,
		store:          st,
		interval:       time.Duration(cfg.Sync.IntervalMinutes) * time.Minute,
		vacuumInterval: vacuumInterval,
		logger:         logger.With(slog.String("component", "reconcile")),
	}
}

// Run syncs immediately and then on each interval tick until ctx is
// canceled. Sync failures are logged and the loop keeps going; the next
// tick retries.
func (r *Reconciler) Run(ctx context.Context) {
	if r == nil {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var vacuumC <-chan time.Time
	if r.vacuumInterval > 0 {
		vacuumTicker := time.NewTicker(r.vacuumInterval)
		defer vacuumTicker.Stop()
		vacuumC = vacuumTicker.C
	}

	if err := r.SyncOnce(ctx); err != nil {
		r.logger.Error("initial sync failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.SyncOnce(ctx); err != nil {
				r.logger.Error("sync failed", slog.Any("error", err))
			}
		case <-vacuumC:
			if err := r.store.Vacuum(ctx); err != nil {
				r.logger.Error("vacuum failed", slog.Any("error", err))
			} else {
				r.logger.Info("database compacted")
			}
		}
	}
}

// SyncOnce pulls the library snapshot, batch-upserts it, and removes
// records for items no longer present on the server.
func (r *Reconciler) SyncOnce(ctx context.Context) error {
	started := time.Now()

	snapshot, err := r.client.FetchLibrary(ctx)
	if err != nil {
		return fmt.Errorf("fetch library: %w", err)
	}

	records := make([]*media.Record, 0, len(snapshot))
	present := make(map[string]struct{}, len(snapshot))
	for i := range snapshot {
		rec := media.FromFull(snapshot[i])
		records = append(records, &rec)
		present[rec.ItemID] = struct{}{}
	}

	result := r.store.SaveBatch(ctx, records)

	removed := 0
	for _, id := range r.store.AllIDs(ctx) {
		if _, ok := present[id]; ok {
			continue
		}
		if r.store.Delete(ctx, id) {
			removed++
		}
	}

	r.logger.Info("library reconciled",
		slog.Int("fetched", result.Total),
		slog.Int("upserted", result.Successful),
		slog.Int("failed", result.Failed),
		slog.Int("removed", removed),
		slog.Duration("elapsed", time.Since(started).Round(time.Millisecond)))

	if result.Failed > 0 {
		return fmt.Errorf("reconcile upserted %d of %d records", result.Successful, result.Total)
	}
	return nil
}
