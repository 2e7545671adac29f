package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"jellywatch/internal/config"
	"jellywatch/internal/detect"
	"jellywatch/internal/jellyfin"
	"jellywatch/internal/notify"
	"jellywatch/internal/reconcile"
	"jellywatch/internal/store"
	"jellywatch/internal/webhook"
)

// Daemon coordinates the background services and holds the instance lock.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	notifier   notify.Service
	server     *webhook.Server
	reconciler *reconcile.Reconciler

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
	BindAddress  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	notifier := notify.NewService(cfg, logger)
	detector := detect.NewDetector(logger)
	watch := detect.WatchConfig(cfg.Notifications.WatchChanges)
	processor := webhook.NewProcessor(st, detector, watch, logger)
	server := webhook.NewServer(cfg, processor, notifier, st, logger)

	var reconciler *reconcile.Reconciler
	if strings.TrimSpace(cfg.Jellyfin.URL) != "" {
		client := jellyfin.NewClient(cfg, logger)
		reconciler = reconcile.New(cfg, client, st, logger)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "jellywatch.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		notifier:   notifier,
		server:     server,
		reconciler: reconciler,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the webhook server and
// reconciliation loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another jellywatch instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if err := d.server.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start webhook server: %w", err)
	}

	if d.reconciler != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.reconciler.Run(d.ctx)
		}()
	}

	d.running.Store(true)
	d.logger.Info("jellywatch daemon started",
		slog.String("lock", d.lockPath),
		slog.String("address", d.server.Addr()))
	return nil
}

// Stop shuts the services down and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.Any("error", err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("jellywatch daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// SyncNow runs one reconciliation pass outside the interval schedule.
func (d *Daemon) SyncNow(ctx context.Context) error {
	if d.reconciler == nil {
		return errors.New("reconciliation is not configured")
	}
	return d.reconciler.SyncOnce(ctx)
}

// TestNotification sends a test message through the configured notifier.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Discord.WebhookURL) == "" {
		return false, "discord webhook not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		BindAddress:  d.server.Addr(),
	}
}
