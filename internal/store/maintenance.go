package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"jellywatch/internal/media"
)

// Stats aggregates read-only store diagnostics.
type Stats struct {
	TotalRecords    int
	ByKind          map[media.Kind]int
	DatabaseBytes   int64
	WALEnabled      bool
	RecentAdditions int
}

// recentWindow bounds the "recent additions" stat.
const recentWindow = 24 * time.Hour

// Stats returns record counts, on-disk size, and the journaling mode.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByKind: make(map[media.Kind]int)}

	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(1) FROM media_items GROUP BY kind`)
	if err != nil {
		return stats, fmt.Errorf("record stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return stats, err
		}
		stats.ByKind[media.Kind(kind)] = count
		stats.TotalRecords += count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	cutoff := time.Now().UTC().Add(-recentWindow).Format(time.RFC3339Nano)
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM media_items WHERE created_at >= ?`, cutoff)
	if err := row.Scan(&stats.RecentAdditions); err != nil {
		return stats, fmt.Errorf("recent additions: %w", err)
	}

	var mode string
	if err := s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return stats, fmt.Errorf("journal mode: %w", err)
	}
	stats.WALEnabled = strings.EqualFold(mode, "wal")

	if info, err := os.Stat(s.path); err == nil {
		stats.DatabaseBytes = info.Size()
	}
	return stats, nil
}

// Vacuum reclaims space and refreshes query-planner statistics. It is
// invoked out-of-band, never on the request-serving path.
func (s *Store) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

// DatabaseHealth captures diagnostic information about the record database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalRecords     int
	Error            string
}

// CheckHealth returns diagnostic information about the record database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("record database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat record database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("record database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("record database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping record database: %w", err)
	}
	health.DatabaseReadable = true

	var tableName string
	row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'media_items'")
	if err := row.Scan(&tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			health.TableExists = false
		} else {
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
	} else {
		health.TableExists = true
	}

	if health.TableExists {
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM media_items")
		if err := row.Scan(&health.TotalRecords); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count records: %w", err)
		}
	}

	row = s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
