package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupOptions controls the periodic snapshot loop.
type BackupOptions struct {
	Dir           string
	Interval      time.Duration
	RetentionDays int
}

// RunBackups snapshots the database on a ticker until ctx is cancelled.
// Intended to run in its own goroutine next to the HTTP server.
func (db *DB) RunBackups(ctx context.Context, opts BackupOptions) {
	if opts.Interval <= 0 {
		opts.Interval = 24 * time.Hour
	}

	if db.logger != nil {
		db.logger.Info().Str("dir", opts.Dir).Dur("interval", opts.Interval).Msg("backup loop started")
	}

	if err := db.Backup(ctx, opts.Dir); err != nil && db.logger != nil {
		db.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := db.Backup(ctx, opts.Dir); err != nil && db.logger != nil {
				db.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			db.pruneBackups(opts)
		}
	}
}

// Backup writes a consistent snapshot into dir. VACUUM INTO runs inside
// sqlite itself, so it is safe against concurrent writers under WAL where a
// plain file copy is not.
func (db *DB) Backup(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	target := filepath.Join(dir, fmt.Sprintf("backup_%s.db", time.Now().UTC().Format("20060102_150405")))
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		return fmt.Errorf("vacuum into %s: %w", target, err)
	}

	if db.logger != nil {
		db.logger.Info().Str("path", target).Msg("backup written")
	}
	return nil
}

func (db *DB) pruneBackups(opts BackupOptions) {
	if opts.RetentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		if db.logger != nil {
			db.logger.Error().Err(err).Msg("read backup dir for pruning")
		}
		return
	}

	cutoff := time.Now().AddDate(0, 0, -opts.RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if db.logger != nil {
				db.logger.Info().Str("file", entry.Name()).Msg("pruning old backup")
			}
			_ = os.Remove(filepath.Join(opts.Dir, entry.Name()))
		}
	}
}
