package store

import (
	"context"
	"fmt"
	"log/slog"

	robfigcron "github.com/robfig/cron/v3"
)

// BackupScheduler snapshots the store into a backups directory on a cron
// schedule. An empty schedule disables it.
type BackupScheduler struct {
	store    *Store
	dir      string
	schedule string // standard 5-field cron expression
	cron     *robfigcron.Cron
}

// NewBackupScheduler creates a scheduler for the given store.
func NewBackupScheduler(s *Store, dir, schedule string) *BackupScheduler {
	return &BackupScheduler{
		store:    s,
		dir:      dir,
		schedule: schedule,
		cron:     robfigcron.New(),
	}
}

// Start arms the schedule and blocks until ctx is cancelled. With an empty
// schedule it blocks without arming anything, so callers can run it
// unconditionally under an errgroup.
func (b *BackupScheduler) Start(ctx context.Context) error {
	if b.schedule == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	_, err := b.cron.AddFunc(b.schedule, b.runOnce)
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", b.schedule, err)
	}

	b.cron.Start()
	slog.Info("store backups scheduled", "schedule", b.schedule, "dir", b.dir)

	<-ctx.Done()
	<-b.cron.Stop().Done()
	return ctx.Err()
}

func (b *BackupScheduler) runOnce() {
	path, err := b.store.Backup(b.dir)
	if err != nil {
		slog.Error("store backup failed", "err", err)
		return
	}
	slog.Info("store backup written", "path", path)
}
