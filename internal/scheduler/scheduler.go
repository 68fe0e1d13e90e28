// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the recurring maintenance jobs: the orphan
// media sweep and the activity and visit retention cleanups.
package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
)

// orphanMinAge keeps freshly written files out of the sweep so an
// upload in progress is never collected before its media record exists.
const orphanMinAge = 24 * time.Hour

// Options configures the scheduler's retention windows.
type Options struct {
	ActivityRetention time.Duration
	VisitRetention    time.Duration
}

// DefaultOptions returns the standard retention windows.
func DefaultOptions() Options {
	return Options{
		ActivityRetention: 90 * 24 * time.Hour,
		VisitRetention:    365 * 24 * time.Hour,
	}
}

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	db     *sql.DB
	media  *service.MediaService
	cron   *cron.Cron
	logger *slog.Logger
	opts   Options
}

// New creates a new scheduler instance.
func New(db *sql.DB, media *service.MediaService, logger *slog.Logger, opts Options) *Scheduler {
	if opts.ActivityRetention <= 0 {
		opts.ActivityRetention = DefaultOptions().ActivityRetention
	}
	if opts.VisitRetention <= 0 {
		opts.VisitRetention = DefaultOptions().VisitRetention
	}
	return &Scheduler{
		db:     db,
		media:  media,
		cron:   cron.New(),
		logger: logger,
		opts:   opts,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Orphan media sweep, hourly.
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.SweepOrphanMedia(context.Background()); err != nil {
			s.logger.Error("orphan media sweep failed", "error", err)
		}
	}); err != nil {
		return err
	}

	// Retention cleanups, daily at 03:30.
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.CleanupRetention(context.Background()); err != nil {
			s.logger.Error("retention cleanup failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// SweepOrphanMedia deletes stored files that have no media record, left
// behind when an upload's compensating cleanup itself failed. Objects
// with a record are library assets and are never touched here: they are
// removed only by an admin delete.
func (s *Scheduler) SweepOrphanMedia(ctx context.Context) error {
	queries := store.New(s.db)
	root := s.media.UploadDir()
	cutoff := time.Now().Add(-orphanMinAge)

	var removed, scanned int
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		objectPath := filepath.ToSlash(rel)
		parts := strings.Split(objectPath, "/")
		if len(parts) < 2 {
			return nil
		}
		// Variants go with their original, not on their own.
		if parts[1] == "variants" {
			return nil
		}
		scanned++

		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}

		_, err = queries.GetMediumByPath(ctx, store.GetMediumByPathParams{
			Bucket:   parts[0],
			Folder:   path.Join(parts[1 : len(parts)-1]...),
			Filename: parts[len(parts)-1],
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("failed to look up media record", "object", objectPath, "error", err)
			return nil
		}

		if err := s.media.RemoveObjectFiles(objectPath); err != nil {
			s.logger.Error("failed to delete orphan object", "object", objectPath, "error", err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		s.logger.Info("orphan media sweep finished", "removed", removed, "scanned", scanned)
	}
	return nil
}

// CleanupRetention prunes old activity log entries and visit rows.
func (s *Scheduler) CleanupRetention(ctx context.Context) error {
	queries := store.New(s.db)
	now := time.Now()

	activityRemoved, err := queries.DeleteActivityBefore(ctx, now.Add(-s.opts.ActivityRetention))
	if err != nil {
		return err
	}

	visitsRemoved, err := queries.DeleteVisitsBefore(ctx, now.Add(-s.opts.VisitRetention))
	if err != nil {
		return err
	}

	if activityRemoved > 0 || visitsRemoved > 0 {
		s.logger.Info("retention cleanup finished",
			"activity_removed", activityRemoved,
			"visits_removed", visitsRemoved)
	}
	return nil
}
