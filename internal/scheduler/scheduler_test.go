// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/service"
	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/testutil"
)

func writeObjectFile(t *testing.T, root, objectPath string, age time.Duration) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(p, []byte("data"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	return p
}

func TestSweepOrphanMedia(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	root := t.TempDir()
	media := service.NewMediaService(db, root)
	s := New(db, media, testutil.TestLogger(), DefaultOptions())
	q := store.New(db)

	// Old file with no record: the orphan the sweep exists for.
	orphanFile := writeObjectFile(t, root, "campaign-images/eventos/huerfana.jpg", 48*time.Hour)
	orphanVariant := writeObjectFile(t, root, "campaign-images/variants/thumbnail/eventos/huerfana.jpg", 48*time.Hour)

	// Old file with a record: a library asset, durable even when no
	// evento or noticia uses it yet.
	libraryFile := writeObjectFile(t, root, "campaign-images/eventos/biblioteca.jpg", 48*time.Hour)
	library, err := q.CreateMedium(ctx, store.CreateMediumParams{
		Uuid:      "biblioteca",
		Bucket:    model.BucketImages,
		Folder:    "eventos",
		Filename:  "biblioteca.jpg",
		MimeType:  model.MimeTypeJPEG,
		Size:      100,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateMedium: %v", err)
	}

	// Fresh file with no record yet: an upload in flight.
	freshFile := writeObjectFile(t, root, "campaign-images/eventos/nueva.jpg", time.Hour)

	if err := s.SweepOrphanMedia(ctx); err != nil {
		t.Fatalf("SweepOrphanMedia: %v", err)
	}

	if _, err := os.Stat(orphanFile); !os.IsNotExist(err) {
		t.Errorf("orphan file should be deleted, stat: %v", err)
	}
	if _, err := os.Stat(orphanVariant); !os.IsNotExist(err) {
		t.Errorf("orphan variant should be deleted with its original, stat: %v", err)
	}
	if _, err := os.Stat(libraryFile); err != nil {
		t.Errorf("library asset should survive: %v", err)
	}
	if _, err := q.GetMediumByID(ctx, library.ID); err != nil {
		t.Errorf("library record should survive: %v", err)
	}
	if _, err := os.Stat(freshFile); err != nil {
		t.Errorf("fresh file should survive: %v", err)
	}
}

func TestCleanupRetention(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	media := service.NewMediaService(db, t.TempDir())
	s := New(db, media, testutil.TestLogger(), Options{
		ActivityRetention: 30 * 24 * time.Hour,
		VisitRetention:    30 * 24 * time.Hour,
	})
	q := store.New(db)

	for _, age := range []time.Duration{60 * 24 * time.Hour, time.Hour} {
		_, err := q.CreateActivity(ctx, store.CreateActivityParams{
			Level:     model.ActivityLevelInfo,
			Category:  model.ActivityCategorySystem,
			Message:   "entry",
			Metadata:  "{}",
			CreatedAt: time.Now().Add(-age),
		})
		if err != nil {
			t.Fatalf("CreateActivity: %v", err)
		}
		err = q.CreateVisit(ctx, store.CreateVisitParams{
			Path:      "/",
			Device:    "desktop",
			Browser:   "Firefox",
			CreatedAt: time.Now().Add(-age),
		})
		if err != nil {
			t.Fatalf("CreateVisit: %v", err)
		}
	}

	if err := s.CleanupRetention(ctx); err != nil {
		t.Fatalf("CleanupRetention: %v", err)
	}

	activity, err := q.CountActivity(ctx, "")
	if err != nil {
		t.Fatalf("CountActivity: %v", err)
	}
	if activity != 1 {
		t.Errorf("activity rows = %d, want 1", activity)
	}

	visits, err := q.CountVisitsSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("CountVisitsSince: %v", err)
	}
	if visits != 1 {
		t.Errorf("visit rows = %d, want 1", visits)
	}
}
