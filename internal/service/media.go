// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvargas/campana-go/internal/imaging"
	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/store"
)

// DefaultUploadDir is used when no upload directory is configured.
const DefaultUploadDir = "./uploads"

// MediaURLPrefix is the public URL prefix for stored objects.
const MediaURLPrefix = "/media/"

// Media service errors.
var (
	ErrFileTooLarge    = errors.New("file exceeds the bucket size limit")
	ErrUnsupportedType = errors.New("file type not allowed in this bucket")
	ErrInvalidBucket   = errors.New("unknown bucket")
	ErrInvalidFolder   = errors.New("unknown folder")
	ErrMediaReferenced = errors.New("media is referenced by published content")
)

// UploadResult describes a stored object.
type UploadResult struct {
	Media store.Medium
	URL   string
}

// MediaService stores uploads in the configured buckets and keeps the
// media table in sync with the files on disk.
type MediaService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a new media service.
func NewMediaService(db *sql.DB, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Upload validates and stores a file in a bucket. Size and MIME checks
// run before anything touches disk. The stored object is named by a
// fresh UUID plus the original extension.
func (s *MediaService) Upload(ctx context.Context, file io.Reader, filename string, size int64, bucket, folder string) (*UploadResult, error) {
	if bucket != model.BucketImages && bucket != model.BucketVideos {
		return nil, ErrInvalidBucket
	}
	if bucket == model.BucketImages && !validFolder(folder) {
		return nil, ErrInvalidFolder
	}
	if bucket == model.BucketVideos {
		folder = ""
	}

	if size > model.MaxSizeForBucket(bucket) {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, size)
	}

	mimeType := mimeTypeFromExtension(filename)
	if bucket == model.BucketImages && !model.IsImageMime(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	if bucket == model.BucketVideos && !model.IsVideoMime(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	// Read at most one byte past the cap so oversized bodies with a
	// lying Content-Length still get rejected before the full read.
	limited := io.LimitReader(file, model.MaxSizeForBucket(bucket)+1)

	fileUUID := uuid.New().String()
	objectName := fileUUID + strings.ToLower(filepath.Ext(filename))
	objectPath := path.Join(bucket, folder, objectName)

	queries := store.New(s.db)
	now := time.Now()

	var (
		storedSize    int64
		width, height sql.NullInt64
	)

	if bucket == model.BucketImages {
		processResult, err := s.processor.ProcessImage(limited, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to process image: %w", err)
		}
		if processResult.Size > model.MaxImageSize {
			_ = s.processor.DeleteObjectFiles(objectPath)
			return nil, ErrFileTooLarge
		}
		storedSize = processResult.Size
		width = sql.NullInt64{Int64: int64(processResult.Width), Valid: true}
		height = sql.NullInt64{Int64: int64(processResult.Height), Valid: true}

		if _, err := s.processor.CreateAllVariants(objectPath); err != nil {
			// The original is stored; variants are best effort.
			slog.Warn("failed to create image variants", "object", objectPath, "error", err)
		}
	} else {
		written, _, err := s.processor.SaveRaw(limited, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to save file: %w", err)
		}
		if written > model.MaxVideoSize {
			_ = s.processor.DeleteObjectFiles(objectPath)
			return nil, ErrFileTooLarge
		}
		storedSize = written
	}

	media, err := queries.CreateMedium(ctx, store.CreateMediumParams{
		Uuid:      fileUUID,
		Bucket:    bucket,
		Folder:    folder,
		Filename:  objectName,
		MimeType:  mimeType,
		Size:      storedSize,
		Width:     width,
		Height:    height,
		CreatedAt: now,
	})
	if err != nil {
		// Compensate: the record failed, so the files must go too.
		_ = s.processor.DeleteObjectFiles(objectPath)
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	return &UploadResult{Media: media, URL: s.URL(media)}, nil
}

// Delete removes an object and its record. Unless force is set, it
// refuses while any evento or noticia still references the object URL.
func (s *MediaService) Delete(ctx context.Context, mediaID int64, force bool) error {
	queries := store.New(s.db)

	media, err := queries.GetMediumByID(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("failed to get media: %w", err)
	}

	if !force {
		refs, err := s.ReferenceCount(ctx, media)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w (%d references)", ErrMediaReferenced, refs)
		}
	}

	if err := queries.DeleteMedium(ctx, mediaID); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}

	objectPath := path.Join(media.Bucket, media.StoragePath())
	if err := s.processor.DeleteObjectFiles(objectPath); err != nil {
		// Record is gone; report but do not fail.
		slog.Warn("failed to delete media files", "id", mediaID, "object", objectPath, "error", err)
	}

	return nil
}

// RemoveObjectFiles deletes a stored object and its variants from disk
// without touching media records. Used by the orphan sweep for files
// that have no record.
func (s *MediaService) RemoveObjectFiles(objectPath string) error {
	return s.processor.DeleteObjectFiles(objectPath)
}

// ReferenceCount counts content rows whose image, video or gallery
// fields point at the object's URL.
func (s *MediaService) ReferenceCount(ctx context.Context, media store.Medium) (int64, error) {
	queries := store.New(s.db)
	url := s.URL(media)

	eventos, err := queries.CountEventosReferencingURL(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("failed to count evento references: %w", err)
	}
	noticias, err := queries.CountNoticiasReferencingURL(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("failed to count noticia references: %w", err)
	}

	return eventos + noticias, nil
}

// URL returns the public URL for a stored object.
func (s *MediaService) URL(media store.Medium) string {
	return MediaURLPrefix + media.Bucket + "/" + media.StoragePath()
}

// ThumbnailURL returns the thumbnail URL for image objects, or the
// object URL itself for everything else.
func (s *MediaService) ThumbnailURL(media store.Medium) string {
	if !model.IsImageMime(media.MimeType) {
		return s.URL(media)
	}
	return MediaURLPrefix + media.Bucket + "/variants/" + model.VariantThumbnail + "/" + media.StoragePath()
}

// UploadDir exposes the storage root for the static file server.
func (s *MediaService) UploadDir() string {
	return s.uploadDir
}

func validFolder(folder string) bool {
	for _, f := range model.BucketFolders {
		if f == folder {
			return true
		}
	}
	return false
}

func mimeTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".gif":
		return model.MimeTypeGIF
	case ".webp":
		return model.MimeTypeWebP
	case ".mp4":
		return model.MimeTypeMP4
	case ".webm":
		return model.MimeTypeWebM
	default:
		return "application/octet-stream"
	}
}
