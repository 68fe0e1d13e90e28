// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic: audit logging, media storage
// and contact intake.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mvargas/campana-go/internal/model"
	"github.com/mvargas/campana-go/internal/store"
)

// ActivityService records audit entries in the activity log.
type ActivityService struct {
	queries *store.Queries
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{
		queries: store.New(db),
	}
}

// Log creates an activity log entry.
func (s *ActivityService) Log(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateActivity(ctx, store.CreateActivityParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		IpAddress: ipAddress,
		Metadata:  metadataJSON,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to record activity", "error", err, "message", message)
		return err
	}

	return nil
}

// LogInfo records an info-level entry.
func (s *ActivityService) LogInfo(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.ActivityLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning records a warning-level entry.
func (s *ActivityService) LogWarning(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.ActivityLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogError records an error-level entry.
func (s *ActivityService) LogError(ctx context.Context, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.ActivityLevelError, category, message, userID, ipAddress, metadata)
}

// LogAuth records an authentication entry.
func (s *ActivityService) LogAuth(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.ActivityCategoryAuth, message, userID, ipAddress, metadata)
}

// LogContent records a content management entry (eventos, noticias, redes).
func (s *ActivityService) LogContent(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.ActivityCategoryContent, message, userID, ipAddress, metadata)
}

// LogMedia records a media library entry.
func (s *ActivityService) LogMedia(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.ActivityCategoryMedia, message, userID, ipAddress, metadata)
}

// LogConfig records a site configuration entry.
func (s *ActivityService) LogConfig(ctx context.Context, level, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.ActivityCategoryConfig, message, userID, ipAddress, metadata)
}

// DeleteOldEntries removes activity entries older than the given duration.
func (s *ActivityService) DeleteOldEntries(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	return s.queries.DeleteActivityBefore(ctx, cutoff)
}
