// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/mvargas/campana-go/internal/store"
)

// topEntries caps the per-dimension lists on the dashboard.
const topEntries = 10

// Summary holds the visit aggregates shown on the admin dashboard.
type Summary struct {
	VisitsLast7Days  int64
	VisitsLast30Days int64
	TopPages         []store.VisitCountRow
	ByDevice         []store.VisitCountRow
	ByCountry        []store.VisitCountRow
}

// BuildSummary computes the dashboard aggregates over the last 30 days.
func BuildSummary(ctx context.Context, db *sql.DB) (Summary, error) {
	queries := store.New(db)
	now := time.Now()
	since30 := now.AddDate(0, 0, -30)

	var s Summary
	var err error

	if s.VisitsLast7Days, err = queries.CountVisitsSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return Summary{}, err
	}
	if s.VisitsLast30Days, err = queries.CountVisitsSince(ctx, since30); err != nil {
		return Summary{}, err
	}
	if s.TopPages, err = queries.CountVisitsByPath(ctx, store.CountVisitsByPathParams{
		Since: since30,
		Limit: topEntries,
	}); err != nil {
		return Summary{}, err
	}
	if s.ByDevice, err = queries.CountVisitsByDevice(ctx, since30); err != nil {
		return Summary{}, err
	}
	if s.ByCountry, err = queries.CountVisitsByCountry(ctx, since30); err != nil {
		return Summary{}, err
	}

	return s, nil
}
