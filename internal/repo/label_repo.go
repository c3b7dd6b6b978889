// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// LabelOverview cache consulted before any text-generation call.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

// GetValidLabelOverview returns the cached overview for labelName when one
// exists, is marked valid, and has non-empty text. Returns ErrNotFound
// otherwise.
func GetValidLabelOverview(ctx context.Context, db *gorm.DB, labelName string) (*domain.LabelOverview, error) {
	var rec domain.LabelOverview
	err := db.WithContext(ctx).
		Where("label_name = ? AND cache_valid = ? AND overview <> ''", labelName, true).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertLabelOverview stores a generation outcome, creating the cache row or
// refreshing an existing (possibly invalidated) one. The row carries the full
// outcome: CacheValid false plus GenerationError records a failed attempt
// without serving it as a cached overview.
func UpsertLabelOverview(ctx context.Context, db *gorm.DB, row *domain.LabelOverview) error {
	if row.GeneratedAt.IsZero() {
		row.GeneratedAt = time.Now().UTC()
	}

	var rec domain.LabelOverview
	err := db.WithContext(ctx).Where("label_name = ?", row.LabelName).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.WithContext(ctx).Create(row).Error
	case err != nil:
		return err
	}

	return db.WithContext(ctx).
		Model(&rec).
		Updates(map[string]any{
			"overview":         row.Overview,
			"generated_by":     row.GeneratedBy,
			"cache_valid":      row.CacheValid,
			"generation_error": row.GenerationError,
			"generated_at":     row.GeneratedAt,
		}).Error
}

// InvalidateLabelOverview flags a cached overview for regeneration on the
// next request. Returns ErrNotFound when the label has no cache row.
func InvalidateLabelOverview(ctx context.Context, db *gorm.DB, labelName string) error {
	res := db.WithContext(ctx).
		Model(&domain.LabelOverview{}).
		Where("label_name = ?", labelName).
		Update("cache_valid", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
