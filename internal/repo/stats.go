// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the stats endpoint and the admin panel. Each function is context-aware
// and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

// InventoryStats returns aggregate metadata for the active inventory: the
// number of active listings and the maximum UpdatedAt timestamp among them.
//
// When the store has no active listings, the returned count is 0 and
// lastUpdated is nil.
//
// Return values:
//   - count:       total active listings
//   - lastUpdated: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:         database error, if any
func InventoryStats(ctx context.Context, db *gorm.DB) (count int64, lastUpdated *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Listing{}).Where("is_active = ?", true)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// CountRemoved returns the number of soft-deleted listings retained in the
// store. Exposed through the admin stats view.
func CountRemoved(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("is_active = ?", false).
		Count(&total).Error
	return total, err
}
