// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the AccessLog
// model written by the access-log middleware and read by the admin panel.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

// InsertAccessLog inserts one access log row. Callers treat failures as
// non-fatal: a lost log line must never affect request handling.
func InsertAccessLog(ctx context.Context, db *gorm.DB, entry *domain.AccessLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

// CountAccessLogs returns the total number of access log rows, for
// pagination metadata.
func CountAccessLogs(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.AccessLog{}).Count(&total).Error
	return total, err
}

// ListAccessLogsPage returns a page of access log rows, most recent first.
// The caller is responsible for computing offset and limit.
func ListAccessLogsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.AccessLog, error) {
	var out []domain.AccessLog
	err := db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
