// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Listing
// model: sync-facing CRUD (insert, in-place update, soft delete, restore) and
// the read-side queries used by the inventory service (active listings,
// lookups, search, multi-criteria filter).
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a listing is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Read-side invariant: every query in this file except AllListings and
// GetByListingID is scoped to is_active = true; soft-deleted rows never
// appear in a storefront read path.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// activeOrder is the canonical storefront ordering: newest posted first,
// with listing_id as a stable tie-break.
const activeOrder = "posted DESC, listing_id DESC"

// InsertListing inserts a new Listing row. The caller is expected to have set
// ListingID, the content fields, and Fingerprint; CreatedAt/UpdatedAt are
// managed by GORM.
func InsertListing(ctx context.Context, db *gorm.DB, l *domain.Listing) error {
	return db.WithContext(ctx).Create(l).Error
}

// UpdateListing persists all fields of an already-loaded Listing row.
func UpdateListing(ctx context.Context, db *gorm.DB, l *domain.Listing) error {
	return db.WithContext(ctx).Save(l).Error
}

// AllListings returns every listing row regardless of active state, used by
// the sync pass to diff the full local mirror against a source snapshot.
func AllListings(ctx context.Context, db *gorm.DB) ([]domain.Listing, error) {
	var out []domain.Listing
	err := db.WithContext(ctx).Find(&out).Error
	return out, err
}

// ListActive returns all active listings, newest posted first. It returns an
// empty slice when the store is empty.
func ListActive(ctx context.Context, db *gorm.DB) ([]domain.Listing, error) {
	var out []domain.Listing
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order(activeOrder).
		Find(&out).Error
	return out, err
}

// GetActiveByID fetches a single active listing by its surrogate key.
// Returns ErrNotFound if the row is missing or soft-deleted.
func GetActiveByID(ctx context.Context, db *gorm.DB, id uint) (*domain.Listing, error) {
	var l domain.Listing
	err := db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetActiveByListingID fetches a single active listing by its Discogs
// listing identifier. Returns ErrNotFound if missing or soft-deleted.
func GetActiveByListingID(ctx context.Context, db *gorm.DB, listingID string) (*domain.Listing, error) {
	var l domain.Listing
	err := db.WithContext(ctx).
		Where("listing_id = ? AND is_active = ?", listingID, true).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByListingID fetches a listing by its Discogs identifier regardless of
// active state. Used by administrative status updates.
func GetByListingID(ctx context.Context, db *gorm.DB, listingID string) (*domain.Listing, error) {
	var l domain.Listing
	err := db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SearchActive performs the storefront freetext search. q is matched
// case-insensitively as a substring against title, artist names, and label
// names (OR across the three); artist, genre, and format, when non-empty, are
// ANDed as substring filters on their respective fields.
func SearchActive(ctx context.Context, db *gorm.DB, q, artist, genre, format string) ([]domain.Listing, error) {
	tx := db.WithContext(ctx).Where("is_active = ?", true)

	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where(
			"release_title LIKE ? OR artist_names LIKE ? OR label_names LIKE ?",
			like, like, like,
		)
	}
	if artist != "" {
		tx = tx.Where("artist_names LIKE ?", "%"+artist+"%")
	}
	if genre != "" {
		tx = tx.Where("genres LIKE ?", "%"+genre+"%")
	}
	if format != "" {
		tx = tx.Where("format_names LIKE ?", "%"+format+"%")
	}

	var out []domain.Listing
	err := tx.Order(activeOrder).Find(&out).Error
	return out, err
}

// ListingFilter holds the multi-criteria filter parameters. Zero values
// impose no constraint (Year 0 means "any year").
type ListingFilter struct {
	Query           string
	Artist          string
	Label           string
	Year            int
	Condition       string
	SleeveCondition string
}

// FilterActive applies a fully ANDed multi-criteria filter over active
// listings. Query behaves as in SearchActive; the remaining fields are
// matched as case-insensitive exact values against the stored facet columns.
func FilterActive(ctx context.Context, db *gorm.DB, f ListingFilter) ([]domain.Listing, error) {
	tx := db.WithContext(ctx).Where("is_active = ?", true)

	if f.Query != "" {
		like := "%" + f.Query + "%"
		tx = tx.Where(
			"release_title LIKE ? OR artist_names LIKE ? OR label_names LIKE ?",
			like, like, like,
		)
	}
	if f.Artist != "" {
		tx = tx.Where("LOWER(primary_artist) = LOWER(?)", f.Artist)
	}
	if f.Label != "" {
		tx = tx.Where("LOWER(primary_label) = LOWER(?)", f.Label)
	}
	if f.Year != 0 {
		tx = tx.Where("release_year = ?", f.Year)
	}
	if f.Condition != "" {
		tx = tx.Where("LOWER(condition) = LOWER(?)", f.Condition)
	}
	if f.SleeveCondition != "" {
		tx = tx.Where("LOWER(sleeve_condition) = LOWER(?)", f.SleeveCondition)
	}

	var out []domain.Listing
	err := tx.Order(activeOrder).Find(&out).Error
	return out, err
}

// SoftDeleteListing marks a listing inactive and stamps removed_at. Returns
// ErrNotFound when no row carries the given listing_id.
func SoftDeleteListing(ctx context.Context, db *gorm.DB, listingID string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("listing_id = ?", listingID).
		Updates(map[string]any{"is_active": false, "removed_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RestoreListing reactivates a soft-deleted listing, clearing removed_at.
// Returns ErrNotFound when no row carries the given listing_id.
func RestoreListing(ctx context.Context, db *gorm.DB, listingID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("listing_id = ?", listingID).
		Updates(map[string]any{"is_active": true, "removed_at": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkListingSold marks a listing inactive and stamps sold_at. This is an
// out-of-band administrative action, not part of the sync lifecycle.
func MarkListingSold(ctx context.Context, db *gorm.DB, listingID string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("listing_id = ?", listingID).
		Updates(map[string]any{"is_active": false, "sold_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
