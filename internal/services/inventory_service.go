// Package services – InventoryService
//
// This file implements the read side of the storefront: listing retrieval,
// freetext search, multi-criteria filtering, facet aggregation, and inventory
// statistics. The service reads exclusively from the local store; it never
// touches the external source, so reads keep working when Discogs is down.
//
// All read paths are scoped to active listings. Empty results are ordinary
// values (empty slices), never errors; only lookups by a specific identifier
// return ErrListingNotFound.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

// InventoryStats is the aggregate returned by the stats endpoint.
type InventoryStats struct {
	TotalListings   int64      `json:"total_listings"`
	RemovedListings int64      `json:"removed_listings"`
	LastUpdated     *time.Time `json:"last_updated"`
}

// InventoryService answers read queries against the listing store.
type InventoryService struct {
	DB *gorm.DB
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{DB: db}
}

// GetAll returns every active listing, newest posted first.
func (s *InventoryService) GetAll(ctx context.Context) ([]domain.Listing, error) {
	return repo.ListActive(ctx, s.DB)
}

// GetByID fetches one active listing by surrogate key. Returns
// ErrListingNotFound when missing or soft-deleted.
func (s *InventoryService) GetByID(ctx context.Context, id uint) (*domain.Listing, error) {
	l, err := repo.GetActiveByID(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	return l, err
}

// GetByListingID fetches one active listing by its Discogs identifier. The
// cart layer uses this to validate cart contents against current price and
// availability; the returned listing is read-only from the caller's point of
// view.
func (s *InventoryService) GetByListingID(ctx context.Context, listingID string) (*domain.Listing, error) {
	l, err := repo.GetActiveByListingID(ctx, s.DB, listingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	return l, err
}

// Search runs the storefront freetext search: q is OR-matched as a substring
// over title, artist, and label; artist/genre/format are ANDed substring
// filters. Empty parameters impose no constraint.
func (s *InventoryService) Search(ctx context.Context, q, artist, genre, format string) ([]domain.Listing, error) {
	tr := otel.Tracer("services/InventoryService")
	ctx, span := tr.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", q))
	return repo.SearchActive(ctx, s.DB, q, artist, genre, format)
}

// Filter applies the fully ANDed multi-criteria filter. Facet fields are
// matched exactly (case-insensitive) since their values come from the store's
// own distinct values; Year 0 means "any year".
func (s *InventoryService) Filter(ctx context.Context, f repo.ListingFilter) ([]domain.Listing, error) {
	return repo.FilterActive(ctx, s.DB, f)
}

// Facets returns the distinct value+count lists for each facetable field,
// computed over active listings only.
func (s *InventoryService) Facets(ctx context.Context) (*repo.Facets, error) {
	return repo.FacetCounts(ctx, s.DB)
}

// Stats returns the active listing count and the most recent update
// timestamp, plus the retained soft-deleted row count for the admin view.
func (s *InventoryService) Stats(ctx context.Context) (*InventoryStats, error) {
	count, last, err := repo.InventoryStats(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	removed, err := repo.CountRemoved(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &InventoryStats{TotalListings: count, RemovedListings: removed, LastUpdated: last}, nil
}

// MarkSold flags a listing as sold (inactive with sold_at stamped). This is
// an out-of-band administrative action outside the sync lifecycle.
func (s *InventoryService) MarkSold(ctx context.Context, listingID string) error {
	err := repo.MarkListingSold(ctx, s.DB, listingID, time.Now().UTC())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrListingNotFound
	}
	return err
}

// Restore reactivates a soft-deleted listing by hand.
func (s *InventoryService) Restore(ctx context.Context, listingID string) error {
	err := repo.RestoreListing(ctx, s.DB, listingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrListingNotFound
	}
	return err
}
