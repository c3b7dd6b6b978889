package services

import (
	"context"
	"errors"
	"testing"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

func seedListing(t *testing.T, svc *InventoryService, id string, mutate ...func(*domain.Listing)) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		ListingID:     id,
		Status:        "For Sale",
		PriceValue:    15,
		PriceCurrency: "USD",
		Quantity:      1,
		ReleaseTitle:  "Record " + id,
		PrimaryArtist: "Artist " + id,
		IsActive:      true,
	}
	for _, m := range mutate {
		m(l)
	}
	l.Fingerprint = l.ComputeFingerprint()
	if err := repo.InsertListing(context.Background(), svc.DB, l); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	return l
}

func TestInventoryService_Lookups(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	seeded := seedListing(t, svc, "42")

	byListing, err := svc.GetByListingID(ctx, "42")
	if err != nil || byListing.ReleaseTitle != "Record 42" {
		t.Fatalf("get by listing id: %v %+v", err, byListing)
	}

	byID, err := svc.GetByID(ctx, seeded.ID)
	if err != nil || byID.ListingID != "42" {
		t.Fatalf("get by surrogate id: %v %+v", err, byID)
	}

	if _, err := svc.GetByListingID(ctx, "missing"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("missing listing: %v", err)
	}
	if _, err := svc.GetByID(ctx, 9999); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("missing surrogate id: %v", err)
	}
}

func TestInventoryService_MarkSoldAndRestore(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	seedListing(t, svc, "7")

	if err := svc.MarkSold(ctx, "7"); err != nil {
		t.Fatalf("mark sold: %v", err)
	}
	if _, err := svc.GetByListingID(ctx, "7"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("sold listing should be inactive: %v", err)
	}
	row, err := repo.GetByListingID(ctx, db, "7")
	if err != nil || row.SoldAt == nil {
		t.Fatalf("sold_at should be stamped: %v %+v", err, row)
	}

	if err := svc.Restore(ctx, "7"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, err := svc.GetByListingID(ctx, "7"); err != nil {
		t.Fatalf("restored listing should be active: %v", err)
	}

	if err := svc.MarkSold(ctx, "missing"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("mark sold missing: %v", err)
	}
	if err := svc.Restore(ctx, "missing"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("restore missing: %v", err)
	}
}

func TestInventoryService_Stats(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	seedListing(t, svc, "1")
	seedListing(t, svc, "2")
	seedListing(t, svc, "3", func(l *domain.Listing) { l.IsActive = false })

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalListings != 2 || stats.RemovedListings != 1 {
		t.Fatalf("stats wrong: %+v", stats)
	}
	if stats.LastUpdated == nil {
		t.Fatal("last updated should be set")
	}
}

func TestInventoryService_SearchAndFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db)
	ctx := context.Background()

	seedListing(t, svc, "1", func(l *domain.Listing) {
		l.ReleaseTitle = "Selected Ambient Works 85-92"
		l.ArtistNames = "Aphex Twin"
		l.PrimaryArtist = "Aphex Twin"
		l.ReleaseYear = 1992
	})
	seedListing(t, svc, "2", func(l *domain.Listing) {
		l.ReleaseTitle = "...I Care Because You Do"
		l.ArtistNames = "Aphex Twin"
		l.PrimaryArtist = "Aphex Twin"
		l.ReleaseYear = 1995
	})

	out, err := svc.Search(ctx, "ambient", "", "", "")
	if err != nil || len(out) != 1 || out[0].ListingID != "1" {
		t.Fatalf("search: %v %+v", err, out)
	}

	out, err = svc.Filter(ctx, repo.ListingFilter{Artist: "Aphex Twin", Year: 1995})
	if err != nil || len(out) != 1 || out[0].ListingID != "2" {
		t.Fatalf("filter: %v %+v", err, out)
	}
}
