package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/discogs"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeSource serves canned snapshots, or fails.
type fakeSource struct {
	listings []discogs.RawListing
	err      error
}

func (f *fakeSource) FetchInventory(context.Context) ([]discogs.RawListing, error) {
	return f.listings, f.err
}

func rawListing(id int64, title, artist string, price float64) discogs.RawListing {
	return discogs.RawListing{
		ID:              id,
		Status:          "For Sale",
		Condition:       "Near Mint (NM or M-)",
		SleeveCondition: "Very Good Plus (VG+)",
		Posted:          "2026-07-01T12:00:00Z",
		Price:           discogs.Price{Value: price, Currency: "USD"},
		FormatQuantity:  1,
		Release: discogs.Release{
			ID:      id * 10,
			Title:   title,
			Year:    1995,
			Artists: []discogs.Artist{{Name: artist}},
			Labels:  []discogs.Label{{Name: "Warp"}},
			Formats: []discogs.Format{{Name: "Vinyl"}},
			Genres:  []string{"Electronic"},
		},
	}
}

func TestSyncRun_InsertThenIdempotent(t *testing.T) {
	db := newTestDB(t)
	src := &fakeSource{listings: []discogs.RawListing{
		rawListing(1, "Selected Ambient Works 85-92", "Aphex Twin", 24.99),
		rawListing(2, "Incunabula", "Autechre", 19.99),
	}}
	svc := NewSyncService(db, src)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if res.Added != 2 || res.Updated != 0 || res.Removed != 0 || res.Total != 2 {
		t.Fatalf("first pass stats wrong: %+v", res)
	}
	if len(res.AddedListings) != 2 || res.AddedListings[0].ListingID != "1" {
		t.Fatalf("change log wrong: %+v", res.AddedListings)
	}

	// Same snapshot again: nothing to do.
	res, err = svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if res.Added != 0 || res.Updated != 0 || res.Removed != 0 {
		t.Fatalf("second pass should be a no-op, got %+v", res)
	}
}

func TestSyncRun_UpdateReportsFieldDiff(t *testing.T) {
	db := newTestDB(t)
	src := &fakeSource{listings: []discogs.RawListing{
		rawListing(1, "Selected Ambient Works 85-92", "Aphex Twin", 24.99),
	}}
	svc := NewSyncService(db, src)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("seed pass: %v", err)
	}

	repriced := rawListing(1, "Selected Ambient Works 85-92", "Aphex Twin", 29.99)
	repriced.Condition = "Very Good (VG)"
	src.listings = []discogs.RawListing{repriced}

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("update pass: %v", err)
	}
	if res.Added != 0 || res.Updated != 1 || res.Removed != 0 {
		t.Fatalf("update pass stats wrong: %+v", res)
	}
	changes := res.UpdatedListings[0].Changes
	if _, ok := changes["price_value"]; !ok {
		t.Fatalf("price change missing from diff: %v", changes)
	}
	if ch, ok := changes["condition"]; !ok || ch.New != "Very Good" {
		t.Fatalf("condition change missing or wrong: %v", changes)
	}

	row, err := repo.GetActiveByListingID(context.Background(), db, "1")
	if err != nil || row.PriceValue != 29.99 {
		t.Fatalf("update not persisted: %v %+v", err, row)
	}
}

func TestSyncRun_RemovalAndReactivation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a := rawListing(1, "Record A", "Artist A", 10)
	b := rawListing(2, "Record B", "Artist B", 12)
	c := rawListing(3, "Record C", "Artist C", 14)

	src := &fakeSource{listings: []discogs.RawListing{a, b, c}}
	svc := NewSyncService(db, src)

	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("seed pass: %v", err)
	}
	before, err := repo.GetByListingID(ctx, db, "3")
	if err != nil {
		t.Fatalf("get c: %v", err)
	}

	// C disappears from the snapshot.
	src.listings = []discogs.RawListing{a, b}
	res, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("removal pass: %v", err)
	}
	if res.Removed != 1 || res.RemovedListings[0].ListingID != "3" {
		t.Fatalf("removal not reported: %+v", res)
	}
	if _, err := repo.GetActiveByListingID(ctx, db, "3"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("c should be soft-deleted: %v", err)
	}

	// C comes back: same row reactivated, reported as an addition.
	src.listings = []discogs.RawListing{a, b, c}
	res, err = svc.Run(ctx)
	if err != nil {
		t.Fatalf("reactivation pass: %v", err)
	}
	if res.Added != 1 || res.AddedListings[0].ListingID != "3" {
		t.Fatalf("reactivation must report as addition: %+v", res)
	}
	after, err := repo.GetActiveByListingID(ctx, db, "3")
	if err != nil {
		t.Fatalf("c should be active again: %v", err)
	}
	if after.ID != before.ID {
		t.Fatalf("reactivation must reuse the row: %d vs %d", after.ID, before.ID)
	}
	if after.RemovedAt != nil {
		t.Fatalf("removed_at should be cleared, got %v", after.RemovedAt)
	}
}

func TestSyncRun_EmptySnapshotSkipsRemovals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	src := &fakeSource{listings: []discogs.RawListing{rawListing(1, "Record A", "Artist A", 10)}}
	svc := NewSyncService(db, src)
	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("seed pass: %v", err)
	}

	src.listings = nil
	res, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("empty pass: %v", err)
	}
	if res.Removed != 0 {
		t.Fatalf("empty snapshot must not remove anything: %+v", res)
	}
	if _, err := repo.GetActiveByListingID(ctx, db, "1"); err != nil {
		t.Fatalf("listing should survive an empty snapshot: %v", err)
	}
}

func TestSyncRun_FetchFailureLeavesStoreUntouched(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	src := &fakeSource{listings: []discogs.RawListing{rawListing(1, "Record A", "Artist A", 10)}}
	svc := NewSyncService(db, src)
	if _, err := svc.Run(ctx); err != nil {
		t.Fatalf("seed pass: %v", err)
	}

	src.err = errors.New("boom")
	if _, err := svc.Run(ctx); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}

	count, _, err := repo.InventoryStats(ctx, db)
	if err != nil || count != 1 {
		t.Fatalf("store should be untouched after a fetch failure: %v, count=%d", err, count)
	}
}

func TestSyncRun_SingleFlight(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db, &fakeSource{})

	svc.running.Store(true)
	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	svc.running.Store(false)

	if svc.Running() {
		t.Fatal("Running should be false when idle")
	}
}
