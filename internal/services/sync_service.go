// Package services – SyncService
//
// This file implements the sync reconciler: the component that turns one
// complete snapshot of the seller's Discogs inventory into a consistent local
// store state. It classifies every listing as added, updated, removed, or
// unchanged, applies all mutations in a single transaction, and reports a
// per-item change log (field-level before/after for updates) for the admin
// panel's diff rendering.
//
// Safety invariants:
//   - A fetch failure aborts the pass with the store untouched; a partial
//     page sequence never reaches the differ (the source client fails the
//     whole fetch on any page error).
//   - Only a complete, non-empty snapshot may trigger soft deletes. An empty
//     snapshot is treated as suspicious and skipped rather than interpreted
//     as "the seller delisted everything".
//   - At most one pass runs at a time; overlapping triggers return
//     ErrSyncInProgress and are skipped by the scheduler.
//
// Observability: the pass is OpenTelemetry-instrumented and exports
// Prometheus counters for per-outcome listing counts plus a run-duration
// histogram.
package services

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/freakinbeats/go-vinyl-backend/internal/discogs"
	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

var (
	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_sync_runs_total",
			Help: "Total number of sync passes by outcome.",
		},
		[]string{"outcome"}, // ok | source_error | persistence_error | skipped
	)

	syncListings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_sync_listings_total",
			Help: "Listings touched by sync passes, by action.",
		},
		[]string{"action"}, // added | updated | removed | unchanged
	)

	syncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_sync_duration_seconds",
			Help:    "Duration of complete sync passes in seconds.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	activeListings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_active_listings",
			Help: "Number of active listings after the last successful sync.",
		},
	)
)

func init() {
	prometheus.MustRegister(syncRuns, syncListings, syncDuration, activeListings)
}

// InventorySource is the capability the reconciler depends on: one flattened,
// complete listing snapshot per call. Implementations must fail the whole
// call rather than return a partial set, and must distinguish rate limiting
// from hard failures (see the discogs package sentinels).
type InventorySource interface {
	FetchInventory(ctx context.Context) ([]discogs.RawListing, error)
}

// ListingRef identifies one listing in a sync change log.
type ListingRef struct {
	ListingID string `json:"listing_id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
}

// ListingUpdate is one updated listing together with its field-level diff.
type ListingUpdate struct {
	ListingRef
	Changes map[string]domain.FieldChange `json:"changes"`
}

// SyncResult is the statistics record returned by one reconciler pass.
// Reactivations of previously soft-deleted listings are folded into Added.
type SyncResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
	Total   int `json:"total"`

	AddedListings   []ListingRef    `json:"added_listings"`
	UpdatedListings []ListingUpdate `json:"updated_listings"`
	RemovedListings []ListingRef    `json:"removed_listings"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// SyncService reconciles the local listing mirror against the external
// source. It is safe for concurrent use; overlapping Run calls are rejected
// with ErrSyncInProgress.
type SyncService struct {
	DB     *gorm.DB
	Source InventorySource

	running atomic.Bool
}

// NewSyncService constructs a SyncService.
func NewSyncService(db *gorm.DB, src InventorySource) *SyncService {
	return &SyncService{DB: db, Source: src}
}

// Running reports whether a pass is currently executing.
func (s *SyncService) Running() bool { return s.running.Load() }

// Run executes one complete fetch-diff-commit pass and returns its
// statistics. Errors are always one of ErrSyncInProgress,
// ErrSourceUnavailable (fetch failed, store untouched), or ErrPersistence
// (transaction rolled back, store untouched).
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		syncRuns.WithLabelValues("skipped").Inc()
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	tr := otel.Tracer("services/SyncService")
	ctx, span := tr.Start(ctx, "Run")
	defer span.End()

	started := time.Now().UTC()

	raws, err := s.Source.FetchInventory(ctx)
	if err != nil {
		syncRuns.WithLabelValues("source_error").Inc()
		log.Error().Err(err).Msg("sync: inventory fetch failed; store untouched")
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	res := &SyncResult{
		StartedAt:       started,
		AddedListings:   []ListingRef{},
		UpdatedListings: []ListingUpdate{},
		RemovedListings: []ListingRef{},
	}

	if len(raws) == 0 {
		// An empty snapshot would soft-delete the whole store. The original
		// system treats this as a bad response, not a mass delisting.
		log.Warn().Msg("sync: source returned no listings; skipping pass")
		res.FinishedAt = time.Now().UTC()
		syncRuns.WithLabelValues("ok").Inc()
		return res, nil
	}

	// Flatten and index the snapshot by listing_id.
	incoming := make(map[string]domain.Listing, len(raws))
	for _, raw := range raws {
		l := discogs.ConvertListing(raw)
		if l.ListingID == "" || l.ListingID == "0" {
			continue
		}
		incoming[l.ListingID] = l
	}
	res.Total = len(incoming)

	// Load the full local mirror (active and soft-deleted).
	stored, err := repo.AllListings(ctx, s.DB)
	if err != nil {
		syncRuns.WithLabelValues("persistence_error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	existing := make(map[string]*domain.Listing, len(stored))
	for i := range stored {
		existing[stored[i].ListingID] = &stored[i]
	}

	var (
		inserts   []*domain.Listing
		updates   []*domain.Listing
		removals  []string
		unchanged int
	)

	for id := range incoming {
		fetched := incoming[id]
		row, ok := existing[id]
		if !ok {
			l := fetched
			inserts = append(inserts, &l)
			res.AddedListings = append(res.AddedListings, refOf(&l))
			continue
		}

		if !row.IsActive {
			// Reactivation: the listing_id came back. One row per listing_id,
			// ever: reuse it instead of inserting a duplicate. Reactivations
			// report as additions, not updates.
			domain.CopyMutableFields(row, &fetched)
			row.IsActive = true
			row.RemovedAt = nil
			row.SoldAt = nil
			updates = append(updates, row)
			res.AddedListings = append(res.AddedListings, refOf(row))
			continue
		}

		if row.Fingerprint == fetched.Fingerprint {
			unchanged++
			continue
		}

		diff := domain.DiffListings(row, &fetched)
		domain.CopyMutableFields(row, &fetched)
		updates = append(updates, row)
		res.UpdatedListings = append(res.UpdatedListings, ListingUpdate{
			ListingRef: refOf(row),
			Changes:    diff,
		})
	}

	for id, row := range existing {
		if _, ok := incoming[id]; !ok && row.IsActive {
			removals = append(removals, id)
			res.RemovedListings = append(res.RemovedListings, refOf(row))
		}
	}

	// Apply everything in one transaction: readers never observe a
	// half-committed pass.
	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range inserts {
			if err := repo.InsertListing(ctx, tx, l); err != nil {
				return err
			}
		}
		for _, l := range updates {
			if err := repo.UpdateListing(ctx, tx, l); err != nil {
				return err
			}
		}
		for _, id := range removals {
			if err := repo.SoftDeleteListing(ctx, tx, id, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		syncRuns.WithLabelValues("persistence_error").Inc()
		log.Error().Err(err).Msg("sync: commit failed; store rolled back")
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	res.Added = len(res.AddedListings)
	res.Updated = len(res.UpdatedListings)
	res.Removed = len(res.RemovedListings)
	res.FinishedAt = time.Now().UTC()
	sortResult(res)

	syncRuns.WithLabelValues("ok").Inc()
	syncListings.WithLabelValues("added").Add(float64(res.Added))
	syncListings.WithLabelValues("updated").Add(float64(res.Updated))
	syncListings.WithLabelValues("removed").Add(float64(res.Removed))
	syncListings.WithLabelValues("unchanged").Add(float64(unchanged))
	syncDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	if count, _, err := repo.InventoryStats(ctx, s.DB); err == nil {
		activeListings.Set(float64(count))
	}

	span.SetAttributes(
		attribute.Int("sync.added", res.Added),
		attribute.Int("sync.updated", res.Updated),
		attribute.Int("sync.removed", res.Removed),
		attribute.Int("sync.unchanged", unchanged),
		attribute.Int("sync.total", res.Total),
	)
	span.SetStatus(codes.Ok, "")

	log.Info().
		Int("added", res.Added).
		Int("updated", res.Updated).
		Int("removed", res.Removed).
		Int("unchanged", unchanged).
		Int("total", res.Total).
		Dur("took", res.FinishedAt.Sub(res.StartedAt)).
		Msg("sync: pass completed")

	return res, nil
}

func refOf(l *domain.Listing) ListingRef {
	return ListingRef{ListingID: l.ListingID, Title: l.ReleaseTitle, Artist: l.PrimaryArtist}
}

// sortResult makes the change log deterministic regardless of map iteration
// order.
func sortResult(res *SyncResult) {
	sort.Slice(res.AddedListings, func(i, j int) bool {
		return res.AddedListings[i].ListingID < res.AddedListings[j].ListingID
	})
	sort.Slice(res.UpdatedListings, func(i, j int) bool {
		return res.UpdatedListings[i].ListingID < res.UpdatedListings[j].ListingID
	})
	sort.Slice(res.RemovedListings, func(i, j int) bool {
		return res.RemovedListings[i].ListingID < res.RemovedListings[j].ListingID
	})
}
