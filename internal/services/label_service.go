// Package services – LabelService
//
// Cached AI-written label overviews. Each distinct label name gets at most
// one stored overview; generation happens once, on first miss, and every
// later request is served from the label_overviews table. A failed generation
// is recorded but not cached as valid, so the next request retries.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

// OverviewGenerator produces a short prose overview for a record label.
// Implementations wrap an external text-generation API.
type OverviewGenerator interface {
	GenerateLabelOverview(ctx context.Context, label string) (string, error)
	Model() string
}

// LabelOverviewResult is the per-label entry returned to the storefront.
type LabelOverviewResult struct {
	Label    string `json:"label"`
	Overview string `json:"overview,omitempty"`
	Cached   bool   `json:"cached"`
	Error    string `json:"error,omitempty"`
}

// LabelService serves label overviews, generating and caching on demand.
// When no generator is configured the service degrades to cache-only reads.
type LabelService struct {
	DB        *gorm.DB
	Generator OverviewGenerator

	// GenerateTimeout bounds a single generation call.
	GenerateTimeout time.Duration
}

// NewLabelService constructs a LabelService. gen may be nil to disable
// generation.
func NewLabelService(db *gorm.DB, gen OverviewGenerator) *LabelService {
	return &LabelService{DB: db, Generator: gen, GenerateTimeout: 30 * time.Second}
}

// Enabled reports whether overview generation is available.
func (s *LabelService) Enabled() bool { return s.Generator != nil }

// Overviews resolves a comma-separated label list into overview entries. The
// input is split, trimmed, and de-duplicated case-insensitively; order of
// first appearance is preserved. Per-label failures are reported inline so
// one bad label never fails the batch.
func (s *LabelService) Overviews(ctx context.Context, labels string) ([]LabelOverviewResult, error) {
	names := splitLabels(labels)
	out := make([]LabelOverviewResult, 0, len(names))
	for _, name := range names {
		out = append(out, s.overview(ctx, name))
	}
	return out, nil
}

func (s *LabelService) overview(ctx context.Context, label string) LabelOverviewResult {
	res := LabelOverviewResult{Label: label}

	cached, err := repo.GetValidLabelOverview(ctx, s.DB, label)
	if err == nil {
		res.Overview = cached.Overview
		res.Cached = true
		return res
	}
	if !errors.Is(err, repo.ErrNotFound) {
		log.Error().Err(err).Str("label", label).Msg("label overview cache lookup failed")
		res.Error = "overview temporarily unavailable"
		return res
	}

	if s.Generator == nil {
		res.Error = "overview generation disabled"
		return res
	}

	gctx := ctx
	if s.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, s.GenerateTimeout)
		defer cancel()
	}

	text, genErr := s.Generator.GenerateLabelOverview(gctx, label)
	now := time.Now().UTC()
	row := &domain.LabelOverview{
		LabelName:   label,
		GeneratedBy: s.Generator.Model(),
		GeneratedAt: now,
	}
	if genErr != nil {
		log.Warn().Err(genErr).Str("label", label).Msg("label overview generation failed")
		row.CacheValid = false
		row.GenerationError = genErr.Error()
		// Best effort: remember the failure for the admin view, but keep the
		// cache invalid so the next request retries.
		if err := repo.UpsertLabelOverview(ctx, s.DB, row); err != nil {
			log.Error().Err(err).Str("label", label).Msg("label overview save failed")
		}
		res.Error = "overview temporarily unavailable"
		return res
	}

	row.Overview = text
	row.CacheValid = true
	if err := repo.UpsertLabelOverview(ctx, s.DB, row); err != nil {
		log.Error().Err(err).Str("label", label).Msg("label overview save failed")
	}
	res.Overview = text
	return res
}

// Invalidate marks a cached overview stale so the next request regenerates
// it. Used by the admin panel after correcting a label's catalog data.
func (s *LabelService) Invalidate(ctx context.Context, label string) error {
	err := repo.InvalidateLabelOverview(ctx, s.DB, strings.TrimSpace(label))
	if errors.Is(err, repo.ErrNotFound) {
		return ErrLabelNotFound
	}
	return err
}

// splitLabels parses the comma-separated labels parameter, trimming blanks
// and dropping case-insensitive duplicates while keeping first-seen order.
func splitLabels(s string) []string {
	parts := strings.Split(s, ",")
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
