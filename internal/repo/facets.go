// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the facet aggregation queries that back
// the storefront's filter UI: for each facetable field, the distinct non-empty
// values present among active listings with per-value counts.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
)

// FacetValue is one distinct value of a facetable string field together with
// the number of active listings holding it.
type FacetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// YearFacet is one distinct release year with its active-listing count.
type YearFacet struct {
	Value int   `json:"value"`
	Count int64 `json:"count"`
}

// Facets groups the per-field value+count lists. String facets are sorted by
// count descending with alphabetical tie-break; years are sorted by value
// descending (recency beats frequency for a year facet).
type Facets struct {
	Artists          []FacetValue `json:"artists"`
	Labels           []FacetValue `json:"labels"`
	Years            []YearFacet  `json:"years"`
	Conditions       []FacetValue `json:"conditions"`
	SleeveConditions []FacetValue `json:"sleeve_conditions"`
}

// FacetCounts aggregates the facet lists over active listings only.
// Soft-deleted rows never contribute to any count. Empty store yields empty
// (non-nil) slices, not an error.
func FacetCounts(ctx context.Context, db *gorm.DB) (*Facets, error) {
	f := &Facets{
		Artists:          []FacetValue{},
		Labels:           []FacetValue{},
		Years:            []YearFacet{},
		Conditions:       []FacetValue{},
		SleeveConditions: []FacetValue{},
	}

	for _, fv := range []struct {
		column string
		dst    *[]FacetValue
	}{
		{"primary_artist", &f.Artists},
		{"primary_label", &f.Labels},
		{"condition", &f.Conditions},
		{"sleeve_condition", &f.SleeveConditions},
	} {
		if err := stringFacet(ctx, db, fv.column, fv.dst); err != nil {
			return nil, err
		}
	}

	err := db.WithContext(ctx).
		Model(&domain.Listing{}).
		Select("release_year AS value, COUNT(id) AS count").
		Where("is_active = ? AND release_year <> 0", true).
		Group("release_year").
		Order("release_year DESC").
		Scan(&f.Years).Error
	if err != nil {
		return nil, err
	}

	return f, nil
}

// stringFacet runs one GROUP BY aggregation for a string-valued facet column,
// ordered by count descending with a case-insensitive alphabetical tie-break.
func stringFacet(ctx context.Context, db *gorm.DB, column string, dst *[]FacetValue) error {
	return db.WithContext(ctx).
		Model(&domain.Listing{}).
		Select(column+" AS value, COUNT(id) AS count").
		Where("is_active = ? AND "+column+" <> ''", true).
		Group(column).
		Order("count DESC, LOWER(" + column + ") ASC").
		Scan(dst).Error
}
