// Inventory HTTP handlers.
//
// This file exposes the storefront read endpoints:
//   - GET /api/data          (full active listing dump)
//   - GET /api/data/{id}     (single listing)
//   - GET /api/search        (freetext search)
//   - GET /api/filter        (multi-criteria filter)
//   - GET /api/facets        (distinct values with counts)
//   - GET /api/stats         (inventory statistics)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
	"github.com/freakinbeats/go-vinyl-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// InventoryService defines the read operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type InventoryService interface {
	// GetAll returns every active listing, newest posted first.
	GetAll(ctx context.Context) ([]domain.Listing, error)
	// GetByID fetches one active listing by surrogate key.
	GetByID(ctx context.Context, id uint) (*domain.Listing, error)
	// GetByListingID fetches one active listing by its marketplace identifier.
	GetByListingID(ctx context.Context, listingID string) (*domain.Listing, error)
	// Search runs the freetext search with optional substring filters.
	Search(ctx context.Context, q, artist, genre, format string) ([]domain.Listing, error)
	// Filter applies the fully ANDed multi-criteria filter.
	Filter(ctx context.Context, f repo.ListingFilter) ([]domain.Listing, error)
	// Facets returns the distinct value+count lists for facetable fields.
	Facets(ctx context.Context) (*repo.Facets, error)
	// Stats returns active counts and freshness information.
	Stats(ctx context.Context) (*services.InventoryStats, error)
}

// ListingsResponse wraps a listing set with its count, the shape the
// storefront expects from all collection endpoints.
type ListingsResponse struct {
	Count    int              `json:"count"`
	Listings []domain.Listing `json:"listings"`
}

func listings(c *gin.Context, items []domain.Listing) {
	if items == nil {
		items = []domain.Listing{}
	}
	ok(c, http.StatusOK, ListingsResponse{Count: len(items), Listings: items})
}

// GetData godoc
// @ID          getData
// @Summary     List all active listings
// @Description Returns every active listing in the store, newest posted first.
// @Tags        Inventory
// @Produce     json
//
// @Success     200  {object}  handlers.ListingsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /data [get]
func (h *Handlers) GetData(c *gin.Context) {
	items, err := h.invSvc.GetAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	listings(c, items)
}

// GetDataByID godoc
// @ID          getDataByID
// @Summary     Get one listing
// @Description Looks up a single active listing. A numeric id is first tried as the
// @Description internal row id, then as the marketplace listing id, so both forms work.
// @Tags        Inventory
// @Produce     json
//
// @Param       id  path  string  true  "Listing identifier"  example(3621482909)
//
// @Success     200  {object}  domain.Listing
// @Failure     404  {object}  handlers.ErrorResponse  "Listing not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /data/{id} [get]
func (h *Handlers) GetDataByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		if l, err := h.invSvc.GetByID(ctx, uint(n)); err == nil {
			ok(c, http.StatusOK, l)
			return
		} else if !errors.Is(err, services.ErrListingNotFound) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
			return
		}
	}

	l, err := h.invSvc.GetByListingID(ctx, id)
	switch {
	case err == nil:
		ok(c, http.StatusOK, l)
	case errors.Is(err, services.ErrListingNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "listing not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// SearchData godoc
// @ID          searchData
// @Summary     Search listings
// @Description Freetext search across title, artist, and label, with optional
// @Description artist/genre/format substring filters. All matching is case-insensitive.
// @Tags        Inventory
// @Produce     json
//
// @Param       q       query  string  false  "Freetext query"       example(planet techno)
// @Param       artist  query  string  false  "Artist substring"     example(aphex)
// @Param       genre   query  string  false  "Genre substring"      example(electronic)
// @Param       format  query  string  false  "Format substring"     example(12\")
//
// @Success     200  {object}  handlers.ListingsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /search [get]
func (h *Handlers) SearchData(c *gin.Context) {
	items, err := h.invSvc.Search(
		c.Request.Context(),
		strings.TrimSpace(c.Query("q")),
		strings.TrimSpace(c.Query("artist")),
		strings.TrimSpace(c.Query("genre")),
		strings.TrimSpace(c.Query("format")),
	)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	listings(c, items)
}

// FilterData godoc
// @ID          filterData
// @Summary     Filter listings
// @Description Applies a fully ANDed multi-criteria filter. Facet parameters
// @Description (artist, label, condition, sleeve_condition) are matched exactly but
// @Description case-insensitively; q is a substring search; year must be numeric.
// @Tags        Inventory
// @Produce     json
//
// @Param       q                 query  string  false  "Freetext query"
// @Param       artist            query  string  false  "Exact artist"          example(Aphex Twin)
// @Param       label             query  string  false  "Exact label"           example(Warp Records)
// @Param       year              query  int     false  "Release year"          example(1995)
// @Param       condition         query  string  false  "Media condition"       example(Near Mint)
// @Param       sleeve_condition  query  string  false  "Sleeve condition"      example(Very Good +)
//
// @Success     200  {object}  handlers.ListingsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid year"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /filter [get]
func (h *Handlers) FilterData(c *gin.Context) {
	f := repo.ListingFilter{
		Query:           strings.TrimSpace(c.Query("q")),
		Artist:          strings.TrimSpace(c.Query("artist")),
		Label:           strings.TrimSpace(c.Query("label")),
		Condition:       strings.TrimSpace(c.Query("condition")),
		SleeveCondition: strings.TrimSpace(c.Query("sleeve_condition")),
	}
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "year must be numeric")
			return
		}
		f.Year = n
	}

	items, err := h.invSvc.Filter(c.Request.Context(), f)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	listings(c, items)
}

// GetFacets godoc
// @ID          getFacets
// @Summary     Facet values
// @Description Returns the distinct values (with counts) for each filterable field,
// @Description computed over active listings only. Drives the storefront filter sidebar.
// @Tags        Inventory
// @Produce     json
//
// @Success     200  {object}  repo.Facets
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /facets [get]
func (h *Handlers) GetFacets(c *gin.Context) {
	facets, err := h.invSvc.Facets(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, facets)
}

// GetStats godoc
// @ID          getStats
// @Summary     Inventory statistics
// @Description Returns the active listing count, the retained removed-row count,
// @Description and the most recent update timestamp.
// @Tags        Inventory
// @Produce     json
//
// @Success     200  {object}  services.InventoryStats
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.invSvc.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}
