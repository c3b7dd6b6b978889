// Admin HTTP handlers.
//
// This file exposes the operator endpoints mounted under /admin, all guarded
// by the passphrase middleware in the router:
//   - POST   /admin/sync-discogs           (trigger a sync pass)
//   - GET    /admin/sync-status            (is a pass running)
//   - GET    /admin/access-logs            (paginated traffic view)
//   - POST   /admin/listings/{id}/sold     (mark sold out-of-band)
//   - POST   /admin/listings/{id}/restore  (reactivate by hand)
//   - POST   /admin/label-overviews/{label}/invalidate
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freakinbeats/go-vinyl-backend/internal/discogs"
	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
	"github.com/freakinbeats/go-vinyl-backend/internal/services"
	"github.com/freakinbeats/go-vinyl-backend/internal/utils"
)

// SyncStatusResponse reports whether a pass is currently executing.
type SyncStatusResponse struct {
	Running bool `json:"running"`
}

// AccessLogsResponse wraps a page of access log rows.
type AccessLogsResponse struct {
	Logs       []domain.AccessLog `json:"logs"`
	Pagination Pagination         `json:"pagination"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// SyncDiscogs godoc
// @ID          syncDiscogs
// @Summary     Trigger an inventory sync
// @Description Runs one complete fetch-diff-commit pass against the marketplace
// @Description and returns its statistics with per-listing change details. At most
// @Description one pass runs at a time; concurrent triggers get 409.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Passphrase  header  string  true  "Admin passphrase"
//
// @Success     200  {object}  services.SyncResult
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or wrong passphrase"
// @Failure     409  {object}  handlers.ErrorResponse  "Sync already running"
// @Failure     502  {object}  handlers.ErrorResponse  "Source unavailable"
// @Failure     503  {object}  handlers.ErrorResponse  "Source rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Persistence failure"
// @Router      /admin/sync-discogs [post]
func (h *Handlers) SyncDiscogs(c *gin.Context) {
	res, err := h.syncSvc.Run(c.Request.Context())
	switch {
	case err == nil:
		ok(c, http.StatusOK, res)
	case errors.Is(err, services.ErrSyncInProgress):
		fail(c, http.StatusConflict, ErrCodeSyncInProgress, "a sync is already running")
	case errors.Is(err, discogs.ErrRateLimited):
		fail(c, http.StatusServiceUnavailable, ErrCodeSourceRateLimited, "marketplace rate limit exceeded; try again later")
	case errors.Is(err, services.ErrSourceUnavailable):
		fail(c, http.StatusBadGateway, ErrCodeSourceUnavailable, err.Error())
	case errors.Is(err, services.ErrPersistence):
		fail(c, http.StatusInternalServerError, ErrCodePersistence, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// SyncStatus godoc
// @ID          syncStatus
// @Summary     Sync status
// @Description Reports whether a sync pass is currently running.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Passphrase  header  string  true  "Admin passphrase"
//
// @Success     200  {object}  handlers.SyncStatusResponse
// @Router      /admin/sync-status [get]
func (h *Handlers) SyncStatus(c *gin.Context) {
	ok(c, http.StatusOK, SyncStatusResponse{Running: h.syncSvc.Running()})
}

// AccessLogs godoc
// @ID          accessLogs
// @Summary     List access logs (paginated)
// @Description Returns recorded storefront requests, newest first.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Passphrase  header  string  true   "Admin passphrase"
// @Param       page                query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size           query   int     false  "Items per page"  minimum(1) maximum(200) default(50)
//
// @Success     200  {object}  handlers.AccessLogsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/access-logs [get]
func (h *Handlers) AccessLogs(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	total, err := repo.CountAccessLogs(ctx, h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	rows, err := repo.ListAccessLogsPage(ctx, h.db, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, AccessLogsResponse{
		Logs: rows,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// MarkListingSold godoc
// @ID          markListingSold
// @Summary     Mark a listing sold
// @Description Flags a listing as sold out-of-band. The listing leaves the
// @Description storefront immediately and is stamped with sold_at.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Passphrase  header  string  true  "Admin passphrase"
// @Param       id                  path    string  true  "Marketplace listing id"
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Listing not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/listings/{id}/sold [post]
func (h *Handlers) MarkListingSold(c *gin.Context) {
	err := h.adminSvc.MarkSold(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrListingNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "listing not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// RestoreListing godoc
// @ID          restoreListing
// @Summary     Restore a removed listing
// @Description Reactivates a soft-deleted or sold listing by hand.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Passphrase  header  string  true  "Admin passphrase"
// @Param       id                  path    string  true  "Marketplace listing id"
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Listing not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/listings/{id}/restore [post]
func (h *Handlers) RestoreListing(c *gin.Context) {
	err := h.adminSvc.Restore(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrListingNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "listing not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// InvalidateLabelOverview godoc
// @ID          invalidateLabelOverview
// @Summary     Invalidate a cached label overview
// @Description Marks the stored overview stale so the next storefront request
// @Description regenerates it.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Passphrase  header  string  true  "Admin passphrase"
// @Param       label               path    string  true  "Label name"
//
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "No overview for label"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/label-overviews/{label}/invalidate [post]
func (h *Handlers) InvalidateLabelOverview(c *gin.Context) {
	err := h.labelSvc.Invalidate(c.Request.Context(), c.Param("label"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrLabelNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no overview for label")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
