// Label overview HTTP handlers.
//
// GET /api/label-overviews serves cached AI-written label descriptions for
// the storefront's label pages. Generation happens lazily on first request
// per label; subsequent requests are cache hits.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freakinbeats/go-vinyl-backend/internal/services"
)

// LabelOverviewsResponse wraps the per-label overview entries.
type LabelOverviewsResponse struct {
	Enabled   bool                           `json:"enabled"`
	Overviews []services.LabelOverviewResult `json:"overviews"`
}

// GetLabelOverviews godoc
// @ID          getLabelOverviews
// @Summary     Label overviews
// @Description Returns a short prose overview for each requested label,
// @Description generated on first request and cached thereafter. Labels are
// @Description passed comma-separated; failures are reported per label.
// @Tags        Labels
// @Produce     json
//
// @Param       labels  query  string  true  "Comma-separated label names"  example(Warp Records,Planet Techno)
//
// @Success     200  {object}  handlers.LabelOverviewsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing labels parameter"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /label-overviews [get]
func (h *Handlers) GetLabelOverviews(c *gin.Context) {
	labels := strings.TrimSpace(c.Query("labels"))
	if labels == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "labels parameter required")
		return
	}

	out, err := h.labelSvc.Overviews(c.Request.Context(), labels)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if out == nil {
		out = []services.LabelOverviewResult{}
	}
	ok(c, http.StatusOK, LabelOverviewsResponse{Enabled: h.labelSvc.Enabled(), Overviews: out})
}
