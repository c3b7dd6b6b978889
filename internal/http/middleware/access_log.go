// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AccessLog, which persists one access_logs row per
// storefront request for the admin panel's traffic view. Persistence is best
// effort: a failed insert is logged and never affects the response, and the
// write happens after the response is flushed so it adds no user-visible
// latency.
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/domain"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

// accessLogSkip lists path prefixes that never produce access log rows:
// operational endpoints would otherwise dominate the table.
var accessLogSkip = []string{"/metrics", "/health", "/swagger"}

// insertTimeout bounds the post-response insert; the request context is
// already done by the time we write, so a fresh one is used.
const insertTimeout = 2 * time.Second

// AccessLog records each completed request in the access_logs table.
//
// Recorded fields: timestamp, method, path, raw query, client IP, user agent,
// referrer, status code, handling duration, and the correlation ID. Bodies
// and headers are never stored.
func AccessLog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, prefix := range accessLogSkip {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now().UTC()
		c.Next()

		row := &domain.AccessLog{
			Timestamp:      start,
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			QueryString:    c.Request.URL.RawQuery,
			IPAddress:      c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
			Referrer:       c.Request.Referer(),
			StatusCode:     c.Writer.Status(),
			ResponseTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
			RequestID:      c.Writer.Header().Get(requestIDHeader),
		}

		// The request context is finished once the handler returns; use a
		// short-lived background context for the insert.
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()
		if err := repo.InsertAccessLog(ctx, db, row); err != nil {
			log.Warn().Err(err).Str("path", row.Path).Msg("access log insert failed")
		}
	}
}
