// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, access logging, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/config"
	"github.com/freakinbeats/go-vinyl-backend/internal/http/handlers"
	"github.com/freakinbeats/go-vinyl-backend/internal/http/middleware"
	"github.com/freakinbeats/go-vinyl-backend/internal/services"
)

// Services bundles the application services the router mounts. All fields
// must be non-nil except LabelSvc's generator, which may be disabled.
type Services struct {
	Inventory *services.InventoryService
	Sync      *services.SyncService
	Label     *services.LabelService
	Cart      *services.CartService
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), access logging and
// rate limiting, CORS and security headers, health and metrics endpoints, and
// then mounts the public API under cfg.APIBasePath and the guarded admin
// surface under /admin.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Access log persistence (skips /metrics, /health, /swagger)
//  8. Rate limiter (per IP)
//  9. CORS and Security headers
//  10. Response compression (gzip; the full listing dump shrinks ~10x)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svcs Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Persist storefront traffic for the admin panel
	r.Use(middleware.AccessLog(db))

	// 8) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AdminPassphraseHeader},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AdminPassphraseHeader},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 10) Compress JSON responses; the full listing dump benefits the most
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svcs.Inventory, svcs.Sync, svcs.Label, svcs.Cart, svcs.Inventory, db)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/data", h.GetData)
		api.GET("/data/:id", h.GetDataByID)
		api.GET("/search", h.SearchData)
		api.GET("/filter", h.FilterData)
		api.GET("/facets", h.GetFacets)
		api.GET("/stats", h.GetStats)
		api.GET("/label-overviews", h.GetLabelOverviews)
		api.POST("/cart/validate", h.ValidateCart)
	}

	// Admin surface: passphrase-guarded, with a tighter rate bucket. Routes
	// are not mounted at all when no passphrase is configured.
	if cfg.AdminPassphrase != "" {
		adminRL := middleware.NewRateLimiter(cfg.AdminRateRPS, cfg.AdminRateBurst, middleware.KeyByIP())
		admin := r.Group("/admin", requirePassphrase(cfg.AdminPassphrase), adminRL.Handler())
		{
			admin.POST("/sync-discogs", h.SyncDiscogs)
			admin.GET("/sync-status", h.SyncStatus)
			admin.GET("/access-logs", h.AccessLogs)
			admin.POST("/listings/:id/sold", h.MarkListingSold)
			admin.POST("/listings/:id/restore", h.RestoreListing)
			admin.POST("/label-overviews/:label/invalidate", h.InvalidateLabelOverview)
		}
	}
}

// requirePassphrase guards admin routes with a shared passphrase carried in
// the X-Admin-Passphrase header. Comparison is constant time.
func requirePassphrase(want string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(middleware.AdminPassphraseHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			handlers.Fail(c, http.StatusUnauthorized, handlers.ErrCodeUnauthorized, "invalid admin passphrase")
			return
		}
		c.Next()
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
