// Command server runs the vinyl storefront backend: a Discogs-mirroring
// inventory service with search, facets, cart validation, label overviews,
// and a passphrase-guarded admin surface.
//
// Startup order: env → config → logging → database → tracing → services →
// scheduler → HTTP. Shutdown is graceful: SIGINT/SIGTERM stops the scheduler,
// drains in-flight requests, and flushes the tracer.
//
// @title       FreakinBeats Vinyl Backend API
// @version     1.0
// @description Discogs-backed vinyl storefront API.
// @BasePath    /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/plugin/opentelemetry/tracing"

	_ "github.com/freakinbeats/go-vinyl-backend/docs"
	"github.com/freakinbeats/go-vinyl-backend/internal/config"
	"github.com/freakinbeats/go-vinyl-backend/internal/discogs"
	"github.com/freakinbeats/go-vinyl-backend/internal/gemini"
	httpapi "github.com/freakinbeats/go-vinyl-backend/internal/http"
	"github.com/freakinbeats/go-vinyl-backend/internal/observability"
	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
	"github.com/freakinbeats/go-vinyl-backend/internal/schedule"
	"github.com/freakinbeats/go-vinyl-backend/internal/services"
	"github.com/freakinbeats/go-vinyl-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}
	if cfg.OTEL.Enabled {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			log.Fatal().Err(err).Msg("attach gorm tracing plugin")
		}
	}

	// Service wiring.
	source := discogs.NewClient(cfg.Discogs.Token, cfg.Discogs.Seller, cfg.Discogs.UserAgent)
	syncSvc := services.NewSyncService(db, source)
	invSvc := services.NewInventoryService(db)
	cartSvc := services.NewCartService(invSvc)

	var gen services.OverviewGenerator
	if cfg.Gemini.Enabled && cfg.Gemini.APIKey != "" {
		gen = gemini.NewClient(cfg.Gemini.APIKey, gemini.WithModel(cfg.Gemini.Model))
	}
	labelSvc := services.NewLabelService(db, gen)

	// Background sync. The scheduler owns its goroutine; cancelling ctx
	// stops it.
	var sched *schedule.Scheduler
	if cfg.Discogs.AutoSync {
		sched = schedule.New(schedule.RunnerFunc(func(ctx context.Context) error {
			fctx, cancel := context.WithTimeout(ctx, cfg.Discogs.FetchTimeout)
			defer cancel()
			_, err := syncSvc.Run(fctx)
			return err
		}), cfg.Discogs.SyncInterval)
		sched.Start(ctx)
	} else {
		log.Info().Msg("auto sync disabled; syncs run only via the admin endpoint")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, httpapi.Services{
		Inventory: invSvc,
		Sync:      syncSvc,
		Label:     labelSvc,
		Cart:      cartSvc,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if sched != nil {
		sched.Wait()
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	log.Info().Msg("bye")
}
