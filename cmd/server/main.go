// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/replenwise/replenish/internal/api"
	"github.com/replenwise/replenish/internal/cache"
	"github.com/replenwise/replenish/internal/config"
	"github.com/replenwise/replenish/internal/repository/postgres"
	"github.com/replenwise/replenish/internal/service"
	"github.com/replenwise/replenish/internal/storage"
	"github.com/replenwise/replenish/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Plan cache unavailable, continuing without it")
		planCache = cache.NewNoopPlanCache()
	}

	var archive storage.RunArchive
	if cfg.Archive.Enabled {
		minioArchive, err := storage.NewMinioArchive(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Run archive unavailable, continuing without it")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := minioArchive.EnsureBucket(ctx); err != nil {
				logger.Log.Warn().Err(err).Msg("Run archive bucket check failed, continuing without it")
			} else {
				archive = minioArchive
			}
			cancel()
		}
	}

	planService := service.NewPlanService(postgres.NewDemandRepository(db.DB), planCache, archive)

	router := api.NewRouter(planService, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
