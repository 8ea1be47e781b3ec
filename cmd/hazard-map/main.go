package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mr1hm/go-hazard-map/internal/api"
	"github.com/mr1hm/go-hazard-map/internal/config"
	"github.com/mr1hm/go-hazard-map/internal/ingestion"
	"github.com/mr1hm/go-hazard-map/internal/logging"
	"github.com/mr1hm/go-hazard-map/internal/observability"
	"github.com/mr1hm/go-hazard-map/internal/scene"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "source", cfg.Source.BaseURL)
	if cfg.Map.MapboxToken == "" {
		slog.Info("no mapbox token configured, using open basemap")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	// Fetch on startup, then on the configured interval if any
	fetcher := ingestion.NewHTTPFetcher(cfg.Source.FetchTimeout, cfg.Source.RetryMax)
	aggregator := ingestion.NewAggregator(cfg, fetcher, metrics)
	refresher := ingestion.NewRefresher(aggregator, cfg.Source.RefreshInterval, metrics)
	refresher.Start(ctx)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))

	handler := api.NewHandler(refresher, scene.NewComposer(cfg.Map), metrics)
	handler.RegisterRoutes(router, cfg.RateLimit.RPS)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	refresher.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
