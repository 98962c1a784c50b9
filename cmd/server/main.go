package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	downloadhandlers "Mediasnap/internal/api/handlers/download"
	healthhandlers "Mediasnap/internal/api/handlers/health"
	"Mediasnap/internal/api/middleware"
	"Mediasnap/internal/api/routes"
	"Mediasnap/internal/config"
	"Mediasnap/internal/core/cache"
	"Mediasnap/internal/core/download"
	"Mediasnap/internal/core/extract"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("[SERVER] failed to load .env file", "error", err)
	}

	cfg := config.ConfigFromEnv()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := cfg.Validate(); err != nil {
		slog.Error("[SERVER] invalid configuration", "error", err)
		os.Exit(1)
	}

	// Core services
	resultCache := cache.NewMemoryCache(cache.WithMaxEntries(cfg.CacheMaxEntries))
	fetcher := extract.NewPageFetcher(cfg.FetchTimeout, cfg.MaxPageSizeBytes)
	dispatcher := extract.NewDispatcher(fetcher)
	downloadService := download.NewService(resultCache, dispatcher, download.WithCacheTTL(cfg.CacheTTL))

	// HTTP surface
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitMaxClients,
		middleware.WithTrustedProxy(cfg.TrustProxy))
	router := routes.NewRouter(routes.RouterConfig{
		Download:       downloadhandlers.NewHandler(downloadService, cfg.IsDevelopment()),
		Health:         healthhandlers.NewHandler(cfg.Version),
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		ShowDetails:    cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2*cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("[SERVER] starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"version", cfg.Version,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[SERVER] listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("[SERVER] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("[SERVER] graceful shutdown failed", "error", err)
	}
}
