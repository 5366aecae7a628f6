package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"medication-bot/config"
	httpLayer "medication-bot/http"
	"medication-bot/repository"
	"medication-bot/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	cache, closeCache := newCache(cfg)
	defer closeCache()

	progressService := service.NewProgressService(
		cache,
		service.WithLocation(loc),
		service.WithCacheTTL(cfg.Cache.TTL.Duration),
	)
	progressHandler := httpLayer.NewProgressHandler(progressService, cfg.QuickReplies())

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		defer rateLimiter.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpLayer.NewRouter(progressHandler, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 medication-bot listening on %s (timezone %s, cache %s)", cfg.Server.Addr, loc, cfg.Cache.Backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// newCache builds the configured result cache. An unreachable redis is
// logged but kept: caching is not critical and the client reconnects.
func newCache(cfg config.Config) (repository.CacheRepository, func()) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return repository.NewMemoryCache(), func() {}
	case config.CacheRedis:
		redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("Warning: redis at %s unreachable: %v", cfg.Cache.RedisAddr, err)
		}

		return redisCache, func() {
			if err := redisCache.Close(); err != nil {
				log.Printf("Error closing redis client: %v", err)
			}
		}
	default:
		return nil, func() {}
	}
}
