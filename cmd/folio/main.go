// Package main is the entry point for the Folio catalog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/editor"
	"folio/internal/events"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/router"
	"folio/internal/storage"
	"folio/internal/store"
	"folio/internal/variant"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN(), database.DefaultPool(cfg.DBMaxConns))
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a starter category tree and lookups (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the category tree cache. The catalog reads
	// straight from PostgreSQL when it is unavailable.
	var catalogCache *cache.CatalogCache
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, category cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		catalogCache = cache.NewCatalogCache(valkeyClient, cfg.CacheTTL)
		// Cached rows may predate the migrations just applied.
		catalogCache.InvalidateAll(ctx)
	}

	// Connect to S3-compatible object storage (optional; uploads are
	// refused without it).
	var objects catalog.Objects
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(storage.Options{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBucket:  cfg.S3BucketPublic,
			PrivateBucket: cfg.S3BucketPrivate,
			PublicURL:     cfg.S3PublicURL,
		})
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		objects = storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, uploads disabled")
	}

	// Catalog events go to Kafka when brokers are configured.
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	rules := variant.Rules{MaxFileSize: cfg.FormatMaxFileSize()}

	svc := catalog.New(catalog.Deps{
		Categories: store.NewCategoryStore(db),
		Products:   store.NewProductStore(db),
		Lookups:    store.NewLookupStore(db),
		Cache:      catalogCache,
		Objects:    objects,
		Events:     publisher,
		Rules:      rules,
	})

	uploadLimiter := middleware.NewRateLimiter(cfg.UploadRateLimit, time.Minute)
	defer uploadLimiter.Stop()

	catalogHandlers := handlers.NewCatalog(svc, editor.New(svc, rules))
	r := router.New(catalogHandlers, uploadLimiter)

	// ReadTimeout covers the largest format file upload on a slow link.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
