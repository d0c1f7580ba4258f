// Package main is the entry point for the Sitecraft content server.
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

	"sitecraft/internal/admin"
	"sitecraft/internal/api"
	"sitecraft/internal/cache"
	"sitecraft/internal/config"
	"sitecraft/internal/database"
	"sitecraft/internal/files"
	"sitecraft/internal/middleware"
	"sitecraft/internal/router"
	"sitecraft/internal/section"
	"sitecraft/internal/session"
	"sitecraft/internal/storage"
	"sitecraft/internal/store"
	"sitecraft/internal/token"
)

func main() {
	// Structured logger — text in development, easy to grep in production too.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the initial admin account (no-op once users exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (listing cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session cookies are Secure outside development.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Pick the file backend: S3-compatible object storage when configured,
	// the local upload directory otherwise.
	var blob files.Blob
	staticDir := ""
	publicURL := cfg.PublicURL
	if cfg.S3Enabled() {
		s3Client, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		blob = s3Client
		publicURL = cfg.S3PublicURL
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		local, err := files.NewLocalBlob(cfg.UploadDir)
		if err != nil {
			slog.Error("failed to initialize upload directory", "error", err)
			os.Exit(1)
		}
		blob = local
		staticDir = cfg.UploadDir
		slog.Info("local file storage ready", "dir", cfg.UploadDir)
	}
	fileStore := files.New(blob, publicURL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	textStore := store.NewTextStore(db)
	imageStore := store.NewImageStore(db)
	videoStore := store.NewVideoStore(db)
	categoryStore := store.NewCategoryStore(db)

	aggregator := section.New(textStore, imageStore, videoStore, categoryStore, fileStore)
	listCache := cache.NewListCache(valkeyClient, cache.DefaultListTTL)
	issuer := token.NewIssuer(cfg.SecretKey)

	apiHandlers := api.New(
		textStore, imageStore, videoStore, categoryStore, userStore,
		aggregator, fileStore, listCache, issuer, cfg.MaxUploadBytes(),
	)
	adminHandlers := admin.New(userStore, categoryStore, aggregator, sessionStore, listCache)

	// Throttle login attempts.
	limiter := middleware.NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	r := router.New(router.Options{
		Sessions:  sessionStore,
		API:       apiHandlers,
		Admin:     adminHandlers,
		Tokens:    issuer,
		StaticDir: staticDir,
		Secure:    secureCookies,
		Limiter:   limiter,
	})

	// WriteTimeout must accommodate large media uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
