package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listings-be/internal/attribute"
	"listings-be/internal/catalog"
	"listings-be/internal/config"
	"listings-be/internal/db"
	"listings-be/internal/favorites"
	"listings-be/internal/listing"
	"listings-be/internal/logger"
	"listings-be/internal/middleware"
	"listings-be/internal/present"
	"listings-be/internal/transport"

	"go.uber.org/zap"
)

// shutdownHook runs after the stop signal and before the server shuts down.
type shutdownHook func(ctx context.Context) error

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal("failed to load config", zap.Error(err))
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.L()

	var database *sql.DB
	if cfg.CatalogSource == config.SourcePostgres {
		var err error
		database, err = db.NewDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
	}

	listings, err := newSource(cfg, database).Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info("catalog loaded", zap.Int("listings", len(listings)), zap.String("source", cfg.CatalogSource))

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := attribute.Default()
	svc := catalog.NewService(catalog.New(listings, registry, cfg.PageSize), store)
	handler := transport.NewHandler(svc, present.NewFormatter(registry))

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	go limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

	srv := newServer(cfg, setupRouter(cfg, handler, limiter))
	return serve(ctx, srv, cfg.ShutdownTimeout, func(ctx context.Context) error {
		log.Info("flushing logs before shutdown")
		logger.Sync()
		return nil
	})
}

func newSource(cfg *config.Config, database *sql.DB) listing.Source {
	switch cfg.CatalogSource {
	case config.SourceFile:
		return listing.FileSource{Path: cfg.CatalogFile}
	case config.SourcePostgres:
		return listing.NewRepository(database)
	default:
		return listing.NewHTTPSource(cfg.CatalogURL, cfg.CatalogFetchTimeout)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (favorites.Store, func(), error) {
	switch cfg.FavoritesBackend {
	case config.BackendRedis:
		client, err := db.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return favorites.NewRedisStore(client, cfg.Redis.KeyPrefix), func() { client.Close() }, nil
	case config.BackendMemory:
		return favorites.NewMemoryStore(), func() {}, nil
	default:
		return favorites.NewFileStore(cfg.FavoritesPath), func() {}, nil
	}
}

// setupRouter wraps the routes so the caller's identity is known before the
// access log and rate limiter run.
func setupRouter(cfg *config.Config, h *transport.Handler, limiter *middleware.RateLimiter) http.Handler {
	return middleware.Chain(h.Routes(),
		logger.RequestIDMiddleware,
		middleware.CORS(cfg.CORSOrigins),
		middleware.Auth(cfg.JWTSecret),
		logger.LoggingMiddleware,
		limiter.Middleware,
	)
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs srv until ctx is cancelled, then runs the hooks and shuts the
// server down within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, hooks ...shutdownHook) error {
	log := logger.L()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		if err := h(shutdownCtx); err != nil {
			log.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
