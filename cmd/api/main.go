// Package main is the entrypoint for the Trailbook API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/trailbook/trailbook/internal/cache"
	"github.com/trailbook/trailbook/internal/config"
	"github.com/trailbook/trailbook/internal/handler"
	"github.com/trailbook/trailbook/internal/middleware"
	"github.com/trailbook/trailbook/internal/repository"
	"github.com/trailbook/trailbook/internal/server"
	"github.com/trailbook/trailbook/internal/service"
	"github.com/trailbook/trailbook/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("error", err.Error()),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to Redis",
			slog.String("error", err.Error()),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		logger.Error("failed to prepare upload directory",
			slog.String("error", err.Error()),
			slog.String("dir", cfg.UploadDir),
		)
		os.Exit(1)
	}

	accountService := service.NewAccountService(repo, cacheClient, cfg.TokenSecret, cfg.TokenTTL)
	journalService := service.NewJournalService(repo, store, cfg.BaseURL, logger)

	accountHandler := handler.NewAccountHandler(accountService, logger)
	bookHandler := handler.NewBookHandler(journalService, logger)
	imageHandler := handler.NewImageHandler(journalService, cfg.MaxUploadSize, logger)
	healthHandler := handler.NewHealthHandler(repo, cacheClient)

	r := setupRouter(accountHandler, bookHandler, imageHandler, healthHandler, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	accountHandler *handler.AccountHandler,
	bookHandler *handler.BookHandler,
	imageHandler *handler.ImageHandler,
	healthHandler *handler.HealthHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Public account endpoints
	r.Post("/create-account", accountHandler.Register)
	r.Post("/login", accountHandler.Login)

	authCfg := middleware.AuthConfig{
		Logger:      logger,
		TokenSecret: []byte(cfg.TokenSecret),
	}

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Get("/get-user", accountHandler.GetUser)

		r.Post("/add-book", bookHandler.Add)
		r.Patch("/edit-book/{id}", bookHandler.Edit)
		r.Delete("/delete-book/{id}", bookHandler.Delete)
		r.Put("/update-favourite-book/{id}", bookHandler.UpdateFavourite)
		r.Get("/get-all-books", bookHandler.List)
		r.Get("/search", bookHandler.Search)
		r.Get("/filter-books", bookHandler.Filter)

		r.Post("/image-upload", imageHandler.Upload)
		r.Delete("/delete-image", imageHandler.Delete)
	})

	// Static files: uploaded images and fixed assets
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}
