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

	"github.com/dimitrije/harbor-teams/internal/client"
	"github.com/dimitrije/harbor-teams/internal/config"
	"github.com/dimitrije/harbor-teams/internal/database"
	"github.com/dimitrije/harbor-teams/internal/handlers"
	"github.com/dimitrije/harbor-teams/internal/metrics"
	authmw "github.com/dimitrije/harbor-teams/internal/middleware"
	"github.com/dimitrije/harbor-teams/internal/services"
	"github.com/dimitrije/harbor-teams/internal/sessions"
	"github.com/dimitrije/harbor-teams/internal/sse"
	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	teamService := services.NewTeamService(db)
	m := metrics.New()

	var (
		updater teamform.Updater
		loader  sessions.Loader
	)
	if cfg.TeamsAPIURL != "" {
		remote := client.New(cfg.TeamsAPIURL, cfg.SubmitTimeout)
		updater, loader = remote, remote
		logger.Info("form submissions use remote teams API", "url", cfg.TeamsAPIURL)
	} else {
		backend := services.NewFormBackend(teamService)
		updater, loader = backend, backend
	}

	hub := sse.NewHub()
	go hub.Run(ctx)

	registry := sessions.NewRegistry(sessions.Options{
		Updater:     updater,
		Loader:      loader,
		Notifier:    hub,
		Metrics:     m,
		Logger:      logger,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	go registry.Run(ctx, sweepInterval)

	teamHandler := handlers.NewTeamHandler(teamService, logger)
	formHandler := handlers.NewFormHandler(registry, hub, logger)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Patch("/teams/:id", teamHandler.Update)
	protected.Delete("/teams/:id", teamHandler.Delete)

	protected.Post("/forms", formHandler.Open)
	protected.Get("/forms/:id", formHandler.Get)
	protected.Patch("/forms/:id", formHandler.Patch)
	protected.Delete("/forms/:id", formHandler.Close)
	protected.Post("/forms/:id/members", formHandler.AddMember)
	protected.Delete("/forms/:id/members/:email", formHandler.RemoveMember)
	protected.Post("/forms/:id/projects", formHandler.AddProject)
	protected.Patch("/forms/:id/projects/:projectId", formHandler.UpdateProject)
	protected.Post("/forms/:id/submit", formHandler.Submit)
	protected.Post("/forms/:id/cancel", formHandler.Cancel)
	protected.Get("/forms/:id/events", formHandler.Events)
	protected.Post("/forms/:id/follow/:clientId", formHandler.Follow)
	protected.Post("/forms/:id/unfollow/:clientId", formHandler.Unfollow)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: app,
	}

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.MetricsPort),
		Handler: m.Handler(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = metricsSrv.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
