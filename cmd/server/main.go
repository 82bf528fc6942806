// Command reviewd starts the editorial lifecycle HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/openscholar/reviewd/internal/biblio"
	"github.com/openscholar/reviewd/internal/config"
	"github.com/openscholar/reviewd/internal/migrate"
	"github.com/openscholar/reviewd/internal/notify"
	"github.com/openscholar/reviewd/internal/repository/postgres"
	"github.com/openscholar/reviewd/internal/server/httpapi"
	"github.com/openscholar/reviewd/internal/service"
	"github.com/openscholar/reviewd/internal/tracker"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN()); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	db, err := postgres.New(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	paperRepo := postgres.NewPaperRepo(db)
	inviteRepo := postgres.NewInvitationRepo(db)
	editorRepo := postgres.NewEditorRepo(db)
	trackRepo := postgres.NewTrackRepo(db)

	// Gateways
	gh := tracker.NewGitHub(cfg.TrackerToken, logger)
	if cfg.TrackerBaseURL != "" {
		gh.BaseURL = cfg.TrackerBaseURL
	}
	var notifier notify.Notifier = notify.Noop{}
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhook(cfg.NotifyWebhookURL, logger)
	}

	// Service
	svc := service.NewPaperService(
		paperRepo, inviteRepo, editorRepo, trackRepo,
		gh, notifier, service.NewGitChecker(),
		service.Config{TrackerRepo: cfg.TrackerRepo},
		logger,
	)

	api := httpapi.New(svc, httpapi.Config{
		APIKey: cfg.APIKey,
		Biblio: biblio.Config{
			Abbreviation: cfg.JournalAbbreviation,
			DOIPrefix:    cfg.DOIPrefix,
			SiteURL:      cfg.SiteURL,
			PapersURL:    cfg.PapersURL,
			TrackerRepo:  cfg.TrackerRepo,
		},
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
