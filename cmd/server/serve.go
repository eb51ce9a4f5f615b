package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"krishibondhu/config"
	"krishibondhu/database"
	"krishibondhu/pkg/ai"
	"krishibondhu/pkg/catalog"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/logging"
	"krishibondhu/pkg/news/ingest"
	"krishibondhu/pkg/persist"
	"krishibondhu/pkg/persist/repositoryImp"
	"krishibondhu/pkg/relay"
	"krishibondhu/pkg/remote"
	"krishibondhu/router"

	adCtrlImp "krishibondhu/pkg/ad/controllerImp"
	adminCtrlImp "krishibondhu/pkg/admin/controllerImp"
	assistantCtrlImp "krishibondhu/pkg/assistant/controllerImp"
	cropCtrlImp "krishibondhu/pkg/crop/controllerImp"
	healthCtrlImp "krishibondhu/pkg/health/controllerImp"
	marketCtrlImp "krishibondhu/pkg/market/controllerImp"
	newsCtrlImp "krishibondhu/pkg/news/controllerImp"
	supportCtrlImp "krishibondhu/pkg/support/controllerImp"
	weatherCtrlImp "krishibondhu/pkg/weather/controllerImp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		log.Info("starting", cfg.Fields()...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

// app holds what the server and the reset command share.
type app struct {
	db    *gorm.DB
	store *datasync.Store
}

func openStore(cfg config.AppConfig, log *zap.Logger) (*app, error) {
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	local := persist.New(repositoryImp.New(db), log.Named("persist"))

	var rc remote.Client
	if cfg.RemoteURL != "" {
		rc = remote.NewPostgREST(cfg.RemoteURL, cfg.RemoteAPIKey, cfg.RemoteTimeout, log.Named("remote"))
	} else {
		log.Warn("REMOTE_URL not set, running on local data only")
		rc = remote.NewDisabled()
	}
	store := datasync.New(local, rc, catalog.Defaults, log.Named("datasync"),
		datasync.WithRemoteTimeout(cfg.RemoteTimeout))
	return &app{db: db, store: store}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func serve(ctx context.Context, cfg config.AppConfig, log *zap.Logger) error {
	a, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()
	a.store.Initialize()

	var assistant ai.Client
	if cfg.GeminiAPIKey != "" {
		if assistant, err = ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log.Named("ai")); err != nil {
			return err
		}
	} else {
		log.Warn("GEMINI_API_KEY not set, assistant uses canned answers")
		assistant = ai.NewMock()
	}
	forms := relay.New(cfg.RelayEndpoint, cfg.RelayAccessKey, 15*time.Second, log.Named("relay"))
	fetcher := ingest.New(cfg.NewsAllowedDomains, cfg.NewsMaxBytes, 20*time.Second)

	if _, err := os.Stat(cfg.StaticDir + "/index.html"); err != nil {
		log.Warn("frontend not found", zap.String("static_dir", cfg.StaticDir), zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.New(e,
		router.Options{AdminPassword: cfg.AdminPassword, StaticDir: cfg.StaticDir, Logger: log.Named("http")},
		cropCtrlImp.New(a.store, log.Named("crop")),
		newsCtrlImp.New(a.store, fetcher, log.Named("news")),
		marketCtrlImp.New(a.store, forms),
		adCtrlImp.New(a.store),
		assistantCtrlImp.New(assistant),
		supportCtrlImp.New(forms),
		adminCtrlImp.NewAdminController(a.store, cfg.AdminPassword, log.Named("admin")),
		weatherCtrlImp.NewWeatherCtrl(a.store),
		healthCtrlImp.NewHealthCtrl(a.db, a.store),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", ":"+cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := a.store.Close(shutdownCtx); err != nil {
		log.Warn("pending remote writes abandoned", zap.Error(err), zap.Int64("failed", a.store.Status().FailedWrites))
	}
	return nil
}
