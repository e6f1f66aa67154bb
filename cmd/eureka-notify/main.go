package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/config"
	"github.com/thebluefish/eureka-notify/internal/db"
	"github.com/thebluefish/eureka-notify/internal/handlers"
	"github.com/thebluefish/eureka-notify/internal/logging"
	"github.com/thebluefish/eureka-notify/internal/notify"
	"github.com/thebluefish/eureka-notify/internal/ocean"
	"github.com/thebluefish/eureka-notify/internal/realtime/eureka"
	oceanloop "github.com/thebluefish/eureka-notify/internal/realtime/ocean"
	"github.com/thebluefish/eureka-notify/internal/static"
	"github.com/thebluefish/eureka-notify/internal/status"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

func main() {
	config.LoadDotEnv(".")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting eureka notifier",
		zap.Bool("eureka", cfg.EurekaEnabled),
		zap.Bool("ocean", cfg.OceanEnabled),
		zap.String("database_driver", cfg.DatabaseDriver))

	// ═══════════════════════════════════════════════════════
	// PHASE 1: Reference Data
	// ═══════════════════════════════════════════════════════
	if _, err := static.EnsureData(cfg.DataDir, cfg.DataRefreshDays, logger); err != nil {
		// Continue anyway: existing files or the bundled tables still work
		logger.Warn("reference data refresh failed", zap.Error(err))
	}

	tables, err := static.LoadDir(cfg.DataDir)
	if err != nil {
		logger.Warn("failed to load reference data, using bundled tables", zap.String("dir", cfg.DataDir), zap.Error(err))
		if tables, err = static.Default(); err != nil {
			logger.Fatal("failed to load bundled reference data", zap.Error(err))
		}
	}

	resolver := weather.NewResolver(tables, logger.Named("weather"))
	reporter, err := status.NewReporter(resolver, logger.Named("status"))
	if err != nil {
		logger.Fatal("failed to build status reporter", zap.Error(err))
	}

	tiers, err := ocean.ParseTiers(cfg.OceanTiers)
	if err != nil {
		logger.Fatal("invalid ocean tiers", zap.String("ocean_tiers", cfg.OceanTiers), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ═══════════════════════════════════════════════════════
	// PHASE 2: Bookkeeping Store
	// ═══════════════════════════════════════════════════════
	if cfg.DatabaseDriver == db.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
			logger.Fatal("failed to create database dir", zap.Error(err))
		}
	}
	store, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabasePath, cfg.DatabaseURL, logger.Named("db"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	// ═══════════════════════════════════════════════════════
	// PHASE 3: Notifiers
	// ═══════════════════════════════════════════════════════
	notifiers, poster := buildNotifiers(cfg, logger)
	if poster == nil {
		logger.Info("no webhook configured, chat posting disabled")
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 4: Loops
	// ═══════════════════════════════════════════════════════
	var wg sync.WaitGroup

	if cfg.EurekaEnabled {
		loop := eureka.NewLoop(eureka.Options{
			Reporter: reporter,
			Store:    store,
			Notifier: notifiers,
			Poster:   poster,
			RoleID:   cfg.NotificationRoleID,
			Logger:   logger,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("eureka loop stopped", zap.Error(err))
			}
		}()
	}

	if cfg.OceanEnabled {
		loop := oceanloop.NewLoop(oceanloop.Options{
			Notifier: notifiers,
			Tiers:    tiers,
			Store:    store,
			Logger:   logger,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("ocean loop stopped", zap.Error(err))
			}
		}()
	}

	// Daily reference data freshness check, applied on next start
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if refreshed, err := static.EnsureData(cfg.DataDir, cfg.DataRefreshDays, logger); err != nil {
					logger.Warn("daily reference data refresh failed", zap.Error(err))
				} else if refreshed {
					logger.Info("reference data refreshed, restart to load it")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// ═══════════════════════════════════════════════════════
	// PHASE 5: Query API (optional)
	// ═══════════════════════════════════════════════════════
	var server *http.Server
	if cfg.APIPort != "" {
		h := handlers.NewHandler(resolver, reporter, logger.Named("api"))
		server = &http.Server{
			Addr:              ":" + cfg.APIPort,
			Handler:           handlers.NewRouter(h, cfg.AllowedOrigins),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("API server starting", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("API server failed", zap.Error(err))
			}
		}()
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 6: Graceful Shutdown
	// ═══════════════════════════════════════════════════════
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()

	if server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("API server shutdown failed", zap.Error(err))
		}
		done()
	}

	wg.Wait()
	logger.Info("goodbye")
}

// buildNotifiers returns the reminder fan-out and the chat poster. The
// webhook always carries the status posts; it only receives reminders
// when webhook_alerts is set.
func buildNotifiers(cfg *config.Config, logger *zap.Logger) (notify.Multi, eureka.Poster) {
	notifiers := notify.Multi{notify.NewLog(logger.Named("alerts"))}
	if cfg.DesktopNotify {
		notifiers = append(notifiers, notify.NewDesktop(cfg.DesktopAppID, nil))
	}
	if cfg.WebhookURL == "" {
		return notifiers, nil
	}

	webhook := notify.NewWebhook(cfg.WebhookURL, nil)
	if cfg.WebhookAlerts {
		notifiers = append(notifiers, webhook)
	}
	return notifiers, webhook
}
