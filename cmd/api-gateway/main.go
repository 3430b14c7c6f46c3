package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-portal/api/swagger"
	"github.com/noah-isme/campus-portal/internal/bootstrap"
	"github.com/noah-isme/campus-portal/pkg/config"
	"github.com/noah-isme/campus-portal/pkg/logger"
	"github.com/noah-isme/campus-portal/pkg/response"
)

// @title Campus Portal API
// @version 1.0.0
// @description Gateway in front of the course backend: sessions, change request reconciliation, catalog admin and exports.
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Session.LoginPath != "" {
		response.LoginPath = cfg.Session.LoginPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.Build(ctx, cfg, logr, bootstrap.Options{Redis: true, AuditDB: true})
	if err != nil {
		logr.Fatal("failed to wire dependencies", zap.Error(err))
	}
	defer container.Close()
	container.Start(ctx)
	go runExportCleanup(ctx, container, cfg.Exports.CleanupInterval)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func runExportCleanup(ctx context.Context, c *bootstrap.Container, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.Exports.Cleanup(0)
			if err != nil {
				c.Logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				c.Logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}
