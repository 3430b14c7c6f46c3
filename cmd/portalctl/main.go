// Package main provides portalctl, an operator CLI over the change request
// reconciler. It talks to the course backend directly with an admin identity
// token and shares its wiring with the HTTP gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/bootstrap"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/pkg/config"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/logger"
)

const tokenEnv = "PORTAL_TOKEN"

const (
	exitFailure          = 1
	exitAlreadyProcessed = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{out: os.Stdout, connect: connectBackend}
	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, appErrors.ErrAlreadyProcessed) {
		return exitAlreadyProcessed
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitFailure
}

// connectBackend wires the reconciler without Redis or Postgres and resolves
// the operator's identity token into a request-scoped session.
func connectBackend(ctx context.Context, token string) (context.Context, requestDesk, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Log.Level == "" || cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	container, err := bootstrap.Build(ctx, cfg, logr, bootstrap.Options{})
	if err != nil {
		_ = logr.Sync()
		return nil, nil, nil, err
	}
	container.Start(ctx)

	cleanup := func() {
		container.Close()
		_ = logr.Sync()
	}

	session, err := container.Sessions.AuthenticateBearer(ctx, token)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("authenticate: %w", err)
	}
	if session.Role != models.RoleAdmin {
		cleanup()
		return nil, nil, nil, fmt.Errorf("account %s is %s, portalctl requires an admin", session.Email, session.Role)
	}
	logr.Debug("portalctl session resolved", zap.String("user_id", session.UserID))

	return service.ContextWithSession(ctx, session), container.Reconciler, cleanup, nil
}
