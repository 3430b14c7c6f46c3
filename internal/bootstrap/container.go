// Package bootstrap assembles the gateway's dependency graph. The HTTP server
// and the portalctl CLI share it so both drive the same reconciler.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/repository"
	"github.com/noah-isme/campus-portal/internal/service"
	"github.com/noah-isme/campus-portal/pkg/backend"
	"github.com/noah-isme/campus-portal/pkg/cache"
	"github.com/noah-isme/campus-portal/pkg/config"
	"github.com/noah-isme/campus-portal/pkg/database"
	"github.com/noah-isme/campus-portal/pkg/jobs"
	"github.com/noah-isme/campus-portal/pkg/storage"
)

// Options selects which stateful dependencies are opened.
type Options struct {
	// Redis backs sessions and the entity cache. Without it the gateway
	// reads straight from the backend and only bearer auth works.
	Redis bool
	// AuditDB opens Postgres for the audit trail when the config enables it.
	AuditDB bool
}

// Container holds every wired component.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Redis   *redis.Client
	DB      *sqlx.DB
	Metrics *service.MetricsService
	Backend *backend.Client

	CacheRepo *repository.CacheRepository
	AuditRepo *repository.AuditRepository
	Audit     service.AuditLogger

	Directory  *service.DirectoryService
	Sessions   *service.SessionService
	Reconciler *service.ReconcilerService
	Catalog    *service.CatalogService
	Routines   *service.RoutineService
	Exports    *service.ExportService

	RefreshQueue *jobs.Queue
}

// Build opens connections and wires services. Call Close when done.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger, Metrics: service.NewMetricsService()}

	if opts.Redis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.Redis = client
		c.CacheRepo = repository.NewCacheRepository(client, logger)
	}

	if opts.AuditDB && cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.DB = db
		c.AuditRepo = repository.NewAuditRepository(db)
		if err := c.AuditRepo.Migrate(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("migrate audit table: %w", err)
		}
		c.Audit = c.AuditRepo
	}

	// The backend client reports auth failures to the session service, which
	// itself resolves roles through the backend.
	var sessions *service.SessionService
	c.Backend = backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		backend.WithLogger(logger),
		backend.WithObserver(c.Metrics),
		backend.WithAuthFailureHook(func(ctx context.Context, status int) {
			if sessions != nil {
				sessions.AuthFailureHook()(ctx, status)
			}
		}),
	)

	resources := repository.NewResourceRepository(c.Backend)
	changeRequests := repository.NewChangeRequestRepository(c.Backend)
	users := repository.NewUserRepository(c.Backend)

	var entityCache *service.CacheService
	if c.CacheRepo != nil {
		entityCache = service.NewCacheService(c.CacheRepo, c.Metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled)
	}
	if entityCache != nil {
		c.Directory = service.NewDirectoryService(resources, entityCache, c.Metrics, cfg.Cache.TTL, logger)
	} else {
		c.Directory = service.NewDirectoryService(resources, nil, c.Metrics, cfg.Cache.TTL, logger)
	}

	sessionCfg := service.SessionConfig{
		Secret:   cfg.Identity.Secret,
		Issuer:   cfg.Identity.Issuer,
		Audience: cfg.Identity.Audience,
		TTL:      cfg.Session.TTL,
	}
	roles := service.NewRoleService(users, logger)
	if c.Redis != nil {
		sessions = service.NewSessionService(repository.NewSessionRepository(c.Redis), roles, c.Audit, c.Metrics, logger, sessionCfg)
	} else {
		sessions = service.NewSessionService(nil, roles, c.Audit, c.Metrics, logger, sessionCfg)
	}
	c.Sessions = sessions

	validate := validator.New()
	reconcilerOpts := []service.ReconcilerOption{
		service.WithReconcilerLogger(logger),
		service.WithReconcilerMetrics(c.Metrics),
		service.WithReconcilerAudit(c.Audit),
	}
	c.Reconciler = service.NewReconcilerService(changeRequests, c.Directory, reconcilerOpts...)
	c.RefreshQueue = jobs.NewQueue("reconciler-refresh", c.Reconciler.HandleRefreshJob, jobs.QueueConfig{
		Workers:    cfg.Reconciler.RefreshWorker,
		MaxRetries: 2,
		Logger:     logger,
	})
	service.WithRefreshScheduler(c.RefreshQueue, cfg.Reconciler.SettleDelay)(c.Reconciler)

	c.Catalog = service.NewCatalogService(c.Directory, validate, c.Audit, logger)
	c.Routines = service.NewRoutineService(c.Directory, validate, logger)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		c.Close()
		return nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	c.Exports = service.NewExportService(c.Reconciler, c.Directory, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logger)

	return c, nil
}

// Start launches background workers.
func (c *Container) Start(ctx context.Context) {
	c.RefreshQueue.Start(ctx)
}

// Close stops workers and releases connections.
func (c *Container) Close() {
	if c.RefreshQueue != nil {
		c.RefreshQueue.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("closing redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("closing audit database", zap.Error(err))
		}
	}
}
