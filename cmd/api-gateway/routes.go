package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/campus-portal/internal/bootstrap"
	"github.com/noah-isme/campus-portal/internal/handler"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/pkg/config"
	"github.com/noah-isme/campus-portal/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-portal/pkg/middleware/requestid"
)

var catalogKinds = []models.EntityKind{
	models.EntityCourses,
	models.EntityBatches,
	models.EntityStudents,
	models.EntityInstructors,
	models.EntityResults,
	models.EntityNotices,
	models.EntityRoutines,
}

func newRouter(c *bootstrap.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(c.Metrics))

	checks := map[string]handler.Pinger{}
	if c.CacheRepo != nil {
		checks["redis"] = c.CacheRepo
	}
	if c.AuditRepo != nil {
		checks["audit_db"] = c.AuditRepo
	}
	metricsHandler := handler.NewMetricsHandler(c.Metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(c.Sessions, handler.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure})
	requests := handler.NewChangeRequestHandler(c.Reconciler)
	resources := handler.NewResourceHandler(c.Catalog)
	catalog := handler.NewCatalogHandler(c.Catalog, c.Routines)
	exports := handler.NewExportHandler(c.Exports)
	var audit *handler.AuditHandler
	if c.AuditRepo != nil {
		audit = handler.NewAuditHandler(c.AuditRepo)
	} else {
		audit = handler.NewAuditHandler(nil)
	}

	trail := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(c.Audit, action, resource)
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/session", authHandler.CreateSession)
	// Signed links carry their own authorization. A session, when present,
	// only attributes the download in the audit trail.
	api.GET("/exports/download",
		middleware.OptionalSession(c.Sessions, cfg.Session.CookieName),
		trail(models.AuditActionExportDownload, "exports"),
		exports.Download)

	secured := api.Group("")
	secured.Use(middleware.Session(c.Sessions, cfg.Session.CookieName))
	secured.DELETE("/auth/session", authHandler.DeleteSession)
	secured.GET("/auth/me", authHandler.Me)

	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor, models.RoleStudent)

	batchRequests := secured.Group("/batch-change-requests")
	batchRequests.GET("", admin, requests.ListBatchRequests)
	batchRequests.POST("", anyRole, requests.SubmitBatchRequest)
	batchRequests.PATCH("/swap", admin, requests.SwapBatchRequests)
	batchRequests.GET("/:id/swap-candidates", admin, requests.SwapCandidates)
	batchRequests.PATCH("/:id/approve", admin, requests.ApproveBatchRequest)
	batchRequests.PATCH("/:id/reject", admin, requests.RejectBatchRequest)

	courseRequests := secured.Group("/course-change-requests")
	courseRequests.GET("", admin, requests.ListCourseRequests)
	courseRequests.POST("", anyRole, requests.SubmitCourseRequest)
	courseRequests.PATCH("/:id/approve", admin, requests.ApproveCourseRequest)
	courseRequests.PATCH("/:id/reject", admin, requests.RejectCourseRequest)

	secured.PATCH("/batches/:id/instructors", admin, catalog.AssignInstructor)
	secured.POST("/results/publish", staff, catalog.PublishResults)
	secured.POST("/routines/check", staff, catalog.CheckRoutine)
	secured.POST("/routines", admin, trail(models.AuditActionRoutineWrite, string(models.EntityRoutines)), catalog.CreateRoutine)
	secured.PATCH("/routines/:id", admin, trail(models.AuditActionRoutineWrite, string(models.EntityRoutines)), catalog.UpdateRoutine)

	for _, kind := range catalogKinds {
		base := "/" + string(kind)
		secured.GET(base, anyRole, resources.List(kind))
		secured.GET(base+"/:id", anyRole, resources.Get(kind))
		if kind != models.EntityRoutines {
			secured.POST(base, admin, resources.Create(kind))
			secured.PATCH(base+"/:id", admin, resources.Update(kind))
		}
		secured.DELETE(base+"/:id", admin, resources.Delete(kind))
	}

	secured.POST("/exports", staff, trail(models.AuditActionExportCreate, "exports"), exports.CreateExport)
	secured.GET("/audit-logs", admin, audit.List)
	secured.GET("/metrics/summary", admin, metricsHandler.Summary)

	return r
}
