package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"solarhub/internal/auth"
	"solarhub/internal/domain"
	"solarhub/internal/handler"
	"solarhub/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Application *handler.ApplicationHandler
	Project     *handler.ProjectHandler
	Upload      *handler.UploadHandler
	Estimate    *handler.EstimateHandler
	Workflow    *handler.WorkflowHandler
	Stream      *handler.StreamHandler
	Health      *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(validator auth.TokenValidator, h Handlers, corsOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public catalogs
	wf := v1.Group("/workflow")
	wf.GET("/statuses", h.Workflow.Statuses)
	wf.GET("/phases", h.Workflow.Phases)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))

	apps := protected.Group("/applications")
	apps.POST("", h.Application.Create)
	apps.GET("", h.Application.List)
	apps.GET("/stream", h.Stream.Stream)
	apps.GET("/:id", h.Application.GetByID)
	apps.PATCH("/:id", h.Application.Update)
	apps.DELETE("/:id", h.Application.Delete)
	apps.POST("/:id/advance", h.Application.Advance)
	apps.GET("/:id/offers", h.Application.Offers)
	apps.GET("/:id/savings", h.Application.Savings)
	apps.GET("/:id/savings/export", h.Application.ExportSavings)
	apps.POST("/:id/project", h.Project.Convert)

	protected.POST("/uploads", h.Upload.Upload)

	estimates := protected.Group("/estimates")
	estimates.POST("/savings", h.Estimate.Savings)
	estimates.POST("/offers", h.Estimate.Offers)

	projects := protected.Group("/projects")
	projects.GET("", h.Project.List)
	projects.GET("/:id", h.Project.GetByID)
	projects.POST("/:id/advance", h.Project.Advance)

	// Staff routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleCompany))
	admin.GET("/applications", h.Application.AdminList)
	admin.GET("/applications/export", h.Application.AdminExport)
	admin.PUT("/applications/:id/status", h.Application.AdminSetStatus)
	admin.GET("/projects", h.Project.AdminList)
	admin.PUT("/projects/:id/phase", h.Project.AdminSetPhase)

	return r
}
