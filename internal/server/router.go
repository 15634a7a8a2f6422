package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/greenpoint-esg/esg-backend/internal/handlers"
	"github.com/greenpoint-esg/esg-backend/internal/middleware"
	"github.com/greenpoint-esg/esg-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	CompanyHandler    *handlers.CompanyHandler
	ProfilingHandler  *handlers.ProfilingHandler
	ChecklistHandler  *handlers.ChecklistHandler
	TaskHandler       *handlers.TaskHandler
	MeterHandler      *handlers.MeterHandler
	SubmissionHandler *handlers.SubmissionHandler
	AssignmentHandler *handlers.AssignmentHandler
	ProgressHandler   *handlers.ProgressHandler
	DashboardHandler  *handlers.DashboardHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Frameworks (reference data)
	api.GET("/frameworks/voluntary", cfg.CompanyHandler.ListVoluntaryFrameworks)

	// Companies
	api.POST("/companies", cfg.CompanyHandler.Onboard)
	company := api.Group("/companies/:companyID")
	{
		company.GET("", cfg.CompanyHandler.Get)
		company.PUT("/profile", cfg.CompanyHandler.UpdateProfile)
		company.DELETE("", cfg.AuthMiddleware.RequireRole(), cfg.CompanyHandler.Delete)
		company.GET("/frameworks", cfg.CompanyHandler.Frameworks)
		company.POST("/frameworks/adopt", cfg.CompanyHandler.AdoptVoluntary)

		company.GET("/sites", cfg.CompanyHandler.ListSites)
		company.POST("/sites", cfg.CompanyHandler.AddSite)

		company.GET("/profiling/questions", cfg.ProfilingHandler.Questions)
		company.POST("/profiling/answers", cfg.ProfilingHandler.SubmitAnswers)

		company.GET("/checklist", cfg.ChecklistHandler.Get)
		company.POST("/checklist/regenerate", cfg.ChecklistHandler.Regenerate)

		company.GET("/tasks", cfg.TaskHandler.List)
		company.GET("/tasks/months", cfg.TaskHandler.AvailableMonths)

		company.GET("/meters", cfg.MeterHandler.List)
		company.POST("/meters",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager, types.RoleMeterManager),
			cfg.MeterHandler.Create)
		company.PATCH("/meters/:meterID",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager, types.RoleMeterManager),
			cfg.MeterHandler.Update)
		company.POST("/meters/:meterID/deactivate",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager, types.RoleMeterManager),
			cfg.MeterHandler.Deactivate)
		company.DELETE("/meters/:meterID",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager, types.RoleMeterManager),
			cfg.MeterHandler.Delete)

		company.PATCH("/submissions/:submissionID", cfg.SubmissionHandler.Update)
		company.POST("/submissions/:submissionID/inactive", cfg.SubmissionHandler.MarkPeriodInactive)
		company.POST("/submissions/:submissionID/assign",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager),
			cfg.SubmissionHandler.Assign)

		company.GET("/assignments", cfg.AssignmentHandler.List)
		company.POST("/assignments",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager),
			cfg.AssignmentHandler.Create)
		company.DELETE("/assignments/:ruleID",
			cfg.AuthMiddleware.RequireRole(types.RoleSiteManager),
			cfg.AssignmentHandler.Delete)

		company.GET("/progress", cfg.ProgressHandler.Get)
		company.GET("/dashboard", cfg.DashboardHandler.Stats)
	}

	return router
}
