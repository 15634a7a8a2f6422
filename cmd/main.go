package main

import (
	"context"
	"fmt"
	"os"

	redisclient "github.com/greenpoint-esg/esg-backend/internal/clients/redis"
	"github.com/greenpoint-esg/esg-backend/internal/db"
	"github.com/greenpoint-esg/esg-backend/internal/handlers"
	"github.com/greenpoint-esg/esg-backend/internal/logger"
	"github.com/greenpoint-esg/esg-backend/internal/middleware"
	"github.com/greenpoint-esg/esg-backend/internal/repos"
	"github.com/greenpoint-esg/esg-backend/internal/server"
	"github.com/greenpoint-esg/esg-backend/internal/services"
	"github.com/greenpoint-esg/esg-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional)
	cache := redisclient.NewClient(log)
	defer cache.Close()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	companyRepo := repos.NewCompanyRepo(thePG, log)
	siteRepo := repos.NewSiteRepo(thePG, log)
	frameworkRepo := repos.NewFrameworkRepo(thePG, log)
	elementRepo := repos.NewDataElementRepo(thePG, log)
	questionRepo := repos.NewProfilingQuestionRepo(thePG, log)
	answerRepo := repos.NewProfileAnswerRepo(thePG, log)
	checklistRepo := repos.NewChecklistRepo(thePG, log)
	meterRepo := repos.NewMeterRepo(thePG, log)
	submissionRepo := repos.NewSubmissionRepo(thePG, log)
	assignmentRepo := repos.NewAssignmentRuleRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo)
	frameworkService := services.NewFrameworkService(thePG, log, companyRepo, frameworkRepo)
	catalogService := services.NewCatalogService(thePG, log, frameworkService, frameworkRepo, elementRepo, questionRepo)
	profilingService := services.NewProfilingService(thePG, log, catalogService, questionRepo, answerRepo)
	checklistService := services.NewChecklistService(thePG, log, frameworkService, catalogService, frameworkRepo, elementRepo, questionRepo, answerRepo, checklistRepo)
	companyService := services.NewCompanyService(thePG, log, frameworkService, checklistService, companyRepo, siteRepo)
	taskService := services.NewTaskService(thePG, log, checklistRepo, elementRepo, meterRepo, submissionRepo, assignmentRepo)
	meterService := services.NewMeterService(thePG, log, meterRepo, submissionRepo)
	submissionService := services.NewSubmissionService(thePG, log, submissionRepo, userRepo)
	assignmentService := services.NewAssignmentService(thePG, log, assignmentRepo, userRepo)
	progressService := services.NewProgressService(thePG, log, taskService, checklistRepo, elementRepo, meterRepo, submissionRepo)
	dashboardService := services.NewDashboardService(thePG, log, cache, progressService, checklistRepo, meterRepo)

	// Catalog seed
	catalogPath := utils.GetEnv("CATALOG_PATH", "catalog/esg_catalog.yaml", log)
	if catalogPath != "" {
		if err := catalogService.ImportCatalog(context.Background(), catalogPath); err != nil {
			log.Warn("Catalog import failed", "path", catalogPath, "error", err)
		}
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	companyHandler := handlers.NewCompanyHandler(companyService, frameworkService)
	profilingHandler := handlers.NewProfilingHandler(companyService, profilingService, checklistService)
	checklistHandler := handlers.NewChecklistHandler(companyService, checklistService)
	taskHandler := handlers.NewTaskHandler(companyService, taskService)
	meterHandler := handlers.NewMeterHandler(companyService, meterService)
	submissionHandler := handlers.NewSubmissionHandler(companyService, submissionService)
	assignmentHandler := handlers.NewAssignmentHandler(companyService, assignmentService)
	progressHandler := handlers.NewProgressHandler(companyService, progressService)
	dashboardHandler := handlers.NewDashboardHandler(companyService, dashboardService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		CompanyHandler:    companyHandler,
		ProfilingHandler:  profilingHandler,
		ChecklistHandler:  checklistHandler,
		TaskHandler:       taskHandler,
		MeterHandler:      meterHandler,
		SubmissionHandler: submissionHandler,
		AssignmentHandler: assignmentHandler,
		ProgressHandler:   progressHandler,
		DashboardHandler:  dashboardHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
