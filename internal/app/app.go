package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/config"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/controller"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/repository"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/internal/service"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/database"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/logger"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/monitoring"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/security"
	"github.com/jrcz-data-science-lab/virtual-anatomy-quiz/pkg/tracing"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	results *service.ResultsService
}

type repositories struct {
	quiz       *repository.QuizRepository
	submission *repository.SubmissionRepository
	mesh       *repository.MeshRepository
	organGroup *repository.OrganGroupRepository
}

type services struct {
	storage    *service.StorageService
	results    *service.ResultsService
	quiz       *service.QuizService
	submission *service.SubmissionService
	catalog    *service.CatalogService
}

type controllers struct {
	quiz       *controller.QuizController
	submission *controller.SubmissionController
	catalog    *controller.CatalogController
	results    *controller.ResultsController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		quiz:       repository.NewQuizRepository(db),
		submission: repository.NewSubmissionRepository(db),
		mesh:       repository.NewMeshRepository(db),
		organGroup: repository.NewOrganGroupRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.results = service.NewResultsService(repos.quiz, repos.submission, repos.mesh, repos.organGroup, rdb, cfg.Results.CacheTTL)
	s.quiz = service.NewQuizService(repos.quiz, s.results)
	s.submission = service.NewSubmissionService(repos.submission, repos.quiz, s.results)
	s.catalog = service.NewCatalogService(repos.mesh, repos.organGroup, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		quiz:       controller.NewQuizController(s.quiz),
		submission: controller.NewSubmissionController(s.submission),
		catalog:    controller.NewCatalogController(s.catalog),
		results:    controller.NewResultsController(s.results),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)
	app.results = services.results

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("virtual-anatomy-quiz", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ApplyConfig takes over the settings that are safe to change at runtime.
// Server port, database and middleware wiring keep their boot-time values
// until the next restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Results = cfg.Results
	a.results.CacheTTL = cfg.Results.CacheTTL
	logger.Log.Info("Configuration reloaded",
		zap.Duration("resultsCacheTTL", cfg.Results.CacheTTL))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM with a 5 second grace period.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
