package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/controller"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/service"
	"quizhub_backend/pkg/database"
	"quizhub_backend/pkg/logger"
	"quizhub_backend/pkg/monitoring"
	"quizhub_backend/pkg/security"
	"quizhub_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	quiz          *repository.QuizRepository
	attempt       *repository.AttemptRepository
	quizRole      *repository.QuizRoleRepository
	accessRequest *repository.AccessRequestRepository
	notification  *repository.NotificationRepository
}

type services struct {
	auth          *service.AuthService
	storage       *service.StorageService
	access        *service.AccessService
	quiz          *service.QuizService
	attempt       *service.AttemptService
	report        *service.ReportService
	quizRole      *service.QuizRoleService
	accessRequest *service.AccessRequestService
	notification  *service.NotificationService
}

type controllers struct {
	auth          *controller.AuthController
	quiz          *controller.QuizController
	attempt       *controller.AttemptController
	report        *controller.ReportController
	quizRole      *controller.QuizRoleController
	accessRequest *controller.AccessRequestController
	notification  *controller.NotificationController
	upload        *controller.UploadController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig swaps in a reloaded config and notifies subscribers.
// Listen address and database settings still need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	logger.Log.Info("Configuration reloaded")
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		quiz:          repository.NewQuizRepository(db),
		attempt:       repository.NewAttemptRepository(db),
		quizRole:      repository.NewQuizRoleRepository(db),
		accessRequest: repository.NewAccessRequestRepository(db),
		notification:  repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.access = service.NewAccessService(repos.quizRole)
	s.quiz = service.NewQuizService(repos.quiz, repos.quizRole, cfg, rdb)
	s.attempt = service.NewAttemptService(repos.attempt, repos.quiz, s.access)
	s.report = service.NewReportService(repos.quiz, repos.attempt)
	s.quizRole = service.NewQuizRoleService(repos.quizRole, repos.user)
	s.accessRequest = service.NewAccessRequestService(repos.accessRequest, repos.quizRole, repos.notification)
	s.notification = service.NewNotificationService(repos.notification)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth, repos.user),
		quiz:          controller.NewQuizController(s.quiz, s.access),
		attempt:       controller.NewAttemptController(s.attempt),
		report:        controller.NewReportController(s.report),
		quizRole:      controller.NewQuizRoleController(s.quizRole, s.quiz, s.access),
		accessRequest: controller.NewAccessRequestController(s.accessRequest, s.quiz, s.access),
		notification:  controller.NewNotificationController(s.notification),
		upload:        controller.NewUploadController(s.storage),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
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
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.MigrateOnly {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
		if cfg.MigrateOnly {
			logger.Log.Info("Migration-only mode, exiting")
			os.Exit(0)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quizhub", &cfg.Tracing); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	defer logger.Log.Sync()

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
