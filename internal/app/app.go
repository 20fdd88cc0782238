package app

import (
	"context"
	"exam_hub_backend/internal/config"
	"exam_hub_backend/internal/controller"
	"exam_hub_backend/internal/repository"
	"exam_hub_backend/internal/service"
	"exam_hub_backend/pkg/database"
	"exam_hub_backend/pkg/logger"
	"exam_hub_backend/pkg/monitoring"
	"exam_hub_backend/pkg/security"
	"exam_hub_backend/pkg/tracing"
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
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

// ApplyConfig picks up the reloadable subset of a freshly read config.
// Connection settings and the server port stay fixed for the process
// lifetime.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.services.statistics.CacheTTL = time.Duration(cfg.Exam.StatsCacheTTLSeconds) * time.Second
	logger.Log.Info("Config reloaded",
		zap.Int("statsCacheTTLSeconds", cfg.Exam.StatsCacheTTLSeconds))
}

type repositories struct {
	user       *repository.UserRepository
	exam       *repository.ExamRepository
	question   *repository.QuestionRepository
	assignment *repository.AssignmentRepository
	result     *repository.ResultRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	exam       *service.ExamService
	assignment *service.AssignmentService
	submission *service.SubmissionService
	result     *service.ResultService
	statistics *service.StatisticsService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	exam       *controller.ExamController
	question   *controller.QuestionController
	assignment *controller.AssignmentController
	result     *controller.ResultController
	statistics *controller.StatisticsController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		exam:       repository.NewExamRepository(db),
		question:   repository.NewQuestionRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		result:     repository.NewResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	policy := service.NewAccessPolicy()

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.statistics = service.NewStatisticsService(
		repos.result,
		repos.exam,
		repos.question,
		policy,
		rdb,
		time.Duration(cfg.Exam.StatsCacheTTLSeconds)*time.Second,
	)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.exam, repos.user, policy)
	s.exam = service.NewExamService(repos.exam, repos.question, s.assignment, policy, s.statistics)
	s.submission = service.NewSubmissionService(repos.exam, repos.question, repos.assignment, repos.result, s.statistics, db)
	s.result = service.NewResultService(repos.result, repos.exam, repos.question, policy, s.statistics)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		exam:       controller.NewExamController(s.exam),
		question:   controller.NewQuestionController(s.exam),
		assignment: controller.NewAssignmentController(s.assignment),
		result:     controller.NewResultController(s.submission, s.result),
		statistics: controller.NewStatisticsController(s.statistics),
		health:     controller.NewHealthController(db, rdb),
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
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// InitDB already ran the migrations.
	if cfg.MigrateOnly {
		logger.Log.Info("Database migration completed, exiting")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Statistics fall back to recomputing on every request without the cache.
		logger.Log.Warn("Redis unavailable, statistics caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("exam-hub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		go func() {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Info("Server exiting")
}
