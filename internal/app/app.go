package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/controller"
	"skill_extractor_backend/internal/llm"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/service"
	"skill_extractor_backend/pkg/configwatcher"
	"skill_extractor_backend/pkg/database"
	"skill_extractor_backend/pkg/logger"
	"skill_extractor_backend/pkg/monitoring"
	"skill_extractor_backend/pkg/security"
	"skill_extractor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	configReloadDebounce = 500 * time.Millisecond
	shutdownTimeout      = 5 * time.Second
)

type App struct {
	Config    *config.Config
	ConfigDir string
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	LLM       llm.Provider

	services        *services
	tracer          *sdktrace.TracerProvider
	stopBackground  context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user           *repository.UserRepository
	project        *repository.ProjectRepository
	skill          *repository.SkillRepository
	quizResult     *repository.QuizResultRepository
	quizGeneration *repository.QuizGenerationRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	analysis *service.SkillAnalysisService
	project  *service.ProjectService
	quiz     *service.QuizService
	cache    *service.RedisAnalysisCache
}

type controllers struct {
	auth    *controller.AuthController
	project *controller.ProjectController
	skill   *controller.SkillController
	quiz    *controller.QuizController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		project:        repository.NewProjectRepository(db),
		skill:          repository.NewSkillRepository(db),
		quizResult:     repository.NewQuizResultRepository(db),
		quizGeneration: repository.NewQuizGenerationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, provider llm.Provider) *services {
	s := &services{}
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)

	// 缓存为可选项：未启用 Redis 时分析结果不缓存
	var cache service.AnalysisCache
	if a.Redis != nil && cfg.Cache.Enabled {
		s.cache = service.NewRedisAnalysisCache(a.Redis, cfg.Redis.KeyPrefix)
		cache = s.cache
	}
	s.analysis = service.NewSkillAnalysisService(repos.skill, provider, cache, cfg)
	s.project = service.NewProjectService(db, repos.project, repos.skill, s.analysis, s.storage, cfg)
	s.quiz = service.NewQuizService(db, repos.skill, repos.quizResult, repos.quizGeneration, provider, cfg)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	// nil 接口值需显式处理，避免 typed-nil
	var pinger controller.Pinger
	if s.cache != nil {
		pinger = s.cache
	}
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		project: controller.NewProjectController(s.project),
		skill:   controller.NewSkillController(s.analysis),
		quiz:    controller.NewQuizController(s.quiz),
		health:  controller.NewHealthController(db, pinger, a.LLM.ModelID()),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	bg, cancel := context.WithCancel(context.Background())
	a.stopBackground = cancel
	router.Use(security.RateLimiter(bg, cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		"/api/health", "/metrics"))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}
	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects the stores, builds the text-generation collaborator and
// wires every layer. With cfg.MigrateOnly set it returns right after the
// migration and the App has no router.
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	if err := logger.InitLogger(&cfg.Log, cfg.Server.Mode); err != nil {
		return nil, err
	}
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		return nil, err
	}

	// release 模式下默认跳过迁移，除非显式指定 --migrate
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			// 缓存不可用不影响主流程
			logger.Log.Warn("Redis unavailable, analysis cache disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	provider, err := llm.NewProvider(context.Background(), cfg.AI)
	if err != nil {
		return nil, err
	}
	app.LLM = provider

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, provider)
	controllers := app.initControllers(app.services, db)

	if err := app.services.auth.SeedAdmin(context.Background()); err != nil {
		logger.Log.Error("Failed to seed admin user", zap.Error(err))
	}

	app.RegisterConfigCallback(app.services.project.ApplyConfig)
	app.RegisterConfigCallback(app.services.quiz.ApplyConfig)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skill-extractor", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Upload.MaxSizeMB << 20
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

// Run serves HTTP until SIGINT or SIGTERM, reloading the hot settings
// whenever the config file changes.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configFile := filepath.Join(a.ConfigDir, "config.yaml")
	if _, err := os.Stat(configFile); err == nil {
		if err := configwatcher.Watch(ctx, configFile, configReloadDebounce, config.LoadConfig, a.applyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
	return err
}

// Close releases the tracer, Redis and database connections.
func (a *App) Close(ctx context.Context) {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Sync()
}
