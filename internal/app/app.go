package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"quiz_rating_backend/internal/config"
	"quiz_rating_backend/internal/controller"
	"quiz_rating_backend/internal/middleware"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/pkg/configwatcher"
	"quiz_rating_backend/pkg/database"
	"quiz_rating_backend/pkg/logger"
	"quiz_rating_backend/pkg/monitoring"
	"quiz_rating_backend/pkg/security"
	"quiz_rating_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	item   *repository.ItemRepository
	answer *repository.AnswerRepository
	rating *repository.RatingRepository
	user   *repository.UserRepository
	admin  *repository.AdminRepository
	token  *repository.TokenRepository
}

type services struct {
	auth      *service.AuthService
	item      *service.ItemService
	answer    *service.AnswerService
	selection *service.SelectionService
	rating    *service.RatingService
	user      *service.UserService
	admin     *service.AdminService
}

type controllers struct {
	auth   *controller.AuthController
	item   *controller.ItemController
	test   *controller.TestController
	rating *controller.RatingController
	user   *controller.UserController
	admin  *controller.AdminController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		item:   repository.NewItemRepository(db),
		answer: repository.NewAnswerRepository(db),
		rating: repository.NewRatingRepository(db),
		user:   repository.NewUserRepository(db),
		admin:  repository.NewAdminRepository(db),
	}
	if rdb != nil {
		repos.token = repository.NewTokenRepository(rdb)
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	var tokens service.TokenStore
	if repos.token != nil {
		tokens = repos.token
	}
	s.auth = service.NewAuthService(repos.user, repos.admin, tokens, cfg)

	s.item = service.NewItemService(repos.item, db)
	s.answer = service.NewAnswerService(repos.item, repos.answer, db)
	s.selection = service.NewSelectionService(repos.item)
	s.rating = service.NewRatingService(repos.answer, repos.rating, repos.user, db)
	s.user = service.NewUserService(repos.user, repos.answer, repos.rating, s.auth.Hasher, db)
	s.admin = service.NewAdminService(repos.admin, s.auth.Hasher)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:   controller.NewAuthController(s.auth),
		item:   controller.NewItemController(s.item),
		test:   controller.NewTestController(s.selection),
		rating: controller.NewRatingController(s.answer, s.rating),
		user:   controller.NewUserController(s.user),
		admin:  controller.NewAdminController(s.admin),
		health: controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 基于已建立的连接组装路由，rdb 为 nil 时注销不生效
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	app.services = app.initServices(repos, cfg, db)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	// 日志级别随配置热更新，其余配置需重启生效
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})

	return app
}

// NewApp 初始化日志、数据库、Redis 与追踪后组装应用
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Error("Failed to initialize redis", zap.Error(err))
			return nil, err
		}
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
		app.tracer = tp
	}

	return app, nil
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopWatch := make(chan struct{})
	if a.Config.ConfigDir != "" {
		go func() {
			err := configwatcher.WatchConfig(a.Config.ConfigDir, func(newCfg *config.Config) {
				for _, cb := range a.configCallbacks {
					cb(newCfg)
				}
			}, stopWatch)
			if err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		close(stopWatch)
		return err
	}
	logger.Log.Info("Shutting down server...")
	close(stopWatch)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放追踪、Redis 与数据库连接
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = logger.Log.Sync()
}
