package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simco_backend/internal/config"
	"simco_backend/internal/controller"
	"simco_backend/internal/repository"
	"simco_backend/internal/service"
	"simco_backend/pkg/database"
	"simco_backend/pkg/logger"
	"simco_backend/pkg/monitoring"
	"simco_backend/pkg/security"
	"simco_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider
}

type services struct {
	storage   *service.StorageService
	ollama    *service.OllamaService
	predictor *service.PredictorService
	behavior  *service.BehaviorService
	collector *service.CollectorService
	quiz      *service.QuizService
}

type controllers struct {
	quiz     *controller.QuizController
	training *controller.TrainingController
	health   *controller.HealthController
}

// initSessionStore 根据配置选择会话存储后端，
// redis不可用时直接失败而不是静默降级到内存
func (a *App) initSessionStore(cfg *config.Config) repository.SessionStore {
	if cfg.Session.Store == "redis" {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		a.Redis = rdb
		return repository.NewRedisSessionStore(rdb, cfg.Session.TTL)
	}
	return repository.NewMemorySessionStore()
}

func (a *App) initServices(cfg *config.Config, sessionRepo *repository.SessionRepository, trainingRepo *repository.TrainingRepository) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.ollama = service.NewOllamaService(cfg.Ollama)
	s.predictor = service.NewPredictorService(cfg.Predictor)
	s.behavior = service.NewBehaviorService(s.predictor)
	s.collector = service.NewCollectorService(trainingRepo, s.storage, cfg.Training.DataPath)
	s.quiz = service.NewQuizService(sessionRepo, s.ollama, s.behavior, s.collector, cfg.Training.AutoCollect)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		quiz:     controller.NewQuizController(s.quiz, cfg.Quiz.DefaultLength),
		training: controller.NewTrainingController(s.collector),
		health:   controller.NewHealthController(s.predictor, cfg.Ollama.Model),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ReloadConfig 配置热更新回调，只有生成模型的配置支持在线切换
func (a *App) ReloadConfig(cfg *config.Config) {
	a.services.ollama.UpdateConfig(cfg.Ollama)
	logger.Log.Info("Config reloaded",
		zap.String("ollama_base_url", cfg.Ollama.BaseURL),
		zap.String("ollama_model", cfg.Ollama.Model))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	store := app.initSessionStore(cfg)
	sessionRepo := repository.NewSessionRepository(store)
	trainingRepo := repository.NewTrainingRepository(db)

	services := app.initServices(cfg, sessionRepo, trainingRepo)
	app.services = services
	controllers := app.initControllers(services, cfg)

	// 启动时探测行为预测服务，不可用只降级不报错
	if services.predictor.Available() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := services.predictor.Ping(ctx); err != nil {
			logger.Log.Warn("Behavioral predictor unreachable, rule-based analysis will be used", zap.Error(err))
		} else {
			logger.Log.Info("Behavioral predictor available", zap.String("base_url", cfg.Predictor.BaseURL))
		}
		cancel()
	}

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("simco-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	logger.Log.Sync()

	log.Println("Server exiting")
}
