// @title Quiz Admin API
// @version 1.0
// @description Question bank, quiz assignment and quiz taking API.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-admin/cmd/api/docs"
	"quiz-admin/internal/adapter"
	"quiz-admin/internal/adapter/mailer"
	"quiz-admin/internal/adapter/questiongen"
	"quiz-admin/internal/cache"
	"quiz-admin/internal/config"
	"quiz-admin/internal/database"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/handler"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/middleware"
	"quiz-admin/internal/repository"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err), zap.String("driver", cfg.DB.Driver))
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db.DB, cfg.DB.Driver, database.Up); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	userRepository := repository.NewSQLXUserRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	assignmentRepository := repository.NewSQLXAssignmentRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	analyticsRepository := repository.NewSQLXAnalyticsRepository(db)
	txManager := repository.NewTxManager(db)

	// Without redis, analytics are computed per request and logout cannot revoke tokens.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	} else {
		appLogger.Warn("Redis address not configured, running without cache")
	}

	var generator domain.QuestionGenerator
	if cfg.LLM.ServerURL != "" {
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.LLM.ServerURL),
			ollama.WithModel(cfg.LLM.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
		)
		if err != nil {
			appLogger.Fatal("Failed to create LLM client", zap.Error(err))
		}
		generator = questiongen.NewLLMQuestionGenerator(llm)
		appLogger.Info("Question generator enabled", zap.String("server_url", cfg.LLM.ServerURL), zap.String("model", cfg.LLM.Model))
	}

	mail := mailer.New(cfg.Email, cfg.App.Name)

	analyticsService := service.NewAnalyticsService(analyticsRepository, cacheAdapter,
		cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Analytics, 5*time.Minute))
	authService, err := service.NewAuthService(userRepository, cacheAdapter, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository, assignmentRepository)
	questionService := service.NewQuestionService(questionRepository, attemptRepository, txManager, generator, analyticsService, cfg.App.PageSize)
	quizService := service.NewQuizService(quizRepository, questionRepository, txManager, analyticsService)
	assignmentService := service.NewAssignmentService(assignmentRepository, quizRepository, txManager, mail,
		service.NotificationConfig{AppName: cfg.App.Name, AppBaseURL: cfg.Email.AppBaseURL})
	takingService := service.NewQuizTakingService(assignmentRepository, questionRepository, attemptRepository, txManager)
	resultService := service.NewResultService(attemptRepository, quizRepository, cfg.App.PageSize)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			appLogger.Fatal("Failed to ensure admin account", zap.Error(err))
		}
		cancel()
	}

	validator := validation.NewValidator()
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, validator),
		User:       handler.NewUserHandler(userService),
		Question:   handler.NewQuestionHandler(questionService, validator),
		Quiz:       handler.NewQuizHandler(quizService, validator),
		Assignment: handler.NewAssignmentHandler(assignmentService, validator),
		Taking:     handler.NewTakingHandler(takingService, validator),
		Result:     handler.NewResultHandler(resultService, analyticsService),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization," + middleware.RequestIDHeader,
		ExposeHeaders: fiber.HeaderContentDisposition + "," + middleware.RequestIDHeader,
		MaxAge:        300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return domain.NewInternalError("Database unreachable", err)
		}
		return c.SendString("ok")
	})

	handler.RegisterRoutes(app.Group("/api"), handlers, authService, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
