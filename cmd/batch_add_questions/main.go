package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"quiz-admin/internal/adapter"
	"quiz-admin/internal/adapter/questiongen"
	"quiz-admin/internal/cache"
	"quiz-admin/internal/config"
	"quiz-admin/internal/database"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/repository"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "JSON file with an array of questions to import")
	topic := flag.String("topic", "", "generate questions about this topic instead of importing a file")
	difficulty := flag.String("difficulty", "medium", "difficulty of generated questions")
	count := flag.Int("count", questiongen.MaxQuestionsPerRequest, "number of questions to generate")
	adminEmail := flag.String("admin", "", "email of the admin recorded as creator (defaults to admin.email)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return
	}
	defer logger.Sync()
	log := logger.Get()

	if (*file == "") == (*topic == "") {
		log.Fatal("Exactly one of -file or -topic is required")
	}
	if *adminEmail == "" {
		*adminEmail = cfg.Admin.Email
	}

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	admin, err := repository.NewSQLXUserRepository(db).GetUserByEmail(ctx, domain.NormalizeEmail(*adminEmail))
	if err != nil {
		log.Fatal("Failed to look up admin", zap.Error(err))
	}
	if admin == nil || !admin.IsAdmin() {
		log.Fatal("Creator must be an existing admin account", zap.String("email", *adminEmail))
	}

	// Imported questions change the analytics totals the API serves from cache.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize Redis Client", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
	} else {
		log.Warn("Redis cache is not configured. Analytics may be stale until their TTL expires.")
	}
	analyticsService := service.NewAnalyticsService(repository.NewSQLXAnalyticsRepository(db), cacheAdapter,
		cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Analytics, 5*time.Minute))

	var generator domain.QuestionGenerator
	if *topic != "" {
		if cfg.LLM.ServerURL == "" {
			log.Fatal("llm.server_url must be configured to generate questions")
		}
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.LLM.ServerURL),
			ollama.WithModel(cfg.LLM.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
		)
		if err != nil {
			log.Fatal("Failed to create LLM client", zap.Error(err))
		}
		generator = questiongen.NewLLMQuestionGenerator(llm)
	}

	questionService := service.NewQuestionService(
		repository.NewSQLXQuestionRepository(db),
		repository.NewSQLXAttemptRepository(db),
		repository.NewTxManager(db),
		generator,
		analyticsService,
		cfg.App.PageSize,
	)

	if *topic != "" {
		resp, err := questionService.GenerateQuestions(ctx, dto.GenerateQuestionsRequest{
			Topic: *topic, DifficultyLevel: *difficulty, Count: *count,
		}, admin.ID)
		if err != nil {
			log.Fatal("Question generation failed", zap.Error(err))
		}
		log.Info("Question generation finished",
			zap.Int("created", len(resp.Created)),
			zap.Int("restored", resp.Restored),
			zap.Int("duplicates", resp.Duplicates),
			zap.Int("invalid", resp.Invalid))
		return
	}

	questions, err := service.LoadQuestionFile(*file)
	if err != nil {
		log.Fatal("Failed to load question file", zap.Error(err))
	}
	batch := service.NewBatchService(questionService, validation.NewValidator(), log)
	if _, err := batch.ImportQuestions(ctx, questions, admin.ID); err != nil {
		log.Fatal("Question import failed", zap.Error(err))
	}
}
