package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"quiz-admin/cmd/seed_initial_data/internal/seedmodels"
	"quiz-admin/internal/config"
	"quiz-admin/internal/database"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/repository"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/initial_questions.json"

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// noopAnalytics stands in for the analytics service; the seeder runs without a cache to invalidate.
type noopAnalytics struct{}

func (noopAnalytics) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	return &dto.AnalyticsResponse{}, nil
}

func (noopAnalytics) Invalidate(ctx context.Context) {}

func main() {
	seedFile := flag.String("file", defaultSeedFile, "seed data file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Fatal("admin.email and admin.password must be configured to seed data")
	}

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.DB, cfg.DB.Driver, database.Up); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	log.Info("Loading seed data from file", zap.String("path", *seedFile))
	raw, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	var seed seedmodels.SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Seed data loaded", zap.Int("questions", len(seed.Questions)), zap.Int("quizzes", len(seed.Quizzes)))

	questionRepo := repository.NewSQLXQuestionRepository(db)
	quizRepo := repository.NewSQLXQuizRepository(db)
	txManager := repository.NewTxManager(db)

	userService := service.NewUserService(repository.NewSQLXUserRepository(db), nil)
	questionService := service.NewQuestionService(questionRepo,
		repository.NewSQLXAttemptRepository(db), txManager, nil, noopAnalytics{}, cfg.App.PageSize)
	quizService := service.NewQuizService(quizRepo, questionRepo, txManager, noopAnalytics{})
	batchService := service.NewBatchService(questionService, validation.NewValidator(), log)

	admin, err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		log.Fatal("Failed to ensure admin account", zap.Error(err))
	}
	log.Info("Admin account ready", zap.String("email", admin.Email))

	if _, err := batchService.ImportQuestions(ctx, seed.Questions, admin.ID); err != nil {
		log.Fatal("Failed to import bank questions", zap.Error(err))
	}

	existing, err := quizService.ListQuizzes(ctx)
	if err != nil {
		log.Fatal("Failed to list quizzes", zap.Error(err))
	}
	for _, sq := range seed.Quizzes {
		if err := seedQuiz(ctx, log, quizService, questionService, existing, sq, admin.ID); err != nil {
			log.Error("Error seeding quiz", zap.String("quiz", sq.QuizName), zap.Error(err))
		}
	}
	log.Info("Initial data seeding process completed.")
}

func seedQuiz(
	ctx context.Context,
	log *zap.Logger,
	quizzes service.QuizService,
	questions service.QuestionService,
	existing []dto.QuizResponse,
	sq seedmodels.SeedQuiz,
	adminID string,
) error {
	var quizID string
	for _, q := range existing {
		if strings.EqualFold(q.QuizName, sq.QuizName) && strings.EqualFold(q.ExamName, sq.ExamName) {
			quizID = q.ID
			log.Info("Quiz exists", zap.String("id", q.ID), zap.String("name", q.QuizName))
			break
		}
	}
	if quizID == "" {
		created, err := quizzes.CreateQuiz(ctx, dto.CreateQuizRequest{QuizName: sq.QuizName, ExamName: sq.ExamName, Duration: sq.Duration}, adminID)
		if err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		quizID = created.ID
		log.Info("Created quiz", zap.String("id", quizID), zap.String("name", sq.QuizName))
	}

	for _, req := range sq.Questions {
		questionID, err := bankQuestionID(ctx, questions, req, adminID)
		if err != nil {
			return fmt.Errorf("question '%s': %w", firstN(req.QuestionText, 50), err)
		}
		if questionID == "" {
			log.Warn("Seed question has no usable bank entry", zap.String("question_preview", firstN(req.QuestionText, 20)))
			continue
		}
		if err := quizzes.AddQuestionToQuiz(ctx, quizID, questionID); err != nil {
			return fmt.Errorf("failed to link question %s: %w", questionID, err)
		}
	}
	return nil
}

// bankQuestionID adds req to the bank, or returns the id of the active duplicate already there.
func bankQuestionID(ctx context.Context, questions service.QuestionService, req dto.QuestionRequest, adminID string) (string, error) {
	resp, err := questions.AddQuestion(ctx, req, adminID)
	if err == nil {
		return resp.ID, nil
	}
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.CodeQuestionExists {
		return "", err
	}
	id, _ := domainErr.Context["question_id"].(string)
	return id, nil
}
