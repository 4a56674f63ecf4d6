package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/util"

	"go.uber.org/zap"
)

const (
	BulkOperationAdd    = "add"
	BulkOperationRemove = "remove"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	ListQuizzes(ctx context.Context) ([]dto.QuizResponse, error)
	CreateQuiz(ctx context.Context, req dto.CreateQuizRequest, adminID string) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
	ToggleStatus(ctx context.Context, id string) (*dto.QuizResponse, error)
	QuizQuestions(ctx context.Context, id string) (*dto.QuizQuestionsResponse, error)
	AddQuestionToQuiz(ctx context.Context, quizID, questionID string) error
	RemoveQuestionFromQuiz(ctx context.Context, quizID, questionID string) error
	BulkUpdateQuestions(ctx context.Context, quizID string, req dto.BulkQuestionsRequest) (*dto.BulkQuestionsResponse, error)
	QuizStats(ctx context.Context, id string) (*dto.QuizStatsResponse, error)
}

// quizService implements QuizService
type quizService struct {
	quizzes   domain.QuizRepository
	questions domain.QuestionRepository
	tx        domain.TransactionManager
	analytics AnalyticsService
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	quizzes domain.QuizRepository,
	questions domain.QuestionRepository,
	tx domain.TransactionManager,
	analytics AnalyticsService,
) QuizService {
	return &quizService{
		quizzes:   quizzes,
		questions: questions,
		tx:        tx,
		analytics: analytics,
	}
}

func toQuizResponse(q *domain.Quiz) dto.QuizResponse {
	return dto.QuizResponse{
		ID:            q.ID,
		QuizName:      q.Name,
		ExamName:      q.ExamName,
		Duration:      q.Duration,
		Status:        string(q.Status),
		QuestionCount: q.QuestionCount,
		CreatedAt:     q.CreatedAt,
	}
}

func (s *quizService) getQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuizByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return quiz, nil
}

func (s *quizService) ListQuizzes(ctx context.Context) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}
	out := make([]dto.QuizResponse, len(quizzes))
	for i := range quizzes {
		out[i] = toQuizResponse(&quizzes[i])
	}
	return out, nil
}

func (s *quizService) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest, adminID string) (*dto.QuizResponse, error) {
	quiz := domain.NewQuiz(req.QuizName, req.ExamName, req.Duration, adminID)
	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to create quiz", err)
	}
	logger.Get().Info("Quiz created", zap.String("quizID", quiz.ID), zap.String("adminID", adminID))
	s.analytics.Invalidate(ctx)

	resp := toQuizResponse(quiz)
	return &resp, nil
}

func (s *quizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toQuizResponse(quiz)
	return &resp, nil
}

func (s *quizService) ToggleStatus(ctx context.Context, id string) (*dto.QuizResponse, error) {
	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	status := quiz.ToggleStatus()
	if err := s.quizzes.UpdateQuizStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, domain.NewInternalError("Failed to update quiz status", err)
	}
	logger.Get().Info("Quiz status changed", zap.String("quizID", id), zap.String("status", string(status)))

	resp := toQuizResponse(quiz)
	return &resp, nil
}

// QuizQuestions lists the questions of a quiz next to the active bank questions that could still be added.
func (s *quizService) QuizQuestions(ctx context.Context, id string) (*dto.QuizQuestionsResponse, error) {
	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	inQuiz, err := s.quizzes.ListQuizQuestions(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz questions", err)
	}
	bank, err := s.questions.ListActiveQuestions(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list questions", err)
	}

	taken := make(map[string]bool, len(inQuiz))
	for _, q := range inQuiz {
		taken[q.ID] = true
	}
	available := make([]domain.Question, 0, len(bank))
	for _, q := range bank {
		if !taken[q.ID] {
			available = append(available, q)
		}
	}

	return &dto.QuizQuestionsResponse{
		Quiz:      toQuizResponse(quiz),
		InQuiz:    toQuestionResponses(inQuiz),
		Available: toQuestionResponses(available),
	}, nil
}

// addable reports whether questionID names an active bank question.
func (s *quizService) addable(ctx context.Context, questionID string) (bool, error) {
	if !util.IsULID(questionID) {
		return false, nil
	}
	q, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		return false, domain.NewInternalError("Failed to get question", err)
	}
	return q != nil && !q.IsDeleted, nil
}

func (s *quizService) quizQuestionSet(ctx context.Context, quizID string) (map[string]bool, error) {
	ids, err := s.quizzes.ListQuizQuestionIDs(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quiz questions", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// AddQuestionToQuiz is a no-op when the question is already part of the quiz.
func (s *quizService) AddQuestionToQuiz(ctx context.Context, quizID, questionID string) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getQuiz(ctx, quizID); err != nil {
			return err
		}
		ok, err := s.addable(ctx, questionID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewQuestionNotFoundError(questionID)
		}
		present, err := s.quizQuestionSet(ctx, quizID)
		if err != nil {
			return err
		}
		if present[questionID] {
			return nil
		}
		if err := s.quizzes.AddQuizQuestion(ctx, quizID, questionID); err != nil {
			return domain.NewInternalError("Failed to add question to quiz", err)
		}
		return nil
	})
}

func (s *quizService) RemoveQuestionFromQuiz(ctx context.Context, quizID, questionID string) error {
	if _, err := s.getQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.quizzes.RemoveQuizQuestion(ctx, quizID, questionID); err != nil {
		return domain.NewInternalError("Failed to remove question from quiz", err)
	}
	return nil
}

// ParseQuestionIDs merges a list of ids with newline separated text. Ids are trimmed,
// empty entries dropped and duplicates removed, keeping first-seen order.
func ParseQuestionIDs(ids []string, text string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(ids))
	add := func(raw string) {
		id := strings.TrimSpace(raw)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range ids {
		add(id)
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		add(line)
	}
	return out
}

func (s *quizService) BulkUpdateQuestions(ctx context.Context, quizID string, req dto.BulkQuestionsRequest) (*dto.BulkQuestionsResponse, error) {
	op := strings.ToLower(strings.TrimSpace(req.Operation))
	if op != BulkOperationAdd && op != BulkOperationRemove {
		return nil, domain.NewValidationError("operation", "must be add or remove")
	}
	ids := ParseQuestionIDs(req.QuestionIDs, req.QuestionIDsText)
	if len(ids) == 0 {
		return nil, domain.NewValidationError("question_ids", "at least one question id is required")
	}

	resp := &dto.BulkQuestionsResponse{Operation: op, Requested: len(ids)}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getQuiz(ctx, quizID); err != nil {
			return err
		}
		present, err := s.quizQuestionSet(ctx, quizID)
		if err != nil {
			return err
		}

		for _, id := range ids {
			switch op {
			case BulkOperationAdd:
				if present[id] {
					resp.Skipped++
					continue
				}
				ok, err := s.addable(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					resp.Skipped++
					continue
				}
				if err := s.quizzes.AddQuizQuestion(ctx, quizID, id); err != nil {
					return domain.NewInternalError("Failed to add question to quiz", err)
				}
				present[id] = true
			case BulkOperationRemove:
				if !present[id] {
					resp.Skipped++
					continue
				}
				if err := s.quizzes.RemoveQuizQuestion(ctx, quizID, id); err != nil {
					return domain.NewInternalError("Failed to remove question from quiz", err)
				}
				delete(present, id)
			}
			resp.Changed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Bulk quiz question update",
		zap.String("quizID", quizID),
		zap.String("operation", op),
		zap.Int("changed", resp.Changed),
		zap.Int("skipped", resp.Skipped))
	return resp, nil
}

func (s *quizService) QuizStats(ctx context.Context, id string) (*dto.QuizStatsResponse, error) {
	if _, err := s.getQuiz(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.quizzes.GetQuizStats(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz stats", err)
	}
	return &dto.QuizStatsResponse{
		QuizID:          stats.QuizID,
		TotalAttempts:   stats.TotalAttempts,
		CorrectAttempts: stats.CorrectAttempts,
		SuccessRate:     stats.SuccessRate,
	}, nil
}
