package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/util"

	"go.uber.org/zap"
)

const DefaultPageSize = 10

// QuestionService manages the question bank.
type QuestionService interface {
	ListQuestions(ctx context.Context, search, difficulty string, page int) (*dto.QuestionListResponse, error)
	// AddQuestion inserts a question unless a duplicate exists. A soft-deleted duplicate is restored instead.
	AddQuestion(ctx context.Context, req dto.QuestionRequest, createdBy string) (*dto.QuestionResponse, error)
	GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id string, hard bool) error
	QuestionHistory(ctx context.Context, id string) (*dto.QuestionHistoryResponse, error)
	GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsRequest, createdBy string) (*dto.GenerateQuestionsResponse, error)
}

type questionService struct {
	questions domain.QuestionRepository
	attempts  domain.AttemptRepository
	tx        domain.TransactionManager
	generator domain.QuestionGenerator
	analytics AnalyticsService
	pageSize  int
}

// NewQuestionService creates the service. generator may be nil when no LLM is configured.
func NewQuestionService(
	questions domain.QuestionRepository,
	attempts domain.AttemptRepository,
	tx domain.TransactionManager,
	generator domain.QuestionGenerator,
	analytics AnalyticsService,
	pageSize int,
) QuestionService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &questionService{
		questions: questions,
		attempts:  attempts,
		tx:        tx,
		generator: generator,
		analytics: analytics,
		pageSize:  pageSize,
	}
}

func toQuestionResponse(q *domain.Question) dto.QuestionResponse {
	answers := make([]dto.AnswerResponse, len(q.Answers))
	for i, a := range q.Answers {
		answers[i] = dto.AnswerResponse{ID: a.ID, Text: a.Text, IsCorrect: a.IsCorrect}
	}
	return dto.QuestionResponse{
		ID:              q.ID,
		QuestionText:    q.Text,
		DifficultyLevel: string(q.Difficulty),
		TotalAttempts:   q.TotalAttempts,
		CorrectAttempts: q.CorrectAttempts,
		SuccessRate:     q.SuccessRate(),
		Answers:         answers,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func toQuestionResponses(questions []domain.Question) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		out[i] = toQuestionResponse(&questions[i])
	}
	return out
}

func answersFromInput(inputs []dto.AnswerInput) []domain.Answer {
	answers := make([]domain.Answer, len(inputs))
	for i, in := range inputs {
		answers[i] = domain.Answer{ID: in.ID, Text: in.Text, IsCorrect: in.IsCorrect}
	}
	return answers
}

// parseDifficultyFilter accepts "", "all" or a level.
func parseDifficultyFilter(raw string) (domain.Difficulty, error) {
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", nil
	}
	d, ok := domain.ParseDifficulty(raw)
	if !ok {
		return "", domain.NewValidationError("difficulty", "must be one of all, easy, medium, tough")
	}
	return d, nil
}

func (s *questionService) ListQuestions(ctx context.Context, search, difficulty string, page int) (*dto.QuestionListResponse, error) {
	level, err := parseDifficultyFilter(difficulty)
	if err != nil {
		return nil, err
	}
	p := domain.NewPage(page, s.pageSize)
	filter := domain.QuestionFilter{Search: strings.TrimSpace(search), Difficulty: level}

	questions, total, err := s.questions.ListQuestions(ctx, filter, p)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list questions", err)
	}
	return &dto.QuestionListResponse{
		Questions: toQuestionResponses(questions),
		PaginationInfo: dto.PaginationInfo{
			TotalItems:  total,
			PageSize:    p.Size,
			CurrentPage: p.Number,
			TotalPages:  util.TotalPages(total, p.Size),
		},
	}, nil
}

func (s *questionService) AddQuestion(ctx context.Context, req dto.QuestionRequest, createdBy string) (*dto.QuestionResponse, error) {
	difficulty, _ := domain.ParseDifficulty(req.DifficultyLevel)
	candidate := domain.NewQuestion(req.QuestionText, difficulty, answersFromInput(req.Answers), createdBy)
	for i := range candidate.Answers {
		candidate.Answers[i].ID = ""
	}

	q, restored, err := s.addQuestion(ctx, candidate)
	if err != nil {
		return nil, err
	}
	s.analytics.Invalidate(ctx)

	resp := toQuestionResponse(q)
	resp.Restored = restored
	return &resp, nil
}

// addQuestion runs duplicate detection and the insert in one transaction.
func (s *questionService) addQuestion(ctx context.Context, candidate *domain.Question) (*domain.Question, bool, error) {
	if err := candidate.Validate(); err != nil {
		return nil, false, err
	}

	var (
		result   *domain.Question
		restored bool
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.questions.FindByText(ctx, candidate.Text)
		if err != nil {
			return domain.NewInternalError("Failed to check for duplicate questions", err)
		}
		for i := range existing {
			dup := &existing[i]
			if !candidate.IsDuplicateOf(dup) {
				continue
			}
			if !dup.IsDeleted {
				return domain.NewQuestionExistsError().WithContext("question_id", dup.ID)
			}
			if err := s.questions.SetDeleted(ctx, dup.ID, false); err != nil {
				return domain.NewInternalError("Failed to restore question", err)
			}
			dup.IsDeleted = false
			result, restored = dup, true
			return nil
		}

		if err := s.questions.CreateQuestion(ctx, candidate); err != nil {
			return domain.NewInternalError("Failed to create question", err)
		}
		result = candidate
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if restored {
		logger.Get().Info("Restored soft-deleted duplicate question", zap.String("questionID", result.ID))
	} else {
		logger.Get().Info("Question created", zap.String("questionID", result.ID), zap.String("difficulty", string(result.Difficulty)))
	}
	return result, restored, nil
}

func (s *questionService) getQuestion(ctx context.Context, id string) (*domain.Question, error) {
	q, err := s.questions.GetQuestionByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get question", err)
	}
	if q == nil {
		return nil, domain.NewQuestionNotFoundError(id)
	}
	return q, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	q, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

// UpdateQuestion replaces text, difficulty and answers. Answers with an id are edited,
// answers without one are added and answers left out of the request are removed.
func (s *questionService) UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	var updated *domain.Question
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.getQuestion(ctx, id)
		if err != nil {
			return err
		}

		known := make(map[string]bool, len(current.Answers))
		for _, a := range current.Answers {
			known[a.ID] = true
		}

		difficulty, _ := domain.ParseDifficulty(req.DifficultyLevel)
		next := domain.NewQuestion(req.QuestionText, difficulty, answersFromInput(req.Answers), current.CreatedBy)
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.IsDeleted = current.IsDeleted
		next.TotalAttempts = current.TotalAttempts
		next.CorrectAttempts = current.CorrectAttempts

		kept := make(map[string]bool, len(next.Answers))
		for i := range next.Answers {
			a := &next.Answers[i]
			a.QuestionID = current.ID
			if a.ID == "" {
				continue
			}
			if !known[a.ID] {
				return domain.NewValidationError(fmt.Sprintf("answers[%d].id", i), "answer does not belong to this question")
			}
			kept[a.ID] = true
		}
		if err := next.Validate(); err != nil {
			return err
		}

		if err := s.questions.UpdateQuestion(ctx, next); err != nil {
			return domain.NewInternalError("Failed to update question", err)
		}
		for i := range next.Answers {
			a := &next.Answers[i]
			if a.ID == "" {
				err = s.questions.CreateAnswer(ctx, a)
			} else {
				err = s.questions.UpdateAnswer(ctx, a)
			}
			if err != nil {
				return domain.NewInternalError("Failed to save answer", err)
			}
		}
		for _, a := range current.Answers {
			if kept[a.ID] {
				continue
			}
			if err := s.questions.DeleteAnswer(ctx, a.ID); err != nil {
				return domain.NewInternalError("Failed to delete answer", err)
			}
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.analytics.Invalidate(ctx)
	resp := toQuestionResponse(updated)
	return &resp, nil
}

// DeleteQuestion soft deletes by default. A hard delete removes the question together with its answers,
// quiz links, progress rows and attempts.
func (s *questionService) DeleteQuestion(ctx context.Context, id string, hard bool) error {
	var err error
	if hard {
		err = s.questions.DeleteQuestion(ctx, id)
	} else {
		err = s.questions.SetDeleted(ctx, id, true)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewQuestionNotFoundError(id)
	}
	if err != nil {
		return domain.NewInternalError("Failed to delete question", err)
	}

	logger.Get().Info("Question deleted", zap.String("questionID", id), zap.Bool("hard", hard))
	s.analytics.Invalidate(ctx)
	return nil
}

func (s *questionService) QuestionHistory(ctx context.Context, id string) (*dto.QuestionHistoryResponse, error) {
	q, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListAttemptsByQuestion(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load question history", err)
	}

	items := make([]dto.QuestionHistoryItem, len(attempts))
	for i, a := range attempts {
		items[i] = dto.QuestionHistoryItem{
			AttemptID:   a.ID,
			UserEmail:   a.UserEmail,
			QuizName:    a.QuizName,
			ExamName:    a.ExamName,
			IsCorrect:   a.IsCorrect,
			AttemptedAt: a.AttemptedAt,
		}
	}
	return &dto.QuestionHistoryResponse{Question: toQuestionResponse(q), Attempts: items}, nil
}

// GenerateQuestions asks the LLM for drafts and files each one through the same duplicate detection as AddQuestion.
func (s *questionService) GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsRequest, createdBy string) (*dto.GenerateQuestionsResponse, error) {
	if s.generator == nil {
		return nil, domain.NewLLMServiceError(errors.New("question generator is not configured"))
	}
	difficulty, ok := domain.ParseDifficulty(req.DifficultyLevel)
	if !ok {
		return nil, domain.NewValidationError("difficulty_level", "must be one of easy, medium, tough")
	}

	drafts, err := s.generator.GenerateQuestions(ctx, strings.TrimSpace(req.Topic), difficulty, req.Count)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewLLMServiceError(err)
	}

	resp := &dto.GenerateQuestionsResponse{Created: []dto.QuestionResponse{}}
	for _, draft := range drafts {
		candidate := domain.NewQuestion(draft.Text, draft.Difficulty, draft.Answers, createdBy)
		q, restored, err := s.addQuestion(ctx, candidate)
		var verrs domain.ValidationErrors
		switch {
		case domain.HasCode(err, domain.CodeQuestionExists):
			resp.Duplicates++
		case errors.As(err, &verrs):
			logger.Get().Debug("Discarding invalid generated question", zap.String("question", draft.Text), zap.Error(err))
			resp.Invalid++
		case err != nil:
			return nil, err
		case restored:
			resp.Restored++
		default:
			resp.Created = append(resp.Created, toQuestionResponse(q))
		}
	}

	logger.Get().Info("Generated questions filed",
		zap.String("topic", req.Topic),
		zap.Int("created", len(resp.Created)),
		zap.Int("restored", resp.Restored),
		zap.Int("duplicates", resp.Duplicates),
		zap.Int("invalid", resp.Invalid))
	if len(resp.Created) > 0 || resp.Restored > 0 {
		s.analytics.Invalidate(ctx)
	}
	return resp, nil
}
