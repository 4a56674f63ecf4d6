package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/validation"

	"go.uber.org/zap"
)

// BatchImportResult counts what happened to each question of an import.
type BatchImportResult struct {
	Created    int
	Restored   int
	Duplicates int
	Invalid    int
}

// BatchService files many questions at once through the same rules as AddQuestion.
type BatchService interface {
	ImportQuestions(ctx context.Context, questions []dto.QuestionRequest, createdBy string) (*BatchImportResult, error)
}

type batchService struct {
	questions QuestionService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewBatchService creates a new instance of batchService.
func NewBatchService(questions QuestionService, validator *validation.Validator, logger *zap.Logger) BatchService {
	return &batchService{questions: questions, validator: validator, logger: logger}
}

// ImportQuestions keeps going past duplicates and invalid entries. Any other error aborts the import.
func (s *batchService) ImportQuestions(ctx context.Context, questions []dto.QuestionRequest, createdBy string) (*BatchImportResult, error) {
	s.logger.Info("Starting question import", zap.Int("count", len(questions)))
	result := &BatchImportResult{}

	for i, req := range questions {
		if err := s.validator.Struct(req); err != nil {
			s.logger.Warn("Skipping invalid question", zap.Int("index", i), zap.Error(err))
			result.Invalid++
			continue
		}

		resp, err := s.questions.AddQuestion(ctx, req, createdBy)
		var verrs domain.ValidationErrors
		switch {
		case domain.HasCode(err, domain.CodeQuestionExists):
			s.logger.Debug("Question already in bank", zap.Int("index", i), zap.String("question", req.QuestionText))
			result.Duplicates++
		case errors.As(err, &verrs):
			s.logger.Warn("Skipping invalid question", zap.Int("index", i), zap.Error(err))
			result.Invalid++
		case err != nil:
			return result, fmt.Errorf("failed to import question %d: %w", i, err)
		case resp.Restored:
			result.Restored++
		default:
			result.Created++
		}
	}

	s.logger.Info("Question import finished",
		zap.Int("created", result.Created),
		zap.Int("restored", result.Restored),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("invalid", result.Invalid))
	return result, nil
}

// LoadQuestionFile reads a JSON array of questions in the AddQuestion request format.
func LoadQuestionFile(path string) ([]dto.QuestionRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file: %w", err)
	}
	var questions []dto.QuestionRequest
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question file %s: %w", path, err)
	}
	return questions, nil
}
