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
	"quiz-admin/internal/validation"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ExportSheetName   = "Quiz Results"
	ExportFileName    = "quiz_results.xlsx"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ResultService exposes recorded attempts to admins.
type ResultService interface {
	ListResults(ctx context.Context, filters dto.ResultFilters, page int) (*dto.ResultListResponse, error)
	DeleteAttempt(ctx context.Context, id string) error
	// ExportResults renders one row per user, quiz, score and day as an xlsx workbook.
	ExportResults(ctx context.Context) ([]byte, error)
}

type resultService struct {
	attempts domain.AttemptRepository
	quizzes  domain.QuizRepository
	pageSize int
}

func NewResultService(attempts domain.AttemptRepository, quizzes domain.QuizRepository, pageSize int) ResultService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &resultService{attempts: attempts, quizzes: quizzes, pageSize: pageSize}
}

func (s *resultService) ListResults(ctx context.Context, filters dto.ResultFilters, page int) (*dto.ResultListResponse, error) {
	day, verrs := validation.ParseDay("date", filters.Date)
	if len(verrs) > 0 {
		return nil, verrs
	}
	filter := domain.ResultFilter{
		UserEmail: strings.TrimSpace(filters.User),
		ExamName:  strings.TrimSpace(filters.Quiz),
		Day:       day,
	}
	p := domain.NewPage(page, s.pageSize)

	attempts, total, err := s.attempts.ListAttempts(ctx, filter, p)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list results", err)
	}
	items := make([]dto.ResultItem, len(attempts))
	for i, a := range attempts {
		items[i] = dto.ResultItem{
			AttemptID:    a.ID,
			UserEmail:    a.UserEmail,
			QuizID:       a.QuizID,
			QuizName:     a.QuizName,
			ExamName:     a.ExamName,
			QuestionText: a.QuestionText,
			IsCorrect:    a.IsCorrect,
			AttemptedAt:  a.AttemptedAt,
		}
	}
	return &dto.ResultListResponse{
		Results: items,
		PaginationInfo: dto.PaginationInfo{
			TotalItems:  total,
			PageSize:    p.Size,
			CurrentPage: p.Number,
			TotalPages:  util.TotalPages(total, p.Size),
		},
	}, nil
}

func (s *resultService) DeleteAttempt(ctx context.Context, id string) error {
	err := s.attempts.DeleteAttempt(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(fmt.Sprintf("Result not found with ID: %s", id))
	}
	if err != nil {
		return domain.NewInternalError("Failed to delete result", err)
	}
	logger.Get().Info("Attempt deleted", zap.String("attemptID", id))
	return nil
}

// ExportRow is one line of the results workbook.
type ExportRow struct {
	UserEmail string
	QuizName  string
	Score     string
	Date      string
}

// BuildExportRows scores every attempt as the user's correct attempts on the quiz over the quiz's
// question count, then drops repeated rows.
func BuildExportRows(attempts []domain.Attempt, questionCounts map[string]int) []ExportRow {
	type userQuiz struct{ user, quiz string }
	correct := make(map[userQuiz]int)
	for _, a := range attempts {
		if a.IsCorrect {
			correct[userQuiz{a.UserID, a.QuizID}]++
		}
	}

	seen := make(map[ExportRow]bool)
	rows := make([]ExportRow, 0)
	for _, a := range attempts {
		score := util.RoundedPercent(correct[userQuiz{a.UserID, a.QuizID}], questionCounts[a.QuizID])
		row := ExportRow{
			UserEmail: a.UserEmail,
			QuizName:  a.ExamName,
			Score:     fmt.Sprintf("%d%%", score),
			Date:      a.AttemptedAt.Local().Format(validation.DateLayout),
		}
		if seen[row] {
			continue
		}
		seen[row] = true
		rows = append(rows, row)
	}
	return rows
}

func (s *resultService) ExportResults(ctx context.Context) ([]byte, error) {
	attempts, err := s.attempts.ListAllAttempts(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load results", err)
	}

	counts := make(map[string]int)
	for _, a := range attempts {
		if _, ok := counts[a.QuizID]; ok {
			continue
		}
		n, err := s.quizzes.CountQuizQuestions(ctx, a.QuizID)
		if err != nil {
			return nil, domain.NewInternalError("Failed to count quiz questions", err)
		}
		counts[a.QuizID] = n
	}

	rows := BuildExportRows(attempts, counts)
	data, err := writeResultsWorkbook(rows)
	if err != nil {
		return nil, domain.NewInternalError("Failed to build results workbook", err)
	}
	logger.Get().Info("Results exported", zap.Int("rows", len(rows)))
	return data, nil
}

func writeResultsWorkbook(rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Get().Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, err
	}

	columns := []struct {
		col    string
		header string
		width  float64
	}{
		{"A", "User Email", 30},
		{"B", "Quiz Name", 30},
		{"C", "Score", 10},
		{"D", "Date", 15},
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.header
		if err := f.SetColWidth(ExportSheetName, c.col, c.col, c.width); err != nil {
			return nil, err
		}
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.UserEmail, r.QuizName, r.Score, r.Date}
		if err := f.SetSheetRow(ExportSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
