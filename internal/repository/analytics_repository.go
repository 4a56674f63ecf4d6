package repository

import (
	"context"
	"fmt"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

type sqlxAnalyticsRepository struct {
	db *sqlx.DB
}

// NewSQLXAnalyticsRepository creates the read-only repository behind the admin analytics page.
func NewSQLXAnalyticsRepository(db *sqlx.DB) domain.AnalyticsRepository {
	return &sqlxAnalyticsRepository{db: db}
}

func (r *sqlxAnalyticsRepository) count(ctx context.Context, query, what string) (int, error) {
	ex := GetExecutor(ctx, r.db)
	var n int
	if err := ex.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

func (r *sqlxAnalyticsRepository) CountQuizzes(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM quizzes`, "quizzes")
}

// CountQuestions counts questions that are not soft-deleted.
func (r *sqlxAnalyticsRepository) CountQuestions(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM questions WHERE is_deleted = 0`, "questions")
}

func (r *sqlxAnalyticsRepository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`, "users")
}

// CountQuestionsByDifficulty returns the active question count per level. Levels without questions are reported as 0.
func (r *sqlxAnalyticsRepository) CountQuestionsByDifficulty(ctx context.Context) (domain.DifficultyDistribution, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.DifficultyCount
	query := `SELECT difficulty_level, COUNT(*) AS question_count FROM questions
		WHERE is_deleted = 0 GROUP BY difficulty_level`
	if err := ex.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count questions by difficulty: %w", err)
	}
	dist := make(domain.DifficultyDistribution, len(domain.Difficulties))
	for _, d := range domain.Difficulties {
		dist[d] = 0
	}
	for _, row := range rows {
		dist[domain.Difficulty(row.DifficultyLevel)] = row.QuestionCount
	}
	return dist, nil
}
