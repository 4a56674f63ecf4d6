package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/repository/models"
	"quiz-admin/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates the repository for quizzes and their question links.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

const quizSelect = `SELECT q.id, q.quiz_name, q.exam_name, q.duration, q.status, q.admin_id, q.created_at, q.updated_at,
	(SELECT COUNT(*) FROM quiz_questions qq JOIN questions qs ON qs.id = qq.question_id
	  WHERE qq.quiz_id = q.id AND qs.is_deleted = 0) AS question_count
	FROM quizzes q`

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:            m.ID,
		Name:          m.QuizName,
		ExamName:      m.ExamName,
		Duration:      m.Duration,
		Status:        domain.QuizStatus(m.Status),
		AdminID:       m.AdminID,
		QuestionCount: m.QuestionCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Quiz
	if err := ex.SelectContext(ctx, &rows, quizSelect+` ORDER BY q.created_at DESC, q.id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	out := make([]domain.Quiz, len(rows))
	for i := range rows {
		out[i] = *toDomainQuiz(&rows[i])
	}
	return out, nil
}

// GetQuizByID returns (nil, nil) when the quiz does not exist.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	ex := GetExecutor(ctx, r.db)
	var m models.Quiz
	if err := ex.GetContext(ctx, &m, ex.Rebind(quizSelect+` WHERE q.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}
	return toDomainQuiz(&m), nil
}

func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	ex := GetExecutor(ctx, r.db)
	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}
	query := ex.Rebind(`INSERT INTO quizzes (id, quiz_name, exam_name, duration, status, admin_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ex.ExecContext(ctx, query, quiz.ID, quiz.Name, quiz.ExamName, quiz.Duration, string(quiz.Status), quiz.AdminID, quiz.CreatedAt, quiz.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (r *sqlxQuizRepository) UpdateQuizStatus(ctx context.Context, id string, status domain.QuizStatus) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE quizzes SET status = ?, updated_at = ? WHERE id = ?`)
	result, err := ex.ExecContext(ctx, query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update quiz status: %w", err)
	}
	return requireRowsAffected(result)
}

// ListQuizQuestions returns the active questions of a quiz, with answers, in the order they were added.
func (r *sqlxQuizRepository) ListQuizQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Question
	query := ex.Rebind(`SELECT qs.* FROM questions qs
		JOIN quiz_questions qq ON qq.question_id = qs.id
		WHERE qq.quiz_id = ? AND qs.is_deleted = 0
		ORDER BY qq.created_at, qs.id`)
	if err := ex.SelectContext(ctx, &rows, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list quiz questions: %w", err)
	}
	return attachAnswers(ctx, ex, rows)
}

func (r *sqlxQuizRepository) ListQuizQuestionIDs(ctx context.Context, quizID string) ([]string, error) {
	ex := GetExecutor(ctx, r.db)
	var ids []string
	query := ex.Rebind(`SELECT qq.question_id FROM quiz_questions qq
		JOIN questions qs ON qs.id = qq.question_id
		WHERE qq.quiz_id = ? AND qs.is_deleted = 0
		ORDER BY qq.created_at, qq.question_id`)
	if err := ex.SelectContext(ctx, &ids, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list quiz question ids: %w", err)
	}
	return ids, nil
}

func (r *sqlxQuizRepository) AddQuizQuestion(ctx context.Context, quizID, questionID string) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`INSERT INTO quiz_questions (id, quiz_id, question_id, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := ex.ExecContext(ctx, query, util.NewULID(), quizID, questionID, time.Now()); err != nil {
		return fmt.Errorf("failed to add question to quiz: %w", err)
	}
	return nil
}

func (r *sqlxQuizRepository) RemoveQuizQuestion(ctx context.Context, quizID, questionID string) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`DELETE FROM quiz_questions WHERE quiz_id = ? AND question_id = ?`)
	if _, err := ex.ExecContext(ctx, query, quizID, questionID); err != nil {
		return fmt.Errorf("failed to remove question from quiz: %w", err)
	}
	return nil
}

func (r *sqlxQuizRepository) CountQuizQuestions(ctx context.Context, quizID string) (int, error) {
	ex := GetExecutor(ctx, r.db)
	var count int
	query := ex.Rebind(`SELECT COUNT(*) FROM quiz_questions qq
		JOIN questions qs ON qs.id = qq.question_id
		WHERE qq.quiz_id = ? AND qs.is_deleted = 0`)
	if err := ex.GetContext(ctx, &count, query, quizID); err != nil {
		return 0, fmt.Errorf("failed to count quiz questions: %w", err)
	}
	return count, nil
}

// GetQuizStats aggregates the recorded attempts of a quiz.
func (r *sqlxQuizRepository) GetQuizStats(ctx context.Context, quizID string) (*domain.QuizStats, error) {
	ex := GetExecutor(ctx, r.db)
	var m models.QuizStats
	query := ex.Rebind(`SELECT COUNT(*) AS total_attempts, COALESCE(SUM(is_correct), 0) AS correct_attempts
		FROM user_attempts WHERE quiz_id = ?`)
	if err := ex.GetContext(ctx, &m, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get quiz stats: %w", err)
	}
	return domain.NewQuizStats(quizID, m.TotalAttempts, m.CorrectAttempts), nil
}
