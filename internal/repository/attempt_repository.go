package repository

import (
	"context"
	"fmt"
	"strings"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/repository/models"
	"quiz-admin/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxAttemptRepository struct {
	db *sqlx.DB
}

// NewSQLXAttemptRepository creates the repository for recorded question attempts.
func NewSQLXAttemptRepository(db *sqlx.DB) domain.AttemptRepository {
	return &sqlxAttemptRepository{db: db}
}

const attemptSelect = `SELECT ua.id, ua.user_id, ua.quiz_id, ua.question_id, ua.answer_id, ua.assignment_id, ua.is_correct, ua.attempted_at,
	u.email AS user_email, q.quiz_name, q.exam_name, qs.question_text`

const attemptFrom = ` FROM user_attempts ua
	LEFT JOIN users u ON u.id = ua.user_id
	LEFT JOIN quizzes q ON q.id = ua.quiz_id
	LEFT JOIN questions qs ON qs.id = ua.question_id`

func toDomainAttempt(m *models.Attempt) domain.Attempt {
	return domain.Attempt{
		ID:           m.ID,
		UserID:       m.UserID,
		QuizID:       m.QuizID,
		QuestionID:   m.QuestionID,
		AnswerID:     m.AnswerID.String,
		AssignmentID: m.AssignmentID.String,
		IsCorrect:    m.IsCorrect,
		AttemptedAt:  m.AttemptedAt,
		UserEmail:    m.UserEmail.String,
		QuizName:     m.QuizName.String,
		ExamName:     m.ExamName.String,
		QuestionText: m.QuestionText.String,
	}
}

func buildAttemptWhere(filter domain.ResultFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if strings.TrimSpace(filter.UserEmail) != "" {
		clauses = append(clauses, `LOWER(u.email) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(filter.UserEmail))
	}
	if strings.TrimSpace(filter.ExamName) != "" {
		clauses = append(clauses, `LOWER(q.exam_name) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(filter.ExamName))
	}
	if filter.Day != nil {
		start := *filter.Day
		clauses = append(clauses, "ua.attempted_at >= ? AND ua.attempted_at < ?")
		args = append(args, start, start.AddDate(0, 0, 1))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *sqlxAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	ex := GetExecutor(ctx, r.db)
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	query := ex.Rebind(`INSERT INTO user_attempts
		(id, user_id, quiz_id, question_id, answer_id, assignment_id, is_correct, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ex.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.QuizID,
		attempt.QuestionID,
		util.StringToNullString(attempt.AnswerID),
		util.StringToNullString(attempt.AssignmentID),
		util.BoolToInt(attempt.IsCorrect),
		attempt.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// ListAttempts returns one page of attempts, newest first, and the total match count.
func (r *sqlxAttemptRepository) ListAttempts(ctx context.Context, filter domain.ResultFilter, page domain.Page) ([]domain.Attempt, int, error) {
	ex := GetExecutor(ctx, r.db)
	where, args := buildAttemptWhere(filter)

	var total int
	if err := ex.GetContext(ctx, &total, ex.Rebind(`SELECT COUNT(*)`+attemptFrom+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	if total == 0 {
		return []domain.Attempt{}, 0, nil
	}

	query := ex.Rebind(attemptSelect + attemptFrom + where +
		` ORDER BY ua.attempted_at DESC, ua.id DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`)
	pageArgs := append(append([]interface{}{}, args...), page.Offset(), page.Size)
	var rows []models.Attempt
	if err := ex.SelectContext(ctx, &rows, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}
	out := make([]domain.Attempt, len(rows))
	for i := range rows {
		out[i] = toDomainAttempt(&rows[i])
	}
	return out, total, nil
}

func (r *sqlxAttemptRepository) selectAll(ctx context.Context, where string, args ...interface{}) ([]domain.Attempt, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Attempt
	query := ex.Rebind(attemptSelect + attemptFrom + where + ` ORDER BY ua.attempted_at DESC, ua.id DESC`)
	if err := ex.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	out := make([]domain.Attempt, len(rows))
	for i := range rows {
		out[i] = toDomainAttempt(&rows[i])
	}
	return out, nil
}

// ListAllAttempts returns every attempt for export.
func (r *sqlxAttemptRepository) ListAllAttempts(ctx context.Context) ([]domain.Attempt, error) {
	return r.selectAll(ctx, "")
}

func (r *sqlxAttemptRepository) ListAttemptsByQuestion(ctx context.Context, questionID string) ([]domain.Attempt, error) {
	return r.selectAll(ctx, ` WHERE ua.question_id = ?`, questionID)
}

func (r *sqlxAttemptRepository) ListAttemptsByAssignment(ctx context.Context, assignmentID string) ([]domain.Attempt, error) {
	return r.selectAll(ctx, ` WHERE ua.assignment_id = ?`, assignmentID)
}

// DeleteAttemptsByAssignment removes the attempts recorded when an assignment was completed. Zero rows is not an error.
func (r *sqlxAttemptRepository) DeleteAttemptsByAssignment(ctx context.Context, assignmentID string) error {
	ex := GetExecutor(ctx, r.db)
	if _, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM user_attempts WHERE assignment_id = ?`), assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment attempts: %w", err)
	}
	return nil
}

func (r *sqlxAttemptRepository) DeleteAttempt(ctx context.Context, id string) error {
	ex := GetExecutor(ctx, r.db)
	result, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM user_attempts WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete attempt: %w", err)
	}
	return requireRowsAffected(result)
}
