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

type sqlxAssignmentRepository struct {
	db *sqlx.DB
}

// NewSQLXAssignmentRepository creates the repository for quiz assignments and their per-question progress.
func NewSQLXAssignmentRepository(db *sqlx.DB) domain.AssignmentRepository {
	return &sqlxAssignmentRepository{db: db}
}

const assignmentSelect = `SELECT a.id, a.user_email, a.quiz_id, a.assigned_by, a.status, a.current_question_index,
	a.assigned_at, a.last_activity_at, a.completed_at,
	q.quiz_name, q.exam_name, q.duration, q.status AS quiz_status,
	(SELECT COUNT(*) FROM user_quiz_progress p WHERE p.assignment_id = a.id) AS total_questions
	FROM quiz_assignments a
	LEFT JOIN quizzes q ON q.id = a.quiz_id`

func toDomainAssignment(m *models.Assignment) *domain.Assignment {
	if m == nil {
		return nil
	}
	return &domain.Assignment{
		ID:                   m.ID,
		UserEmail:            m.UserEmail,
		QuizID:               m.QuizID,
		AssignedBy:           m.AssignedBy,
		Status:               domain.AssignmentStatus(m.Status),
		CurrentQuestionIndex: m.CurrentQuestionIndex,
		AssignedAt:           m.AssignedAt,
		LastActivityAt:       util.NullTimeToPtr(m.LastActivityAt),
		CompletedAt:          util.NullTimeToPtr(m.CompletedAt),
		QuizName:             m.QuizName.String,
		ExamName:             m.ExamName.String,
		Duration:             int(m.Duration.Int64),
		QuizStatus:           domain.QuizStatus(m.QuizStatus.String),
		TotalQuestions:       m.TotalQuestions,
	}
}

func (r *sqlxAssignmentRepository) selectAssignments(ctx context.Context, where string, args ...interface{}) ([]domain.Assignment, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Assignment
	query := ex.Rebind(assignmentSelect + where + ` ORDER BY a.assigned_at DESC, a.id DESC`)
	if err := ex.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	out := make([]domain.Assignment, len(rows))
	for i := range rows {
		out[i] = *toDomainAssignment(&rows[i])
	}
	return out, nil
}

func (r *sqlxAssignmentRepository) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	ex := GetExecutor(ctx, r.db)
	if assignment.ID == "" {
		assignment.ID = util.NewULID()
	}
	query := ex.Rebind(`INSERT INTO quiz_assignments
		(id, user_email, quiz_id, assigned_by, status, current_question_index, assigned_at, last_activity_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ex.ExecContext(ctx, query,
		assignment.ID,
		assignment.UserEmail,
		assignment.QuizID,
		assignment.AssignedBy,
		string(assignment.Status),
		assignment.CurrentQuestionIndex,
		assignment.AssignedAt,
		util.TimePtrToNullTime(assignment.LastActivityAt),
		util.TimePtrToNullTime(assignment.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// GetAssignmentByID returns (nil, nil) when the assignment does not exist.
func (r *sqlxAssignmentRepository) GetAssignmentByID(ctx context.Context, id string) (*domain.Assignment, error) {
	ex := GetExecutor(ctx, r.db)
	var m models.Assignment
	if err := ex.GetContext(ctx, &m, ex.Rebind(assignmentSelect+` WHERE a.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment by id: %w", err)
	}
	return toDomainAssignment(&m), nil
}

func (r *sqlxAssignmentRepository) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	return r.selectAssignments(ctx, "")
}

// ListOpenAssignmentsByEmail returns the assignments of email that are not completed yet.
func (r *sqlxAssignmentRepository) ListOpenAssignmentsByEmail(ctx context.Context, email string) ([]domain.Assignment, error) {
	return r.selectAssignments(ctx, ` WHERE a.user_email = ? AND a.status IN (?, ?)`,
		domain.NormalizeEmail(email),
		string(domain.AssignmentStatusAssigned),
		string(domain.AssignmentStatusInProgress),
	)
}

func (r *sqlxAssignmentRepository) UpdateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE quiz_assignments
		SET status = ?, current_question_index = ?, last_activity_at = ?, completed_at = ?
		WHERE id = ?`)
	result, err := ex.ExecContext(ctx, query,
		string(assignment.Status),
		assignment.CurrentQuestionIndex,
		util.TimePtrToNullTime(assignment.LastActivityAt),
		util.TimePtrToNullTime(assignment.CompletedAt),
		assignment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return requireRowsAffected(result)
}

// DeleteAssignment removes the assignment and its progress rows.
func (r *sqlxAssignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	ex := GetExecutor(ctx, r.db)
	if _, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM user_quiz_progress WHERE assignment_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete assignment progress: %w", err)
	}
	result, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM quiz_assignments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return requireRowsAffected(result)
}

func (r *sqlxAssignmentRepository) CreateProgress(ctx context.Context, rows []domain.Progress) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`INSERT INTO user_quiz_progress
		(id, assignment_id, question_id, question_order, answer_id, is_answered, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, p := range rows {
		id := p.ID
		if id == "" {
			id = util.NewULID()
		}
		_, err := ex.ExecContext(ctx, query,
			id,
			p.AssignmentID,
			p.QuestionID,
			p.QuestionOrder,
			util.StringToNullString(p.AnswerID),
			util.BoolToInt(p.IsAnswered),
			p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create progress for question %s: %w", p.QuestionID, err)
		}
	}
	return nil
}

func (r *sqlxAssignmentRepository) DeleteProgressByAssignment(ctx context.Context, assignmentID string) error {
	ex := GetExecutor(ctx, r.db)
	if _, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM user_quiz_progress WHERE assignment_id = ?`), assignmentID); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return nil
}

// ListProgress returns the progress rows of an assignment in question order, each with its question and answers.
func (r *sqlxAssignmentRepository) ListProgress(ctx context.Context, assignmentID string) ([]domain.Progress, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Progress
	query := ex.Rebind(`SELECT p.id, p.assignment_id, p.question_id, p.question_order, p.answer_id, p.is_answered, p.updated_at,
		qs.question_text, qs.difficulty_level
		FROM user_quiz_progress p
		LEFT JOIN questions qs ON qs.id = p.question_id
		WHERE p.assignment_id = ?
		ORDER BY p.question_order`)
	if err := ex.SelectContext(ctx, &rows, query, assignmentID); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].QuestionID
	}
	answers, err := selectAnswers(ctx, ex, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Progress, len(rows))
	for i, m := range rows {
		out[i] = domain.Progress{
			ID:            m.ID,
			AssignmentID:  m.AssignmentID,
			QuestionID:    m.QuestionID,
			QuestionOrder: m.QuestionOrder,
			AnswerID:      m.AnswerID.String,
			IsAnswered:    m.IsAnswered,
			UpdatedAt:     m.UpdatedAt,
			Question: &domain.Question{
				ID:         m.QuestionID,
				Text:       m.QuestionText.String,
				Difficulty: domain.Difficulty(m.DifficultyLevel.String),
				Answers:    answers[m.QuestionID],
			},
		}
	}
	return out, nil
}

// UpdateProgressAnswer records answerID for a progress row and marks it answered.
func (r *sqlxAssignmentRepository) UpdateProgressAnswer(ctx context.Context, progressID, answerID string) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE user_quiz_progress SET answer_id = ?, is_answered = 1, updated_at = ? WHERE id = ?`)
	result, err := ex.ExecContext(ctx, query, answerID, time.Now(), progressID)
	if err != nil {
		return fmt.Errorf("failed to update progress answer: %w", err)
	}
	return requireRowsAffected(result)
}
