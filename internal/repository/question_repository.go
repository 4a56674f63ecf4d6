package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/repository/models"
	"quiz-admin/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxQuestionRepository struct {
	db *sqlx.DB
}

// NewSQLXQuestionRepository creates the question bank repository.
func NewSQLXQuestionRepository(db *sqlx.DB) domain.QuestionRepository {
	return &sqlxQuestionRepository{db: db}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:              m.ID,
		Text:            m.QuestionText,
		Difficulty:      domain.Difficulty(m.DifficultyLevel),
		IsDeleted:       m.IsDeleted,
		TotalAttempts:   m.TotalAttempts,
		CorrectAttempts: m.CorrectAttempts,
		CreatedBy:       m.CreatedBy.String,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDomainAnswer(m *models.Answer) domain.Answer {
	return domain.Answer{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Text:       m.AnswerText,
		IsCorrect:  m.IsCorrect,
		CreatedAt:  m.CreatedAt,
	}
}

// selectAnswers loads the answers of questionIDs grouped by question, in insertion order.
func selectAnswers(ctx context.Context, ex DBTX, questionIDs []string) (map[string][]domain.Answer, error) {
	out := make(map[string][]domain.Answer, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM answers WHERE question_id IN (?) ORDER BY created_at, id`, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build answers query: %w", err)
	}
	var rows []models.Answer
	if err := ex.SelectContext(ctx, &rows, ex.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	for i := range rows {
		out[rows[i].QuestionID] = append(out[rows[i].QuestionID], toDomainAnswer(&rows[i]))
	}
	return out, nil
}

// attachAnswers converts rows and fills their answers with one extra query.
func attachAnswers(ctx context.Context, ex DBTX, rows []models.Question) ([]domain.Question, error) {
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	answers, err := selectAnswers(ctx, ex, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Question, len(rows))
	for i := range rows {
		out[i] = *toDomainQuestion(&rows[i])
		out[i].Answers = answers[rows[i].ID]
	}
	return out, nil
}

func buildQuestionWhere(filter domain.QuestionFilter) (string, []interface{}) {
	clauses := []string{"is_deleted = 0"}
	var args []interface{}
	if strings.TrimSpace(filter.Search) != "" {
		clauses = append(clauses, `LOWER(question_text) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(filter.Search))
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty_level = ?")
		args = append(args, string(filter.Difficulty))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// ListQuestions returns one page of active questions, newest first, and the total match count.
func (r *sqlxQuestionRepository) ListQuestions(ctx context.Context, filter domain.QuestionFilter, page domain.Page) ([]domain.Question, int, error) {
	ex := GetExecutor(ctx, r.db)
	where, args := buildQuestionWhere(filter)

	var total int
	if err := ex.GetContext(ctx, &total, ex.Rebind(`SELECT COUNT(*) FROM questions`+where), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}
	if total == 0 {
		return []domain.Question{}, 0, nil
	}

	query := `SELECT * FROM questions` + where + ` ORDER BY created_at DESC, id DESC OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`
	pageArgs := append(append([]interface{}{}, args...), page.Offset(), page.Size)
	var rows []models.Question
	if err := ex.SelectContext(ctx, &rows, ex.Rebind(query), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	questions, err := attachAnswers(ctx, ex, rows)
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// ListActiveQuestions returns every non-deleted question without answers.
func (r *sqlxQuestionRepository) ListActiveQuestions(ctx context.Context) ([]domain.Question, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Question
	if err := ex.SelectContext(ctx, &rows, `SELECT * FROM questions WHERE is_deleted = 0 ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}
	out := make([]domain.Question, len(rows))
	for i := range rows {
		out[i] = *toDomainQuestion(&rows[i])
	}
	return out, nil
}

// GetQuestionByID returns the question with answers, soft-deleted or not. A missing question yields (nil, nil).
func (r *sqlxQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	ex := GetExecutor(ctx, r.db)
	var m models.Question
	if err := ex.GetContext(ctx, &m, ex.Rebind(`SELECT * FROM questions WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	questions, err := attachAnswers(ctx, ex, []models.Question{m})
	if err != nil {
		return nil, err
	}
	return &questions[0], nil
}

func (r *sqlxQuestionRepository) FindByText(ctx context.Context, text string) ([]domain.Question, error) {
	ex := GetExecutor(ctx, r.db)
	var rows []models.Question
	query := ex.Rebind(`SELECT * FROM questions WHERE LOWER(question_text) = ?`)
	if err := ex.SelectContext(ctx, &rows, query, strings.ToLower(strings.TrimSpace(text))); err != nil {
		return nil, fmt.Errorf("failed to find questions by text: %w", err)
	}
	return attachAnswers(ctx, ex, rows)
}

// CreateQuestion inserts the question and its answers, assigning ids where missing.
func (r *sqlxQuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	ex := GetExecutor(ctx, r.db)
	if question.ID == "" {
		question.ID = util.NewULID()
	}
	query := ex.Rebind(`INSERT INTO questions (id, question_text, difficulty_level, is_deleted, total_attempts, correct_attempts, created_by, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ex.ExecContext(ctx, query,
		question.ID,
		question.Text,
		string(question.Difficulty),
		util.BoolToInt(question.IsDeleted),
		question.TotalAttempts,
		question.CorrectAttempts,
		util.StringToNullString(question.CreatedBy),
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	for i := range question.Answers {
		question.Answers[i].QuestionID = question.ID
		if err := r.CreateAnswer(ctx, &question.Answers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqlxQuestionRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	ex := GetExecutor(ctx, r.db)
	question.UpdatedAt = time.Now()
	query := ex.Rebind(`UPDATE questions SET question_text = ?, difficulty_level = ?, updated_at = ? WHERE id = ?`)
	result, err := ex.ExecContext(ctx, query, question.Text, string(question.Difficulty), question.UpdatedAt, question.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return requireRowsAffected(result)
}

func (r *sqlxQuestionRepository) CreateAnswer(ctx context.Context, answer *domain.Answer) error {
	ex := GetExecutor(ctx, r.db)
	if answer.ID == "" {
		answer.ID = util.NewULID()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	query := ex.Rebind(`INSERT INTO answers (id, question_id, answer_text, is_correct, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := ex.ExecContext(ctx, query, answer.ID, answer.QuestionID, answer.Text, util.BoolToInt(answer.IsCorrect), answer.CreatedAt); err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) UpdateAnswer(ctx context.Context, answer *domain.Answer) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE answers SET answer_text = ?, is_correct = ? WHERE id = ? AND question_id = ?`)
	result, err := ex.ExecContext(ctx, query, answer.Text, util.BoolToInt(answer.IsCorrect), answer.ID, answer.QuestionID)
	if err != nil {
		return fmt.Errorf("failed to update answer: %w", err)
	}
	return requireRowsAffected(result)
}

func (r *sqlxQuestionRepository) DeleteAnswer(ctx context.Context, answerID string) error {
	ex := GetExecutor(ctx, r.db)
	if _, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM answers WHERE id = ?`), answerID); err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	return nil
}

// SetDeleted toggles the soft-delete flag.
func (r *sqlxQuestionRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE questions SET is_deleted = ?, updated_at = ? WHERE id = ?`)
	result, err := ex.ExecContext(ctx, query, util.BoolToInt(deleted), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set question deleted flag: %w", err)
	}
	return requireRowsAffected(result)
}

// DeleteQuestion removes the row; answers, quiz links, progress and attempts cascade.
func (r *sqlxQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	ex := GetExecutor(ctx, r.db)
	result, err := ex.ExecContext(ctx, ex.Rebind(`DELETE FROM questions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return requireRowsAffected(result)
}

func (r *sqlxQuestionRepository) GetAnswersByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]domain.Answer, error) {
	return selectAnswers(ctx, GetExecutor(ctx, r.db), questionIDs)
}

// IncrementAttempts bumps the attempt counters kept on the question row.
func (r *sqlxQuestionRepository) IncrementAttempts(ctx context.Context, questionID string, correct bool) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE questions SET total_attempts = total_attempts + 1, correct_attempts = correct_attempts + ? WHERE id = ?`)
	if _, err := ex.ExecContext(ctx, query, util.BoolToInt(correct), questionID); err != nil {
		return fmt.Errorf("failed to increment question attempts: %w", err)
	}
	return nil
}

func (r *sqlxQuestionRepository) DecrementAttempts(ctx context.Context, questionID string, correct bool) error {
	ex := GetExecutor(ctx, r.db)
	query := ex.Rebind(`UPDATE questions SET total_attempts = GREATEST(total_attempts - 1, 0),
		correct_attempts = GREATEST(correct_attempts - ?, 0) WHERE id = ?`)
	if _, err := ex.ExecContext(ctx, query, util.BoolToInt(correct), questionID); err != nil {
		return fmt.Errorf("failed to decrement question attempts: %w", err)
	}
	return nil
}
