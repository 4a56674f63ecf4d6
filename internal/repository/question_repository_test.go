package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"quiz-admin/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	questionColumns = []string{"ID", "QUESTION_TEXT", "DIFFICULTY_LEVEL", "IS_DELETED", "TOTAL_ATTEMPTS", "CORRECT_ATTEMPTS", "CREATED_BY", "CREATED_AT", "UPDATED_AT"}
	answerColumns   = []string{"ID", "QUESTION_ID", "ANSWER_TEXT", "IS_CORRECT", "CREATED_AT"}
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%tcp%", containsPattern(" TCP "))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%snake\_case%`, containsPattern("snake_case"))
}

func TestQuestionRepository_ListQuestions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM questions WHERE is_deleted = 0 AND LOWER\(question_text\) LIKE \? ESCAPE '\\' AND difficulty_level = \?`).
		WithArgs("%capital%", "easy").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	mock.ExpectQuery(`SELECT \* FROM questions WHERE is_deleted = 0 .* ORDER BY created_at DESC, id DESC OFFSET \? ROWS FETCH NEXT \? ROWS ONLY`).
		WithArgs("%capital%", "easy", 10, 10).
		WillReturnRows(sqlmock.NewRows(questionColumns).
			AddRow("q11", "Capital of Peru?", "easy", 0, 4, 3, nil, now, now))

	mock.ExpectQuery(`SELECT \* FROM answers WHERE question_id IN \(\?\) ORDER BY created_at, id`).
		WithArgs("q11").
		WillReturnRows(sqlmock.NewRows(answerColumns).
			AddRow("a1", "q11", "Lima", 1, now).
			AddRow("a2", "q11", "Cusco", 0, now))

	questions, total, err := repo.ListQuestions(context.Background(),
		domain.QuestionFilter{Search: "Capital", Difficulty: domain.DifficultyEasy},
		domain.NewPage(2, 10))

	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, questions, 1)
	assert.Equal(t, "Capital of Peru?", questions[0].Text)
	assert.Equal(t, 4, questions[0].TotalAttempts)
	require.Len(t, questions[0].Answers, 2)
	assert.True(t, questions[0].Answers[0].IsCorrect)
	assert.False(t, questions[0].Answers[1].IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_ListQuestions_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM questions WHERE is_deleted = 0$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	questions, total, err := repo.ListQuestions(context.Background(), domain.QuestionFilter{}, domain.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, questions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_GetQuestionByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM questions WHERE id = \?`).
			WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(questionColumns).AddRow("q1", "2+2?", "medium", 1, 0, 0, "admin1", now, now))
		mock.ExpectQuery(`SELECT \* FROM answers WHERE question_id IN`).
			WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(answerColumns).AddRow("a1", "q1", "4", 1, now))

		q, err := repo.GetQuestionByID(context.Background(), "q1")
		require.NoError(t, err)
		require.NotNil(t, q)
		assert.True(t, q.IsDeleted)
		assert.Equal(t, "admin1", q.CreatedBy)
		assert.Len(t, q.Answers, 1)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM questions WHERE id = \?`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		q, err := repo.GetQuestionByID(context.Background(), "nope")
		assert.NoError(t, err)
		assert.Nil(t, q)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_FindByText(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM questions WHERE LOWER\(question_text\) = \?`).
		WithArgs("what is dns?").
		WillReturnRows(sqlmock.NewRows(questionColumns))

	questions, err := repo.FindByText(context.Background(), "  What is DNS? ")
	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_CreateQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	q := domain.NewQuestion("2+2?", domain.DifficultyEasy, []domain.Answer{{Text: "4", IsCorrect: true}, {Text: "5"}}, "admin1")

	mock.ExpectExec(`INSERT INTO questions`).
		WithArgs(sqlmock.AnyArg(), "2+2?", "easy", 0, 0, 0, "admin1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO answers`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "4", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO answers`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "5", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateQuestion(context.Background(), q))
	assert.NotEmpty(t, q.ID)
	for _, a := range q.Answers {
		assert.Equal(t, q.ID, a.QuestionID)
		assert.NotEmpty(t, a.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_SetDeletedAndDelete(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectExec(`UPDATE questions SET is_deleted = \?, updated_at = \? WHERE id = \?`).
		WithArgs(1, sqlmock.AnyArg(), "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetDeleted(context.Background(), "q1", true))

	mock.ExpectExec(`DELETE FROM questions WHERE id = \?`).
		WithArgs("q2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteQuestion(context.Background(), "q2"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_IncrementAttempts(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectExec(`UPDATE questions SET total_attempts = total_attempts \+ 1, correct_attempts = correct_attempts \+ \? WHERE id = \?`).
		WithArgs(0, "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementAttempts(context.Background(), "q1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_DecrementAttempts(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXQuestionRepository(db)

	mock.ExpectExec(`UPDATE questions SET total_attempts = GREATEST\(total_attempts - 1, 0\),\s+correct_attempts = GREATEST\(correct_attempts - \?, 0\) WHERE id = \?`).
		WithArgs(1, "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DecrementAttempts(context.Background(), "q1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
