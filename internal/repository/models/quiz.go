package models

import (
	"database/sql"
	"time"
)

// Quiz represents a row of the quizzes table. QuestionCount is filled by listing queries.
type Quiz struct {
	ID            string    `db:"ID"`
	QuizName      string    `db:"QUIZ_NAME"`
	ExamName      string    `db:"EXAM_NAME"`
	Duration      int       `db:"DURATION"` // minutes
	Status        string    `db:"STATUS"`
	AdminID       string    `db:"ADMIN_ID"`
	CreatedAt     time.Time `db:"CREATED_AT"`
	UpdatedAt     time.Time `db:"UPDATED_AT"`
	QuestionCount int       `db:"QUESTION_COUNT"`
}

// QuizStats is the aggregate row of user_attempts for one quiz.
type QuizStats struct {
	TotalAttempts   int `db:"TOTAL_ATTEMPTS"`
	CorrectAttempts int `db:"CORRECT_ATTEMPTS"`
}

// Assignment represents a row of quiz_assignments joined with its quiz.
type Assignment struct {
	ID                   string         `db:"ID"`
	UserEmail            string         `db:"USER_EMAIL"`
	QuizID               string         `db:"QUIZ_ID"`
	AssignedBy           string         `db:"ASSIGNED_BY"`
	Status               string         `db:"STATUS"`
	CurrentQuestionIndex int            `db:"CURRENT_QUESTION_INDEX"`
	AssignedAt           time.Time      `db:"ASSIGNED_AT"`
	LastActivityAt       sql.NullTime   `db:"LAST_ACTIVITY_AT"`
	CompletedAt          sql.NullTime   `db:"COMPLETED_AT"`
	QuizName             sql.NullString `db:"QUIZ_NAME"`
	ExamName             sql.NullString `db:"EXAM_NAME"`
	Duration             sql.NullInt64  `db:"DURATION"`
	QuizStatus           sql.NullString `db:"QUIZ_STATUS"`
	TotalQuestions       int            `db:"TOTAL_QUESTIONS"`
}

// Progress represents a row of user_quiz_progress joined with its question text.
type Progress struct {
	ID              string         `db:"ID"`
	AssignmentID    string         `db:"ASSIGNMENT_ID"`
	QuestionID      string         `db:"QUESTION_ID"`
	QuestionOrder   int            `db:"QUESTION_ORDER"`
	AnswerID        sql.NullString `db:"ANSWER_ID"`
	IsAnswered      bool           `db:"IS_ANSWERED"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
	QuestionText    sql.NullString `db:"QUESTION_TEXT"`
	DifficultyLevel sql.NullString `db:"DIFFICULTY_LEVEL"`
}

// Attempt represents a row of user_attempts joined with user, quiz and question names.
type Attempt struct {
	ID           string         `db:"ID"`
	UserID       string         `db:"USER_ID"`
	QuizID       string         `db:"QUIZ_ID"`
	QuestionID   string         `db:"QUESTION_ID"`
	AnswerID     sql.NullString `db:"ANSWER_ID"`
	AssignmentID sql.NullString `db:"ASSIGNMENT_ID"`
	IsCorrect    bool           `db:"IS_CORRECT"`
	AttemptedAt  time.Time      `db:"ATTEMPTED_AT"`
	UserEmail    sql.NullString `db:"USER_EMAIL"`
	QuizName     sql.NullString `db:"QUIZ_NAME"`
	ExamName     sql.NullString `db:"EXAM_NAME"`
	QuestionText sql.NullString `db:"QUESTION_TEXT"`
}
