package models

import (
	"database/sql"
	"time"
)

// Question represents a row of the questions table.
type Question struct {
	ID              string         `db:"ID"`
	QuestionText    string         `db:"QUESTION_TEXT"`
	DifficultyLevel string         `db:"DIFFICULTY_LEVEL"`
	IsDeleted       bool           `db:"IS_DELETED"` // stored as 0/1
	TotalAttempts   int            `db:"TOTAL_ATTEMPTS"`
	CorrectAttempts int            `db:"CORRECT_ATTEMPTS"`
	CreatedBy       sql.NullString `db:"CREATED_BY"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
}

// Answer represents a row of the answers table.
type Answer struct {
	ID         string    `db:"ID"`
	QuestionID string    `db:"QUESTION_ID"`
	AnswerText string    `db:"ANSWER_TEXT"`
	IsCorrect  bool      `db:"IS_CORRECT"`
	CreatedAt  time.Time `db:"CREATED_AT"`
}

// DifficultyCount is one row of the per-difficulty aggregate.
type DifficultyCount struct {
	DifficultyLevel string `db:"DIFFICULTY_LEVEL"`
	QuestionCount   int    `db:"QUESTION_COUNT"`
}
