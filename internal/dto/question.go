package dto

import "time"

// AnswerInput is one answer option in a create or update request. ID is set when editing an existing answer.
type AnswerInput struct {
	ID        string `json:"id,omitempty" validate:"omitempty,ulid"`
	Text      string `json:"text" validate:"required,notblank,max=1000"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionRequest is the body for adding or editing a bank question.
// @Description Question with its answer options
type QuestionRequest struct {
	QuestionText    string        `json:"question_text" validate:"required,notblank,max=4000"`
	DifficultyLevel string        `json:"difficulty_level" validate:"required,difficulty"`
	Answers         []AnswerInput `json:"answers" validate:"required,min=2,max=10,dive"`
}

type AnswerResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionResponse represents a bank question.
// @Description Question bank entry
type QuestionResponse struct {
	ID              string           `json:"id"`
	QuestionText    string           `json:"question_text"`
	DifficultyLevel string           `json:"difficulty_level"`
	TotalAttempts   int              `json:"total_attempts"`
	CorrectAttempts int              `json:"correct_attempts"`
	SuccessRate     float64          `json:"success_rate"`
	Answers         []AnswerResponse `json:"answers"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Restored        bool             `json:"restored,omitempty"`
}

type QuestionListResponse struct {
	Questions      []QuestionResponse `json:"questions"`
	PaginationInfo PaginationInfo     `json:"pagination_info"`
}

type QuestionHistoryItem struct {
	AttemptID   string    `json:"attempt_id"`
	UserEmail   string    `json:"user_email"`
	QuizName    string    `json:"quiz_name"`
	ExamName    string    `json:"exam_name"`
	IsCorrect   bool      `json:"is_correct"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// QuestionHistoryResponse lists every recorded attempt at one question.
type QuestionHistoryResponse struct {
	Question QuestionResponse      `json:"question"`
	Attempts []QuestionHistoryItem `json:"attempts"`
}

// GenerateQuestionsRequest asks the LLM for draft questions.
type GenerateQuestionsRequest struct {
	Topic           string `json:"topic" validate:"required,notblank,max=200"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,difficulty"`
	Count           int    `json:"count" validate:"min=1,max=10"`
}

type GenerateQuestionsResponse struct {
	Created    []QuestionResponse `json:"created"`
	Restored   int                `json:"restored"`
	Duplicates int                `json:"duplicates"`
	Invalid    int                `json:"invalid"`
}
