package dto

import "time"

// CreateQuizRequest is the body of POST /admin/quizzes.
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	QuizName string `json:"quiz_name" validate:"required,notblank,max=255"`
	ExamName string `json:"exam_name" validate:"required,notblank,max=255"`
	Duration int    `json:"duration" validate:"required,min=1,max=1440"` // minutes
}

// QuizResponse represents a quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID            string    `json:"id"`
	QuizName      string    `json:"quiz_name"`
	ExamName      string    `json:"exam_name"`
	Duration      int       `json:"duration"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuizQuestionsResponse splits the active bank into questions already in the quiz and the rest.
type QuizQuestionsResponse struct {
	Quiz      QuizResponse       `json:"quiz"`
	InQuiz    []QuestionResponse `json:"in_quiz"`
	Available []QuestionResponse `json:"available"`
}

type QuizQuestionRequest struct {
	QuestionID string `json:"question_id" validate:"required,ulid"`
}

// BulkQuestionsRequest adds or removes many questions at once. Ids may be given as a list,
// as newline separated text, or both. Unknown ids are skipped, not rejected.
type BulkQuestionsRequest struct {
	Operation       string   `json:"operation" validate:"required,oneof=add remove"`
	QuestionIDs     []string `json:"question_ids" validate:"max=1000"`
	QuestionIDsText string   `json:"question_ids_text" validate:"max=100000"`
}

type BulkQuestionsResponse struct {
	Operation string `json:"operation"`
	Requested int    `json:"requested"`
	Changed   int    `json:"changed"`
	Skipped   int    `json:"skipped"`
}

type QuizStatsResponse struct {
	QuizID          string  `json:"quiz_id"`
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	SuccessRate     float64 `json:"success_rate"`
}
