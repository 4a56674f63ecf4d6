package dto

import "time"

// ResultFilters are the query parameters of GET /admin/results.
type ResultFilters struct {
	User string `query:"user"`
	Quiz string `query:"quiz"`
	Date string `query:"date"` // YYYY-MM-DD
}

type ResultItem struct {
	AttemptID    string    `json:"attempt_id"`
	UserEmail    string    `json:"user_email"`
	QuizID       string    `json:"quiz_id"`
	QuizName     string    `json:"quiz_name"`
	ExamName     string    `json:"exam_name"`
	QuestionText string    `json:"question_text"`
	IsCorrect    bool      `json:"is_correct"`
	AttemptedAt  time.Time `json:"attempted_at"`
}

type ResultListResponse struct {
	Results        []ResultItem   `json:"results"`
	PaginationInfo PaginationInfo `json:"pagination_info"`
}

// AnalyticsResponse is the admin dashboard summary. It is also the cached representation.
type AnalyticsResponse struct {
	TotalQuizzes           int            `json:"total_quizzes"`
	TotalQuestions         int            `json:"total_questions"`
	TotalUsers             int            `json:"total_users"`
	DifficultyDistribution map[string]int `json:"difficulty_distribution"`
}
