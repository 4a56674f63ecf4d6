package dto

import "time"

// AssignQuizRequest is the body of POST /admin/assignments.
type AssignQuizRequest struct {
	UserEmail string `json:"user_email" validate:"required,email,max=320"`
	QuizID    string `json:"quiz_id" validate:"required,ulid"`
}

// AssignmentResponse describes an assignment together with its quiz.
type AssignmentResponse struct {
	ID                   string     `json:"id"`
	UserEmail            string     `json:"user_email"`
	QuizID               string     `json:"quiz_id"`
	QuizName             string     `json:"quiz_name"`
	ExamName             string     `json:"exam_name"`
	Duration             int        `json:"duration"`
	Status               string     `json:"status"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	TotalQuestions       int        `json:"total_questions"`
	AssignedBy           string     `json:"assigned_by"`
	AssignedAt           time.Time  `json:"assigned_at"`
	LastActivityAt       *time.Time `json:"last_activity_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type DashboardResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// SessionAnswer is an answer option as shown to a quiz taker, without correctness.
type SessionAnswer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type SessionQuestion struct {
	ProgressID       string          `json:"progress_id"`
	QuestionID       string          `json:"question_id"`
	Order            int             `json:"order"`
	QuestionText     string          `json:"question_text"`
	DifficultyLevel  string          `json:"difficulty_level"`
	Answers          []SessionAnswer `json:"answers"`
	SelectedAnswerID string          `json:"selected_answer_id,omitempty"`
	IsAnswered       bool            `json:"is_answered"`
}

// QuizSessionResponse is everything the quiz page needs to resume.
type QuizSessionResponse struct {
	Assignment           AssignmentResponse `json:"assignment"`
	Questions            []SessionQuestion  `json:"questions"`
	CurrentQuestionIndex int                `json:"current_question_index"`
	AnsweredCount        int                `json:"answered_count"`
	ProgressPercent      int                `json:"progress_percent"`
}

type SaveAnswerRequest struct {
	AnswerID string `json:"answer_id" validate:"required"`
}

type MoveIndexRequest struct {
	Index int `json:"index" validate:"min=0"`
}

// CompleteQuizRequest may carry the last answer so it is saved before the quiz is scored.
type CompleteQuizRequest struct {
	ProgressID string `json:"progress_id" validate:"required_with=AnswerID"`
	AnswerID   string `json:"answer_id" validate:"required_with=ProgressID"`
}

type QuizResultResponse struct {
	AssignmentID string `json:"assignment_id"`
	Correct      int    `json:"correct"`
	Answered     int    `json:"answered"`
	Total        int    `json:"total"`
	ScorePercent int    `json:"score_percent"`
}
