package seedmodels

import "quiz-admin/internal/dto"

// SeedQuiz is a quiz in the seed file together with the questions it should contain.
type SeedQuiz struct {
	QuizName  string                `json:"quiz_name"`
	ExamName  string                `json:"exam_name"`
	Duration  int                   `json:"duration"`
	Questions []dto.QuestionRequest `json:"questions"`
}

// SeedFile is the layout of configs/seed_data/initial_questions.json.
// Questions go to the bank only; quiz questions are added to the bank and linked to their quiz.
type SeedFile struct {
	Questions []dto.QuestionRequest `json:"questions"`
	Quizzes   []SeedQuiz            `json:"quizzes"`
}
