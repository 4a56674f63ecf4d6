package domain

import (
	"context"
	"time"
)

// Page selects one page of a listing. Number starts at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size to sane values.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 10
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// QuestionFilter narrows the question bank listing. Empty fields do not filter.
type QuestionFilter struct {
	Search     string
	Difficulty Difficulty
}

// ResultFilter narrows the attempt listing. Day restricts attempted_at to [Day, Day+24h).
type ResultFilter struct {
	UserEmail string
	ExamName  string
	Day       *time.Time
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

type QuestionRepository interface {
	ListQuestions(ctx context.Context, filter QuestionFilter, page Page) ([]Question, int, error)
	ListActiveQuestions(ctx context.Context) ([]Question, error)
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	// FindByText returns questions, soft-deleted ones included, whose text matches case-insensitively. Answers are loaded.
	FindByText(ctx context.Context, text string) ([]Question, error)
	CreateQuestion(ctx context.Context, question *Question) error
	UpdateQuestion(ctx context.Context, question *Question) error
	CreateAnswer(ctx context.Context, answer *Answer) error
	UpdateAnswer(ctx context.Context, answer *Answer) error
	DeleteAnswer(ctx context.Context, answerID string) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
	DeleteQuestion(ctx context.Context, id string) error
	GetAnswersByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]Answer, error)
	IncrementAttempts(ctx context.Context, questionID string, correct bool) error
	// DecrementAttempts reverses one IncrementAttempts call. Counters never go below zero.
	DecrementAttempts(ctx context.Context, questionID string, correct bool) error
}

type QuizRepository interface {
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	UpdateQuizStatus(ctx context.Context, id string, status QuizStatus) error
	ListQuizQuestions(ctx context.Context, quizID string) ([]Question, error)
	ListQuizQuestionIDs(ctx context.Context, quizID string) ([]string, error)
	AddQuizQuestion(ctx context.Context, quizID, questionID string) error
	RemoveQuizQuestion(ctx context.Context, quizID, questionID string) error
	CountQuizQuestions(ctx context.Context, quizID string) (int, error)
	GetQuizStats(ctx context.Context, quizID string) (*QuizStats, error)
}

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment *Assignment) error
	GetAssignmentByID(ctx context.Context, id string) (*Assignment, error)
	ListAssignments(ctx context.Context) ([]Assignment, error)
	ListOpenAssignmentsByEmail(ctx context.Context, email string) ([]Assignment, error)
	UpdateAssignment(ctx context.Context, assignment *Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
	CreateProgress(ctx context.Context, rows []Progress) error
	DeleteProgressByAssignment(ctx context.Context, assignmentID string) error
	ListProgress(ctx context.Context, assignmentID string) ([]Progress, error)
	UpdateProgressAnswer(ctx context.Context, progressID, answerID string) error
}

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt *Attempt) error
	ListAttempts(ctx context.Context, filter ResultFilter, page Page) ([]Attempt, int, error)
	ListAllAttempts(ctx context.Context) ([]Attempt, error)
	ListAttemptsByQuestion(ctx context.Context, questionID string) ([]Attempt, error)
	ListAttemptsByAssignment(ctx context.Context, assignmentID string) ([]Attempt, error)
	DeleteAttemptsByAssignment(ctx context.Context, assignmentID string) error
	DeleteAttempt(ctx context.Context, id string) error
}

type AnalyticsRepository interface {
	CountQuizzes(ctx context.Context) (int, error)
	CountQuestions(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
	CountQuestionsByDifficulty(ctx context.Context) (DifficultyDistribution, error)
}
