package domain

import "context"

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EmailMessage is a single outgoing notification.
type EmailMessage struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	Category string
}

// Mailer delivers notification emails.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// GeneratedQuestion is a draft question produced by a QuestionGenerator.
type GeneratedQuestion struct {
	Text       string
	Difficulty Difficulty
	Answers    []Answer
}

// QuestionGenerator drafts multiple choice questions about a topic.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, topic string, difficulty Difficulty, count int) ([]GeneratedQuestion, error)
}
