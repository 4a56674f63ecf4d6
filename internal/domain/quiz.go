package domain

import (
	"strings"
	"time"

	"quiz-admin/internal/util"
)

// QuizStatus controls whether a quiz can be assigned and taken.
type QuizStatus string

const (
	QuizStatusActivated   QuizStatus = "activated"
	QuizStatusDeactivated QuizStatus = "deactivated"
)

// Quiz is a named set of bank questions with a time limit in minutes.
type Quiz struct {
	ID            string
	Name          string
	ExamName      string
	Duration      int
	Status        QuizStatus
	AdminID       string
	QuestionCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuiz creates an activated quiz.
func NewQuiz(name, examName string, duration int, adminID string) *Quiz {
	now := time.Now()
	return &Quiz{
		Name:      strings.TrimSpace(name),
		ExamName:  strings.TrimSpace(examName),
		Duration:  duration,
		Status:    QuizStatusActivated,
		AdminID:   adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (q *Quiz) Validate() error {
	var errs ValidationErrors
	if q.Name == "" {
		errs = append(errs, NewMissingFieldError("quiz_name"))
	}
	if q.ExamName == "" {
		errs = append(errs, NewMissingFieldError("exam_name"))
	}
	if q.Duration <= 0 || q.Duration > 1440 {
		errs = append(errs, NewOutOfRangeError("duration", q.Duration, 1, 1440))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (q *Quiz) IsActive() bool {
	return q.Status == QuizStatusActivated
}

// ToggleStatus flips between activated and deactivated and returns the new status.
func (q *Quiz) ToggleStatus() QuizStatus {
	if q.Status == QuizStatusActivated {
		q.Status = QuizStatusDeactivated
	} else {
		q.Status = QuizStatusActivated
	}
	q.UpdatedAt = time.Now()
	return q.Status
}

// QuizStats aggregates recorded attempts on the questions of a quiz.
type QuizStats struct {
	QuizID          string
	TotalAttempts   int
	CorrectAttempts int
	SuccessRate     float64
}

func NewQuizStats(quizID string, total, correct int) *QuizStats {
	return &QuizStats{
		QuizID:          quizID,
		TotalAttempts:   total,
		CorrectAttempts: correct,
		SuccessRate:     util.Percentage(correct, total),
	}
}
