package domain

import (
	"strings"
	"time"
)

// AssignmentStatus tracks a user's progress through an assigned quiz.
type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
)

// Assignment links a quiz to a user email.
type Assignment struct {
	ID                   string
	UserEmail            string
	QuizID               string
	AssignedBy           string
	Status               AssignmentStatus
	CurrentQuestionIndex int
	AssignedAt           time.Time
	LastActivityAt       *time.Time
	CompletedAt          *time.Time

	// Read-side fields filled by joins.
	QuizName       string
	ExamName       string
	Duration       int
	QuizStatus     QuizStatus
	TotalQuestions int
}

// NormalizeEmail lower-cases and trims an address for comparisons and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NewAssignment(email, quizID, assignedBy string) *Assignment {
	return &Assignment{
		UserEmail:  NormalizeEmail(email),
		QuizID:     quizID,
		AssignedBy: assignedBy,
		Status:     AssignmentStatusAssigned,
		AssignedAt: time.Now(),
	}
}

// BelongsTo reports whether the assignment was made to email.
func (a *Assignment) BelongsTo(email string) bool {
	return a.UserEmail == NormalizeEmail(email)
}

func (a *Assignment) IsCompleted() bool {
	return a.Status == AssignmentStatusCompleted
}

// Start moves the assignment into progress. Starting an in-progress assignment only touches activity.
func (a *Assignment) Start(now time.Time) error {
	if a.IsCompleted() {
		return NewAssignmentCompletedError()
	}
	a.Status = AssignmentStatusInProgress
	a.LastActivityAt = &now
	return nil
}

// MoveTo sets the current question index within [0, total).
func (a *Assignment) MoveTo(index, total int, now time.Time) error {
	if a.IsCompleted() {
		return NewAssignmentCompletedError()
	}
	if index < 0 || index >= total {
		return NewValidationError("index", "question index is out of range")
	}
	a.CurrentQuestionIndex = index
	a.LastActivityAt = &now
	return nil
}

func (a *Assignment) Complete(now time.Time) error {
	if a.IsCompleted() {
		return NewAssignmentCompletedError()
	}
	a.Status = AssignmentStatusCompleted
	a.CompletedAt = &now
	a.LastActivityAt = &now
	return nil
}

// Reopen lets a completed assignment be resumed with its saved answers. It reports whether anything changed.
func (a *Assignment) Reopen(now time.Time) bool {
	if !a.IsCompleted() {
		return false
	}
	a.Status = AssignmentStatusInProgress
	a.CompletedAt = nil
	a.LastActivityAt = &now
	return true
}

// Progress is one question slot of an assignment in its shuffled order.
type Progress struct {
	ID            string
	AssignmentID  string
	QuestionID    string
	QuestionOrder int
	AnswerID      string
	IsAnswered    bool
	UpdatedAt     time.Time

	Question *Question
}

// BuildProgress creates unanswered progress rows for questionIDs in the order produced by shuffle.
// newID supplies row identifiers.
func BuildProgress(assignmentID string, questionIDs []string, shuffle func(n int, swap func(i, j int)), newID func() string) []Progress {
	order := make([]string, len(questionIDs))
	copy(order, questionIDs)
	if shuffle != nil {
		shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	now := time.Now()
	rows := make([]Progress, len(order))
	for i, qid := range order {
		rows[i] = Progress{
			ID:            newID(),
			AssignmentID:  assignmentID,
			QuestionID:    qid,
			QuestionOrder: i,
			IsAnswered:    false,
			UpdatedAt:     now,
		}
	}
	return rows
}

// Attempt is a recorded answer to a question, written when a quiz is completed.
type Attempt struct {
	ID           string
	UserID       string
	QuizID       string
	QuestionID   string
	AnswerID     string
	AssignmentID string
	IsCorrect    bool
	AttemptedAt  time.Time

	UserEmail    string
	QuizName     string
	ExamName     string
	QuestionText string
}

// QuizResult summarises a completed assignment.
type QuizResult struct {
	AssignmentID string
	Correct      int
	Answered     int
	Total        int
	ScorePercent int
}
