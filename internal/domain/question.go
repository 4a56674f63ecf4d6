package domain

import (
	"sort"
	"strings"
	"time"

	"quiz-admin/internal/util"
)

// Difficulty is the difficulty level of a bank question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyTough  Difficulty = "tough"
)

// Difficulties lists every level in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyTough}

// ParseDifficulty accepts a level case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyTough:
		return d, true
	}
	return "", false
}

// Answer is one option of a multiple choice question.
type Answer struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
	CreatedAt  time.Time
}

// Question is an entry of the question bank.
type Question struct {
	ID              string
	Text            string
	Difficulty      Difficulty
	IsDeleted       bool
	TotalAttempts   int
	CorrectAttempts int
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Answers         []Answer
}

// NewQuestion normalizes input text and stamps creation times. IDs are assigned by the caller.
func NewQuestion(text string, difficulty Difficulty, answers []Answer, createdBy string) *Question {
	now := time.Now()
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	normalized := make([]Answer, len(answers))
	for i, a := range answers {
		a.Text = strings.TrimSpace(a.Text)
		a.CreatedAt = now
		normalized[i] = a
	}
	return &Question{
		Text:       strings.TrimSpace(text),
		Difficulty: difficulty,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
		Answers:    normalized,
	}
}

// Validate checks the question text and that exactly one answer is marked correct.
func (q *Question) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, NewMissingFieldError("question_text"))
	}
	if _, ok := ParseDifficulty(string(q.Difficulty)); !ok {
		errs = append(errs, NewInvalidFormatError("difficulty_level", q.Difficulty))
	}
	if len(q.Answers) < 2 {
		errs = append(errs, ValidationError{Field: "answers", Message: "at least two answers are required"})
	}
	correct := 0
	for _, a := range q.Answers {
		if strings.TrimSpace(a.Text) == "" {
			errs = append(errs, ValidationError{Field: "answers", Message: "answer text must not be empty"})
			break
		}
	}
	for _, a := range q.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if len(q.Answers) > 0 && correct != 1 {
		errs = append(errs, ValidationError{Field: "answers", Message: "exactly one answer must be correct", Value: correct})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SuccessRate returns correct/total attempts as a percentage rounded to two decimals.
func (q *Question) SuccessRate() float64 {
	return util.Percentage(q.CorrectAttempts, q.TotalAttempts)
}

// CorrectAnswer returns the answer marked correct, or nil.
func (q *Question) CorrectAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	return nil
}

// FindAnswer looks an answer up by id.
func (q *Question) FindAnswer(answerID string) *Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return &q.Answers[i]
		}
	}
	return nil
}

// IsDuplicateOf reports whether both questions have the same text and the same answer set,
// ignoring case, surrounding whitespace and answer order.
func (q *Question) IsDuplicateOf(other *Question) bool {
	if other == nil {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(q.Text), strings.TrimSpace(other.Text)) {
		return false
	}
	return SameAnswerSet(q.Answers, other.Answers)
}

// SameAnswerSet compares answer texts as case-insensitive multisets.
func SameAnswerSet(a, b []Answer) bool {
	if len(a) != len(b) {
		return false
	}
	left := normalizedAnswerTexts(a)
	right := normalizedAnswerTexts(b)
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func normalizedAnswerTexts(answers []Answer) []string {
	texts := make([]string, len(answers))
	for i, a := range answers {
		texts[i] = strings.ToLower(strings.TrimSpace(a.Text))
	}
	sort.Strings(texts)
	return texts
}

// DifficultyDistribution counts active questions per difficulty level.
type DifficultyDistribution map[Difficulty]int

// Analytics is the admin dashboard summary.
type Analytics struct {
	TotalQuizzes           int
	TotalQuestions         int
	TotalUsers             int
	DifficultyDistribution DifficultyDistribution
}
