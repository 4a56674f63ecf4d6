package service

import (
	"context"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/util"

	"go.uber.org/zap"
)

// QuizTakingService is the quiz taker's side of an assignment. Every call is scoped to the caller's email.
type QuizTakingService interface {
	Dashboard(ctx context.Context, email string) (*dto.DashboardResponse, error)
	Start(ctx context.Context, email, assignmentID string) (*dto.AssignmentResponse, error)
	Session(ctx context.Context, email, assignmentID string) (*dto.QuizSessionResponse, error)
	SaveAnswer(ctx context.Context, email, assignmentID, progressID, answerID string) error
	MoveTo(ctx context.Context, email, assignmentID string, index int) (*dto.AssignmentResponse, error)
	Complete(ctx context.Context, userID, email, assignmentID string, req dto.CompleteQuizRequest) (*dto.QuizResultResponse, error)
}

type quizTakingService struct {
	assignments domain.AssignmentRepository
	questions   domain.QuestionRepository
	attempts    domain.AttemptRepository
	tx          domain.TransactionManager
	now         func() time.Time
}

func NewQuizTakingService(
	assignments domain.AssignmentRepository,
	questions domain.QuestionRepository,
	attempts domain.AttemptRepository,
	tx domain.TransactionManager,
) QuizTakingService {
	return &quizTakingService{
		assignments: assignments,
		questions:   questions,
		attempts:    attempts,
		tx:          tx,
		now:         time.Now,
	}
}

// owned loads an assignment and checks it was made to email.
func (s *quizTakingService) owned(ctx context.Context, email, id string) (*domain.Assignment, error) {
	a, err := getAssignment(ctx, s.assignments, id)
	if err != nil {
		return nil, err
	}
	if !a.BelongsTo(email) {
		logger.Get().Warn("Assignment access denied", zap.String("assignmentID", id), zap.String("email", email))
		return nil, domain.NewForbiddenError("This quiz is not assigned to you")
	}
	return a, nil
}

func (s *quizTakingService) Dashboard(ctx context.Context, email string) (*dto.DashboardResponse, error) {
	list, err := s.assignments.ListOpenAssignmentsByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load dashboard", err)
	}
	return &dto.DashboardResponse{Assignments: toAssignmentResponses(list)}, nil
}

func (s *quizTakingService) Start(ctx context.Context, email, assignmentID string) (*dto.AssignmentResponse, error) {
	a, err := s.owned(ctx, email, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.QuizStatus == domain.QuizStatusDeactivated {
		return nil, domain.NewQuizDeactivatedError(a.QuizID)
	}
	if err := a.Start(s.now()); err != nil {
		return nil, err
	}
	if err := s.assignments.UpdateAssignment(ctx, a); err != nil {
		return nil, domain.NewInternalError("Failed to start quiz", err)
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *quizTakingService) Session(ctx context.Context, email, assignmentID string) (*dto.QuizSessionResponse, error) {
	a, err := s.owned(ctx, email, assignmentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.assignments.ListProgress(ctx, a.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz progress", err)
	}

	questions := make([]dto.SessionQuestion, len(rows))
	answered := 0
	for i, p := range rows {
		sq := dto.SessionQuestion{
			ProgressID:       p.ID,
			QuestionID:       p.QuestionID,
			Order:            p.QuestionOrder,
			SelectedAnswerID: p.AnswerID,
			IsAnswered:       p.IsAnswered,
			Answers:          []dto.SessionAnswer{},
		}
		if p.Question != nil {
			sq.QuestionText = p.Question.Text
			sq.DifficultyLevel = string(p.Question.Difficulty)
			for _, ans := range p.Question.Answers {
				sq.Answers = append(sq.Answers, dto.SessionAnswer{ID: ans.ID, Text: ans.Text})
			}
		}
		if p.IsAnswered {
			answered++
		}
		questions[i] = sq
	}

	a.TotalQuestions = len(rows)
	return &dto.QuizSessionResponse{
		Assignment:           toAssignmentResponse(a),
		Questions:            questions,
		CurrentQuestionIndex: a.CurrentQuestionIndex,
		AnsweredCount:        answered,
		ProgressPercent:      util.RoundedPercent(a.CurrentQuestionIndex, len(rows)),
	}, nil
}

func findProgress(rows []domain.Progress, progressID string) *domain.Progress {
	for i := range rows {
		if rows[i].ID == progressID {
			return &rows[i]
		}
	}
	return nil
}

// saveAnswer records answerID on a progress row after checking it is an option of that row's question.
func (s *quizTakingService) saveAnswer(ctx context.Context, a *domain.Assignment, progressID, answerID string) error {
	rows, err := s.assignments.ListProgress(ctx, a.ID)
	if err != nil {
		return domain.NewInternalError("Failed to load quiz progress", err)
	}
	row := findProgress(rows, progressID)
	if row == nil {
		return domain.NewNotFoundError("Question is not part of this assignment")
	}
	if row.Question == nil || row.Question.FindAnswer(answerID) == nil {
		return domain.NewInvalidAnswerError("Answer does not belong to this question")
	}

	if err := s.assignments.UpdateProgressAnswer(ctx, progressID, answerID); err != nil {
		return domain.NewInternalError("Failed to save answer", err)
	}
	if err := a.Start(s.now()); err != nil {
		return err
	}
	if err := s.assignments.UpdateAssignment(ctx, a); err != nil {
		return domain.NewInternalError("Failed to update assignment", err)
	}
	return nil
}

func (s *quizTakingService) SaveAnswer(ctx context.Context, email, assignmentID, progressID, answerID string) error {
	a, err := s.owned(ctx, email, assignmentID)
	if err != nil {
		return err
	}
	if a.IsCompleted() {
		return domain.NewAssignmentCompletedError()
	}
	return s.saveAnswer(ctx, a, progressID, answerID)
}

func (s *quizTakingService) MoveTo(ctx context.Context, email, assignmentID string, index int) (*dto.AssignmentResponse, error) {
	a, err := s.owned(ctx, email, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := a.MoveTo(index, a.TotalQuestions, s.now()); err != nil {
		return nil, err
	}
	if err := s.assignments.UpdateAssignment(ctx, a); err != nil {
		return nil, domain.NewInternalError("Failed to update question index", err)
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

// clearPreviousAttempts undoes an earlier completion of a reopened assignment so its answers are counted once.
func (s *quizTakingService) clearPreviousAttempts(ctx context.Context, assignmentID string) error {
	previous, err := s.attempts.ListAttemptsByAssignment(ctx, assignmentID)
	if err != nil {
		return domain.NewInternalError("Failed to load previous attempts", err)
	}
	if len(previous) == 0 {
		return nil
	}
	for _, at := range previous {
		if err := s.questions.DecrementAttempts(ctx, at.QuestionID, at.IsCorrect); err != nil {
			return domain.NewInternalError("Failed to update question statistics", err)
		}
	}
	if err := s.attempts.DeleteAttemptsByAssignment(ctx, assignmentID); err != nil {
		return domain.NewInternalError("Failed to delete previous attempts", err)
	}
	logger.Get().Info("Previous attempts replaced",
		zap.String("assignmentID", assignmentID),
		zap.Int("count", len(previous)))
	return nil
}

// Complete optionally saves a final answer, then records one attempt per answered question, bumps the
// question counters and closes the assignment, all in one transaction. Attempts left by an earlier
// completion of a reopened assignment are replaced.
func (s *quizTakingService) Complete(ctx context.Context, userID, email, assignmentID string, req dto.CompleteQuizRequest) (*dto.QuizResultResponse, error) {
	result := &domain.QuizResult{AssignmentID: assignmentID}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		a, err := s.owned(ctx, email, assignmentID)
		if err != nil {
			return err
		}
		if a.IsCompleted() {
			return domain.NewAssignmentCompletedError()
		}
		if req.ProgressID != "" && req.AnswerID != "" {
			if err := s.saveAnswer(ctx, a, req.ProgressID, req.AnswerID); err != nil {
				return err
			}
		}

		if err := s.clearPreviousAttempts(ctx, a.ID); err != nil {
			return err
		}

		rows, err := s.assignments.ListProgress(ctx, a.ID)
		if err != nil {
			return domain.NewInternalError("Failed to load quiz progress", err)
		}
		now := s.now()
		result.Total = len(rows)
		for _, p := range rows {
			if !p.IsAnswered || p.AnswerID == "" {
				continue
			}
			correct := false
			if p.Question != nil {
				if ans := p.Question.FindAnswer(p.AnswerID); ans != nil {
					correct = ans.IsCorrect
				}
			}
			attempt := &domain.Attempt{
				UserID:       userID,
				QuizID:       a.QuizID,
				QuestionID:   p.QuestionID,
				AnswerID:     p.AnswerID,
				AssignmentID: a.ID,
				IsCorrect:    correct,
				AttemptedAt:  now,
			}
			if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
				return domain.NewInternalError("Failed to record attempt", err)
			}
			if err := s.questions.IncrementAttempts(ctx, p.QuestionID, correct); err != nil {
				return domain.NewInternalError("Failed to update question statistics", err)
			}
			result.Answered++
			if correct {
				result.Correct++
			}
		}

		if err := a.Complete(now); err != nil {
			return err
		}
		if err := s.assignments.UpdateAssignment(ctx, a); err != nil {
			return domain.NewInternalError("Failed to complete assignment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ScorePercent = util.RoundedPercent(result.Correct, result.Total)
	logger.Get().Info("Quiz completed",
		zap.String("assignmentID", assignmentID),
		zap.String("userID", userID),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total))
	return &dto.QuizResultResponse{
		AssignmentID: result.AssignmentID,
		Correct:      result.Correct,
		Answered:     result.Answered,
		Total:        result.Total,
		ScorePercent: result.ScorePercent,
	}, nil
}
