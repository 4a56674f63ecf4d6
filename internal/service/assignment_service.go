package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/util"

	"go.uber.org/zap"
)

// AssignmentService hands quizzes out to users and resets them.
type AssignmentService interface {
	AssignQuiz(ctx context.Context, req dto.AssignQuizRequest, adminID string) (*dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error)
	// AllowResume reopens a completed assignment with its saved answers. Other statuses are left unchanged.
	AllowResume(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	// FreshReassign replaces an assignment with a new one for the same user and quiz, in a new question order.
	FreshReassign(ctx context.Context, id string) (*dto.AssignmentResponse, error)
}

// NotificationConfig is what assignment emails need to know about the deployment.
type NotificationConfig struct {
	AppName    string
	AppBaseURL string
}

type assignmentService struct {
	assignments domain.AssignmentRepository
	quizzes     domain.QuizRepository
	tx          domain.TransactionManager
	mailer      domain.Mailer
	notify      NotificationConfig
	shuffle     func(n int, swap func(i, j int))
}

func NewAssignmentService(
	assignments domain.AssignmentRepository,
	quizzes domain.QuizRepository,
	tx domain.TransactionManager,
	mailer domain.Mailer,
	notify NotificationConfig,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		quizzes:     quizzes,
		tx:          tx,
		mailer:      mailer,
		notify:      notify,
		shuffle:     rand.Shuffle,
	}
}

func toAssignmentResponse(a *domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:                   a.ID,
		UserEmail:            a.UserEmail,
		QuizID:               a.QuizID,
		QuizName:             a.QuizName,
		ExamName:             a.ExamName,
		Duration:             a.Duration,
		Status:               string(a.Status),
		CurrentQuestionIndex: a.CurrentQuestionIndex,
		TotalQuestions:       a.TotalQuestions,
		AssignedBy:           a.AssignedBy,
		AssignedAt:           a.AssignedAt,
		LastActivityAt:       a.LastActivityAt,
		CompletedAt:          a.CompletedAt,
	}
}

func toAssignmentResponses(list []domain.Assignment) []dto.AssignmentResponse {
	out := make([]dto.AssignmentResponse, len(list))
	for i := range list {
		out[i] = toAssignmentResponse(&list[i])
	}
	return out
}

func getAssignment(ctx context.Context, repo domain.AssignmentRepository, id string) (*domain.Assignment, error) {
	a, err := repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get assignment", err)
	}
	if a == nil {
		return nil, domain.NewAssignmentNotFoundError()
	}
	return a, nil
}

// createWithProgress inserts the assignment and one unanswered progress row per quiz question in shuffled order.
// It must run inside a transaction.
func (s *assignmentService) createWithProgress(ctx context.Context, a *domain.Assignment, quiz *domain.Quiz) error {
	questionIDs, err := s.quizzes.ListQuizQuestionIDs(ctx, quiz.ID)
	if err != nil {
		return domain.NewInternalError("Failed to list quiz questions", err)
	}

	a.ID = util.NewULID()
	if err := s.assignments.CreateAssignment(ctx, a); err != nil {
		return domain.NewInternalError("Failed to create assignment", err)
	}
	rows := domain.BuildProgress(a.ID, questionIDs, s.shuffle, util.NewULID)
	if err := s.assignments.CreateProgress(ctx, rows); err != nil {
		return domain.NewInternalError("Failed to create quiz progress", err)
	}

	a.QuizName = quiz.Name
	a.ExamName = quiz.ExamName
	a.Duration = quiz.Duration
	a.QuizStatus = quiz.Status
	a.TotalQuestions = len(rows)
	return nil
}

func (s *assignmentService) AssignQuiz(ctx context.Context, req dto.AssignQuizRequest, adminID string) (*dto.AssignmentResponse, error) {
	assignment := domain.NewAssignment(req.UserEmail, req.QuizID, adminID)
	if assignment.UserEmail == "" {
		return nil, domain.NewValidationError("user_email", "email is required")
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		quiz, err := s.quizzes.GetQuizByID(ctx, req.QuizID)
		if err != nil {
			return domain.NewInternalError("Failed to get quiz", err)
		}
		if quiz == nil {
			return domain.NewQuizNotFoundError(req.QuizID)
		}
		if !quiz.IsActive() {
			return domain.NewQuizDeactivatedError(quiz.ID)
		}
		return s.createWithProgress(ctx, assignment, quiz)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Quiz assigned",
		zap.String("assignmentID", assignment.ID),
		zap.String("quizID", assignment.QuizID),
		zap.String("email", assignment.UserEmail),
		zap.Int("questions", assignment.TotalQuestions))
	s.sendAssignmentEmail(ctx, assignment)

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// sendAssignmentEmail never fails the assignment; delivery problems are logged.
func (s *assignmentService) sendAssignmentEmail(ctx context.Context, a *domain.Assignment) {
	if s.mailer == nil {
		return
	}
	link := strings.TrimRight(s.notify.AppBaseURL, "/") + "/dashboard"
	text := fmt.Sprintf("You have been assigned the quiz %q (%s). It has %d questions and a time limit of %d minutes.\n\nOpen your dashboard to start: %s\n",
		a.QuizName, a.ExamName, a.TotalQuestions, a.Duration, link)
	html := fmt.Sprintf("<p>You have been assigned the quiz <strong>%s</strong> (%s).</p><p>%d questions, %d minutes.</p><p><a href=\"%s\">Open your dashboard</a></p>",
		a.QuizName, a.ExamName, a.TotalQuestions, a.Duration, link)

	err := s.mailer.Send(ctx, domain.EmailMessage{
		To:       a.UserEmail,
		Subject:  "New quiz assigned: " + a.QuizName,
		Text:     text,
		HTML:     html,
		Category: "quiz-assignment",
	})
	if err != nil {
		logger.Get().Warn("Failed to send assignment email",
			zap.String("assignmentID", a.ID),
			zap.String("email", a.UserEmail),
			zap.Error(err))
	}
}

func (s *assignmentService) ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error) {
	list, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list assignments", err)
	}
	return toAssignmentResponses(list), nil
}

func (s *assignmentService) AllowResume(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	a, err := getAssignment(ctx, s.assignments, id)
	if err != nil {
		return nil, err
	}
	if a.Reopen(time.Now()) {
		if err := s.assignments.UpdateAssignment(ctx, a); err != nil {
			return nil, domain.NewInternalError("Failed to reopen assignment", err)
		}
		logger.Get().Info("Assignment reopened", zap.String("assignmentID", id))
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *assignmentService) FreshReassign(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	var fresh *domain.Assignment
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		old, err := getAssignment(ctx, s.assignments, id)
		if err != nil {
			return err
		}
		quiz, err := s.quizzes.GetQuizByID(ctx, old.QuizID)
		if err != nil {
			return domain.NewInternalError("Failed to get quiz", err)
		}
		if quiz == nil {
			return domain.NewQuizNotFoundError(old.QuizID)
		}

		if err := s.assignments.DeleteProgressByAssignment(ctx, old.ID); err != nil {
			return domain.NewInternalError("Failed to delete quiz progress", err)
		}
		if err := s.assignments.DeleteAssignment(ctx, old.ID); err != nil {
			return domain.NewInternalError("Failed to delete assignment", err)
		}

		fresh = domain.NewAssignment(old.UserEmail, old.QuizID, old.AssignedBy)
		return s.createWithProgress(ctx, fresh, quiz)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("Assignment freshly reassigned",
		zap.String("oldAssignmentID", id),
		zap.String("assignmentID", fresh.ID),
		zap.String("email", fresh.UserEmail))
	resp := toAssignmentResponse(fresh)
	return &resp, nil
}
