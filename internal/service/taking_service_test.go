package service

import (
	"context"
	"testing"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const takerEmail = "taker@example.com"

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type takingFixture struct {
	assignments *MockAssignmentRepository
	questions   *MockQuestionRepository
	attempts    *MockAttemptRepository
	tx          *passthroughTx
	svc         *quizTakingService
}

func newTakingFixture() *takingFixture {
	f := &takingFixture{
		assignments: new(MockAssignmentRepository),
		questions:   new(MockQuestionRepository),
		attempts:    new(MockAttemptRepository),
		tx:          &passthroughTx{},
	}
	f.svc = NewQuizTakingService(f.assignments, f.questions, f.attempts, f.tx).(*quizTakingService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func takerAssignment(status domain.AssignmentStatus) *domain.Assignment {
	return &domain.Assignment{
		ID:             "as1",
		UserEmail:      takerEmail,
		QuizID:         "quiz1",
		Status:         status,
		QuizStatus:     domain.QuizStatusActivated,
		TotalQuestions: 3,
	}
}

func twoChoice(id string) *domain.Question {
	return &domain.Question{
		ID:         id,
		Text:       "Question " + id,
		Difficulty: domain.DifficultyMedium,
		Answers: []domain.Answer{
			{ID: id + "-right", QuestionID: id, Text: "right", IsCorrect: true},
			{ID: id + "-wrong", QuestionID: id, Text: "wrong"},
		},
	}
}

func progressRows() []domain.Progress {
	return []domain.Progress{
		{ID: "p0", AssignmentID: "as1", QuestionID: "q1", QuestionOrder: 0, AnswerID: "q1-right", IsAnswered: true, Question: twoChoice("q1")},
		{ID: "p1", AssignmentID: "as1", QuestionID: "q2", QuestionOrder: 1, AnswerID: "q2-wrong", IsAnswered: true, Question: twoChoice("q2")},
		{ID: "p2", AssignmentID: "as1", QuestionID: "q3", QuestionOrder: 2, Question: twoChoice("q3")},
	}
}

func TestQuizTakingService_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusAssigned), nil)

	_, err := f.svc.Start(ctx, "intruder@example.com", "as1")
	assert.True(t, domain.HasCode(err, domain.CodeForbidden))
	_, err = f.svc.Session(ctx, "intruder@example.com", "as1")
	assert.True(t, domain.HasCode(err, domain.CodeForbidden))
	err = f.svc.SaveAnswer(ctx, "intruder@example.com", "as1", "p0", "q1-right")
	assert.True(t, domain.HasCode(err, domain.CodeForbidden))
	_, err = f.svc.Complete(ctx, "u1", "intruder@example.com", "as1", dto.CompleteQuizRequest{})
	assert.True(t, domain.HasCode(err, domain.CodeForbidden))

	f.assignments.AssertNotCalled(t, "UpdateAssignment", mock.Anything, mock.Anything)
}

func TestQuizTakingService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	f.assignments.On("ListOpenAssignmentsByEmail", ctx, takerEmail).Return([]domain.Assignment{*takerAssignment(domain.AssignmentStatusInProgress)}, nil).Once()

	resp, err := f.svc.Dashboard(ctx, takerEmail)
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 1)
	assert.Equal(t, "in_progress", resp.Assignments[0].Status)
}

func TestQuizTakingService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("starts", func(t *testing.T) {
		f := newTakingFixture()
		a := takerAssignment(domain.AssignmentStatusAssigned)
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil).Once()
		f.assignments.On("UpdateAssignment", ctx, a).Return(nil).Once()

		resp, err := f.svc.Start(ctx, "Taker@Example.com", "as1")
		require.NoError(t, err)
		assert.Equal(t, "in_progress", resp.Status)
		require.NotNil(t, resp.LastActivityAt)
		assert.Equal(t, fixedNow, *resp.LastActivityAt)
	})

	t.Run("deactivated quiz", func(t *testing.T) {
		f := newTakingFixture()
		a := takerAssignment(domain.AssignmentStatusAssigned)
		a.QuizStatus = domain.QuizStatusDeactivated
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil).Once()

		_, err := f.svc.Start(ctx, takerEmail, "as1")
		assert.True(t, domain.HasCode(err, domain.CodeQuizDeactivated))
	})

	t.Run("completed", func(t *testing.T) {
		f := newTakingFixture()
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusCompleted), nil).Once()

		_, err := f.svc.Start(ctx, takerEmail, "as1")
		assert.True(t, domain.HasCode(err, domain.CodeAssignmentCompleted))
	})
}

func TestQuizTakingService_Session_HidesCorrectness(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	a := takerAssignment(domain.AssignmentStatusInProgress)
	a.CurrentQuestionIndex = 1
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil).Once()
	f.assignments.On("ListProgress", ctx, "as1").Return(progressRows(), nil).Once()

	resp, err := f.svc.Session(ctx, takerEmail, "as1")
	require.NoError(t, err)
	require.Len(t, resp.Questions, 3)
	assert.Equal(t, 2, resp.AnsweredCount)
	assert.Equal(t, 1, resp.CurrentQuestionIndex)
	assert.Equal(t, 33, resp.ProgressPercent)
	assert.Equal(t, "q1-right", resp.Questions[0].SelectedAnswerID)
	assert.Equal(t, []dto.SessionAnswer{{ID: "q3-right", Text: "right"}, {ID: "q3-wrong", Text: "wrong"}}, resp.Questions[2].Answers)
}

func TestQuizTakingService_SaveAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and marks in progress", func(t *testing.T) {
		f := newTakingFixture()
		a := takerAssignment(domain.AssignmentStatusAssigned)
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil).Once()
		f.assignments.On("ListProgress", ctx, "as1").Return(progressRows(), nil).Once()
		f.assignments.On("UpdateProgressAnswer", ctx, "p2", "q3-wrong").Return(nil).Once()
		f.assignments.On("UpdateAssignment", ctx, mock.MatchedBy(func(a *domain.Assignment) bool {
			return a.Status == domain.AssignmentStatusInProgress
		})).Return(nil).Once()

		require.NoError(t, f.svc.SaveAnswer(ctx, takerEmail, "as1", "p2", "q3-wrong"))
		f.assignments.AssertExpectations(t)
	})

	t.Run("answer from another question", func(t *testing.T) {
		f := newTakingFixture()
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusInProgress), nil).Once()
		f.assignments.On("ListProgress", ctx, "as1").Return(progressRows(), nil).Once()

		err := f.svc.SaveAnswer(ctx, takerEmail, "as1", "p2", "q1-right")
		assert.True(t, domain.HasCode(err, domain.CodeInvalidAnswer))
		f.assignments.AssertNotCalled(t, "UpdateProgressAnswer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown progress row", func(t *testing.T) {
		f := newTakingFixture()
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusInProgress), nil).Once()
		f.assignments.On("ListProgress", ctx, "as1").Return(progressRows(), nil).Once()

		err := f.svc.SaveAnswer(ctx, takerEmail, "as1", "p9", "q1-right")
		assert.True(t, domain.HasCode(err, domain.CodeNotFound))
	})

	t.Run("completed", func(t *testing.T) {
		f := newTakingFixture()
		f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusCompleted), nil).Once()

		err := f.svc.SaveAnswer(ctx, takerEmail, "as1", "p0", "q1-right")
		assert.True(t, domain.HasCode(err, domain.CodeAssignmentCompleted))
	})
}

func TestQuizTakingService_MoveTo(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusInProgress), nil).Twice()
	f.assignments.On("UpdateAssignment", ctx, mock.Anything).Return(nil).Once()

	resp, err := f.svc.MoveTo(ctx, takerEmail, "as1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentQuestionIndex)

	_, err = f.svc.MoveTo(ctx, takerEmail, "as1", 3)
	var verrs domain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestQuizTakingService_Complete(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	a := takerAssignment(domain.AssignmentStatusInProgress)
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil).Once()

	before := progressRows()
	after := progressRows()
	after[2].AnswerID, after[2].IsAnswered = "q3-right", true
	f.assignments.On("ListProgress", ctx, "as1").Return(before, nil).Once()
	f.assignments.On("UpdateProgressAnswer", ctx, "p2", "q3-right").Return(nil).Once()
	f.assignments.On("ListProgress", ctx, "as1").Return(after, nil).Once()
	f.assignments.On("UpdateAssignment", ctx, a).Return(nil).Twice()
	f.attempts.On("ListAttemptsByAssignment", ctx, "as1").Return([]domain.Attempt{}, nil).Once()

	var recorded []*domain.Attempt
	f.attempts.On("CreateAttempt", ctx, mock.Anything).Run(func(args mock.Arguments) {
		recorded = append(recorded, args.Get(1).(*domain.Attempt))
	}).Return(nil).Times(3)
	f.questions.On("IncrementAttempts", ctx, "q1", true).Return(nil).Once()
	f.questions.On("IncrementAttempts", ctx, "q2", false).Return(nil).Once()
	f.questions.On("IncrementAttempts", ctx, "q3", true).Return(nil).Once()

	resp, err := f.svc.Complete(ctx, "user1", takerEmail, "as1", dto.CompleteQuizRequest{ProgressID: "p2", AnswerID: "q3-right"})
	require.NoError(t, err)
	assert.Equal(t, dto.QuizResultResponse{AssignmentID: "as1", Correct: 2, Answered: 3, Total: 3, ScorePercent: 67}, *resp)
	assert.Equal(t, domain.AssignmentStatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	assert.Equal(t, 1, f.tx.calls)

	require.Len(t, recorded, 3)
	for _, at := range recorded {
		assert.Equal(t, "user1", at.UserID)
		assert.Equal(t, "quiz1", at.QuizID)
		assert.Equal(t, "as1", at.AssignmentID)
		assert.Equal(t, fixedNow, at.AttemptedAt)
	}
	f.questions.AssertExpectations(t)
}

func TestQuizTakingService_Complete_UnansweredAndDangling(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	a := takerAssignment(domain.AssignmentStatusInProgress)
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil).Once()

	rows := progressRows()
	rows[0].AnswerID = "deleted-answer"
	f.assignments.On("ListProgress", ctx, "as1").Return(rows, nil).Once()
	f.assignments.On("UpdateAssignment", ctx, a).Return(nil).Once()
	f.attempts.On("ListAttemptsByAssignment", ctx, "as1").Return([]domain.Attempt{}, nil).Once()
	f.attempts.On("CreateAttempt", ctx, mock.Anything).Return(nil).Twice()
	f.questions.On("IncrementAttempts", ctx, "q1", false).Return(nil).Once()
	f.questions.On("IncrementAttempts", ctx, "q2", false).Return(nil).Once()

	resp, err := f.svc.Complete(ctx, "user1", takerEmail, "as1", dto.CompleteQuizRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Correct)
	assert.Equal(t, 2, resp.Answered)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 0, resp.ScorePercent)
}

func TestQuizTakingService_Complete_Twice(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(takerAssignment(domain.AssignmentStatusCompleted), nil).Once()

	_, err := f.svc.Complete(ctx, "user1", takerEmail, "as1", dto.CompleteQuizRequest{})
	assert.True(t, domain.HasCode(err, domain.CodeAssignmentCompleted))
	f.attempts.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
}

func TestQuizTakingService_Complete_AfterReopenCountsOnce(t *testing.T) {
	ctx := context.Background()
	f := newTakingFixture()
	a := takerAssignment(domain.AssignmentStatusInProgress)
	f.assignments.On("GetAssignmentByID", ctx, "as1").Return(a, nil)
	f.assignments.On("UpdateAssignment", ctx, a).Return(nil)

	// one of three answered correctly, one answered wrong, one left open
	f.assignments.On("ListProgress", ctx, "as1").Return(progressRows(), nil)

	var stored []domain.Attempt
	total := map[string]int{}
	correct := map[string]int{}
	f.attempts.On("ListAttemptsByAssignment", ctx, "as1").Return(func(context.Context, string) []domain.Attempt {
		return append([]domain.Attempt(nil), stored...)
	}, nil)
	f.attempts.On("DeleteAttemptsByAssignment", ctx, "as1").Run(func(mock.Arguments) {
		stored = nil
	}).Return(nil)
	f.attempts.On("CreateAttempt", ctx, mock.Anything).Run(func(args mock.Arguments) {
		stored = append(stored, *args.Get(1).(*domain.Attempt))
	}).Return(nil)
	f.questions.On("IncrementAttempts", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		id := args.String(1)
		total[id]++
		if args.Bool(2) {
			correct[id]++
		}
	}).Return(nil)
	f.questions.On("DecrementAttempts", ctx, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		id := args.String(1)
		total[id]--
		if args.Bool(2) {
			correct[id]--
		}
	}).Return(nil)

	first, err := f.svc.Complete(ctx, "user1", takerEmail, "as1", dto.CompleteQuizRequest{})
	require.NoError(t, err)
	require.True(t, a.Reopen(fixedNow))
	second, err := f.svc.Complete(ctx, "user1", takerEmail, "as1", dto.CompleteQuizRequest{})
	require.NoError(t, err)

	assert.Equal(t, *first, *second)
	assert.Equal(t, 33, second.ScorePercent)
	require.Len(t, stored, 2)
	assert.Equal(t, map[string]int{"q1": 1, "q2": 1}, total)
	assert.Equal(t, map[string]int{"q1": 1, "q2": 0}, correct)
	f.attempts.AssertNumberOfCalls(t, "DeleteAttemptsByAssignment", 1)

	for i := range stored {
		stored[i].UserEmail, stored[i].ExamName = takerEmail, "Midterm"
	}
	export := BuildExportRows(stored, map[string]int{"quiz1": 3})
	require.Len(t, export, 1)
	assert.Equal(t, "33%", export[0].Score)
}
