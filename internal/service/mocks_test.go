package service

import (
	"context"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if user.ID == "" {
		user.ID = "generated-user-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- MockQuestionRepository ---
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListQuestions(ctx context.Context, filter domain.QuestionFilter, page domain.Page) ([]domain.Question, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Question), args.Int(1), args.Error(2)
}

func (m *MockQuestionRepository) ListActiveQuestions(ctx context.Context) ([]domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByText(ctx context.Context, text string) ([]domain.Question, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	if question.ID == "" {
		question.ID = "generated-question-id"
	}
	return args.Error(0)
}

func (m *MockQuestionRepository) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) CreateAnswer(ctx context.Context, answer *domain.Answer) error {
	return m.Called(ctx, answer).Error(0)
}

func (m *MockQuestionRepository) UpdateAnswer(ctx context.Context, answer *domain.Answer) error {
	return m.Called(ctx, answer).Error(0)
}

func (m *MockQuestionRepository) DeleteAnswer(ctx context.Context, answerID string) error {
	return m.Called(ctx, answerID).Error(0)
}

func (m *MockQuestionRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	return m.Called(ctx, id, deleted).Error(0)
}

func (m *MockQuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuestionRepository) GetAnswersByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]domain.Answer, error) {
	args := m.Called(ctx, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Answer), args.Error(1)
}

func (m *MockQuestionRepository) IncrementAttempts(ctx context.Context, questionID string, correct bool) error {
	return m.Called(ctx, questionID, correct).Error(0)
}

func (m *MockQuestionRepository) DecrementAttempts(ctx context.Context, questionID string, correct bool) error {
	return m.Called(ctx, questionID, correct).Error(0)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	if quiz.ID == "" {
		quiz.ID = "generated-quiz-id"
	}
	return args.Error(0)
}

func (m *MockQuizRepository) UpdateQuizStatus(ctx context.Context, id string, status domain.QuizStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockQuizRepository) ListQuizQuestions(ctx context.Context, quizID string) ([]domain.Question, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

func (m *MockQuizRepository) ListQuizQuestionIDs(ctx context.Context, quizID string) ([]string, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuizRepository) AddQuizQuestion(ctx context.Context, quizID, questionID string) error {
	return m.Called(ctx, quizID, questionID).Error(0)
}

func (m *MockQuizRepository) RemoveQuizQuestion(ctx context.Context, quizID, questionID string) error {
	return m.Called(ctx, quizID, questionID).Error(0)
}

func (m *MockQuizRepository) CountQuizQuestions(ctx context.Context, quizID string) (int, error) {
	args := m.Called(ctx, quizID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuizRepository) GetQuizStats(ctx context.Context, quizID string) (*domain.QuizStats, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizStats), args.Error(1)
}

// --- MockAssignmentRepository ---
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	return m.Called(ctx, assignment).Error(0)
}

func (m *MockAssignmentRepository) GetAssignmentByID(ctx context.Context, id string) (*domain.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListOpenAssignmentsByEmail(ctx context.Context, email string) ([]domain.Assignment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	return m.Called(ctx, assignment).Error(0)
}

func (m *MockAssignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssignmentRepository) CreateProgress(ctx context.Context, rows []domain.Progress) error {
	return m.Called(ctx, rows).Error(0)
}

func (m *MockAssignmentRepository) DeleteProgressByAssignment(ctx context.Context, assignmentID string) error {
	return m.Called(ctx, assignmentID).Error(0)
}

func (m *MockAssignmentRepository) ListProgress(ctx context.Context, assignmentID string) ([]domain.Progress, error) {
	args := m.Called(ctx, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Progress), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateProgressAnswer(ctx context.Context, progressID, answerID string) error {
	return m.Called(ctx, progressID, answerID).Error(0)
}

// --- MockAttemptRepository ---
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptRepository) ListAttempts(ctx context.Context, filter domain.ResultFilter, page domain.Page) ([]domain.Attempt, int, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Attempt), args.Int(1), args.Error(2)
}

func (m *MockAttemptRepository) ListAllAttempts(ctx context.Context) ([]domain.Attempt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListAttemptsByQuestion(ctx context.Context, questionID string) ([]domain.Attempt, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListAttemptsByAssignment(ctx context.Context, assignmentID string) ([]domain.Attempt, error) {
	args := m.Called(ctx, assignmentID)
	if fn, ok := args.Get(0).(func(context.Context, string) []domain.Attempt); ok {
		return fn(ctx, assignmentID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) DeleteAttemptsByAssignment(ctx context.Context, assignmentID string) error {
	return m.Called(ctx, assignmentID).Error(0)
}

func (m *MockAttemptRepository) DeleteAttempt(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// --- MockAnalyticsRepository ---
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) CountQuizzes(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountQuestions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAnalyticsRepository) CountQuestionsByDifficulty(ctx context.Context) (domain.DifficultyDistribution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DifficultyDistribution), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- MockMailer ---
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, topic string, difficulty domain.Difficulty, count int) ([]domain.GeneratedQuestion, error) {
	args := m.Called(ctx, topic, difficulty, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedQuestion), args.Error(1)
}

// --- MockAnalyticsService ---
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyticsResponse), args.Error(1)
}

func (m *MockAnalyticsService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// --- MockQuestionService ---
type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) ListQuestions(ctx context.Context, search, difficulty string, page int) (*dto.QuestionListResponse, error) {
	args := m.Called(ctx, search, difficulty, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuestionListResponse), args.Error(1)
}

func (m *MockQuestionService) AddQuestion(ctx context.Context, req dto.QuestionRequest, createdBy string) (*dto.QuestionResponse, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuestionResponse), args.Error(1)
}

func (m *MockQuestionService) GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuestionResponse), args.Error(1)
}

func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuestionResponse), args.Error(1)
}

func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id string, hard bool) error {
	return m.Called(ctx, id, hard).Error(0)
}

func (m *MockQuestionService) QuestionHistory(ctx context.Context, id string) (*dto.QuestionHistoryResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuestionHistoryResponse), args.Error(1)
}

func (m *MockQuestionService) GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsRequest, createdBy string) (*dto.GenerateQuestionsResponse, error) {
	args := m.Called(ctx, req, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerateQuestionsResponse), args.Error(1)
}

// passthroughTx runs fn directly, standing in for a database transaction.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
