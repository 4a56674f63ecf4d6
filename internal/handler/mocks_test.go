package handler_test

import (
	"context"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
)

// --- Manual Mocks ---

type MockAuthService struct {
	SignUpFunc               func(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error)
	LoginFunc                func(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	HandleGoogleCallbackFunc func(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error)
	ValidateJWTFunc          func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	RefreshTokenFunc         func(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
	LogoutFunc               func(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error
}

func (m *MockAuthService) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, req)
	}
	panic("MockAuthService.SignUpFunc not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*dto.TokenResponse, error) {
	if m.HandleGoogleCallbackFunc != nil {
		return m.HandleGoogleCallbackFunc(ctx, code, receivedState, expectedState)
	}
	panic("MockAuthService.HandleGoogleCallbackFunc not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateJWTFunc != nil {
		return m.ValidateJWTFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateJWTFunc not implemented")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshTokenString)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}

func (m *MockAuthService) Logout(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessClaims, refreshTokenString)
	}
	panic("MockAuthService.LogoutFunc not implemented")
}

type MockUserService struct {
	GetUserProfileFunc func(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
}

func (m *MockUserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	panic("MockUserService.GetUserProfileFunc not implemented")
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, email, password, name string) (*dto.UserProfileResponse, error) {
	panic("MockUserService.EnsureAdmin not implemented")
}

type MockQuestionService struct {
	ListQuestionsFunc     func(ctx context.Context, search, difficulty string, page int) (*dto.QuestionListResponse, error)
	AddQuestionFunc       func(ctx context.Context, req dto.QuestionRequest, createdBy string) (*dto.QuestionResponse, error)
	GetQuestionFunc       func(ctx context.Context, id string) (*dto.QuestionResponse, error)
	UpdateQuestionFunc    func(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestionFunc    func(ctx context.Context, id string, hard bool) error
	QuestionHistoryFunc   func(ctx context.Context, id string) (*dto.QuestionHistoryResponse, error)
	GenerateQuestionsFunc func(ctx context.Context, req dto.GenerateQuestionsRequest, createdBy string) (*dto.GenerateQuestionsResponse, error)
}

func (m *MockQuestionService) ListQuestions(ctx context.Context, search, difficulty string, page int) (*dto.QuestionListResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, search, difficulty, page)
	}
	panic("MockQuestionService.ListQuestionsFunc not implemented")
}

func (m *MockQuestionService) AddQuestion(ctx context.Context, req dto.QuestionRequest, createdBy string) (*dto.QuestionResponse, error) {
	if m.AddQuestionFunc != nil {
		return m.AddQuestionFunc(ctx, req, createdBy)
	}
	panic("MockQuestionService.AddQuestionFunc not implemented")
}

func (m *MockQuestionService) GetQuestion(ctx context.Context, id string) (*dto.QuestionResponse, error) {
	if m.GetQuestionFunc != nil {
		return m.GetQuestionFunc(ctx, id)
	}
	panic("MockQuestionService.GetQuestionFunc not implemented")
}

func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(ctx, id, req)
	}
	panic("MockQuestionService.UpdateQuestionFunc not implemented")
}

func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id string, hard bool) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, id, hard)
	}
	panic("MockQuestionService.DeleteQuestionFunc not implemented")
}

func (m *MockQuestionService) QuestionHistory(ctx context.Context, id string) (*dto.QuestionHistoryResponse, error) {
	if m.QuestionHistoryFunc != nil {
		return m.QuestionHistoryFunc(ctx, id)
	}
	panic("MockQuestionService.QuestionHistoryFunc not implemented")
}

func (m *MockQuestionService) GenerateQuestions(ctx context.Context, req dto.GenerateQuestionsRequest, createdBy string) (*dto.GenerateQuestionsResponse, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, req, createdBy)
	}
	panic("MockQuestionService.GenerateQuestionsFunc not implemented")
}

type MockQuizService struct {
	ListQuizzesFunc            func(ctx context.Context) ([]dto.QuizResponse, error)
	CreateQuizFunc             func(ctx context.Context, req dto.CreateQuizRequest, adminID string) (*dto.QuizResponse, error)
	GetQuizFunc                func(ctx context.Context, id string) (*dto.QuizResponse, error)
	ToggleStatusFunc           func(ctx context.Context, id string) (*dto.QuizResponse, error)
	QuizQuestionsFunc          func(ctx context.Context, id string) (*dto.QuizQuestionsResponse, error)
	AddQuestionToQuizFunc      func(ctx context.Context, quizID, questionID string) error
	RemoveQuestionFromQuizFunc func(ctx context.Context, quizID, questionID string) error
	BulkUpdateQuestionsFunc    func(ctx context.Context, quizID string, req dto.BulkQuestionsRequest) (*dto.BulkQuestionsResponse, error)
	QuizStatsFunc              func(ctx context.Context, id string) (*dto.QuizStatsResponse, error)
}

func (m *MockQuizService) ListQuizzes(ctx context.Context) ([]dto.QuizResponse, error) {
	if m.ListQuizzesFunc != nil {
		return m.ListQuizzesFunc(ctx)
	}
	panic("MockQuizService.ListQuizzesFunc not implemented")
}

func (m *MockQuizService) CreateQuiz(ctx context.Context, req dto.CreateQuizRequest, adminID string) (*dto.QuizResponse, error) {
	if m.CreateQuizFunc != nil {
		return m.CreateQuizFunc(ctx, req, adminID)
	}
	panic("MockQuizService.CreateQuizFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, id)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) ToggleStatus(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if m.ToggleStatusFunc != nil {
		return m.ToggleStatusFunc(ctx, id)
	}
	panic("MockQuizService.ToggleStatusFunc not implemented")
}

func (m *MockQuizService) QuizQuestions(ctx context.Context, id string) (*dto.QuizQuestionsResponse, error) {
	if m.QuizQuestionsFunc != nil {
		return m.QuizQuestionsFunc(ctx, id)
	}
	panic("MockQuizService.QuizQuestionsFunc not implemented")
}

func (m *MockQuizService) AddQuestionToQuiz(ctx context.Context, quizID, questionID string) error {
	if m.AddQuestionToQuizFunc != nil {
		return m.AddQuestionToQuizFunc(ctx, quizID, questionID)
	}
	panic("MockQuizService.AddQuestionToQuizFunc not implemented")
}

func (m *MockQuizService) RemoveQuestionFromQuiz(ctx context.Context, quizID, questionID string) error {
	if m.RemoveQuestionFromQuizFunc != nil {
		return m.RemoveQuestionFromQuizFunc(ctx, quizID, questionID)
	}
	panic("MockQuizService.RemoveQuestionFromQuizFunc not implemented")
}

func (m *MockQuizService) BulkUpdateQuestions(ctx context.Context, quizID string, req dto.BulkQuestionsRequest) (*dto.BulkQuestionsResponse, error) {
	if m.BulkUpdateQuestionsFunc != nil {
		return m.BulkUpdateQuestionsFunc(ctx, quizID, req)
	}
	panic("MockQuizService.BulkUpdateQuestionsFunc not implemented")
}

func (m *MockQuizService) QuizStats(ctx context.Context, id string) (*dto.QuizStatsResponse, error) {
	if m.QuizStatsFunc != nil {
		return m.QuizStatsFunc(ctx, id)
	}
	panic("MockQuizService.QuizStatsFunc not implemented")
}

type MockAssignmentService struct {
	AssignQuizFunc      func(ctx context.Context, req dto.AssignQuizRequest, adminID string) (*dto.AssignmentResponse, error)
	ListAssignmentsFunc func(ctx context.Context) ([]dto.AssignmentResponse, error)
	AllowResumeFunc     func(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	FreshReassignFunc   func(ctx context.Context, id string) (*dto.AssignmentResponse, error)
}

func (m *MockAssignmentService) AssignQuiz(ctx context.Context, req dto.AssignQuizRequest, adminID string) (*dto.AssignmentResponse, error) {
	if m.AssignQuizFunc != nil {
		return m.AssignQuizFunc(ctx, req, adminID)
	}
	panic("MockAssignmentService.AssignQuizFunc not implemented")
}

func (m *MockAssignmentService) ListAssignments(ctx context.Context) ([]dto.AssignmentResponse, error) {
	if m.ListAssignmentsFunc != nil {
		return m.ListAssignmentsFunc(ctx)
	}
	panic("MockAssignmentService.ListAssignmentsFunc not implemented")
}

func (m *MockAssignmentService) AllowResume(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	if m.AllowResumeFunc != nil {
		return m.AllowResumeFunc(ctx, id)
	}
	panic("MockAssignmentService.AllowResumeFunc not implemented")
}

func (m *MockAssignmentService) FreshReassign(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	if m.FreshReassignFunc != nil {
		return m.FreshReassignFunc(ctx, id)
	}
	panic("MockAssignmentService.FreshReassignFunc not implemented")
}

type MockTakingService struct {
	DashboardFunc  func(ctx context.Context, email string) (*dto.DashboardResponse, error)
	StartFunc      func(ctx context.Context, email, assignmentID string) (*dto.AssignmentResponse, error)
	SessionFunc    func(ctx context.Context, email, assignmentID string) (*dto.QuizSessionResponse, error)
	SaveAnswerFunc func(ctx context.Context, email, assignmentID, progressID, answerID string) error
	MoveToFunc     func(ctx context.Context, email, assignmentID string, index int) (*dto.AssignmentResponse, error)
	CompleteFunc   func(ctx context.Context, userID, email, assignmentID string, req dto.CompleteQuizRequest) (*dto.QuizResultResponse, error)
}

func (m *MockTakingService) Dashboard(ctx context.Context, email string) (*dto.DashboardResponse, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, email)
	}
	panic("MockTakingService.DashboardFunc not implemented")
}

func (m *MockTakingService) Start(ctx context.Context, email, assignmentID string) (*dto.AssignmentResponse, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, email, assignmentID)
	}
	panic("MockTakingService.StartFunc not implemented")
}

func (m *MockTakingService) Session(ctx context.Context, email, assignmentID string) (*dto.QuizSessionResponse, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc(ctx, email, assignmentID)
	}
	panic("MockTakingService.SessionFunc not implemented")
}

func (m *MockTakingService) SaveAnswer(ctx context.Context, email, assignmentID, progressID, answerID string) error {
	if m.SaveAnswerFunc != nil {
		return m.SaveAnswerFunc(ctx, email, assignmentID, progressID, answerID)
	}
	panic("MockTakingService.SaveAnswerFunc not implemented")
}

func (m *MockTakingService) MoveTo(ctx context.Context, email, assignmentID string, index int) (*dto.AssignmentResponse, error) {
	if m.MoveToFunc != nil {
		return m.MoveToFunc(ctx, email, assignmentID, index)
	}
	panic("MockTakingService.MoveToFunc not implemented")
}

func (m *MockTakingService) Complete(ctx context.Context, userID, email, assignmentID string, req dto.CompleteQuizRequest) (*dto.QuizResultResponse, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, userID, email, assignmentID, req)
	}
	panic("MockTakingService.CompleteFunc not implemented")
}

type MockResultService struct {
	ListResultsFunc   func(ctx context.Context, filters dto.ResultFilters, page int) (*dto.ResultListResponse, error)
	DeleteAttemptFunc func(ctx context.Context, id string) error
	ExportResultsFunc func(ctx context.Context) ([]byte, error)
}

func (m *MockResultService) ListResults(ctx context.Context, filters dto.ResultFilters, page int) (*dto.ResultListResponse, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, filters, page)
	}
	panic("MockResultService.ListResultsFunc not implemented")
}

func (m *MockResultService) DeleteAttempt(ctx context.Context, id string) error {
	if m.DeleteAttemptFunc != nil {
		return m.DeleteAttemptFunc(ctx, id)
	}
	panic("MockResultService.DeleteAttemptFunc not implemented")
}

func (m *MockResultService) ExportResults(ctx context.Context) ([]byte, error) {
	if m.ExportResultsFunc != nil {
		return m.ExportResultsFunc(ctx)
	}
	panic("MockResultService.ExportResultsFunc not implemented")
}

type MockAnalyticsService struct {
	GetAnalyticsFunc func(ctx context.Context) (*dto.AnalyticsResponse, error)
}

func (m *MockAnalyticsService) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	if m.GetAnalyticsFunc != nil {
		return m.GetAnalyticsFunc(ctx)
	}
	panic("MockAnalyticsService.GetAnalyticsFunc not implemented")
}

func (m *MockAnalyticsService) Invalidate(ctx context.Context) {}
