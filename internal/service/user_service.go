package service

import (
	"context"
	"errors"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"

	"go.uber.org/zap"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	// EnsureAdmin creates the admin account or promotes an existing user with that email.
	EnsureAdmin(ctx context.Context, email, password, name string) (*dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	userRepo    domain.UserRepository
	assignments domain.AssignmentRepository
}

// NewUserService wires the account service. assignments may be nil when open quiz counts are not needed.
func NewUserService(userRepo domain.UserRepository, assignments domain.AssignmentRepository) UserService {
	return &userServiceImpl{userRepo: userRepo, assignments: assignments}
}

func toUserProfile(u *domain.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
	}
}

// GetUserProfile returns the account with counts of its assigned and in-progress quizzes.
func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User profile not found")
	}
	profile := toUserProfile(user)
	if s.assignments == nil {
		return profile, nil
	}

	open, err := s.assignments.ListOpenAssignmentsByEmail(ctx, user.Email)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count assigned quizzes", err)
	}
	for _, a := range open {
		switch a.Status {
		case domain.AssignmentStatusAssigned:
			profile.AssignedQuizzes++
		case domain.AssignmentStatusInProgress:
			profile.InProgressQuizzes++
		}
	}
	return profile, nil
}

func (s *userServiceImpl) EnsureAdmin(ctx context.Context, email, password, name string) (*dto.UserProfileResponse, error) {
	if domain.NormalizeEmail(email) == "" {
		return nil, domain.NewValidationError("email", "admin email is required")
	}
	user, err := s.userRepo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up admin", err)
	}

	if user == nil {
		user = domain.NewUser(email, name)
		user.Role = domain.RoleAdmin
		if err := user.SetPassword(password); err != nil {
			return nil, passwordError(err)
		}
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			return nil, domain.NewInternalError("Failed to create admin", err)
		}
		logger.Get().Info("Admin user created", zap.String("email", user.Email))
		return toUserProfile(user), nil
	}

	if user.IsAdmin() && user.PasswordHash != "" {
		return toUserProfile(user), nil
	}
	user.Role = domain.RoleAdmin
	if user.PasswordHash == "" && password != "" {
		if err := user.SetPassword(password); err != nil {
			return nil, passwordError(err)
		}
	}
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("Failed to promote admin", err)
	}
	logger.Get().Info("Existing user promoted to admin", zap.String("email", user.Email))
	return toUserProfile(user), nil
}

func passwordError(err error) error {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return domain.NewInternalError("Failed to hash password", err)
}
