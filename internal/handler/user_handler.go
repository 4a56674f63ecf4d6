package handler

import (
	"quiz-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the signed-in caller's own account.
type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetMyProfile returns the caller's account with the number of quizzes still assigned to them
// or in progress.
// @Summary Current account
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Account was removed after the token was issued"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.users.GetUserProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	// counts change whenever an admin assigns a quiz
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(profile)
}
