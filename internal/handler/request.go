package handler

import (
	"quiz-admin/internal/domain"
	"quiz-admin/internal/middleware"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// bindJSON parses the request body into out and validates it.
func bindJSON(c *fiber.Ctx, v *validation.Validator, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	return v.Struct(out)
}

// currentUser is the caller's identity as set by middleware.Protected.
func currentUser(c *fiber.Ctx) (userID, email string, err error) {
	userID, email, ok := middleware.CurrentUser(c)
	if !ok {
		return "", "", domain.NewUnauthorizedError("User ID not found in context")
	}
	return userID, email, nil
}
