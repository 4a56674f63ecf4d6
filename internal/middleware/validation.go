package middleware

import (
	"quiz-admin/internal/domain"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const PageKey = "validated_page"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateIDParams checks that the named path parameters are ULIDs.
func (vm *ValidationMiddleware) ValidateIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs domain.ValidationErrors
		for _, name := range names {
			errs = append(errs, vm.validator.ValidateULID(name, c.Params(name))...)
		}
		if len(errs) > 0 {
			return errs
		}
		return c.Next()
	}
}

// ValidatePage parses the page query parameter and stores it under PageKey.
func (vm *ValidationMiddleware) ValidatePage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, errs := vm.validator.ValidatePage(c.Query("page"))
		if len(errs) > 0 {
			return errs
		}
		c.Locals(PageKey, page)
		return c.Next()
	}
}

// PageFromContext returns the page stored by ValidatePage, defaulting to 1.
func PageFromContext(c *fiber.Ctx) int {
	if page, ok := c.Locals(PageKey).(int); ok && page > 0 {
		return page
	}
	return 1
}
