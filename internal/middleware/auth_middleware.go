package middleware

import (
	"context"
	"fmt"
	"strings"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "

	// Keys for values stored in fiber.Ctx locals by Protected.
	UserIDKey = "userID"
	EmailKey  = "userEmail"
	RoleKey   = "userRole"
	ClaimsKey = "authClaims"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// Protected requires a valid access token and stores the caller's identity in the context.
func Protected(authService TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		// fasthttp trims trailing spaces, so a bare "Bearer" arrives without its separator.
		if authHeader != strings.TrimSpace(BearerSchema) && !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, strings.TrimSpace(BearerSchema)))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.Error(err), zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: fmt.Sprintf("Invalid token type: expected access, got %s", claims.TokenType),
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(EmailKey, claims.Email)
		c.Locals(RoleKey, claims.Role)
		c.Locals(ClaimsKey, claims)

		return c.Next()
	}
}

// RequireRole must run after Protected. It rejects callers whose role is not one of roles.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(RoleKey).(string)
		for _, r := range roles {
			if role == string(r) {
				return c.Next()
			}
		}
		logger.Get().Warn("Role check failed",
			zap.String("path", c.Path()),
			zap.String("role", role),
			zap.Any("userID", c.Locals(UserIDKey)))
		return domain.NewForbiddenError("You do not have permission to access this resource")
	}
}

// CurrentUser returns the identity stored by Protected.
func CurrentUser(c *fiber.Ctx) (userID, email string, ok bool) {
	userID, _ = c.Locals(UserIDKey).(string)
	email, _ = c.Locals(EmailKey).(string)
	return userID, email, userID != ""
}

// CurrentClaims returns the access token claims stored by Protected, or nil.
func CurrentClaims(c *fiber.Ctx) *dto.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*dto.AuthClaims)
	return claims
}
