package handler

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/middleware"
	"quiz-admin/internal/service"
	"quiz-admin/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const oauthStateCookieName = "oauthstate"

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator}
}

// SignUp registers a user with email and password.
// @Summary Sign up
// @Description Creates a user account and returns a token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.SignUpRequest true "Account details"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	tokens, err := h.authService.SignUp(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tokens)
}

// Login exchanges email and password for a token pair.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	tokens, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// GoogleLogin initiates the Google OAuth2 login flow.
// @Summary Initiate Google Login
// @Description Redirects the user to Google's OAuth2 consent page.
// @Tags auth
// @Success 307 {string} string "Redirects to Google"
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return domain.NewInternalError("Could not generate state for OAuth flow", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})
	return c.Redirect(h.authService.GetGoogleLoginURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles the callback from Google OAuth2.
// @Summary Google OAuth2 Callback
// @Description Handles user authentication after Google login, issues JWTs.
// @Tags auth
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State string for CSRF protection"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing code"
// @Failure 401 {object} middleware.ErrorResponse "Invalid state"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "MISSING_CODE", Message: "Authorization code is missing", Status: fiber.StatusBadRequest,
		})
	}
	if receivedState == "" || expectedState == "" || receivedState != expectedState {
		logger.Get().Warn("OAuth state mismatch", zap.String("received", receivedState), zap.String("expected", expectedState))
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "INVALID_STATE", Message: "OAuth state mismatch or missing", Status: fiber.StatusBadRequest,
		})
	}

	tokens, err := h.authService.HandleGoogleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// RefreshToken rotates a refresh token into a new token pair.
// @Summary Refresh JWT tokens
// @Description The refresh token in the body is revoked and a new pair is issued.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Refresh token invalid or expired"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	tokens, err := h.authService.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(tokens)
}

// Logout revokes the caller's access token and, when given, their refresh token.
// @Summary Logout user
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.LogoutRequest false "Refresh token to revoke"
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return domain.NewUnauthorizedError("User ID not found in context")
	}

	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
	}
	if err := h.authService.Logout(c.UserContext(), claims, req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logout successful"})
}
