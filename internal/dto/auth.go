package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthClaims defines the custom claims for JWT. The token id (jti) lives in RegisteredClaims.ID.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// SignUpRequest is the body of POST /auth/signup.
// @Description Request body for email sign up
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents the response containing access and refresh tokens.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds until the access token expires
}

// RefreshTokenRequest represents the request body for refreshing a token.
// @Description Request body for refreshing JWT tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked together with the access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserProfileResponse is an account plus the number of quizzes still waiting for it.
type UserProfileResponse struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name,omitempty"`
	Role              string    `json:"role"`
	IsAdmin           bool      `json:"is_admin"`
	AssignedQuizzes   int       `json:"assigned_quizzes"`
	InProgressQuizzes int       `json:"in_progress_quizzes"`
	CreatedAt         time.Time `json:"created_at"`
}
