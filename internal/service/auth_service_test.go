package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"quiz-admin/internal/cache"
	"quiz-admin/internal/config"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "a-very-secret-key-that-is-at-least-32-bytes",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		GoogleOAuth: config.GoogleOAuthConfig{
			ClientID:    "client-id",
			RedirectURL: "http://localhost:8090/api/auth/google/callback",
		},
	}
}

func newTestAuthService(t *testing.T) (*authServiceImpl, *MockUserRepository, *MockCache) {
	t.Helper()
	userRepo := new(MockUserRepository)
	cacheMock := new(MockCache)
	svc, err := NewAuthService(userRepo, cacheMock, testAuthConfig())
	require.NoError(t, err)
	return svc.(*authServiceImpl), userRepo, cacheMock
}

func userWithPassword(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	u := domain.NewUser("Jane@Example.com", "Jane")
	u.ID = "01HZX0000000000000000USER1"
	u.Role = role
	require.NoError(t, u.SetPassword("correct-horse"))
	return u
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWT.SecretKey = "short"
	_, err := NewAuthService(new(MockUserRepository), nil, cfg)
	assert.Error(t, err)
}

func TestAuthService_SignUp(t *testing.T) {
	svc, userRepo, cacheMock := newTestAuthService(t)
	ctx := context.Background()

	userRepo.On("GetUserByEmail", ctx, "new@example.com").Return(nil, nil).Once()
	userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && u.Role == domain.RoleUser && u.PasswordHash != ""
	})).Return(nil).Once()
	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)

	tokens, err := svc.SignUp(ctx, dto.SignUpRequest{Email: "new@example.com", Password: "password123", Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, 900, tokens.ExpiresIn)

	claims, err := svc.ValidateJWT(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	userRepo.AssertExpectations(t)
}

func TestAuthService_SignUp_EmailTaken(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	ctx := context.Background()
	userRepo.On("GetUserByEmail", ctx, "jane@example.com").Return(userWithPassword(t, domain.RoleUser), nil).Once()

	_, err := svc.SignUp(ctx, dto.SignUpRequest{Email: "jane@example.com", Password: "password123"})
	assert.True(t, domain.HasCode(err, domain.CodeEmailTaken))
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	svc, userRepo, cacheMock := newTestAuthService(t)
	ctx := context.Background()
	admin := userWithPassword(t, domain.RoleAdmin)
	userRepo.On("GetUserByEmail", ctx, "jane@example.com").Return(admin, nil)
	userRepo.On("GetUserByEmail", ctx, "nobody@example.com").Return(nil, nil)
	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)

	tokens, err := svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := svc.ValidateJWT(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, admin.ID, claims.UserID)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.True(t, domain.HasCode(err, domain.CodeInvalidCredentials))

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.True(t, domain.HasCode(err, domain.CodeInvalidCredentials))
}

func TestAuthService_ValidateJWT(t *testing.T) {
	svc, _, cacheMock := newTestAuthService(t)
	ctx := context.Background()
	user := userWithPassword(t, domain.RoleUser)

	token, err := svc.CreateJWT(ctx, user, time.Minute, tokenTypeAccess)
	require.NoError(t, err)

	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	_, err = svc.ValidateJWT(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	expired, err := svc.CreateJWT(ctx, user, -time.Minute, tokenTypeAccess)
	require.NoError(t, err)
	_, err = svc.ValidateJWT(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	_, err = svc.ValidateJWT(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_ValidateJWT_CacheDownIsNotFatal(t *testing.T) {
	svc, _, cacheMock := newTestAuthService(t)
	ctx := context.Background()
	token, err := svc.CreateJWT(ctx, userWithPassword(t, domain.RoleUser), time.Minute, tokenTypeAccess)
	require.NoError(t, err)

	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, assert.AnError).Once()
	claims, err := svc.ValidateJWT(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "01HZX0000000000000000USER1", claims.UserID)
}

func TestAuthService_RefreshToken_Rotates(t *testing.T) {
	svc, userRepo, cacheMock := newTestAuthService(t)
	ctx := context.Background()
	user := userWithPassword(t, domain.RoleUser)

	refresh, err := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
	require.NoError(t, err)

	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	userRepo.On("GetUserByID", ctx, user.ID).Return(user, nil).Once()
	cacheMock.On("Set", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, cache.RevokedTokenKey(""))
	}), tokenTypeRefresh, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	tokens, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, refresh, tokens.RefreshToken)
	cacheMock.AssertExpectations(t)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _, cacheMock := newTestAuthService(t)
	ctx := context.Background()
	access, err := svc.CreateJWT(ctx, userWithPassword(t, domain.RoleUser), time.Hour, tokenTypeAccess)
	require.NoError(t, err)
	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)

	_, err = svc.RefreshToken(ctx, access)
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, cacheMock := newTestAuthService(t)
	ctx := context.Background()
	user := userWithPassword(t, domain.RoleUser)

	access, err := svc.CreateJWT(ctx, user, time.Hour, tokenTypeAccess)
	require.NoError(t, err)
	refresh, err := svc.CreateJWT(ctx, user, time.Hour, tokenTypeRefresh)
	require.NoError(t, err)

	cacheMock.On("Exists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	accessClaims, err := svc.ValidateJWT(ctx, access)
	require.NoError(t, err)

	cacheMock.On("Set", ctx, cache.RevokedTokenKey(accessClaims.ID), tokenTypeAccess, mock.AnythingOfType("time.Duration")).Return(nil).Once()
	cacheMock.On("Set", ctx, mock.AnythingOfType("string"), tokenTypeRefresh, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	require.NoError(t, svc.Logout(ctx, accessClaims, refresh))
	cacheMock.AssertExpectations(t)
}

func TestAuthService_Logout_WithoutCache(t *testing.T) {
	svc, err := NewAuthService(new(MockUserRepository), nil, testAuthConfig())
	require.NoError(t, err)
	assert.NoError(t, svc.Logout(context.Background(), &dto.AuthClaims{}, ""))
}

func TestAuthService_Google(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	url := svc.GetGoogleLoginURL("state-123")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "client_id=client-id")

	_, err := svc.HandleGoogleCallback(context.Background(), "code", "state-a", "state-b")
	assert.ErrorIs(t, err, ErrInvalidAuthState)
	assert.True(t, domain.HasCode(err, domain.CodeUnauthorized))
}

func TestAuthService_FindOrCreateGoogleUser(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)
	ctx := context.Background()
	existing := userWithPassword(t, domain.RoleAdmin)

	userRepo.On("GetUserByGoogleID", ctx, "g-1").Return(nil, nil).Once()
	userRepo.On("GetUserByEmail", ctx, "jane@example.com").Return(existing, nil).Once()
	userRepo.On("UpdateUser", ctx, existing).Return(nil).Once()

	user, err := svc.findOrCreateGoogleUser(ctx, dto.GoogleUserInfo{ID: "g-1", Email: "jane@example.com", Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", user.GoogleID)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	userRepo.On("GetUserByGoogleID", ctx, "g-2").Return(nil, nil).Once()
	userRepo.On("GetUserByEmail", ctx, "new@example.com").Return(nil, nil).Once()
	userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.GoogleID == "g-2" && u.Role == domain.RoleUser
	})).Return(nil).Once()

	user, err = svc.findOrCreateGoogleUser(ctx, dto.GoogleUserInfo{ID: "g-2", Email: "New@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	userRepo.AssertExpectations(t)
}
