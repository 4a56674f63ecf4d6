package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-admin/internal/cache"
	"quiz-admin/internal/config"
	"quiz-admin/internal/domain"
	"quiz-admin/internal/dto"
	"quiz-admin/internal/logger"
	"quiz-admin/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokenTypeAccess   = "access"
	tokenTypeRefresh  = "refresh"
)

var (
	ErrInvalidAuthState      = errors.New("invalid oauth state")
	ErrFailedToExchangeToken = errors.New("failed to exchange oauth token")
	ErrFailedToGetUserInfo   = errors.New("failed to get user info from google")
	ErrInvalidJWTToken       = errors.New("invalid jwt token")
	ErrTokenRevoked          = errors.New("token has been revoked")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	GetGoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string, receivedState string, expectedState string) (*dto.TokenResponse, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error)
	// Logout revokes the access token described by claims and, when given, the refresh token.
	Logout(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error
}

type authServiceImpl struct {
	userRepo     domain.UserRepository
	cache        domain.Cache
	oauth2Config *oauth2.Config
	appConfig    *config.Config
}

// NewAuthService creates a new instance of AuthService. cache may be nil, in which case tokens cannot be revoked.
func NewAuthService(userRepo domain.UserRepository, cache domain.Cache, appConfig *config.Config) (AuthService, error) {
	if len(appConfig.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}

	return &authServiceImpl{
		userRepo: userRepo,
		cache:    cache,
		oauth2Config: &oauth2.Config{
			ClientID:     appConfig.GoogleOAuth.ClientID,
			ClientSecret: appConfig.GoogleOAuth.ClientSecret,
			RedirectURL:  appConfig.GoogleOAuth.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		appConfig: appConfig,
	}, nil
}

func (s *authServiceImpl) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.TokenResponse, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up user", err)
	}
	if existing != nil {
		return nil, domain.NewEmailTakenError(domain.NormalizeEmail(req.Email))
	}

	user := domain.NewUser(req.Email, req.Name)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, passwordError(err)
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("Failed to create user", err)
	}
	logger.Get().Info("New user signed up", zap.String("userID", user.ID), zap.String("email", user.Email))

	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up user", err)
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, domain.NewInvalidCredentialsError()
	}
	logger.Get().Info("User logged in", zap.String("userID", user.ID))
	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) GetGoogleLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *authServiceImpl) HandleGoogleCallback(ctx context.Context, code string, receivedState string, expectedState string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	if receivedState == "" || receivedState != expectedState {
		return nil, domain.NewError(domain.CodeUnauthorized, "Invalid OAuth state", ErrInvalidAuthState)
	}

	googleToken, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthorized, "Failed to exchange authorization code", fmt.Errorf("%w: %v", ErrFailedToExchangeToken, err))
	}

	client := s.oauth2Config.Client(ctx, googleToken)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get Google profile", fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err))
	}
	defer resp.Body.Close()

	var userInfo dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, domain.NewInternalError("Failed to decode Google profile", err)
	}
	if userInfo.ID == "" || userInfo.Email == "" {
		return nil, domain.NewInternalError("Google profile is incomplete", ErrFailedToGetUserInfo)
	}

	user, err := s.findOrCreateGoogleUser(ctx, userInfo)
	if err != nil {
		return nil, err
	}
	appLogger.Info("User logged in via Google OAuth", zap.String("userID", user.ID), zap.String("email", user.Email))

	return s.issueTokens(ctx, user)
}

// findOrCreateGoogleUser matches on the Google id first, then links an existing account with the same email.
func (s *authServiceImpl) findOrCreateGoogleUser(ctx context.Context, info dto.GoogleUserInfo) (*domain.User, error) {
	user, err := s.userRepo.GetUserByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up user", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.GetUserByEmail(ctx, domain.NormalizeEmail(info.Email))
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up user", err)
	}
	if user != nil {
		user.GoogleID = info.ID
		if user.Name == "" {
			user.Name = info.Name
		}
		if err := s.userRepo.UpdateUser(ctx, user); err != nil {
			return nil, domain.NewInternalError("Failed to link Google account", err)
		}
		return user, nil
	}

	user = domain.NewUser(info.Email, info.Name)
	user.GoogleID = info.ID
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("Failed to create user", err)
	}
	logger.Get().Info("New user created via Google OAuth", zap.String("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.appConfig.JWT.SecretKey))
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	accessToken, err := s.CreateJWT(ctx, user, s.appConfig.JWT.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user, s.appConfig.JWT.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("Failed to create refresh token", err)
	}
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.appConfig.JWT.AccessTokenTTL.Seconds()),
	}, nil
}

func tokenSnippet(tokenString string) string {
	return tokenString[:min(len(tokenString), 20)] + "..."
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Debug("JWT token expired", zap.String("token_snippet", tokenSnippet(tokenString)))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", tokenSnippet(tokenString)))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}

	revoked, err := s.isRevoked(ctx, claims.ID)
	if err != nil {
		// Revocation checks are best effort while the cache is unavailable.
		appLogger.Warn("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (s *authServiceImpl) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.cache == nil || jti == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, cache.RevokedTokenKey(jti))
}

// revoke blacklists a token id until the token would have expired anyway.
func (s *authServiceImpl) revoke(ctx context.Context, claims *dto.AuthClaims) error {
	if s.cache == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, cache.RevokedTokenKey(claims.ID), claims.TokenType, ttl)
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (*dto.TokenResponse, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return nil, domain.NewError(domain.CodeUnauthorized, "Invalid refresh token", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, domain.NewUnauthorizedError("Not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up user", err)
	}
	if user == nil {
		appLogger.Warn("User not found for refresh token", zap.String("userID", claims.UserID))
		return nil, domain.NewUnauthorizedError("User no longer exists")
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, domain.NewInternalError("Failed to rotate refresh token", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return tokens, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, accessClaims *dto.AuthClaims, refreshTokenString string) error {
	if err := s.revoke(ctx, accessClaims); err != nil {
		return domain.NewInternalError("Failed to revoke access token", err)
	}
	if refreshTokenString == "" {
		return nil
	}

	refreshClaims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		// Already expired or revoked.
		return nil
	}
	if accessClaims != nil && refreshClaims.UserID != accessClaims.UserID {
		return domain.NewForbiddenError("Refresh token belongs to another user")
	}
	if err := s.revoke(ctx, refreshClaims); err != nil {
		return domain.NewInternalError("Failed to revoke refresh token", err)
	}
	return nil
}
