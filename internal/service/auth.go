package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkotenko/storefront/internal/hash"
	"github.com/dkotenko/storefront/internal/logging"
	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/repo"
	"github.com/dkotenko/storefront/internal/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	UserID       uuid.UUID
	IsAdmin      bool
}

func (s *AuthService) createAccessToken(role, id string, exp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

func (s *AuthService) createRefreshToken(id string, exp time.Time) (string, error) {
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        tokens.NewJTI(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.RefreshSecret)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(accessTTL)
	accessToken, err := s.createAccessToken(user.Role, user.ID.String(), accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, err := s.createRefreshToken(user.ID.String(), refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, user.ID, refreshToken, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		UserID:       user.ID,
		IsAdmin:      user.Role == "admin",
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_failed", "reason", "username taken", "username", username)
			return nil, fmt.Errorf("username %q: %w", username, ErrUserExists)
		}
		l.Error("register_failed", "error", err)
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown username")
			return nil, fmt.Errorf("unknown username or wrong password: %w", ErrInvalidCredentials)
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, fmt.Errorf("unknown username or wrong password: %w", ErrInvalidCredentials)
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return res, nil
}

// LogOut revokes the refresh token. An empty or unknown token is fine:
// the handler clears cookies either way.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// Refresh rotates the token pair when the presented refresh token is known,
// unexpired and unrevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "reason", "bad token", "error", err)
		return nil, fmt.Errorf("refresh token rejected: %w", ErrInvalidCredentials)
	}

	stored, err := s.Repo.LookupRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrTokenRevoked) {
			l.Warn("refresh_failed", "reason", "token unknown or revoked")
			return nil, fmt.Errorf("refresh token rejected: %w", ErrInvalidCredentials)
		}
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || stored.UserID != userID {
		l.Warn("refresh_failed", "reason", "subject mismatch")
		return nil, fmt.Errorf("refresh token rejected: %w", ErrInvalidCredentials)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token rejected: %w", ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	l.Info("tokens_refreshed", "user_id", user.ID)
	return res, nil
}
