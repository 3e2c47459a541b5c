package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/tokens"
)

var ErrTokenRevoked = errors.New("token expired or revoked")

func (r *GormRepo) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, exp time.Time) error {
	rt := models.RefreshToken{
		Token:     tokens.Sha256Hex(token),
		UserID:    userID,
		ExpiresAt: exp,
	}
	return r.DB.WithContext(ctx).Create(&rt).Error
}

// RevokeRefreshToken marks the stored token revoked. Revoking an unknown
// token is not an error: logout must always succeed.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokens.Sha256Hex(token)).
		Update("revoked", true).Error
}

func (r *GormRepo) LookupRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.DB.WithContext(ctx).Where("token = ?", tokens.Sha256Hex(token)).First(&rt).Error
	if err != nil {
		return nil, err
	}
	if rt.Revoked || rt.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenRevoked
	}
	return &rt, nil
}
