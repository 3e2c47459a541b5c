package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

func AccessClaimsFromToken(token string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(token, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func RefreshClaimsFromToken(token string, secret []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseInto(token, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(token string, secret []byte, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func NewJTI() string { return uuid.NewString() }
