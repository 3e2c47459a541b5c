package auth

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/storefront/internal/tokens"
)

// Middleware resolves the current user from the access-token cookie and puts
// the identity on the echo context. Handlers read it back with UserID and
// pass it explicitly into service calls; nothing downstream touches cookies.
type Middleware struct {
	JWTSecret []byte
}

func New(secret []byte) *Middleware {
	return &Middleware{JWTSecret: secret}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(tokens.AccessCookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

// UserID returns the authenticated user's id set by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get("user_id").(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return id, nil
}
