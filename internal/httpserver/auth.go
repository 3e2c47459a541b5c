package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkotenko/storefront/internal/logging"
	"github.com/dkotenko/storefront/internal/service"
	"github.com/dkotenko/storefront/internal/tokens"
	"github.com/dkotenko/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) setSessionCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookieName, res.RefreshToken, "/", res.RefreshExp))
}

func clearSessionCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookieName, "/"))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
		case errors.Is(err, service.ErrUserExists):
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.setSessionCookies(c, res)

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "login successful",
		"is_admin": res.IsAdmin,
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if cookie, err := c.Cookie(tokens.RefreshCookieName); err == nil {
		if err := h.Svc.LogOut(ctx, cookie.Value); err != nil {
			clearSessionCookies(c)
			l.Error("logout_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	clearSessionCookies(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(tokens.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			clearSessionCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh rejected")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.setSessionCookies(c, res)
	return c.JSON(http.StatusOK, echo.Map{"message": "tokens refreshed"})
}
