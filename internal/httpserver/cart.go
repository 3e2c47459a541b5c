package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/storefront/internal/logging"
	authmw "github.com/dkotenko/storefront/internal/middleware/auth"
	"github.com/dkotenko/storefront/internal/service"
	"github.com/dkotenko/storefront/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := authmw.UserID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "bad product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not add product to cart")
	}

	item, err := h.Svc.AddToCart(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOperation) || errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "could not add product to cart")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := authmw.UserID(c)
	if err != nil {
		l.Error("remove_from_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "bad product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "could not remove product from cart")
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrInvalidOperation) {
			return echo.NewHTTPError(http.StatusBadRequest, "could not remove product from cart")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "item removed from cart"})
}

func (h *CartHTTP) ViewCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.view")

	userID, err := authmw.UserID(c)
	if err != nil {
		l.Error("view_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	entries, err := h.Svc.ViewCart(ctx, userID)
	if err != nil {
		l.Error("view_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, entries)
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	userID, err := authmw.UserID(c)
	if err != nil {
		l.Error("checkout_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cleared, err := h.Svc.Checkout(ctx, userID)
	if err != nil {
		l.Error("checkout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		Message: "checkout successful, cart cleared",
		Cleared: cleared,
	})
}
