package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dkotenko/storefront/internal/logging"
	"github.com/dkotenko/storefront/internal/service"
	"github.com/dkotenko/storefront/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "name and price are required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 404, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_product_error", "status", 404, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var patch transport.ProductPatch
	if err := c.Bind(&patch); err != nil {
		l.Warn("update_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.UpdateProduct(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid product fields")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_error", "status", 404, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	if !h.Svc.SearchEnabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	total, products, err := h.Svc.SearchProducts(ctx, q)
	if err != nil {
		l.Error("search_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "products": products})
}
