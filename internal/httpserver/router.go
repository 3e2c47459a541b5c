package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/dkotenko/storefront/internal/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Catalog   *CatalogHTTP
	Cart      *CartHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := authmw.New(d.JWTSecret)

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.LogOut, mw.RequireAuth)
	e.POST("/refresh", d.Auth.Refresh)

	products := e.Group("/api/products")
	products.GET("", d.Catalog.ListProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("/add", d.Catalog.CreateProduct, mw.RequireAuth)
	products.PUT("/update/:id", d.Catalog.UpdateProduct, mw.RequireAuth)
	products.DELETE("/delete/:id", d.Catalog.DeleteProduct, mw.RequireAuth)

	cart := e.Group("/api/cart", mw.RequireAuth)
	cart.GET("", d.Cart.ViewCart)
	cart.POST("/add/:id", d.Cart.AddToCart)
	cart.DELETE("/remove/:id", d.Cart.RemoveFromCart)
	cart.POST("/checkout", d.Cart.Checkout)
}
