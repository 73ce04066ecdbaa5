package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bookstore-backend/internal/middleware/auth"
)

type Deps struct {
	CartHandler  *CartHTTP
	BookHandler  *BookHTTP
	OrderHandler *OrderHTTP
	JWTSecret    []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api", auth.RequireLogin(d.JWTSecret))

	books := api.Group("/books")
	books.GET("", d.BookHandler.GetBooks)
	books.GET("/:id", d.BookHandler.GetBook)
	books.POST("/:id/rate", d.BookHandler.RateBook)

	cart := api.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.GET("/total", d.CartHandler.CartTotal)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.PATCH("/:bookID", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:bookID", d.CartHandler.RemoveFromCart)
	cart.POST("/checkout", d.OrderHandler.Checkout)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	privileged := orders.Group("", auth.RequirePrivileged)
	privileged.PATCH("/:id/status", d.OrderHandler.UpdateStatus)
}
