package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/africamarket/companion/internal/handlers"
)

type Deps struct {
	CartHandler    *handlers.CartHandler
	HistoryHandler *handlers.HistoryHandler
	DebugHandler   *handlers.DebugHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	cart := api.Group("/cart")

	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/total", d.CartHandler.GetTotal)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:id", d.CartHandler.SetQuantity)
	cart.DELETE("/:id", d.CartHandler.DeleteFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	api.POST("/checkout", d.HistoryHandler.Checkout)
	api.GET("/history", d.HistoryHandler.GetHistory)
	api.DELETE("/history", d.HistoryHandler.PurgeHistory)

	api.GET("/debug/db", d.DebugHandler.DumpDB)
}
