package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sawitmart/order-service/internal/handlers"
)

type Deps struct {
	DB            *gorm.DB
	OrderHandler  *handlers.OrderHandler
	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	orders := v1.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/shipping-options", d.OrderHandler.GetShippingOptions)
	orders.GET("/by-reference/:ref", d.OrderHandler.GetOrderByReference)

	v1.POST("/payments/callback", d.OrderHandler.UpdatePaymentStatus)

	if d.SearchHandler != nil {
		admin := v1.Group("/admin")
		admin.GET("/orders/search", d.SearchHandler.Search)
	}
}
