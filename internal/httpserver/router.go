package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/ndolgikh/marketcore/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	CatalogHandler *CatalogHTTP
	TicketHandler  *TicketHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewRequireLoginMiddleware(d.JWTSecret)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := e.Group("", authMW.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	admin.POST("/promotions", d.CatalogHandler.CreatePromotion)

	cart := e.Group("/cart", authMW.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItems)

	orders := e.Group("/orders", authMW.RequireLogin)
	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.List)
	orders.GET("/:id", d.OrderHandler.Get)
	orders.POST("/:id/cancel", d.OrderHandler.Cancel)
	orders.POST("/:id/reopen", d.OrderHandler.Reopen)

	tickets := e.Group("/tickets", authMW.RequireLogin)
	tickets.POST("", d.TicketHandler.Create)
	tickets.PATCH("/:id", d.TicketHandler.UpdateStatus)
}
