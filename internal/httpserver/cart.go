package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ndolgikh/marketcore/internal/logging"
	"github.com/ndolgikh/marketcore/internal/service"
	"github.com/ndolgikh/marketcore/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	uid, err := userID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetItems(ctx, uid)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_items")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_items_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	outcomes, err := h.Svc.AddItems(ctx, uid, req)
	if err != nil {
		l.Warn("add_items_error", "error", err)
		return httpError(err)
	}

	l.Info("add_items_success", "items", len(outcomes))
	return c.JSON(http.StatusOK, echo.Map{"items": outcomes})
}
