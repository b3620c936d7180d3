package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ndolgikh/marketcore/internal/logging"
	"github.com/ndolgikh/marketcore/internal/service"
	"github.com/ndolgikh/marketcore/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func orderIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, uid, req.ShippingMethod)
	if err != nil {
		l.Warn("checkout_error", "error", err)
		return httpError(err)
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{OrderID: order.ID, Total: order.Total})
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Cancel(ctx, id, fmt.Sprint(uid))
	if err != nil {
		l.Warn("cancel_error", "order_id", id, "error", err)
		return httpError(err)
	}

	l.Info("cancel_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, echo.Map{"status": order.Status})
}

func (h *OrderHTTP) Reopen(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.reopen")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Reopen(ctx, id, fmt.Sprint(uid))
	if err != nil {
		l.Warn("reopen_error", "order_id", id, "error", err)
		return httpError(err)
	}

	l.Info("reopen_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, echo.Map{"status": order.Status})
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := userID(c); err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	detail, err := h.Svc.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	uid, err := userID(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.Svc.List(ctx, uid, limit, offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}
