package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ndolgikh/marketcore/internal/logging"
	"github.com/ndolgikh/marketcore/internal/service"
	"github.com/ndolgikh/marketcore/internal/transport"
)

type TicketHTTP struct {
	Svc *service.TicketService
}

func (h *TicketHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket.create")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_ticket_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ticket, err := h.Svc.Create(ctx, uid, req)
	if err != nil {
		l.Warn("create_ticket_error", "error", err)
		return httpError(err)
	}

	l.Info("create_ticket_success", "ticket_id", ticket.ID)
	return c.JSON(http.StatusCreated, echo.Map{"ticket_id": ticket.ID, "status": ticket.Status})
}

func (h *TicketHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket.update_status")

	if _, err := userID(c); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ticket id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ticket, err := h.Svc.UpdateStatus(ctx, uint(id), req.Status)
	if err != nil {
		l.Warn("update_ticket_error", "ticket_id", id, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ticket)
}
