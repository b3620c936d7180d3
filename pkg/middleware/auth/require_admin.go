package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (m *RequireLoginMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireLogin(func(c echo.Context) error {
		if role, _ := c.Get("user_role").(string); role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}
