package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ndolgikh/marketcore/pkg/tokens"
)

type RequireLoginMiddleware struct {
	JWTSecret []byte
}

func NewRequireLoginMiddleware(secret []byte) *RequireLoginMiddleware {
	return &RequireLoginMiddleware{JWTSecret: secret}
}

func (m *RequireLoginMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie("accessToken")
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(cookie.Value, m.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
		}

		c.Set("user_id", uint(userID))
		c.Set("user_role", claims.Role)
		return next(c)
	}
}
