package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/auth"
)

// RequirePermission gates a route on the caller's role holding the given
// permission. It runs after SessionAuth and short-circuits with 403 before
// any data is touched. Authorization failure (403) is deliberately distinct
// from authentication failure (401).
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing token"})
			}
			if !auth.HasPermission(u.Role, permission) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Insufficient permissions"})
			}
			return next(c)
		}
	}
}
