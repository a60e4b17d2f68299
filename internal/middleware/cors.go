package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS restricts cross-origin requests to an explicit allow-list. Requests
// carrying an Origin header outside the list fail closed with 403 instead
// of silently omitting the CORS headers. Same-origin requests (no Origin
// header) pass through untouched.
func CORS(allowedOrigins []string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			if origin == "" {
				return next(c)
			}
			if !allowed[origin] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Origin not allowed by CORS"})
			}

			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Set(echo.HeaderAccessControlAllowCredentials, "true")
			h.Add(echo.HeaderVary, echo.HeaderOrigin)

			if c.Request().Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set(echo.HeaderAccessControlAllowHeaders, "Authorization, Content-Type")
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}
