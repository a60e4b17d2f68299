// Package middleware provides the request gates every API call passes
// through: session verification, permission checks, rate limiting and the
// CORS allow-list.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/utils"
)

const userContextKey = "auth_user"

// UserLoader is the slice of the store needed to resolve a session to a
// live account.
type UserLoader interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionAuth validates the Bearer session token and loads the referenced
// user from the store. Loading on every request means role changes and
// account deletions take effect immediately; the role claim inside the
// token is never trusted for authorization.
func SessionAuth(secret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}

			u, err := users.UserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "User not found"})
			}

			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by SessionAuth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userContextKey).(*model.User)
	return u, ok
}
