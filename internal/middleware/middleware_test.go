package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawease/lawease/internal/auth"
	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
	"github.com/lawease/lawease/internal/utils"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func TestCORSAllowList(t *testing.T) {
	e := echo.New()
	e.Use(middleware.CORS([]string{"http://app.example"}))
	e.GET("/x", okHandler)

	// Same-origin requests carry no Origin header and pass untouched.
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	// Allowed origin gets the CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderOrigin, "http://app.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	// Unknown origins fail closed.
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Origin not allowed by CORS")

	// Preflight for an allowed origin short-circuits with 204.
	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set(echo.HeaderOrigin, "http://app.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

// staticUsers resolves one fixed user id.
type staticUsers struct {
	user *model.User
}

func (s *staticUsers) UserByID(_ context.Context, id string) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, store.ErrNotFound
}

func TestSessionAuthLoadsLiveUser(t *testing.T) {
	const secret = "test-secret"
	u := &model.User{ID: "u-1", Email: "ada@example.com", Role: auth.RoleStaff}

	e := echo.New()
	e.Use(middleware.SessionAuth(secret, &staticUsers{user: u}))
	e.GET("/x", func(c echo.Context) error {
		got, ok := middleware.CurrentUser(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"role": got.Role})
	})

	token, err := utils.NewSessionToken(secret, "u-1", u.Email, "admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	// The stale role claim inside the token is ignored; the store wins.
	assert.Contains(t, rec.Body.String(), "staff")

	// Unknown user id behind a valid signature is rejected.
	ghost, err := utils.NewSessionToken(secret, "u-2", "x@example.com", "admin", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermissionGate(t *testing.T) {
	e := echo.New()
	e.GET("/locked", okHandler,
		fakeUser(auth.RoleStaff), middleware.RequirePermission(auth.PermAuditRead))
	e.GET("/open", okHandler,
		fakeUser(auth.RoleAdmin), middleware.RequirePermission(auth.PermAuditRead))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/locked", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// fakeUser injects an authenticated user the way SessionAuth would.
func fakeUser(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("auth_user", &model.User{ID: "u-1", Role: role})
			return next(c)
		}
	}
}
