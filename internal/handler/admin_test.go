package handler_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	adminTok, _ := env.signup(t, "Admin", "admin@example.com", "password1", "")
	staffTok, _ := env.signup(t, "Staff", "staff@example.com", "password1", "staff")

	rec := env.doJSON(t, http.MethodGet, "/api/admin/users", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Users []map[string]any `json:"users"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Users, 2)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	// The admin surface is closed to everyone else.
	rec = env.doJSON(t, http.MethodGet, "/api/admin/users", staffTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoleUpdate(t *testing.T) {
	env := newTestEnv(t)
	adminTok, _ := env.signup(t, "Admin", "admin@example.com", "password1", "")
	staffTok, staffUser := env.signup(t, "Staff", "staff@example.com", "password1", "staff")
	staffID := staffUser["id"].(string)

	rec := env.doJSON(t, http.MethodPatch, "/api/admin/users/"+staffID+"/role", adminTok,
		echo.Map{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown roles are rejected, never stored")

	rec = env.doJSON(t, http.MethodPatch, "/api/admin/users/missing-id/role", adminTok,
		echo.Map{"role": "lawyer"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodPatch, "/api/admin/users/"+staffID+"/role", adminTok,
		echo.Map{"role": "lawyer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		User map[string]any `json:"user"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "lawyer", resp.User["role"])

	// The session re-reads the user, so the promotion is effective on the
	// very next request: the former staff member can now delete.
	client := env.createClient(t, staffTok, "Jane Roe")
	del := env.doJSON(t, http.MethodDelete, "/api/clients/"+client["id"].(string), staffTok, nil)
	assert.Equal(t, http.StatusNoContent, del.Code)

	// And a demotion locks the surface again.
	rec = env.doJSON(t, http.MethodPatch, "/api/admin/users/"+staffID+"/role", adminTok,
		echo.Map{"role": "staff"})
	require.Equal(t, http.StatusOK, rec.Code)
	c2 := env.createClient(t, staffTok, "John Doe")
	del = env.doJSON(t, http.MethodDelete, "/api/clients/"+c2["id"].(string), staffTok, nil)
	assert.Equal(t, http.StatusForbidden, del.Code)
}
