package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/utils"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSON(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"service":"lawease-api"}`, rec.Body.String())
}

func TestSignupFirstUserBecomesAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, first := env.signup(t, "Ada", "ada@example.com", "password1", "staff")
	assert.Equal(t, "admin", first["role"], "first account is always admin")

	// An explicit admin request after that is downgraded to staff.
	_, second := env.signup(t, "Bob", "bob@example.com", "password1", "admin")
	assert.Equal(t, "staff", second["role"])

	// A lawyer request is honored.
	_, third := env.signup(t, "Cyn", "cyn@example.com", "password1", "lawyer")
	assert.Equal(t, "lawyer", third["role"])

	// No role at all defaults to staff.
	_, fourth := env.signup(t, "Dee", "dee@example.com", "password1", "")
	assert.Equal(t, "staff", fourth["role"])
}

func TestConcurrentSignupsYieldOneAdmin(t *testing.T) {
	env := newTestEnv(t)

	const n = 8
	recs := make([]*httptest.ResponseRecorder, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"name":"User %d","email":"user-%d@example.com","password":"password1"}`, i, i)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			recs[i] = httptest.NewRecorder()
			env.e.ServeHTTP(recs[i], req)
		}(i)
	}
	wg.Wait()

	admins := 0
	for i, rec := range recs {
		require.Equal(t, http.StatusCreated, rec.Code, "signup %d: %s", i, rec.Body.String())
		var resp struct {
			User map[string]any `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if resp.User["role"] == "admin" {
			admins++
		}
	}
	assert.Equal(t, 1, admins, "only one signup wins the first-account promotion")
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/auth/signup", "", echo.Map{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/auth/signup", "", echo.Map{
		"email": "x@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 8 characters")

	env.signup(t, "Ada", "ada@example.com", "password1", "")
	rec = env.doJSON(t, http.MethodPost, "/api/auth/signup", "", echo.Map{
		"email": "ADA@example.com", "password": "password1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "email uniqueness is case-insensitive")
}

func TestLoginErrorsAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ada", "ada@example.com", "password1", "")

	wrongPass := env.doJSON(t, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": "ada@example.com", "password": "password2",
	})
	unknown := env.doJSON(t, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": "nobody@example.com", "password": "password1",
	})
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ada", "ada@example.com", "password1", "")

	rec := env.doJSON(t, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": "Ada@Example.com ", "password": "password1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "ada@example.com", resp.User["email"])
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	me := env.doJSON(t, http.MethodGet, "/api/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	var meResp struct {
		User map[string]any `json:"user"`
	}
	decode(t, me, &meResp)
	assert.Equal(t, "Ada", meResp.User["name"])
}

func TestSessionRejections(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing token")

	rec = env.doJSON(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")

	// Token signed with a different secret.
	forged, err := utils.NewSessionToken("other-secret", "some-id", "x@example.com", "admin", time.Hour)
	require.NoError(t, err)
	rec = env.doJSON(t, http.MethodGet, "/api/auth/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid signature but the account is gone.
	ghost, err := utils.NewSessionToken(env.cfg.JWTSecret, "deleted-user", "x@example.com", "admin", time.Hour)
	require.NoError(t, err)
	rec = env.doJSON(t, http.MethodGet, "/api/auth/me", ghost, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ada", "ada@example.com", "password1", "")

	// Unknown email gets the same acknowledgement, without a token.
	rec := env.doJSON(t, http.MethodPost, "/api/auth/request-password-reset", "", echo.Map{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "resetToken")

	rec = env.doJSON(t, http.MethodPost, "/api/auth/request-password-reset", "", echo.Map{
		"email": "ada@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ResetToken string `json:"resetToken"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.ResetToken, 48, "raw token is echoed outside production")

	// Short replacement password is rejected before the token is consumed.
	rec = env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", echo.Map{
		"token": resp.ResetToken, "newPassword": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", echo.Map{
		"token": resp.ResetToken, "newPassword": "password2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Old credential no longer works, new one does.
	old := env.doJSON(t, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": "ada@example.com", "password": "password1",
	})
	assert.Equal(t, http.StatusUnauthorized, old.Code)
	fresh := env.doJSON(t, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email": "ada@example.com", "password": "password2",
	})
	assert.Equal(t, http.StatusOK, fresh.Code)

	// Replay fails exactly like an invalid token.
	replay := env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", echo.Map{
		"token": resp.ResetToken, "newPassword": "password3",
	})
	bogus := env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", echo.Map{
		"token": "deadbeef", "newPassword": "password3",
	})
	assert.Equal(t, http.StatusBadRequest, replay.Code)
	assert.Equal(t, bogus.Body.String(), replay.Body.String())
}

func TestPasswordResetExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	_, user := env.signup(t, "Ada", "ada@example.com", "password1", "")

	raw, err := utils.NewResetToken()
	require.NoError(t, err)
	expired := &model.ResetToken{
		ID:        uuid.NewString(),
		UserID:    user["id"].(string),
		TokenHash: utils.HashResetToken(raw),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, env.st.CreateResetToken(context.Background(), expired, nil))

	rec := env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", echo.Map{
		"token": raw, "newPassword": "password2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired token")
}
