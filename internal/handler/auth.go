package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/auth"
	"github.com/lawease/lawease/internal/config"
	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/store"
	"github.com/lawease/lawease/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Store store.Store
	Queue *queue.Publisher
}

func NewAuthHandler(cfg config.Config, s store.Store, q *queue.Publisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Store: s, Queue: q}
}

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequestReq struct {
	Email string `json:"email"`
}

type resetConfirmReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Signup creates an account and returns a session token. The first account
// on a fresh store becomes admin; later signups may pick lawyer or staff but
// an explicit admin request is downgraded to staff.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}
	email := strings.ToLower(trim(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 8 characters"})
	}

	ctx := c.Request().Context()

	// The store promotes the first account to admin inside its commit, so
	// the role decided here only covers the non-first case.
	role := auth.RoleStaff
	if auth.ValidRole(req.Role) && req.Role != auth.RoleAdmin {
		role = req.Role
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Name:         trim(req.Name),
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	entry := newAudit(c, model.ActionSignup, u.ID, map[string]string{"role": u.Role})
	if err := h.Store.CreateUser(ctx, u, entry); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Account already exists"})
		}
		return internalError(c)
	}
	publishAudit(h.Queue, entry)

	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.SessionTTL)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": u.Public()})
}

// Login verifies credentials and returns a session token. Unknown email and
// wrong password produce identical responses so accounts cannot be
// enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}
	email := strings.ToLower(trim(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}

	ctx := c.Request().Context()
	u, err := h.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
		}
		return internalError(c)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}

	entry := newAudit(c, model.ActionLogin, u.ID, map[string]string{"role": u.Role})
	if err := h.Store.AppendAudit(ctx, entry); err != nil {
		return internalError(c)
	}
	publishAudit(h.Queue, entry)

	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.SessionTTL)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": u.Public()})
}

// Me returns the authenticated user's public view.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}

// RequestPasswordReset issues a reset token. The response acknowledges the
// request identically whether or not the account exists; the raw token is
// only echoed back outside production so local testing does not need a mail
// pipeline.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	const generic = "If the account exists, a reset token has been generated."

	var req resetRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"message": generic})
	}
	email := strings.ToLower(trim(req.Email))
	if email == "" {
		return c.JSON(http.StatusOK, echo.Map{"message": generic})
	}

	ctx := c.Request().Context()
	u, err := h.Store.UserByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"message": generic})
	}

	raw, err := utils.NewResetToken()
	if err != nil {
		return internalError(c)
	}
	now := time.Now().UTC()
	expiresAt := now.Add(h.Cfg.ResetTokenTTL)
	rt := &model.ResetToken{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		TokenHash: utils.HashResetToken(raw),
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	entry := newAudit(c, model.ActionPasswordResetRequest, u.ID,
		map[string]string{"expiresAt": expiresAt.Format(time.RFC3339)})
	if err := h.Store.CreateResetToken(ctx, rt, entry); err != nil {
		return internalError(c)
	}
	publishAudit(h.Queue, entry)

	if !h.Cfg.IsProd() {
		return c.JSON(http.StatusOK, echo.Map{
			"message":    generic,
			"resetToken": raw,
			"expiresAt":  expiresAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": generic})
}

// ResetPassword consumes a reset token and replaces the credential. Unknown,
// already-used and expired tokens all fail with the same message.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetConfirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Token and new password are required"})
	}
	if req.Token == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Token and new password are required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 8 characters"})
	}

	ctx := c.Request().Context()
	rt, err := h.Store.ResetTokenByHash(ctx, utils.HashResetToken(req.Token))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
	}
	if time.Now().UTC().After(rt.ExpiresAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c)
	}
	entry := newAudit(c, model.ActionPasswordResetDone, rt.UserID, nil)
	if err := h.Store.ConsumeResetToken(ctx, rt.ID, rt.UserID, hash, entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid or expired token"})
		}
		return internalError(c)
	}
	publishAudit(h.Queue, entry)

	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated"})
}
