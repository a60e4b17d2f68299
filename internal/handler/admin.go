package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/auth"
	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/store"
)

// AdminHandler serves the user-management surface. Routes are gated by the
// user:manage permission; unlike the owned resources, this surface sees all
// accounts.
type AdminHandler struct {
	Store store.Store
	Queue *queue.Publisher
}

func NewAdminHandler(s store.Store, q *queue.Publisher) *AdminHandler {
	return &AdminHandler{Store: s, Queue: q}
}

type roleUpdateReq struct {
	Role string `json:"role"`
}

// ListUsers returns every account's public view.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Store.ListUsers(c.Request().Context())
	if err != nil {
		return internalError(c)
	}
	out := make([]model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// UpdateRole changes a user's role. The role is validated against the enum
// before any lookup so unknown values are never stored.
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	var req roleUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid role"})
	}
	if !auth.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid role"})
	}

	actor, _ := middleware.CurrentUser(c)
	targetID := c.Param("id")
	entry := newAudit(c, model.ActionRoleUpdated, actor.ID,
		map[string]string{"targetUserId": targetID, "role": req.Role})

	u, err := h.Store.UpdateUserRole(c.Request().Context(), targetID, req.Role, entry)
	if err != nil {
		return notFoundOr(c, err, "User not found")
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusOK, echo.Map{"user": u.Public()})
}
