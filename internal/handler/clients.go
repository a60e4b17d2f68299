package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/store"
)

// ClientHandler serves the client contact records. Every operation is scoped
// to the authenticated owner.
type ClientHandler struct {
	Store store.Store
	Queue *queue.Publisher
}

func NewClientHandler(s store.Store, q *queue.Publisher) *ClientHandler {
	return &ClientHandler{Store: s, Queue: q}
}

type clientReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Notes    string `json:"notes"`
}

// List returns the caller's clients, newest first.
func (h *ClientHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	clients, err := h.Store.ListClients(c.Request().Context(), u.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": clients})
}

// Create stores a new client owned by the caller.
func (h *ClientHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Client full name is required"})
	}
	name := trim(req.FullName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Client full name is required"})
	}

	now := time.Now().UTC()
	client := &model.Client{
		ID:        uuid.NewString(),
		OwnerID:   u.ID,
		FullName:  name,
		Email:     trim(req.Email),
		Phone:     trim(req.Phone),
		Notes:     trim(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	entry := newAudit(c, model.ActionClientCreated, u.ID, map[string]string{"clientId": client.ID})
	if err := h.Store.CreateClient(c.Request().Context(), client, entry); err != nil {
		return internalError(c)
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusCreated, echo.Map{"client": client})
}

// Update rewrites a client the caller owns. A client under another owner is
// reported as missing.
func (h *ClientHandler) Update(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req clientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Client full name is required"})
	}
	name := trim(req.FullName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Client full name is required"})
	}

	ctx := c.Request().Context()
	client, err := h.Store.ClientByID(ctx, c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Client not found")
	}

	client.FullName = name
	client.Email = trim(req.Email)
	client.Phone = trim(req.Phone)
	client.Notes = trim(req.Notes)
	client.UpdatedAt = time.Now().UTC()

	entry := newAudit(c, model.ActionClientUpdated, u.ID, map[string]string{"clientId": client.ID})
	if err := h.Store.UpdateClient(ctx, client, entry); err != nil {
		return notFoundOr(c, err, "Client not found")
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusOK, echo.Map{"client": client})
}

// Delete removes a client the caller owns. The client:delete permission is
// checked by route middleware before this runs.
func (h *ClientHandler) Delete(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	entry := newAudit(c, model.ActionClientDeleted, u.ID, map[string]string{"clientId": id})
	if err := h.Store.DeleteClient(c.Request().Context(), id, u.ID, entry); err != nil {
		return notFoundOr(c, err, "Client not found")
	}
	publishAudit(h.Queue, entry)
	return c.NoContent(http.StatusNoContent)
}
