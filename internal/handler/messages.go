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

// MessageHandler serves the logged outbound communications.
type MessageHandler struct {
	Store store.Store
	Queue *queue.Publisher
}

func NewMessageHandler(s store.Store, q *queue.Publisher) *MessageHandler {
	return &MessageHandler{Store: s, Queue: q}
}

type messageReq struct {
	Subject        string `json:"subject"`
	ToName         string `json:"toName"`
	Channel        string `json:"channel"`
	LinkedCaseID   string `json:"linkedCaseId"`
	LinkedClientID string `json:"linkedClientId"`
	Body           string `json:"body"`
}

// List returns the caller's messages, newest first.
func (h *MessageHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	messages, err := h.Store.ListMessages(c.Request().Context(), u.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// Create stores a new message. Channel defaults to "email".
func (h *MessageHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Subject and message body are required"})
	}
	subject := trim(req.Subject)
	body := trim(req.Body)
	if subject == "" || body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Subject and message body are required"})
	}

	now := time.Now().UTC()
	msg := &model.Message{
		ID:             uuid.NewString(),
		OwnerID:        u.ID,
		Subject:        subject,
		ToName:         trim(req.ToName),
		Channel:        trimOr(req.Channel, "email"),
		LinkedCaseID:   trim(req.LinkedCaseID),
		LinkedClientID: trim(req.LinkedClientID),
		Body:           body,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	entry := newAudit(c, model.ActionMessageCreated, u.ID, map[string]string{"messageId": msg.ID})
	if err := h.Store.CreateMessage(c.Request().Context(), msg, entry); err != nil {
		return internalError(c)
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusCreated, echo.Map{"message": msg})
}

// Update rewrites a message the caller owns.
func (h *MessageHandler) Update(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Subject and message body are required"})
	}
	subject := trim(req.Subject)
	body := trim(req.Body)
	if subject == "" || body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Subject and message body are required"})
	}

	ctx := c.Request().Context()
	msg, err := h.Store.MessageByID(ctx, c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Message not found")
	}

	msg.Subject = subject
	msg.ToName = trim(req.ToName)
	msg.Channel = trimOr(req.Channel, "email")
	msg.LinkedCaseID = trim(req.LinkedCaseID)
	msg.LinkedClientID = trim(req.LinkedClientID)
	msg.Body = body
	msg.UpdatedAt = time.Now().UTC()

	entry := newAudit(c, model.ActionMessageUpdated, u.ID, map[string]string{"messageId": msg.ID})
	if err := h.Store.UpdateMessage(ctx, msg, entry); err != nil {
		return notFoundOr(c, err, "Message not found")
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// Delete removes a message the caller owns.
func (h *MessageHandler) Delete(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	entry := newAudit(c, model.ActionMessageDeleted, u.ID, map[string]string{"messageId": id})
	if err := h.Store.DeleteMessage(c.Request().Context(), id, u.ID, entry); err != nil {
		return notFoundOr(c, err, "Message not found")
	}
	publishAudit(h.Queue, entry)
	return c.NoContent(http.StatusNoContent)
}
