// Package handler implements the HTTP endpoints. Handlers bind input,
// validate before touching any data, call the store with the audit entry
// belonging to the mutation, and map sentinel errors to JSON responses.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/store"
)

// newAudit builds the audit entry committed alongside a mutation.
func newAudit(c echo.Context, action, userID string, metadata map[string]string) *model.AuditLog {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &model.AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    userID,
		IP:        c.RealIP(),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}

// publishAudit mirrors a committed audit entry to the broker. Best effort;
// the publisher logs its own failures.
func publishAudit(pub *queue.Publisher, entry *model.AuditLog) {
	if pub == nil || entry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = pub.Publish(ctx, queue.AuditRecordedEvent{
		ID:        entry.ID,
		Action:    entry.Action,
		UserID:    entry.UserID,
		IP:        entry.IP,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	})
}

// notFoundOr maps store.ErrNotFound to a 404 with the given message and
// everything else to an opaque 500.
func notFoundOr(c echo.Context, err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	}
	log.Printf("handler: store error: %v", err)
	return internalError(c)
}

func internalError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
}

func trim(s string) string { return strings.TrimSpace(s) }

// trimOr trims s and falls back to def when nothing is left.
func trimOr(s, def string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return def
}
