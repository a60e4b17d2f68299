package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/store"
)

// AuditHandler serves the audit trail. Reads require the audit:read
// permission, enforced by route middleware.
type AuditHandler struct {
	Store store.Store
}

func NewAuditHandler(s store.Store) *AuditHandler {
	return &AuditHandler{Store: s}
}

// List returns the newest audit entries, capped at store.MaxAuditLogs.
func (h *AuditHandler) List(c echo.Context) error {
	logs, err := h.Store.ListAuditLogs(c.Request().Context(), store.MaxAuditLogs)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": logs})
}
