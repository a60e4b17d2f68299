package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/store"
)

// StatsHandler serves the read-only dashboard counters.
type StatsHandler struct {
	Store store.Store
}

func NewStatsHandler(s store.Store) *StatsHandler {
	return &StatsHandler{Store: s}
}

// Get aggregates the caller's counters: clients, documents, messages, cases
// not yet closed and cases with a hearing date set.
func (h *StatsHandler) Get(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	stats, err := h.Store.Stats(c.Request().Context(), u.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
