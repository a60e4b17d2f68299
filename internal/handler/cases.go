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

// CaseHandler serves the legal matter records.
type CaseHandler struct {
	Store store.Store
	Queue *queue.Publisher
}

func NewCaseHandler(s store.Store, q *queue.Publisher) *CaseHandler {
	return &CaseHandler{Store: s, Queue: q}
}

type caseReq struct {
	Title           string `json:"title"`
	ClientName      string `json:"clientName"`
	Status          string `json:"status"`
	Court           string `json:"court"`
	NextHearingDate string `json:"nextHearingDate"`
	Notes           string `json:"notes"`
}

// List returns the caller's cases, newest first.
func (h *CaseHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	cases, err := h.Store.ListCases(c.Request().Context(), u.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"cases": cases})
}

// Create stores a new case. Status defaults to "open".
func (h *CaseHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req caseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Case title is required"})
	}
	title := trim(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Case title is required"})
	}

	now := time.Now().UTC()
	matter := &model.Case{
		ID:              uuid.NewString(),
		OwnerID:         u.ID,
		Title:           title,
		ClientName:      trim(req.ClientName),
		Status:          trimOr(req.Status, "open"),
		Court:           trim(req.Court),
		NextHearingDate: trim(req.NextHearingDate),
		Notes:           trim(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	entry := newAudit(c, model.ActionCaseCreated, u.ID, map[string]string{"caseId": matter.ID})
	if err := h.Store.CreateCase(c.Request().Context(), matter, entry); err != nil {
		return internalError(c)
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusCreated, echo.Map{"case": matter})
}

// Get fetches one case the caller owns.
func (h *CaseHandler) Get(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	matter, err := h.Store.CaseByID(c.Request().Context(), c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Case not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"case": matter})
}

// Update rewrites a case the caller owns.
func (h *CaseHandler) Update(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	var req caseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Case title is required"})
	}
	title := trim(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Case title is required"})
	}

	ctx := c.Request().Context()
	matter, err := h.Store.CaseByID(ctx, c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Case not found")
	}

	matter.Title = title
	matter.ClientName = trim(req.ClientName)
	matter.Status = trimOr(req.Status, "open")
	matter.Court = trim(req.Court)
	matter.NextHearingDate = trim(req.NextHearingDate)
	matter.Notes = trim(req.Notes)
	matter.UpdatedAt = time.Now().UTC()

	entry := newAudit(c, model.ActionCaseUpdated, u.ID, map[string]string{"caseId": matter.ID})
	if err := h.Store.UpdateCase(ctx, matter, entry); err != nil {
		return notFoundOr(c, err, "Case not found")
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusOK, echo.Map{"case": matter})
}

// Delete removes a case the caller owns.
func (h *CaseHandler) Delete(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	entry := newAudit(c, model.ActionCaseDeleted, u.ID, map[string]string{"caseId": id})
	if err := h.Store.DeleteCase(c.Request().Context(), id, u.ID, entry); err != nil {
		return notFoundOr(c, err, "Case not found")
	}
	publishAudit(h.Queue, entry)
	return c.NoContent(http.StatusNoContent)
}
