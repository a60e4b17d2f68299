package handler

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lawease/lawease/internal/blob"
	"github.com/lawease/lawease/internal/config"
	"github.com/lawease/lawease/internal/middleware"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/queue"
	"github.com/lawease/lawease/internal/store"
)

// allowedMimeTypes is the closed set of upload content types. Checked before
// any blob I/O happens.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/png":  true,
	"image/jpeg": true,
	"text/plain": true,
}

// DocumentHandler serves document metadata records and their attached blobs.
// The blob reference belongs to the record: replacing or deleting the record
// releases the blob so neither side can be orphaned.
type DocumentHandler struct {
	Cfg   config.Config
	Store store.Store
	Blob  blob.Store
	Queue *queue.Publisher
}

func NewDocumentHandler(cfg config.Config, s store.Store, b blob.Store, q *queue.Publisher) *DocumentHandler {
	return &DocumentHandler{Cfg: cfg, Store: s, Blob: b, Queue: q}
}

// List returns the caller's documents, newest first.
func (h *DocumentHandler) List(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	documents, err := h.Store.ListDocuments(c.Request().Context(), u.ID)
	if err != nil {
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": documents})
}

// parseForm reads the multipart form up front so size-limit aborts from the
// wrapped body surface as "File too large" instead of a misleading missing
// field error. Non-multipart bodies are fine; the form values are just empty.
// Returns the message for a 400 response, or "" when the form is usable.
func parseForm(c echo.Context) string {
	err := c.Request().ParseMultipartForm(32 << 20)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return ""
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "File too large"
	}
	return "Invalid form data"
}

// uploadedFile pulls the optional "file" part out of the multipart form and
// validates size and content type before the caller touches the blob store.
// A request without a file part yields (nil, ""); a rejected file yields the
// message for the 400 response.
func (h *DocumentHandler) uploadedFile(c echo.Context) (*multipart.FileHeader, string) {
	fh, err := c.FormFile("file")
	if err != nil {
		// Missing part or a non-multipart body; both mean "no file".
		return nil, ""
	}
	if fh.Size > h.Cfg.MaxUploadBytes {
		return nil, "File too large"
	}
	if !allowedMimeTypes[fh.Header.Get("Content-Type")] {
		return nil, "Unsupported file type"
	}
	return fh, ""
}

// storeUpload streams the file part into the blob store and returns the
// storage metadata to record on the document.
func (h *DocumentHandler) storeUpload(c echo.Context, fh *multipart.FileHeader) (key string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key = blob.NewKey(fh.Filename)
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	if err := h.Blob.Put(c.Request().Context(), key, src, fh.Size, ct); err != nil {
		return "", err
	}
	return key, nil
}

// Create stores a new document record with an optional uploaded file. All
// validation runs before the blob write; if the record commit fails the
// fresh blob is released again.
func (h *DocumentHandler) Create(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.Cfg.MaxUploadBytes+1<<20)
	if msg := parseForm(c); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	title := trim(c.FormValue("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Document title is required"})
	}
	fh, rejectMsg := h.uploadedFile(c)
	if rejectMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rejectMsg})
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:              uuid.NewString(),
		OwnerID:         u.ID,
		Title:           title,
		Type:            trimOr(c.FormValue("type"), "general"),
		LinkedCaseID:    trim(c.FormValue("linkedCaseId")),
		LinkedClientID:  trim(c.FormValue("linkedClientId")),
		Notes:           trim(c.FormValue("notes")),
		StorageProvider: h.Blob.Provider(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if fh != nil {
		key, err := h.storeUpload(c, fh)
		if err != nil {
			log.Printf("documents: blob write failed: %v", err)
			return internalError(c)
		}
		doc.StorageKey = key
		doc.FileName = fh.Filename
		doc.MimeType = fh.Header.Get("Content-Type")
		doc.FileSize = fh.Size
	}

	entry := newAudit(c, model.ActionDocumentCreated, u.ID, map[string]string{
		"documentId": doc.ID,
		"hasFile":    fmt.Sprintf("%t", fh != nil),
	})
	if err := h.Store.CreateDocument(c.Request().Context(), doc, entry); err != nil {
		if doc.HasFile() {
			_ = h.Blob.Delete(c.Request().Context(), doc.StorageKey)
		}
		return internalError(c)
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusCreated, echo.Map{"document": doc})
}

// Update rewrites a document the caller owns. When a new file is uploaded it
// is stored first, then the record is committed, and only then is the old
// blob released; a failure at any step never leaves the record pointing at
// a missing blob.
func (h *DocumentHandler) Update(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.Cfg.MaxUploadBytes+1<<20)
	if msg := parseForm(c); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	title := trim(c.FormValue("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Document title is required"})
	}

	ctx := c.Request().Context()
	doc, err := h.Store.DocumentByID(ctx, c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Document not found")
	}

	fh, rejectMsg := h.uploadedFile(c)
	if rejectMsg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rejectMsg})
	}

	doc.Title = title
	doc.Type = trimOr(c.FormValue("type"), "general")
	doc.LinkedCaseID = trim(c.FormValue("linkedCaseId"))
	doc.LinkedClientID = trim(c.FormValue("linkedClientId"))
	doc.Notes = trim(c.FormValue("notes"))
	doc.UpdatedAt = time.Now().UTC()

	oldKey := doc.StorageKey
	if fh != nil {
		key, err := h.storeUpload(c, fh)
		if err != nil {
			log.Printf("documents: blob write failed: %v", err)
			return internalError(c)
		}
		doc.StorageProvider = h.Blob.Provider()
		doc.StorageKey = key
		doc.FileName = fh.Filename
		doc.MimeType = fh.Header.Get("Content-Type")
		doc.FileSize = fh.Size
	}

	entry := newAudit(c, model.ActionDocumentUpdated, u.ID, map[string]string{
		"documentId": doc.ID,
		"hasFile":    fmt.Sprintf("%t", fh != nil),
	})
	if err := h.Store.UpdateDocument(ctx, doc, entry); err != nil {
		if fh != nil {
			_ = h.Blob.Delete(ctx, doc.StorageKey)
		}
		return notFoundOr(c, err, "Document not found")
	}
	if fh != nil && oldKey != "" {
		if err := h.Blob.Delete(ctx, oldKey); err != nil {
			log.Printf("documents: release of replaced blob %s failed: %v", oldKey, err)
		}
	}
	publishAudit(h.Queue, entry)
	return c.JSON(http.StatusOK, echo.Map{"document": doc})
}

// Download streams the attached blob with its recorded content type and
// original filename.
func (h *DocumentHandler) Download(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	ctx := c.Request().Context()
	doc, err := h.Store.DocumentByID(ctx, c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Document not found")
	}
	if !doc.HasFile() {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No file attached to this document"})
	}

	rc, err := h.Blob.Open(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No file attached to this document"})
		}
		log.Printf("documents: blob open failed: %v", err)
		return internalError(c)
	}
	defer rc.Close()

	name := doc.FileName
	if name == "" {
		name = "document"
	}
	ct := doc.MimeType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Stream(http.StatusOK, ct, rc)
}

// Delete releases the attached blob and then removes the record. If the blob
// deletion fails the record stays and the error surfaces, so neither an
// orphaned blob nor a dangling record can result.
func (h *DocumentHandler) Delete(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)
	ctx := c.Request().Context()
	doc, err := h.Store.DocumentByID(ctx, c.Param("id"), u.ID)
	if err != nil {
		return notFoundOr(c, err, "Document not found")
	}
	if doc.HasFile() {
		if err := h.Blob.Delete(ctx, doc.StorageKey); err != nil {
			log.Printf("documents: blob delete failed: %v", err)
			return internalError(c)
		}
	}

	entry := newAudit(c, model.ActionDocumentDeleted, u.ID, map[string]string{"documentId": doc.ID})
	if err := h.Store.DeleteDocument(ctx, doc.ID, u.ID, entry); err != nil {
		return notFoundOr(c, err, "Document not found")
	}
	publishAudit(h.Queue, entry)
	return c.NoContent(http.StatusNoContent)
}
