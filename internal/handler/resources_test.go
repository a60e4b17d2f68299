package handler_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	ownerTok, _ := env.signup(t, "Owner", "owner@example.com", "password1", "")
	otherTok, _ := env.signup(t, "Other", "other@example.com", "password1", "lawyer")

	client := env.createClient(t, ownerTok, "Jane Roe")
	id := client["id"].(string)

	// The other user cannot see the record in a listing.
	rec := env.doJSON(t, http.MethodGet, "/api/clients", otherTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Clients []map[string]any `json:"clients"`
	}
	decode(t, rec, &list)
	assert.Empty(t, list.Clients)

	// Direct access behaves exactly like a missing record.
	rec = env.doJSON(t, http.MethodPut, "/api/clients/"+id, otherTok, echo.Map{"fullName": "Hijack"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.doJSON(t, http.MethodDelete, "/api/clients/"+id, otherTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A case under the owner is likewise invisible to the other user.
	caseRec := env.doJSON(t, http.MethodPost, "/api/cases", ownerTok, echo.Map{"title": "Roe v. X"})
	require.Equal(t, http.StatusCreated, caseRec.Code)
	var created struct {
		Case map[string]any `json:"case"`
	}
	decode(t, caseRec, &created)
	rec = env.doJSON(t, http.MethodGet, "/api/cases/"+created.Case["id"].(string), otherTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner still sees everything untouched.
	rec = env.doJSON(t, http.MethodGet, "/api/clients", ownerTok, nil)
	decode(t, rec, &list)
	require.Len(t, list.Clients, 1)
	assert.Equal(t, "Jane Roe", list.Clients[0]["fullName"])
}

func TestStaffCannotDeleteOwnRecords(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Admin", "admin@example.com", "password1", "")
	staffTok, _ := env.signup(t, "Staff", "staff@example.com", "password1", "staff")

	client := env.createClient(t, staffTok, "Jane Roe")

	// Permission gate fires before the ownership lookup: 403, not 404,
	// even though the record exists and belongs to the caller.
	rec := env.doJSON(t, http.MethodDelete, "/api/clients/"+client["id"].(string), staffTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")

	// Update remains allowed for staff.
	rec = env.doJSON(t, http.MethodPut, "/api/clients/"+client["id"].(string), staffTok, echo.Map{
		"fullName": "Jane R. Roe",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLawyerCanDeleteOwnRecords(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Admin", "admin@example.com", "password1", "")
	lawTok, _ := env.signup(t, "Law", "law@example.com", "password1", "lawyer")

	client := env.createClient(t, lawTok, "Jane Roe")
	rec := env.doJSON(t, http.MethodDelete, "/api/clients/"+client["id"].(string), lawTok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.doJSON(t, http.MethodGet, "/api/clients", lawTok, nil)
	var list struct {
		Clients []map[string]any `json:"clients"`
	}
	decode(t, rec, &list)
	assert.Empty(t, list.Clients)
}

func TestFieldDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.signup(t, "Ada", "ada@example.com", "password1", "")

	// Blank required field after trimming is rejected.
	rec := env.doJSON(t, http.MethodPost, "/api/clients", tok, echo.Map{"fullName": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Case status defaults to "open", free text is trimmed.
	rec = env.doJSON(t, http.MethodPost, "/api/cases", tok, echo.Map{
		"title": "  Roe v. X  ", "court": " District 9 ",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var caseResp struct {
		Case map[string]any `json:"case"`
	}
	decode(t, rec, &caseResp)
	assert.Equal(t, "open", caseResp.Case["status"])
	assert.Equal(t, "Roe v. X", caseResp.Case["title"])
	assert.Equal(t, "District 9", caseResp.Case["court"])

	// Message channel defaults to "email"; subject and body are required.
	rec = env.doJSON(t, http.MethodPost, "/api/messages", tok, echo.Map{"subject": "Hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.doJSON(t, http.MethodPost, "/api/messages", tok, echo.Map{
		"subject": "Hi", "body": "Hearing moved.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var msgResp struct {
		Message map[string]any `json:"message"`
	}
	decode(t, rec, &msgResp)
	assert.Equal(t, "email", msgResp.Message["channel"])
}

func TestListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.signup(t, "Ada", "ada@example.com", "password1", "")

	env.createClient(t, tok, "First")
	env.createClient(t, tok, "Second")
	env.createClient(t, tok, "Third")

	rec := env.doJSON(t, http.MethodGet, "/api/clients", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Clients []map[string]any `json:"clients"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Clients, 3)
	assert.Equal(t, "Third", list.Clients[0]["fullName"])
	assert.Equal(t, "First", list.Clients[2]["fullName"])
}
