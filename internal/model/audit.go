package model

import "time"

// Audit action tags. One per security or mutation relevant operation.
const (
	ActionSignup               = "AUTH_SIGNUP"
	ActionLogin                = "AUTH_LOGIN"
	ActionPasswordResetRequest = "AUTH_PASSWORD_RESET_REQUEST"
	ActionPasswordResetDone    = "AUTH_PASSWORD_RESET_COMPLETE"
	ActionRoleUpdated          = "ADMIN_ROLE_UPDATED"
	ActionClientCreated        = "CLIENT_CREATED"
	ActionClientUpdated        = "CLIENT_UPDATED"
	ActionClientDeleted        = "CLIENT_DELETED"
	ActionCaseCreated          = "CASE_CREATED"
	ActionCaseUpdated          = "CASE_UPDATED"
	ActionCaseDeleted          = "CASE_DELETED"
	ActionDocumentCreated      = "DOCUMENT_CREATED"
	ActionDocumentUpdated      = "DOCUMENT_UPDATED"
	ActionDocumentDeleted      = "DOCUMENT_DELETED"
	ActionMessageCreated       = "MESSAGE_CREATED"
	ActionMessageUpdated       = "MESSAGE_UPDATED"
	ActionMessageDeleted       = "MESSAGE_DELETED"
)

// AuditLog is an append-only record of a security relevant action. The
// application never updates or deletes entries.
type AuditLog struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	UserID    string            `json:"userId"`
	IP        string            `json:"ip"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Stats holds the per-owner dashboard counters.
type Stats struct {
	ActiveCases      int `json:"activeCases"`
	Clients          int `json:"clients"`
	Documents        int `json:"documents"`
	Messages         int `json:"messages"`
	UpcomingHearings int `json:"upcomingHearings"`
}
