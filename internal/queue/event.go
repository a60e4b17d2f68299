// Package queue defines the audit event fanout over the message broker.
// The database commit remains the source of truth for the audit trail; the
// broker copy feeds external consumers (log shippers, alerting) and is
// strictly best-effort.
package queue

// AuditQueueName is the durable queue audit events are published to.
const AuditQueueName = "audit.recorded"

// AuditRecordedEvent mirrors a committed audit log entry.
type AuditRecordedEvent struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	UserID    string            `json:"user_id"`
	IP        string            `json:"ip"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt string            `json:"created_at"`
}
