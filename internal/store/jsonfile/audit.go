package jsonfile

import (
	"context"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
)

// AppendAudit records a standalone audit entry (for example a login, which
// mutates nothing else).
func (s *Store) AppendAudit(_ context.Context, entry *model.AuditLog) error {
	return s.mutate(entry, func(*dataset) error { return nil })
}

// ListAuditLogs returns audit entries newest first, clamped to
// store.MaxAuditLogs regardless of the requested limit.
func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > store.MaxAuditLogs {
		limit = store.MaxAuditLogs
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.AuditLog{}
	for i := len(s.data.AuditLogs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.data.AuditLogs[i])
	}
	return out, nil
}

// Stats aggregates the caller's dashboard counters in one pass.
func (s *Store) Stats(_ context.Context, ownerID string) (model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st model.Stats
	for i := range s.data.Clients {
		if s.data.Clients[i].OwnerID == ownerID {
			st.Clients++
		}
	}
	for i := range s.data.Documents {
		if s.data.Documents[i].OwnerID == ownerID {
			st.Documents++
		}
	}
	for i := range s.data.Messages {
		if s.data.Messages[i].OwnerID == ownerID {
			st.Messages++
		}
	}
	for i := range s.data.Cases {
		cs := &s.data.Cases[i]
		if cs.OwnerID != ownerID {
			continue
		}
		if cs.Status != "closed" {
			st.ActiveCases++
		}
		if cs.NextHearingDate != "" {
			st.UpcomingHearings++
		}
	}
	return st, nil
}
