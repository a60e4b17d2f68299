package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
)

// insertAudit writes an audit entry inside the caller's transaction so the
// entry commits with the mutation it describes. A nil entry is a no-op.
func insertAudit(ctx context.Context, tx *sql.Tx, entry *model.AuditLog) error {
	if entry == nil {
		return nil
	}
	meta := entry.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO audit_logs (id, action, user_id, ip, metadata, created_at) VALUES (?,?,?,?,?,?)",
		entry.ID, entry.Action, entry.UserID, entry.IP, string(raw), entry.CreatedAt)
	return err
}

// AppendAudit records a standalone audit entry.
func (s *Store) AppendAudit(ctx context.Context, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertAudit(ctx, tx, entry)
	})
}

// ListAuditLogs returns audit entries newest first, clamped to
// store.MaxAuditLogs regardless of the requested limit.
func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > store.MaxAuditLogs {
		limit = store.MaxAuditLogs
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, action, user_id, ip, metadata, created_at FROM audit_logs ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AuditLog{}
	for rows.Next() {
		var e model.AuditLog
		var raw string
		if err := rows.Scan(&e.ID, &e.Action, &e.UserID, &e.IP, &raw, &e.CreatedAt); err != nil {
			return nil, err
		}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &e.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Stats aggregates the caller's dashboard counters with COUNT queries.
func (s *Store) Stats(ctx context.Context, ownerID string) (model.Stats, error) {
	var st model.Stats
	queries := []struct {
		q    string
		dest *int
	}{
		{"SELECT COUNT(*) FROM clients WHERE owner_id=?", &st.Clients},
		{"SELECT COUNT(*) FROM documents WHERE owner_id=?", &st.Documents},
		{"SELECT COUNT(*) FROM messages WHERE owner_id=?", &st.Messages},
		{"SELECT COUNT(*) FROM cases WHERE owner_id=? AND status<>'closed'", &st.ActiveCases},
		{"SELECT COUNT(*) FROM cases WHERE owner_id=? AND next_hearing_date<>''", &st.UpcomingHearings},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.q, ownerID).Scan(q.dest); err != nil {
			return model.Stats{}, err
		}
	}
	return st, nil
}
