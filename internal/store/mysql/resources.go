package mysql

import (
	"context"
	"database/sql"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
)

// Owned collections follow one pattern: reads filter by (id, owner_id) so a
// record under another owner scans as sql.ErrNoRows; deletes and updates
// check RowsAffected for the same reason.

// ListClients returns the caller's clients, newest created first.
func (s *Store) ListClients(ctx context.Context, ownerID string) ([]model.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, full_name, email, phone, notes, created_at, updated_at FROM clients WHERE owner_id=? ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Client{}
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.FullName, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateClient inserts a client together with its audit entry.
func (s *Store) CreateClient(ctx context.Context, c *model.Client, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO clients (id, owner_id, full_name, email, phone, notes, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?)",
			c.ID, c.OwnerID, c.FullName, c.Email, c.Phone, c.Notes, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}

// ClientByID fetches a client owned by ownerID.
func (s *Store) ClientByID(ctx context.Context, id, ownerID string) (*model.Client, error) {
	var c model.Client
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, full_name, email, phone, notes, created_at, updated_at FROM clients WHERE id=? AND owner_id=? LIMIT 1",
		id, ownerID).Scan(&c.ID, &c.OwnerID, &c.FullName, &c.Email, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateClient rewrites the record matching c.ID under c.OwnerID.
func (s *Store) UpdateClient(ctx context.Context, c *model.Client, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE clients SET full_name=?, email=?, phone=?, notes=?, updated_at=? WHERE id=? AND owner_id=?",
			c.FullName, c.Email, c.Phone, c.Notes, c.UpdatedAt, c.ID, c.OwnerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

// DeleteClient removes a client owned by ownerID.
func (s *Store) DeleteClient(ctx context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE id=? AND owner_id=?", id, ownerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

// ListCases returns the caller's cases, newest created first.
func (s *Store) ListCases(ctx context.Context, ownerID string) ([]model.Case, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, title, client_name, status, court, next_hearing_date, notes, created_at, updated_at FROM cases WHERE owner_id=? ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Case{}
	for rows.Next() {
		var cs model.Case
		if err := rows.Scan(&cs.ID, &cs.OwnerID, &cs.Title, &cs.ClientName, &cs.Status, &cs.Court, &cs.NextHearingDate, &cs.Notes, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// CreateCase inserts a case together with its audit entry.
func (s *Store) CreateCase(ctx context.Context, cs *model.Case, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cases (id, owner_id, title, client_name, status, court, next_hearing_date, notes, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?)",
			cs.ID, cs.OwnerID, cs.Title, cs.ClientName, cs.Status, cs.Court, cs.NextHearingDate, cs.Notes, cs.CreatedAt, cs.UpdatedAt)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}

// CaseByID fetches a case owned by ownerID.
func (s *Store) CaseByID(ctx context.Context, id, ownerID string) (*model.Case, error) {
	var cs model.Case
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, title, client_name, status, court, next_hearing_date, notes, created_at, updated_at FROM cases WHERE id=? AND owner_id=? LIMIT 1",
		id, ownerID).Scan(&cs.ID, &cs.OwnerID, &cs.Title, &cs.ClientName, &cs.Status, &cs.Court, &cs.NextHearingDate, &cs.Notes, &cs.CreatedAt, &cs.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// UpdateCase rewrites the record matching cs.ID under cs.OwnerID.
func (s *Store) UpdateCase(ctx context.Context, cs *model.Case, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE cases SET title=?, client_name=?, status=?, court=?, next_hearing_date=?, notes=?, updated_at=? WHERE id=? AND owner_id=?",
			cs.Title, cs.ClientName, cs.Status, cs.Court, cs.NextHearingDate, cs.Notes, cs.UpdatedAt, cs.ID, cs.OwnerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

// DeleteCase removes a case owned by ownerID.
func (s *Store) DeleteCase(ctx context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM cases WHERE id=? AND owner_id=?", id, ownerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

const documentColumns = "id, owner_id, title, doc_type, linked_case_id, linked_client_id, notes, storage_provider, storage_key, file_name, mime_type, file_size, created_at, updated_at"

func scanDocument(scan func(dest ...any) error) (*model.Document, error) {
	var d model.Document
	err := scan(&d.ID, &d.OwnerID, &d.Title, &d.Type, &d.LinkedCaseID, &d.LinkedClientID, &d.Notes,
		&d.StorageProvider, &d.StorageKey, &d.FileName, &d.MimeType, &d.FileSize, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocuments returns the caller's documents, newest created first.
func (s *Store) ListDocuments(ctx context.Context, ownerID string) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE owner_id=? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Document{}
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// CreateDocument inserts a document together with its audit entry.
func (s *Store) CreateDocument(ctx context.Context, d *model.Document, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO documents ("+documentColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
			d.ID, d.OwnerID, d.Title, d.Type, d.LinkedCaseID, d.LinkedClientID, d.Notes,
			d.StorageProvider, d.StorageKey, d.FileName, d.MimeType, d.FileSize, d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}

// DocumentByID fetches a document owned by ownerID.
func (s *Store) DocumentByID(ctx context.Context, id, ownerID string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id=? AND owner_id=? LIMIT 1", id, ownerID)
	d, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDocument rewrites the record matching d.ID under d.OwnerID,
// including the blob reference columns.
func (s *Store) UpdateDocument(ctx context.Context, d *model.Document, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE documents SET title=?, doc_type=?, linked_case_id=?, linked_client_id=?, notes=?, storage_provider=?, storage_key=?, file_name=?, mime_type=?, file_size=?, updated_at=? WHERE id=? AND owner_id=?",
			d.Title, d.Type, d.LinkedCaseID, d.LinkedClientID, d.Notes,
			d.StorageProvider, d.StorageKey, d.FileName, d.MimeType, d.FileSize, d.UpdatedAt, d.ID, d.OwnerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

// DeleteDocument removes a document owned by ownerID. The caller releases
// the backing blob first.
func (s *Store) DeleteDocument(ctx context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id=? AND owner_id=?", id, ownerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

// ListMessages returns the caller's messages, newest created first.
func (s *Store) ListMessages(ctx context.Context, ownerID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, subject, to_name, channel, linked_case_id, linked_client_id, body, created_at, updated_at FROM messages WHERE owner_id=? ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Subject, &m.ToName, &m.Channel, &m.LinkedCaseID, &m.LinkedClientID, &m.Body, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMessage inserts a message together with its audit entry.
func (s *Store) CreateMessage(ctx context.Context, m *model.Message, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO messages (id, owner_id, subject, to_name, channel, linked_case_id, linked_client_id, body, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?)",
			m.ID, m.OwnerID, m.Subject, m.ToName, m.Channel, m.LinkedCaseID, m.LinkedClientID, m.Body, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}

// MessageByID fetches a message owned by ownerID.
func (s *Store) MessageByID(ctx context.Context, id, ownerID string) (*model.Message, error) {
	var m model.Message
	err := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, subject, to_name, channel, linked_case_id, linked_client_id, body, created_at, updated_at FROM messages WHERE id=? AND owner_id=? LIMIT 1",
		id, ownerID).Scan(&m.ID, &m.OwnerID, &m.Subject, &m.ToName, &m.Channel, &m.LinkedCaseID, &m.LinkedClientID, &m.Body, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMessage rewrites the record matching m.ID under m.OwnerID.
func (s *Store) UpdateMessage(ctx context.Context, m *model.Message, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE messages SET subject=?, to_name=?, channel=?, linked_case_id=?, linked_client_id=?, body=?, updated_at=? WHERE id=? AND owner_id=?",
			m.Subject, m.ToName, m.Channel, m.LinkedCaseID, m.LinkedClientID, m.Body, m.UpdatedAt, m.ID, m.OwnerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}

// DeleteMessage removes a message owned by ownerID.
func (s *Store) DeleteMessage(ctx context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE id=? AND owner_id=?", id, ownerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return insertAudit(ctx, tx, entry)
	})
}
