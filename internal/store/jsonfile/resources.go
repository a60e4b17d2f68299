package jsonfile

import (
	"context"

	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
)

// The four owned collections share one shape: list newest first, create,
// fetch/update/delete by id scoped to the owner. A record under another
// owner is reported as ErrNotFound, never as forbidden.

// ListClients returns the caller's clients, newest created first.
func (s *Store) ListClients(_ context.Context, ownerID string) ([]model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Client{}
	for i := len(s.data.Clients) - 1; i >= 0; i-- {
		if s.data.Clients[i].OwnerID == ownerID {
			out = append(out, s.data.Clients[i])
		}
	}
	return out, nil
}

// CreateClient appends a client record.
func (s *Store) CreateClient(_ context.Context, c *model.Client, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		d.Clients = append(d.Clients, *c)
		return nil
	})
}

// ClientByID fetches a client owned by ownerID.
func (s *Store) ClientByID(_ context.Context, id, ownerID string) (*model.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.Clients {
		if s.data.Clients[i].ID == id && s.data.Clients[i].OwnerID == ownerID {
			c := s.data.Clients[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateClient replaces the stored record matching c.ID under c.OwnerID.
func (s *Store) UpdateClient(_ context.Context, c *model.Client, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Clients {
			if d.Clients[i].ID == c.ID && d.Clients[i].OwnerID == c.OwnerID {
				d.Clients[i] = *c
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// DeleteClient removes a client owned by ownerID.
func (s *Store) DeleteClient(_ context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Clients {
			if d.Clients[i].ID == id && d.Clients[i].OwnerID == ownerID {
				d.Clients = append(d.Clients[:i], d.Clients[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// ListCases returns the caller's cases, newest created first.
func (s *Store) ListCases(_ context.Context, ownerID string) ([]model.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Case{}
	for i := len(s.data.Cases) - 1; i >= 0; i-- {
		if s.data.Cases[i].OwnerID == ownerID {
			out = append(out, s.data.Cases[i])
		}
	}
	return out, nil
}

// CreateCase appends a case record.
func (s *Store) CreateCase(_ context.Context, cs *model.Case, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		d.Cases = append(d.Cases, *cs)
		return nil
	})
}

// CaseByID fetches a case owned by ownerID.
func (s *Store) CaseByID(_ context.Context, id, ownerID string) (*model.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.Cases {
		if s.data.Cases[i].ID == id && s.data.Cases[i].OwnerID == ownerID {
			cs := s.data.Cases[i]
			return &cs, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateCase replaces the stored record matching cs.ID under cs.OwnerID.
func (s *Store) UpdateCase(_ context.Context, cs *model.Case, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Cases {
			if d.Cases[i].ID == cs.ID && d.Cases[i].OwnerID == cs.OwnerID {
				d.Cases[i] = *cs
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// DeleteCase removes a case owned by ownerID.
func (s *Store) DeleteCase(_ context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Cases {
			if d.Cases[i].ID == id && d.Cases[i].OwnerID == ownerID {
				d.Cases = append(d.Cases[:i], d.Cases[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// ListDocuments returns the caller's documents, newest created first.
func (s *Store) ListDocuments(_ context.Context, ownerID string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Document{}
	for i := len(s.data.Documents) - 1; i >= 0; i-- {
		if s.data.Documents[i].OwnerID == ownerID {
			out = append(out, s.data.Documents[i])
		}
	}
	return out, nil
}

// CreateDocument appends a document record.
func (s *Store) CreateDocument(_ context.Context, doc *model.Document, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		d.Documents = append(d.Documents, *doc)
		return nil
	})
}

// DocumentByID fetches a document owned by ownerID.
func (s *Store) DocumentByID(_ context.Context, id, ownerID string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.Documents {
		if s.data.Documents[i].ID == id && s.data.Documents[i].OwnerID == ownerID {
			doc := s.data.Documents[i]
			return &doc, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateDocument replaces the stored record matching doc.ID under doc.OwnerID.
func (s *Store) UpdateDocument(_ context.Context, doc *model.Document, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Documents {
			if d.Documents[i].ID == doc.ID && d.Documents[i].OwnerID == doc.OwnerID {
				d.Documents[i] = *doc
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// DeleteDocument removes a document owned by ownerID. Releasing the backing
// blob is the caller's responsibility and must happen first.
func (s *Store) DeleteDocument(_ context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Documents {
			if d.Documents[i].ID == id && d.Documents[i].OwnerID == ownerID {
				d.Documents = append(d.Documents[:i], d.Documents[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// ListMessages returns the caller's messages, newest created first.
func (s *Store) ListMessages(_ context.Context, ownerID string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Message{}
	for i := len(s.data.Messages) - 1; i >= 0; i-- {
		if s.data.Messages[i].OwnerID == ownerID {
			out = append(out, s.data.Messages[i])
		}
	}
	return out, nil
}

// CreateMessage appends a message record.
func (s *Store) CreateMessage(_ context.Context, m *model.Message, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		d.Messages = append(d.Messages, *m)
		return nil
	})
}

// MessageByID fetches a message owned by ownerID.
func (s *Store) MessageByID(_ context.Context, id, ownerID string) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.Messages {
		if s.data.Messages[i].ID == id && s.data.Messages[i].OwnerID == ownerID {
			m := s.data.Messages[i]
			return &m, nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateMessage replaces the stored record matching m.ID under m.OwnerID.
func (s *Store) UpdateMessage(_ context.Context, m *model.Message, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Messages {
			if d.Messages[i].ID == m.ID && d.Messages[i].OwnerID == m.OwnerID {
				d.Messages[i] = *m
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// DeleteMessage removes a message owned by ownerID.
func (s *Store) DeleteMessage(_ context.Context, id, ownerID string, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		for i := range d.Messages {
			if d.Messages[i].ID == id && d.Messages[i].OwnerID == ownerID {
				d.Messages = append(d.Messages[:i], d.Messages[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}
