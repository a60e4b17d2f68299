package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/lawease/lawease/internal/auth"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
)

// CreateUser appends a user, enforcing case-insensitive email uniqueness.
// The very first account is promoted to admin inside the same critical
// section as the append, so concurrent signups on a fresh store cannot each
// observe an empty collection and all claim the role.
func (s *Store) CreateUser(_ context.Context, u *model.User, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		email := strings.ToLower(u.Email)
		for i := range d.Users {
			if d.Users[i].Email == email {
				return store.ErrEmailExists
			}
		}
		if len(d.Users) == 0 {
			u.Role = auth.RoleAdmin
			if entry != nil && entry.Metadata != nil {
				entry.Metadata["role"] = u.Role
			}
		}
		d.Users = append(d.Users, *u)
		return nil
	})
}

// UserByEmail fetches a user by normalized email.
func (s *Store) UserByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.Users {
		if s.data.Users[i].Email == email {
			u := s.data.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// UserByID fetches a user by id.
func (s *Store) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.Users {
		if s.data.Users[i].ID == id {
			u := s.data.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.data.Users))
	for i := len(s.data.Users) - 1; i >= 0; i-- {
		out = append(out, s.data.Users[i])
	}
	return out, nil
}

// CountUsers returns the total number of accounts.
func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Users), nil
}

// UpdateUserRole sets a user's role and returns the updated record.
func (s *Store) UpdateUserRole(_ context.Context, id, role string, entry *model.AuditLog) (*model.User, error) {
	var updated model.User
	err := s.mutate(entry, func(d *dataset) error {
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users[i].Role = role
				updated = d.Users[i]
				return nil
			}
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreateResetToken appends a password reset token.
func (s *Store) CreateResetToken(_ context.Context, t *model.ResetToken, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		d.ResetTokens = append(d.ResetTokens, *t)
		return nil
	})
}

// ResetTokenByHash returns the unused token matching tokenHash. Used tokens
// are skipped so replays look exactly like unknown tokens.
func (s *Store) ResetTokenByHash(_ context.Context, tokenHash string) (*model.ResetToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.data.ResetTokens {
		t := s.data.ResetTokens[i]
		if t.TokenHash == tokenHash && t.UsedAt == nil {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

// ConsumeResetToken replaces the user's credential and marks the token used
// in one commit. A token that is already consumed, or a vanished user,
// yields ErrNotFound.
func (s *Store) ConsumeResetToken(_ context.Context, tokenID, userID, passwordHash string, entry *model.AuditLog) error {
	return s.mutate(entry, func(d *dataset) error {
		ti := -1
		for i := range d.ResetTokens {
			if d.ResetTokens[i].ID == tokenID && d.ResetTokens[i].UsedAt == nil {
				ti = i
				break
			}
		}
		if ti < 0 {
			return store.ErrNotFound
		}
		ui := -1
		for i := range d.Users {
			if d.Users[i].ID == userID {
				ui = i
				break
			}
		}
		if ui < 0 {
			return store.ErrNotFound
		}
		now := time.Now().UTC()
		if entry != nil {
			now = entry.CreatedAt
		}
		d.ResetTokens[ti].UsedAt = &now
		d.Users[ui].PasswordHash = passwordHash
		return nil
	})
}
