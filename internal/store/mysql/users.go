package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lawease/lawease/internal/auth"
	"github.com/lawease/lawease/internal/model"
	"github.com/lawease/lawease/internal/store"
)

const userColumns = "id, name, email, role, password_hash, created_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user together with its audit entry. The very first
// account is promoted to admin inside the transaction, with the count locked
// so concurrent signups on an empty table cannot both win the promotion.
func (s *Store) CreateUser(ctx context.Context, u *model.User, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users FOR UPDATE").Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			u.Role = auth.RoleAdmin
			if entry != nil && entry.Metadata != nil {
				entry.Metadata["role"] = u.Role
			}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, name, email, role, password_hash, created_at) VALUES (?,?,?,?,?,?)",
			u.ID, u.Name, strings.ToLower(u.Email), u.Role, u.PasswordHash, u.CreatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "1062") {
				return store.ErrEmailExists
			}
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}

// UserByEmail fetches a user by normalized email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// UserByID fetches a user by id.
func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountUsers returns the total number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// UpdateUserRole sets a user's role and returns the updated record.
func (s *Store) UpdateUserRole(ctx context.Context, id, role string, entry *model.AuditLog) (*model.User, error) {
	var updated model.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1 FOR UPDATE", id)
		err := row.Scan(&updated.ID, &updated.Name, &updated.Email, &updated.Role, &updated.PasswordHash, &updated.CreatedAt)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id); err != nil {
			return err
		}
		updated.Role = role
		return insertAudit(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreateResetToken inserts a password reset token.
func (s *Store) CreateResetToken(ctx context.Context, t *model.ResetToken, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO reset_tokens (id, user_id, token_hash, expires_at, used_at, created_at) VALUES (?,?,?,?,NULL,?)",
			t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedAt)
		if err != nil {
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}

// ResetTokenByHash returns the unused token matching tokenHash.
func (s *Store) ResetTokenByHash(ctx context.Context, tokenHash string) (*model.ResetToken, error) {
	var t model.ResetToken
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, used_at, created_at FROM reset_tokens WHERE token_hash=? AND used_at IS NULL LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeResetToken marks the token used and replaces the user's credential
// in one transaction. Replays hit the used_at guard and report ErrNotFound.
func (s *Store) ConsumeResetToken(ctx context.Context, tokenID, userID, passwordHash string, entry *model.AuditLog) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		if entry != nil {
			now = entry.CreatedAt
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE reset_tokens SET used_at=? WHERE id=? AND used_at IS NULL",
			now, tokenID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		var exists string
		err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? LIMIT 1", userID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", passwordHash, userID); err != nil {
			return err
		}
		return insertAudit(ctx, tx, entry)
	})
}
