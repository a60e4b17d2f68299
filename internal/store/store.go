// Package store defines the persistence contract shared by every backend.
// Two implementations exist: a single-JSON-file document store (jsonfile)
// and a MySQL store (mysql). Handlers depend only on this interface; the
// backend is selected by configuration at startup.
//
// Every mutating method takes the audit entry that belongs to the mutation
// and commits both in one atomic step. Either the data change and its audit
// entry persist together, or neither does.
package store

import (
	"context"
	"errors"

	"github.com/lawease/lawease/internal/model"
)

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so a
// caller cannot probe for records it does not own.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when creating a user with an email that is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// MaxAuditLogs caps how many audit entries a single listing may return,
// regardless of the requested limit.
const MaxAuditLogs = 200

// Store is the durable document store holding all typed collections.
type Store interface {
	// Users. CreateUser promotes the very first account to admin inside the
	// same commit as the insert, updating u.Role (and the entry's role
	// metadata) in place.
	CreateUser(ctx context.Context, u *model.User, entry *model.AuditLog) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUserRole(ctx context.Context, id, role string, entry *model.AuditLog) (*model.User, error)

	// Password reset tokens. ResetTokenByHash only matches tokens that have
	// not been consumed; expiry is the caller's concern so that expired and
	// unknown tokens produce identical errors. ConsumeResetToken replaces
	// the user's credential and marks the token used in one commit.
	CreateResetToken(ctx context.Context, t *model.ResetToken, entry *model.AuditLog) error
	ResetTokenByHash(ctx context.Context, tokenHash string) (*model.ResetToken, error)
	ConsumeResetToken(ctx context.Context, tokenID, userID, passwordHash string, entry *model.AuditLog) error

	// Clients. Reads and writes are scoped by ownerID; a record under a
	// different owner behaves exactly like a missing one.
	ListClients(ctx context.Context, ownerID string) ([]model.Client, error)
	CreateClient(ctx context.Context, c *model.Client, entry *model.AuditLog) error
	ClientByID(ctx context.Context, id, ownerID string) (*model.Client, error)
	UpdateClient(ctx context.Context, c *model.Client, entry *model.AuditLog) error
	DeleteClient(ctx context.Context, id, ownerID string, entry *model.AuditLog) error

	// Cases.
	ListCases(ctx context.Context, ownerID string) ([]model.Case, error)
	CreateCase(ctx context.Context, cs *model.Case, entry *model.AuditLog) error
	CaseByID(ctx context.Context, id, ownerID string) (*model.Case, error)
	UpdateCase(ctx context.Context, cs *model.Case, entry *model.AuditLog) error
	DeleteCase(ctx context.Context, id, ownerID string, entry *model.AuditLog) error

	// Documents.
	ListDocuments(ctx context.Context, ownerID string) ([]model.Document, error)
	CreateDocument(ctx context.Context, d *model.Document, entry *model.AuditLog) error
	DocumentByID(ctx context.Context, id, ownerID string) (*model.Document, error)
	UpdateDocument(ctx context.Context, d *model.Document, entry *model.AuditLog) error
	DeleteDocument(ctx context.Context, id, ownerID string, entry *model.AuditLog) error

	// Messages.
	ListMessages(ctx context.Context, ownerID string) ([]model.Message, error)
	CreateMessage(ctx context.Context, m *model.Message, entry *model.AuditLog) error
	MessageByID(ctx context.Context, id, ownerID string) (*model.Message, error)
	UpdateMessage(ctx context.Context, m *model.Message, entry *model.AuditLog) error
	DeleteMessage(ctx context.Context, id, ownerID string, entry *model.AuditLog) error

	// Audit log. AppendAudit records actions that are not tied to another
	// mutation (for example a successful login).
	AppendAudit(ctx context.Context, entry *model.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error)

	// Stats aggregates per-owner counters. Read only, no audit entry.
	Stats(ctx context.Context, ownerID string) (model.Stats, error)

	Close() error
}
