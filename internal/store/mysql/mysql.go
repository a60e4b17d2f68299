// Package mysql implements store.Store on MySQL. Every mutation runs in a
// transaction that also inserts the mutation's audit entry, so the two
// commit or roll back together.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Store is a MySQL-backed document store.
type Store struct {
	db *sql.DB
}

// Open connects to MySQL, verifies the connection and ensures the schema.
func Open(user, pass, host, port, name string) (*Store, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_users_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS reset_tokens (
			id CHAR(36) PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME(6) NOT NULL,
			used_at DATETIME(6) NULL,
			created_at DATETIME(6) NOT NULL,
			KEY idx_reset_tokens_hash (token_hash)
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id CHAR(36) PRIMARY KEY,
			owner_id CHAR(36) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(64) NOT NULL DEFAULT '',
			notes TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_clients_owner (owner_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS cases (
			id CHAR(36) PRIMARY KEY,
			owner_id CHAR(36) NOT NULL,
			title VARCHAR(255) NOT NULL,
			client_name VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(64) NOT NULL DEFAULT 'open',
			court VARCHAR(255) NOT NULL DEFAULT '',
			next_hearing_date VARCHAR(64) NOT NULL DEFAULT '',
			notes TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_cases_owner (owner_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id CHAR(36) PRIMARY KEY,
			owner_id CHAR(36) NOT NULL,
			title VARCHAR(255) NOT NULL,
			doc_type VARCHAR(64) NOT NULL DEFAULT 'general',
			linked_case_id VARCHAR(64) NOT NULL DEFAULT '',
			linked_client_id VARCHAR(64) NOT NULL DEFAULT '',
			notes TEXT NOT NULL,
			storage_provider VARCHAR(16) NOT NULL DEFAULT '',
			storage_key VARCHAR(255) NOT NULL DEFAULT '',
			file_name VARCHAR(255) NOT NULL DEFAULT '',
			mime_type VARCHAR(128) NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_documents_owner (owner_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id CHAR(36) PRIMARY KEY,
			owner_id CHAR(36) NOT NULL,
			subject VARCHAR(255) NOT NULL,
			to_name VARCHAR(255) NOT NULL DEFAULT '',
			channel VARCHAR(64) NOT NULL DEFAULT 'email',
			linked_case_id VARCHAR(64) NOT NULL DEFAULT '',
			linked_client_id VARCHAR(64) NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			KEY idx_messages_owner (owner_id, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id CHAR(36) PRIMARY KEY,
			action VARCHAR(64) NOT NULL,
			user_id CHAR(36) NOT NULL DEFAULT '',
			ip VARCHAR(64) NOT NULL DEFAULT '',
			metadata TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			KEY idx_audit_logs_created (created_at)
		)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(tx)
	return err
}
