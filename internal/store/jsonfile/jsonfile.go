// Package jsonfile implements store.Store on top of a single JSON document
// on disk. The whole dataset is held in memory behind one RWMutex and
// rewritten atomically (temp file + rename) on every mutation, so a data
// change and its audit entry always land in the same file write. Suited for
// small single-node deployments; the mysql backend covers the rest.
package jsonfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/lawease/lawease/internal/model"
)

type dataset struct {
	Users       []model.User       `json:"users"`
	Clients     []model.Client     `json:"clients"`
	Cases       []model.Case       `json:"cases"`
	Documents   []model.Document   `json:"documents"`
	Messages    []model.Message    `json:"messages"`
	ResetTokens []model.ResetToken `json:"resetTokens"`
	AuditLogs   []model.AuditLog   `json:"auditLogs"`
}

// Store is a file-backed document store.
type Store struct {
	path string
	mu   sync.RWMutex
	data dataset
}

// Open loads the dataset from path, creating parent directories and starting
// from an empty dataset when the file does not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close is a no-op; every mutation is already flushed to disk.
func (s *Store) Close() error { return nil }

// persistLocked rewrites the backing file. Callers must hold the write lock.
// The temp-file + rename dance keeps a crash from truncating the dataset.
func (s *Store) persistLocked() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// reloadLocked restores the in-memory dataset from disk after a failed
// persist so memory and file cannot drift apart.
func (s *Store) reloadLocked() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = dataset{}
			return nil
		}
		return err
	}
	var d dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return err
	}
	s.data = d
	return nil
}

// mutate applies fn under the write lock, appends the audit entry and
// persists the dataset in one file write. fn must not touch the dataset
// before its own precondition checks have passed.
func (s *Store) mutate(entry *model.AuditLog, fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.data); err != nil {
		return err
	}
	if entry != nil {
		s.data.AuditLogs = append(s.data.AuditLogs, *entry)
	}
	if err := s.persistLocked(); err != nil {
		_ = s.reloadLocked()
		return err
	}
	return nil
}
