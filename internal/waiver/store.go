// Package waiver persists finding suppressions. The store is a small JSON
// file read fully and rewritten wholesale on any change; a single local
// user is the only writer.
package waiver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/girdav01/gateguard/internal/core"
)

// FileName is the waiver store file inside the state directory.
const FileName = "waivers.json"

// Store reads and writes the waiver file.
type Store struct {
	path string
}

// NewStore creates a Store over stateDir.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, FileName)}
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Timestamps are persisted as RFC3339 strings so a record with a mangled
// expiry can be skipped instead of failing the whole file.
type record struct {
	Code      string `json:"code"`
	Path      string `json:"path,omitempty"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

type storeFile struct {
	Waivers []record `json:"waivers"`
}

// Active loads the waivers still in effect at now. Expired records and
// records with unparseable expirations are excluded from the active set but
// stay on disk until explicitly removed.
func (s *Store) Active(now time.Time) ([]core.Waiver, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	var active []core.Waiver
	for _, r := range records {
		expires, err := time.Parse(time.RFC3339, r.ExpiresAt)
		if err != nil || !expires.After(now) {
			continue
		}
		created, _ := time.Parse(time.RFC3339, r.CreatedAt)
		active = append(active, core.Waiver{
			Code:      r.Code,
			Path:      r.Path,
			Reason:    r.Reason,
			CreatedAt: created,
			ExpiresAt: expires,
		})
	}
	return active, nil
}

// Add appends a waiver and rewrites the store.
func (s *Store) Add(w core.Waiver) error {
	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, record{
		Code:      w.Code,
		Path:      w.Path,
		Reason:    w.Reason,
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: w.ExpiresAt.UTC().Format(time.RFC3339),
	})
	return s.save(records)
}

// Remove deletes every record matching code and, when path is non-empty,
// the exact path. It returns the number of records removed.
func (s *Store) Remove(code, path string) (int, error) {
	records, err := s.load()
	if err != nil {
		return 0, err
	}
	kept := records[:0]
	removed := 0
	for _, r := range records {
		if r.Code == code && (path == "" || r.Path == path) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(kept)
}

func (s *Store) load() ([]record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read waiver store: %w", err)
	}
	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse waiver store %s: %w", s.path, err)
	}
	return f.Waivers, nil
}

func (s *Store) save(records []record) error {
	if records == nil {
		records = []record{}
	}
	data, err := json.MarshalIndent(storeFile{Waivers: records}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write waiver store: %w", err)
	}
	return os.Rename(tmp, s.path)
}
