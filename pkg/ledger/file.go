package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/redhook/pkg/domain"
)

// FileStore keeps the sent record in a JSON file mapping post id to ISO-8601 timestamp
type FileStore struct {
	path      string
	retention time.Duration
	now       func() time.Time
}

// NewFileStore makes a store backed by the JSON file at p.Path
func NewFileStore(p Params) *FileStore {
	p = p.withDefaults()
	if p.Path == "" {
		p.Path = "sent_posts.json"
	}
	return &FileStore{path: p.Path, retention: p.Retention, now: p.Now}
}

// Load reads the file and drops expired entries. A missing file is an empty record,
// a malformed one is logged and treated as empty.
func (s *FileStore) Load(_ context.Context) domain.SentRecord {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.SentRecord{}
	}
	if err != nil {
		return loadFailed(fmt.Errorf("read %s: %w", s.path, err))
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return loadFailed(fmt.Errorf("parse %s: %w", s.path, err))
	}

	rec := make(domain.SentRecord, len(raw))
	for id, val := range raw {
		ts, err := parseTimestamp(val)
		if err != nil {
			lgr.Printf("[WARN] skip sent post %s with bad timestamp %q", id, val)
			continue
		}
		rec[id] = ts
	}
	return expire(rec, s.now(), s.retention)
}

// Save overwrites the file with rec. The content goes to a temp file first and is renamed in place.
func (s *FileStore) Save(_ context.Context, rec domain.SentRecord) error {
	raw := make(map[string]string, len(rec))
	for id, ts := range rec {
		raw[id] = formatTimestamp(ts)
	}
	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal sent posts: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error { return nil }
