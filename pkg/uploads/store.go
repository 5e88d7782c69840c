// Package uploads stores uploaded media under a bounded directory and purges old files
package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pkgz/lgr"
)

// DefaultMaxAge is how long uploaded files are kept
const DefaultMaxAge = 24 * time.Hour

// Store keeps uploaded files in a single flat directory, one file per upload
type Store struct {
	dir    string
	maxAge time.Duration
}

// NewStore makes a store in dir, creating the directory if needed
func NewStore(dir string, maxAge time.Duration) (*Store, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir, maxAge: maxAge}, nil
}

// Dir returns the upload directory
func (s *Store) Dir() string { return s.dir }

// Save writes r to a new file named after the sanitized name and returns its path.
// Every call gets its own file, so concurrent uploads of the same name never share one.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	safe := SecureFilename(name)
	if safe == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	f, err := os.CreateTemp(s.dir, "*-"+safe)
	if err != nil {
		return "", fmt.Errorf("create upload file for %s: %w", safe, err)
	}
	path := f.Name()
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Open opens a stored file for reading
func (s *Store) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from Save
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes a stored file, a missing file is not an error
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Cleanup removes regular files modified more than maxAge before now.
// Errors on single files are logged and skipped.
func (s *Store) Cleanup(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir %s: %w", s.dir, err)
	}

	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			lgr.Printf("[WARN] can't stat %s: %v", e.Name(), err)
			continue
		}
		if now.Sub(info.ModTime()) <= s.maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			lgr.Printf("[WARN] can't remove old upload %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
