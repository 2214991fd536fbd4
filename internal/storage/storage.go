package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var ErrTooLarge = errors.New("file exceeds upload size limit")

// Store is one scratch directory (uploads or outputs for a backend).
// Files are written with generated names, so no path sanitization of
// caller-supplied names is needed beyond the id prefix.
type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %s: %w", dir, err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// SaveUpload streams r into the store under name, enforcing the size cap
// while writing. The partial file is removed on any failure.
func (s *Store) SaveUpload(name string, r io.Reader) (string, error) {
	dest := s.Path(name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	n, err := io.Copy(out, io.LimitReader(r, s.maxBytes+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("save upload: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(dest)
		return "", ErrTooLarge
	}

	return dest, nil
}

// FindByID locates a stored file by its id prefix (the stored name is
// "{id}{ext}" or "{id}_{original}").
func (s *Store) FindByID(id string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, id+"*"))
	if err != nil || len(matches) == 0 {
		return "", os.ErrNotExist
	}
	return matches[0], nil
}

// Remove deletes scratch files best-effort; failures are logged, never
// surfaced.
func Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[storage] cleanup path=%s error=%v", p, err)
		}
	}
}
