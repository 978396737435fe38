// Package filestore keeps disclosure documents on local disk, one directory
// per property.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned for names that would escape the property directory.
	ErrInvalidName = errors.New("invalid file name")
)

// Store reads and writes files under root/<propertyID>/<filename>.
type Store struct {
	root string
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating files directory %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

func (s *Store) path(propertyID, filename string) (string, error) {
	for _, part := range []string{propertyID, filename} {
		if part == "" || part == "." || part == ".." ||
			strings.ContainsAny(part, `/\`) || part != filepath.Base(part) {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, part)
		}
	}
	return filepath.Join(s.root, propertyID, filename), nil
}

// Read returns a file's contents.
func (s *Store) Read(propertyID, filename string) ([]byte, error) {
	p, err := s.path(propertyID, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", propertyID, filename, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", propertyID, filename, err)
	}
	return data, nil
}

// Exists reports whether a regular file is stored under the name.
func (s *Store) Exists(propertyID, filename string) bool {
	p, err := s.path(propertyID, filename)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Write stores r under the name, replacing any existing file.
func (s *Store) Write(propertyID, filename string, r io.Reader) (err error) {
	p, err := s.path(propertyID, filename)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating property directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filename, err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("storing %s: %w", filename, err)
	}
	return nil
}

// List returns the names of a property's files, sorted.
func (s *Store) List(propertyID string) ([]string, error) {
	dir, err := s.path(propertyID, "_")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
