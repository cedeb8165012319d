// Package artifact persists derived images and text under unique names in a
// process-local result directory.
//
// Every artifact is written once to a fresh "<name>.<ext>" path, where name
// is eight random characters, and never rewritten. There is no index: the
// directory listing is the only record of what exists. The directory is
// created at session start (Ensure) and emptied at session end (Cleanup).
package artifact

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/ironsheep/coffee-image/internal/imaging"
)

// NameLength is the number of random characters in an artifact name.
const NameLength = 8

// Charset is the alphabet artifact names are drawn from.
const Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789)(*&^%$#@!~"

// maxCreateAttempts bounds how many fresh names are tried when a generated
// name already exists.
const maxCreateAttempts = 16

// NewName returns NameLength characters drawn uniformly from Charset.
func NewName() string {
	b := make([]byte, NameLength)
	for i := range b {
		b[i] = Charset[rand.Intn(len(Charset))]
	}
	return string(b)
}

// Store manages the files in one result directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is not touched until
// Ensure or a persist call.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the result directory.
func (s *Store) Dir() string {
	return s.dir
}

// Resolve joins the result directory with name.ext.
func (s *Store) Resolve(name, ext string) string {
	return filepath.Join(s.dir, name+"."+ext)
}

// Ensure creates the result directory if it does not exist. An existing
// directory is left as is; an existing non-directory is an error.
func (s *Store) Ensure() error {
	info, err := os.Stat(s.dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return &fs.PathError{Op: "mkdir", Path: s.dir, Err: fs.ErrExist}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.MkdirAll(s.dir, 0o755)
}

// create opens a new, previously non-existent artifact file with the given
// extension.
func (s *Store) create(ext string) (*os.File, error) {
	var lastErr error
	for i := 0; i < maxCreateAttempts; i++ {
		path := s.Resolve(NewName(), ext)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no free artifact name after %d attempts: %w", maxCreateAttempts, lastErr)
}

// PersistImage encodes img in format and writes it to a fresh artifact path,
// which is returned. A partially written file is removed on failure.
func (s *Store) PersistImage(img image.Image, format imaging.Format) (string, error) {
	f, err := s.create(format.Extension())
	if err != nil {
		return "", err
	}
	path := f.Name()

	if err := imaging.Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// CreateText opens a fresh ".txt" artifact for writing.
func (s *Store) CreateText() (*TextFile, error) {
	f, err := s.create("txt")
	if err != nil {
		return nil, err
	}
	return newTextFile(f), nil
}

// List returns the names of all entries in the result directory.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Cleanup deletes every entry of the result directory, best effort: a
// failure on one entry is collected and the remaining entries are still
// removed. The directory itself is kept.
//
// Cleanup must not run while artifacts are being written.
func (s *Store) Cleanup() []error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return []error{err}
	}

	var errs []error
	for _, e := range entries {
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
