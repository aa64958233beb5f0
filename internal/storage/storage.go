// Package storage manages the on-disk upload directory for journal images.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// filenameSuffixLen is the length of the random portion of generated
// filenames.
const filenameSuffixLen = 12

// ErrBadFilename indicates a filename that could not be derived safely
// from its source (empty, or escaping the upload directory).
var ErrBadFilename = errors.New("bad filename")

// Storage persists uploaded images under a single local directory.
// Filenames are generated server-side; callers never control the path.
type Storage struct {
	dir string
}

// New creates a Storage rooted at dir, creating the directory if needed.
func New(dir string) (*Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Storage{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Storage) Dir() string {
	return s.dir
}

// Save streams the file to disk under a generated, collision-resistant
// name and returns that name. The original name contributes only its
// extension.
func (s *Storage) Save(r io.Reader, originalName string) (string, error) {
	name, err := generateFilename(originalName)
	if err != nil {
		return "", fmt.Errorf("generate filename: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close image file: %w", err)
	}

	return name, nil
}

// Delete removes a stored file by name. Returns false with no error if
// the file was already gone, so deletes are idempotent.
func (s *Storage) Delete(name string) (bool, error) {
	if name == "" || name != filepath.Base(name) {
		return false, ErrBadFilename
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete image file: %w", err)
	}

	return true, nil
}

// FilenameFromURL derives the stored filename from the final path
// segment of an image URL.
func FilenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadFilename, err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", ErrBadFilename
	}

	return name, nil
}

// generateFilename builds "<unix-ms>-<nanoid><ext>". The timestamp
// keeps directory listings roughly chronological; the nanoid prevents
// collisions within a millisecond.
func generateFilename(originalName string) (string, error) {
	suffix, err := gonanoid.New(filenameSuffixLen)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))

	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext), nil
}
