package storage

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage writes uploaded files under a single base directory and hands back
// the stored filename. Filenames are timestamp-derived so two uploads in the
// same millisecond cannot collide within a request lifecycle.
type Storage struct {
	dir string
}

func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the base directory, used for static file serving.
func (s *Storage) Dir() string {
	return s.dir
}

// Save writes data under a generated name, keeping the extension implied by
// the content type (falling back to the original filename's extension).
func (s *Storage) Save(originalName, contentType string, data []byte) (string, error) {
	name := strconv.FormatInt(time.Now().UnixNano(), 10) + s.extension(originalName, contentType)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *Storage) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (s *Storage) extension(originalName, contentType string) string {
	if ext := filepath.Ext(originalName); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		return "." + parts[1]
	}
	return ""
}
