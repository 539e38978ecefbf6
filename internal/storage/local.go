package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage persists uploaded files under a root directory, one
// subdirectory per user. Paths handed back to callers are relative to the
// root so the root can move between environments.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Save writes the content to a uuid-prefixed file in the user's directory
// and returns the relative path.
func (s *LocalStorage) Save(userID uuid.UUID, filename string, content io.Reader) (string, error) {
	userDir := filepath.Join(s.root, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("create user dir: %w", err)
	}

	// Prefix with a uuid so repeated uploads of the same filename never clash.
	relPath := filepath.Join(userID.String(), uuid.New().String()+"_"+filepath.Base(filename))
	dst, err := os.Create(filepath.Join(s.root, relPath))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return relPath, nil
}

// Open returns a reader for a stored file along with its absolute path.
func (s *LocalStorage) Open(relPath string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.root, relPath))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// AbsolutePath resolves a stored relative path against the storage root.
func (s *LocalStorage) AbsolutePath(relPath string) string {
	return filepath.Join(s.root, relPath)
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStorage) Remove(relPath string) error {
	if err := os.Remove(filepath.Join(s.root, relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
