package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store accepts an image upload and returns its public URL. The default
// implementation writes to local disk; swapping in a cloud object store
// only requires another implementation of this interface.
type Store interface {
	Save(filename string, r io.Reader) (string, error)
}

type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore ensures the upload directory exists. Files are served under
// baseURL + "/uploads/".
func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory static files are served from.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(filename string, r io.Reader) (string, error) {
	// Never trust the client's file name; keep only the extension.
	ext := filepath.Ext(filename)
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return s.baseURL + "/uploads/" + name, nil
}
