package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

// DiskStore keeps asset files under a root directory of the local file system.
// Paths are absolute file paths, which is what the ML service expects to read.
type DiskStore struct {
	root string
}

// compile-time check: *DiskStore must satisfy port.FileStore
var _ port.FileStore = (*DiskStore)(nil)

func NewDiskStore(root string) (*DiskStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, mapFsErr(err)
	}
	return &DiskStore{root: abs}, nil
}

func (s *DiskStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	log.Printf("saving file %q on disk...", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", mapFsErr(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", mapFsErr(err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", mapFsErr(err)
	}
	if err := f.Close(); err != nil {
		return "", mapFsErr(err)
	}
	return path, nil
}

func (s *DiskStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	log.Printf("opening file %q from disk...", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, mapFsErr(err)
	}
	return f, nil
}

func (s *DiskStore) Remove(_ context.Context, path string) error {
	log.Printf("removing file %q from disk...", path)

	return mapFsErr(os.Remove(path))
}

// resolve joins key under the root and refuses keys escaping it.
func (s *DiskStore) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid file key %q", key)
	}
	return path, nil
}
