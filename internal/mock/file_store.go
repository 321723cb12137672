package mock

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sync"
)

// MockFileStore keeps files in memory. Missing paths yield fs.ErrNotExist
// unless NotFoundErr is set.
type MockFileStore struct {
	mu sync.Mutex

	Files map[string][]byte

	SaveErr     error
	OpenErr     error
	RemoveErrs  map[string]error
	NotFoundErr error

	Saved   []string
	Opened  []string
	Removed []string
	Tried   []string
}

func NewMockFileStore() *MockFileStore {
	return &MockFileStore{Files: map[string][]byte{}}
}

func (m *MockFileStore) notFound() error {
	if m.NotFoundErr != nil {
		return m.NotFoundErr
	}
	return fs.ErrNotExist
}

func (m *MockFileStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "/store/" + key
	m.Files[path] = b
	m.Saved = append(m.Saved, path)
	return path, nil
}

func (m *MockFileStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opened = append(m.Opened, path)
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	b, ok := m.Files[path]
	if !ok {
		return nil, m.notFound()
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MockFileStore) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tried = append(m.Tried, path)
	if err := m.RemoveErrs[path]; err != nil {
		return err
	}
	if _, ok := m.Files[path]; !ok {
		return m.notFound()
	}
	delete(m.Files, path)
	m.Removed = append(m.Removed, path)
	return nil
}
