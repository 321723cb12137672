package port

import (
	"context"
	"io"
)

// FileStore holds the bytes of uploaded originals and thumbnails.
// Paths returned by Save are what gets recorded on the asset.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}
