package asset

import (
	"context"
	"errors"
	"io/fs"

	"github.com/fhuszti/assets-ms-go/internal/batch"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

type FileCleaner struct {
	files port.FileStore
}

// compile-time check
var _ port.FileDeleter = (*FileCleaner)(nil)

func NewFileCleaner(files port.FileStore) *FileCleaner {
	return &FileCleaner{files: files}
}

// DeleteFiles attempts every original and thumbnail path on its own.
// A file that is already gone counts as removed.
func (s *FileCleaner) DeleteFiles(ctx context.Context, in port.DeleteFilesInput) batch.Outcomes[string, struct{}] {
	var paths []string
	for _, a := range in.Assets {
		if a.OriginalPath != "" {
			paths = append(paths, a.OriginalPath)
		}
		if a.ResizePath != nil && *a.ResizePath != "" {
			paths = append(paths, *a.ResizePath)
		}
	}

	out := batch.Run(ctx, paths, func(ctx context.Context, path string) (struct{}, error) {
		err := s.files.Remove(ctx, path)
		if errors.Is(err, ErrFileNotFound) || errors.Is(err, fs.ErrNotExist) {
			logger.Infof(ctx, "file %q already gone", path)
			return struct{}{}, nil
		}
		return struct{}{}, err
	})

	for _, o := range out.Failed() {
		logger.Warnf(ctx, "could not remove file %q: %v", o.Item, o.Err)
	}
	logger.Infof(ctx, "removed %d of %d files", len(out.Succeeded()), len(out))
	return out
}
