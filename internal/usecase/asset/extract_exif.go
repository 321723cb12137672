package asset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// ExifService fills the Exif satellite of an asset from its original file.
type ExifService struct {
	repo        port.AssetRepository
	files       port.FileStore
	parser      port.ExifParser
	invalidator port.AssetInvalidator
	notifier    port.Notifier
	overwrite   bool
}

// compile-time check
var _ port.ExifExtractor = (*ExifService)(nil)

// NewExifService builds the extractor. Without overwrite the first recorded Exif wins.
func NewExifService(
	repo port.AssetRepository,
	files port.FileStore,
	parser port.ExifParser,
	invalidator port.AssetInvalidator,
	notifier port.Notifier,
	overwrite bool,
) *ExifService {
	return &ExifService{
		repo:        repo,
		files:       files,
		parser:      parser,
		invalidator: invalidator,
		notifier:    notifier,
		overwrite:   overwrite,
	}
}

func (s *ExifService) ExtractExif(ctx context.Context, in port.ExtractExifInput) error {
	a, err := loadOwned(ctx, s.repo, uuid.Nil, in.AssetID)
	if err != nil {
		return err
	}

	rc, err := s.files.Open(ctx, a.OriginalPath)
	if err != nil {
		return fmt.Errorf("%w: open %q: %w", ErrProcessing, a.OriginalPath, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			logger.Warnf(ctx, "could not close %q: %v", a.OriginalPath, cerr)
		}
	}()

	e, err := s.parser.Parse(rc)
	if err != nil {
		return fmt.Errorf("%w: parse %q: %w", ErrProcessing, a.OriginalPath, err)
	}

	e.AssetID = a.ID
	name := in.FileName
	if name == "" {
		name = filepath.Base(a.OriginalPath)
	}
	e.ImageName = &name
	if in.FileSize > 0 {
		size := in.FileSize
		e.FileSizeInByte = &size
	}

	written, err := s.repo.SaveExif(ctx, e, s.overwrite)
	if err != nil {
		return fmt.Errorf("%w: save exif of asset %s: %w", ErrProcessing, a.ID, err)
	}
	if !written {
		logger.Infof(ctx, "exif of asset %s already recorded, keeping it", a.ID)
		return nil
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, a.ID)
	}
	notify(ctx, s.notifier, a.OwnerID, EventExifExtracted, model.AssetDetails{Asset: *a, Exif: e})
	return nil
}
