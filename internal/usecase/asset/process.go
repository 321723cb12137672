package asset

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Processor fans an uploaded asset out to its satellite jobs. Each satellite
// chain has its own dedup key so exif extraction and tagging run independently.
type Processor struct {
	repo    port.AssetRepository
	tasks   port.TaskDispatcher
	tagging bool
}

// compile-time check
var _ port.AssetProcessor = (*Processor)(nil)

// NewProcessor builds the fan-out. With tagging off, only exif extraction is scheduled.
func NewProcessor(repo port.AssetRepository, tasks port.TaskDispatcher, tagging bool) *Processor {
	return &Processor{repo: repo, tasks: tasks, tagging: tagging}
}

func (s *Processor) ProcessAsset(ctx context.Context, in port.ProcessAssetInput) error {
	a, err := loadOwned(ctx, s.repo, uuid.Nil, in.AssetID)
	if err != nil {
		return err
	}

	_, err = s.tasks.EnqueueExtractExif(ctx, port.ExtractExifInput{
		AssetID:  a.ID,
		FileName: in.FileName,
		FileSize: in.FileSize,
	})

	switch {
	case !s.tagging:
	case in.HasThumbnail && a.HasThumbnail():
		_, tagErr := s.tasks.EnqueueTagImage(ctx, port.TagImageInput{AssetID: a.ID, ThumbnailPath: *a.ResizePath})
		err = multierr.Append(err, tagErr)
	case in.HasThumbnail:
		logger.Warnf(ctx, "asset %s was queued with a thumbnail but has none recorded, skipping tagging", a.ID)
	}

	if err != nil {
		return fmt.Errorf("%w: fan out asset %s: %w", ErrProcessing, a.ID, err)
	}
	return nil
}
