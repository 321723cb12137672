package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/assets-ms-go/internal/batch"
	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/validation"
)

// Ingester records uploaded assets and schedules their processing.
type Ingester struct {
	repo     port.AssetRepository
	tasks    port.TaskDispatcher
	notifier port.Notifier
	genID    port.UUIDGen
}

// compile-time check
var _ port.AssetIngester = (*Ingester)(nil)

func NewIngester(repo port.AssetRepository, tasks port.TaskDispatcher, notifier port.Notifier, genID port.UUIDGen) *Ingester {
	return &Ingester{repo: repo, tasks: tasks, notifier: notifier, genID: genID}
}

// CreateAsset persists a new asset then enqueues its processing job.
// When the job cannot be enqueued the created asset is still returned, along with ErrQueue.
func (s *Ingester) CreateAsset(ctx context.Context, in port.CreateAssetInput) (*model.Asset, error) {
	if err := validation.ValidateStruct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	exists, err := s.repo.ExistsByDeviceAssetID(ctx, in.OwnerID, in.DeviceAssetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	if exists {
		return nil, ErrDuplicateAsset
	}

	a := &model.Asset{
		ID:            s.genID(),
		OwnerID:       in.OwnerID,
		DeviceAssetID: in.DeviceAssetID,
		DeviceID:      in.DeviceID,
		OriginalPath:  in.File.Path,
		MimeType:      in.File.MimeType,
		IsFavorite:    in.IsFavorite,
		CreatedAt:     in.CreatedAt,
		ModifiedAt:    in.ModifiedAt,
	}
	if a.ModifiedAt.IsZero() {
		a.ModifiedAt = a.CreatedAt
	}
	if in.Thumbnail != nil && in.Thumbnail.Path != "" {
		p := in.Thumbnail.Path
		a.ResizePath = &p
	}

	if err := s.repo.Create(ctx, a); err != nil {
		// lost a race against a concurrent upload of the same item
		if errors.Is(err, ErrDuplicateAsset) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	h, err := s.tasks.EnqueueProcessAsset(ctx, port.ProcessAssetInput{
		AssetID:      a.ID,
		FileName:     in.File.Name,
		FileSize:     in.File.Size,
		HasThumbnail: a.HasThumbnail(),
	})
	if err != nil {
		logger.Errorf(ctx, "asset %s recorded but its processing job could not be enqueued: %v", a.ID, err)
		return a, fmt.Errorf("%w: %w", ErrQueue, err)
	}
	logger.Infof(ctx, "asset %s created, process job %q %s", a.ID, h.ID, h.Outcome)

	if a.HasThumbnail() {
		notify(ctx, s.notifier, a.OwnerID, EventUploadSuccess, a)
	}
	return a, nil
}

// CreateAssets ingests every file on its own; one failure never aborts the others.
func (s *Ingester) CreateAssets(ctx context.Context, in []port.CreateAssetInput) batch.Outcomes[port.CreateAssetInput, *model.Asset] {
	out := batch.Run(ctx, in, s.CreateAsset)
	for _, o := range out.Failed() {
		logger.Warnf(ctx, "could not ingest %q (device asset %q): %v", o.Item.File.Name, o.Item.DeviceAssetID, o.Err)
	}
	return out
}
