package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/metrics"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type Services struct {
	Processor   port.AssetProcessor
	Exif        port.ExifExtractor
	Tagger      port.ImageTagger
	FileDeleter port.FileDeleter
}

// NewServeMux binds every task type to its handler behind the recover and metrics middlewares.
func NewServeMux(svc Services, m *metrics.JobMetrics) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(task.Recover(), task.Observe(m))

	mux.HandleFunc(task.TypeProcessAsset, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessAssetPayload(t)
		if err != nil {
			return skipRetry(err)
		}
		return ProcessAssetHandler(ctx, p, svc.Processor)
	})
	mux.HandleFunc(task.TypeExtractExif, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseExtractExifPayload(t)
		if err != nil {
			return skipRetry(err)
		}
		return ExtractExifHandler(ctx, p, svc.Exif)
	})
	mux.HandleFunc(task.TypeTagImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseTagImagePayload(t)
		if err != nil {
			return skipRetry(err)
		}
		return TagImageHandler(ctx, p, svc.Tagger)
	})
	mux.HandleFunc(task.TypeDeleteFileOnDisk, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseDeleteFilesPayload(t)
		if err != nil {
			return skipRetry(err)
		}
		return DeleteFilesHandler(ctx, p, svc.FileDeleter)
	})
	return mux
}

func skipRetry(err error) error {
	return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
}

func parseAssetID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, skipRetry(fmt.Errorf("invalid asset id %q: %w", raw, err))
	}
	return id, nil
}

// classify stops retrying work on assets that no longer exist.
func classify(err error) error {
	if errors.Is(err, asset.ErrAssetNotFound) {
		return skipRetry(err)
	}
	return err
}
