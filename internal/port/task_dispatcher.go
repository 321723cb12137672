package port

import "context"

// TaskDispatcher enqueues the asynchronous tasks of the asset pipeline.
type TaskDispatcher interface {
	EnqueueProcessAsset(ctx context.Context, in ProcessAssetInput) (JobHandle, error)
	EnqueueExtractExif(ctx context.Context, in ExtractExifInput) (JobHandle, error)
	EnqueueTagImage(ctx context.Context, in TagImageInput) (JobHandle, error)
	EnqueueDeleteFiles(ctx context.Context, in DeleteFilesInput) (JobHandle, error)
}
