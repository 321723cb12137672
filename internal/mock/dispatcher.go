package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

// MockDispatcher records typed enqueue calls.
type MockDispatcher struct {
	mu sync.Mutex

	Processed []port.ProcessAssetInput
	Exifs     []port.ExtractExifInput
	Tags      []port.TagImageInput
	Deletes   []port.DeleteFilesInput

	ProcessErr error
	ExifErr    error
	TagErr     error
	DeleteErr  error
}

func (d *MockDispatcher) EnqueueProcessAsset(ctx context.Context, in port.ProcessAssetInput) (port.JobHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ProcessErr != nil {
		return port.JobHandle{}, d.ProcessErr
	}
	d.Processed = append(d.Processed, in)
	return port.JobHandle{ID: in.AssetID.String(), TaskName: "process-asset", Outcome: port.EnqueueCreated}, nil
}

func (d *MockDispatcher) EnqueueExtractExif(ctx context.Context, in port.ExtractExifInput) (port.JobHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ExifErr != nil {
		return port.JobHandle{}, d.ExifErr
	}
	d.Exifs = append(d.Exifs, in)
	return port.JobHandle{ID: "exif:" + in.AssetID.String(), TaskName: "extract-exif", Outcome: port.EnqueueCreated}, nil
}

func (d *MockDispatcher) EnqueueTagImage(ctx context.Context, in port.TagImageInput) (port.JobHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.TagErr != nil {
		return port.JobHandle{}, d.TagErr
	}
	d.Tags = append(d.Tags, in)
	return port.JobHandle{ID: "tag:" + in.AssetID.String(), TaskName: "tag-image", Outcome: port.EnqueueCreated}, nil
}

func (d *MockDispatcher) EnqueueDeleteFiles(ctx context.Context, in port.DeleteFilesInput) (port.JobHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.DeleteErr != nil {
		return port.JobHandle{}, d.DeleteErr
	}
	d.Deletes = append(d.Deletes, in)
	return port.JobHandle{ID: "delete", TaskName: "delete-file-on-disk", Outcome: port.EnqueueCreated}, nil
}
