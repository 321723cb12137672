package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/assets-ms-go/internal/batch"
	"github.com/fhuszti/assets-ms-go/internal/mock"
	"github.com/fhuszti/assets-ms-go/internal/task"
	"github.com/fhuszti/assets-ms-go/internal/usecase/asset"
	msuuid "github.com/fhuszti/assets-ms-go/internal/uuid"
)

var assetID = msuuid.UUID{0xaa, 0xaa, 0xaa, 0xaa, 0xbb, 0xbb, 0x4c, 0xcc, 0x8d, 0xdd, 0xee, 0xee, 0xee, 0xee, 0xee, 0xee}

func TestProcessAssetHandler_InvalidID(t *testing.T) {
	svc := &mock.AssetProcessor{}
	err := ProcessAssetHandler(context.Background(), task.ProcessAssetPayload{AssetID: "invalid"}, svc)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for invalid UUID, got %v", err)
	}
	if svc.Called {
		t.Error("service should not be called on invalid id")
	}
}

func TestProcessAssetHandler_Success(t *testing.T) {
	svc := &mock.AssetProcessor{}
	p := task.ProcessAssetPayload{AssetID: assetID.String(), FileName: "a.jpg", FileSize: 5, HasThumbnail: true}

	if err := ProcessAssetHandler(context.Background(), p, svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.In.AssetID != assetID || svc.In.FileName != "a.jpg" || svc.In.FileSize != 5 || !svc.In.HasThumbnail {
		t.Errorf("unexpected input: %+v", svc.In)
	}
}

func TestProcessAssetHandler_ErrorsAreRetriedUnlessAssetIsGone(t *testing.T) {
	transient := errors.New("redis down")
	tests := []struct {
		name      string
		err       error
		wantSkip  bool
		wantCause error
	}{
		{"transient", transient, false, transient},
		{"asset deleted", asset.ErrAssetNotFound, true, asset.ErrAssetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProcessAssetHandler(context.Background(), task.ProcessAssetPayload{AssetID: assetID.String()}, &mock.AssetProcessor{Err: tt.err})
			if !errors.Is(err, tt.wantCause) {
				t.Fatalf("got %v, want %v", err, tt.wantCause)
			}
			if errors.Is(err, asynq.SkipRetry) != tt.wantSkip {
				t.Errorf("skip retry = %v, want %v", errors.Is(err, asynq.SkipRetry), tt.wantSkip)
			}
		})
	}
}

func TestExtractExifHandler(t *testing.T) {
	svc := &mock.ExifExtractor{}
	p := task.ExtractExifPayload{AssetID: assetID.String(), FileName: "a.jpg", FileSize: 9}
	if err := ExtractExifHandler(context.Background(), p, svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.In.AssetID != assetID || svc.In.FileName != "a.jpg" || svc.In.FileSize != 9 {
		t.Errorf("unexpected input: %+v", svc.In)
	}

	svcErr := fmt.Errorf("%w: open: file missing", asset.ErrProcessing)
	err := ExtractExifHandler(context.Background(), p, &mock.ExifExtractor{Err: svcErr})
	if !errors.Is(err, svcErr) || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("processing errors must be retried, got %v", err)
	}
}

func TestTagImageHandler(t *testing.T) {
	svc := &mock.ImageTagger{}
	p := task.TagImagePayload{AssetID: assetID.String(), ThumbnailPath: "/t.jpg"}
	if err := TagImageHandler(context.Background(), p, svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.In.ThumbnailPath != "/t.jpg" || svc.In.AssetID != assetID {
		t.Errorf("unexpected input: %+v", svc.In)
	}
}

func TestDeleteFilesHandler_AlwaysSucceeds(t *testing.T) {
	thumb := "/t.jpg"
	svc := &mock.FileDeleter{Out: batch.Outcomes[string, struct{}]{
		{Item: "/a.jpg", Err: errors.New("permission denied")},
		{Item: "/t.jpg"},
	}}
	p := task.DeleteFilesPayload{Assets: []task.AssetFilesPayload{{ID: assetID.String(), OriginalPath: "/a.jpg", ResizePath: &thumb}}}

	if err := DeleteFilesHandler(context.Background(), p, svc); err != nil {
		t.Fatalf("file cleanup should not fail, got %v", err)
	}
	if len(svc.In.Assets) != 1 || svc.In.Assets[0].ID != assetID || *svc.In.Assets[0].ResizePath != thumb {
		t.Errorf("unexpected input: %+v", svc.In)
	}
}
