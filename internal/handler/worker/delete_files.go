package worker

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
)

// DeleteFilesHandler handles a delete-file-on-disk task.
// Per-file failures are logged by the service and never fail the task.
func DeleteFilesHandler(ctx context.Context, p task.DeleteFilesPayload, svc port.FileDeleter) error {
	in := port.DeleteFilesInput{Assets: make([]port.AssetFiles, 0, len(p.Assets))}
	for _, a := range p.Assets {
		id, err := parseAssetID(a.ID)
		if err != nil {
			return err
		}
		in.Assets = append(in.Assets, port.AssetFiles{ID: id, OriginalPath: a.OriginalPath, ResizePath: a.ResizePath})
	}

	out := svc.DeleteFiles(ctx, in)
	if failed := out.Failed(); len(failed) > 0 {
		logger.Warnf(ctx, "%d of %d files of %d assets could not be removed", len(failed), len(out), len(in.Assets))
	}
	return nil
}
