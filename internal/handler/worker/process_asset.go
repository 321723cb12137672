package worker

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
)

// ProcessAssetHandler handles a process-asset task by fanning it out to the satellite tasks.
func ProcessAssetHandler(ctx context.Context, p task.ProcessAssetPayload, svc port.AssetProcessor) error {
	id, err := parseAssetID(p.AssetID)
	if err != nil {
		return err
	}

	in := port.ProcessAssetInput{
		AssetID:      id,
		FileName:     p.FileName,
		FileSize:     p.FileSize,
		HasThumbnail: p.HasThumbnail,
	}
	return classify(svc.ProcessAsset(ctx, in))
}
