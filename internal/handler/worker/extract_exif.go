package worker

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
)

// ExtractExifHandler handles an extract-exif task.
func ExtractExifHandler(ctx context.Context, p task.ExtractExifPayload, svc port.ExifExtractor) error {
	id, err := parseAssetID(p.AssetID)
	if err != nil {
		return err
	}
	return classify(svc.ExtractExif(ctx, port.ExtractExifInput{AssetID: id, FileName: p.FileName, FileSize: p.FileSize}))
}
