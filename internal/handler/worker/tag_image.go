package worker

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/task"
)

// TagImageHandler handles a tag-image task.
func TagImageHandler(ctx context.Context, p task.TagImagePayload, svc port.ImageTagger) error {
	id, err := parseAssetID(p.AssetID)
	if err != nil {
		return err
	}
	return classify(svc.TagImage(ctx, port.TagImageInput{AssetID: id, ThumbnailPath: p.ThumbnailPath}))
}
