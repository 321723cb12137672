package asset

import (
	"context"

	"github.com/fhuszti/assets-ms-go/internal/logger"
	"github.com/fhuszti/assets-ms-go/internal/port"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Events pushed to the owner's live sessions.
const (
	EventUploadSuccess = "on_upload_success"
	EventExifExtracted = "on_exif_extracted"
	EventTagsAssigned  = "on_tags_assigned"
)

// notify is fire-and-forget: a failed delivery never fails the caller.
func notify(ctx context.Context, n port.Notifier, userID uuid.UUID, event string, payload any) {
	if n == nil {
		return
	}
	if err := n.Deliver(ctx, userID, event, payload); err != nil {
		logger.Warnf(ctx, "could not deliver %s to user %s: %v", event, userID, err)
	}
}
