package asset

import (
	"time"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

var (
	ownerID = uuid.UUID{0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x41, 0x11, 0x81, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11}
	otherID = uuid.UUID{0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x42, 0x22, 0x82, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22}
	fixedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func sequentialIDs(ids ...uuid.UUID) func() uuid.UUID {
	i := 0
	return func() uuid.UUID {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func newAsset(owner uuid.UUID, deviceAssetID string, thumb *string) *model.Asset {
	return &model.Asset{
		ID:            uuid.NewUUID(),
		OwnerID:       owner,
		DeviceAssetID: deviceAssetID,
		DeviceID:      "pixel-7",
		OriginalPath:  "/store/" + deviceAssetID + ".jpg",
		ResizePath:    thumb,
		MimeType:      "image/jpeg",
		CreatedAt:     fixedAt,
		ModifiedAt:    fixedAt,
	}
}
