package model

import (
	"time"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

type Asset struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"ownerId"`
	DeviceAssetID string    `json:"deviceAssetId"`
	DeviceID      string    `json:"deviceId"`
	OriginalPath  string    `json:"originalPath"`
	ResizePath    *string   `json:"resizePath"`
	MimeType      string    `json:"mimeType"`
	IsFavorite    bool      `json:"isFavorite"`
	CreatedAt     time.Time `json:"createdAt"`
	ModifiedAt    time.Time `json:"modifiedAt"`
}

// HasThumbnail reports whether a thumbnail accompanied the upload.
func (a *Asset) HasThumbnail() bool {
	return a.ResizePath != nil && *a.ResizePath != ""
}

// AssetDetails is an asset together with whatever satellite records exist.
type AssetDetails struct {
	Asset
	Exif      *Exif      `json:"exifInfo,omitempty"`
	SmartInfo *SmartInfo `json:"smartInfo,omitempty"`
}
