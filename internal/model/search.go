package model

import "github.com/fhuszti/assets-ms-go/internal/uuid"

// CuratedObject is one distinct tag of a library with the latest asset carrying it.
type CuratedObject struct {
	Object        string    `json:"object"`
	AssetID       uuid.UUID `json:"id"`
	ResizePath    *string   `json:"resizePath"`
	DeviceAssetID string    `json:"deviceAssetId"`
	DeviceID      string    `json:"deviceId"`
}

// AssetLocation places a geotagged asset on a map.
type AssetLocation struct {
	AssetID       uuid.UUID `json:"id"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	ResizePath    *string   `json:"resizePath"`
	DeviceAssetID string    `json:"deviceAssetId"`
	DeviceID      string    `json:"deviceId"`
}

// AssetQuery filters a library. Term matches a tag, camera make or model
// exactly, ignoring case; Bounds keeps assets geotagged inside the box.
// Both set means both must match.
type AssetQuery struct {
	Term   string
	Bounds *GeoBounds
}

type GeoBounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

func (b GeoBounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
