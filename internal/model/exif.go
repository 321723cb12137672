package model

import (
	"time"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

// Exif holds metadata extracted from an asset's original file.
// Every field is nullable on its own; extraction is best-effort per field.
type Exif struct {
	AssetID          uuid.UUID  `json:"assetId"`
	Make             *string    `json:"make"`
	Model            *string    `json:"model"`
	ImageName        *string    `json:"imageName"`
	ExifImageWidth   *int       `json:"exifImageWidth"`
	ExifImageHeight  *int       `json:"exifImageHeight"`
	FileSizeInByte   *int64     `json:"fileSizeInByte"`
	Orientation      *int       `json:"orientation"`
	DateTimeOriginal *time.Time `json:"dateTimeOriginal"`
	ModifyDate       *time.Time `json:"modifyDate"`
	LensModel        *string    `json:"lensModel"`
	FNumber          *float64   `json:"fNumber"`
	FocalLength      *float64   `json:"focalLength"`
	ISO              *int       `json:"iso"`
	ExposureTime     *float64   `json:"exposureTime"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
}
