package port

import (
	"io"

	"github.com/fhuszti/assets-ms-go/internal/model"
)

// ExifParser reads embedded metadata out of a media file.
// AssetID, ImageName and FileSizeInByte are left for the caller to fill.
type ExifParser interface {
	Parse(r io.Reader) (*model.Exif, error)
}
