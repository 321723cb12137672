package exif

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	"github.com/fhuszti/assets-ms-go/internal/model"
	"github.com/fhuszti/assets-ms-go/internal/port"
)

// ErrUnreadable is returned for files carrying neither EXIF nor a decodable image header.
var ErrUnreadable = errors.New("no exif data and not a decodable image")

const exifTimeLayout = "2006:01:02 15:04:05"

// headerLimit caps how much of a file is read; EXIF segments and image
// headers sit at the front of the file.
const headerLimit = 1 << 20

// Parser extracts camera metadata with goexif and falls back to the image
// header for dimensions.
type Parser struct{}

// compile-time check
var _ port.ExifParser = Parser{}

func NewParser() Parser {
	return Parser{}
}

func (Parser) Parse(r io.Reader) (*model.Exif, error) {
	data, err := io.ReadAll(io.LimitReader(r, headerLimit))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}

	out := &model.Exif{}
	x, exifErr := goexif.Decode(bytes.NewReader(data))
	if x != nil && (exifErr == nil || !goexif.IsCriticalError(exifErr)) {
		fill(out, x)
	} else {
		x = nil
	}

	if out.ExifImageWidth == nil || out.ExifImageHeight == nil {
		cfg, _, cfgErr := image.DecodeConfig(bytes.NewReader(data))
		if cfgErr == nil {
			out.ExifImageWidth = &cfg.Width
			out.ExifImageHeight = &cfg.Height
		} else if x == nil {
			return nil, fmt.Errorf("%w: %v; %v", ErrUnreadable, exifErr, cfgErr)
		}
	}
	return out, nil
}

func fill(out *model.Exif, x *goexif.Exif) {
	out.Make = str(x, goexif.Make)
	out.Model = str(x, goexif.Model)
	out.LensModel = str(x, goexif.LensModel)
	out.ExifImageWidth = integer(x, goexif.PixelXDimension)
	out.ExifImageHeight = integer(x, goexif.PixelYDimension)
	out.Orientation = integer(x, goexif.Orientation)
	out.ISO = integer(x, goexif.ISOSpeedRatings)
	out.FNumber = rational(x, goexif.FNumber)
	out.FocalLength = rational(x, goexif.FocalLength)
	out.ExposureTime = rational(x, goexif.ExposureTime)
	out.DateTimeOriginal = timestamp(x, goexif.DateTimeOriginal)
	out.ModifyDate = timestamp(x, goexif.DateTime)

	if lat, long, err := x.LatLong(); err == nil {
		out.Latitude = &lat
		out.Longitude = &long
	}
}

func str(x *goexif.Exif, name goexif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return nil
	}
	return &s
}

func integer(x *goexif.Exif, name goexif.FieldName) *int {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &v
}

func rational(x *goexif.Exif, name goexif.FieldName) *float64 {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}

// EXIF timestamps carry no zone; they are read as UTC.
func timestamp(x *goexif.Exif, name goexif.FieldName) *time.Time {
	s := str(x, name)
	if s == nil {
		return nil
	}
	t, err := time.ParseInLocation(exifTimeLayout, *s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
