package exifmeta

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-intake/pkg/types"
)

// Orientation is the display orientation recorded by the capturing device
type Orientation int

const (
	OrientationUnknown Orientation = iota
	OrientationNormal
	OrientationRotate90
	OrientationRotate180
	OrientationRotate270
)

// EXIF orientation tag values. Mirrored variants (2, 4, 5, 7) have no
// rotation-only equivalent and map to OrientationUnknown.
const (
	exifNormal    = 1
	exifRotate180 = 3
	exifRotate90  = 6
	exifRotate270 = 8
)

func (o Orientation) String() string {
	switch o {
	case OrientationNormal:
		return "normal"
	case OrientationRotate90:
		return "rotate90"
	case OrientationRotate180:
		return "rotate180"
	case OrientationRotate270:
		return "rotate270"
	default:
		return "unknown"
	}
}

// Hint maps the orientation to a clockwise rotation hint. Normal and
// Unknown both map to 0.
func (o Orientation) Hint() types.RotationHint {
	switch o {
	case OrientationRotate90:
		return types.Rotate90
	case OrientationRotate180:
		return types.Rotate180
	case OrientationRotate270:
		return types.Rotate270
	default:
		return types.Rotate0
	}
}

// FromEXIF converts a raw EXIF orientation tag value
func FromEXIF(v int) Orientation {
	switch v {
	case exifNormal:
		return OrientationNormal
	case exifRotate90:
		return OrientationRotate90
	case exifRotate180:
		return OrientationRotate180
	case exifRotate270:
		return OrientationRotate270
	default:
		return OrientationUnknown
	}
}

// Reader reads orientation metadata from an image file
type Reader interface {
	ReadOrientation(path string) Orientation
}

// FileReader reads the EXIF orientation tag from JPEG and TIFF files
type FileReader struct {
	logger logrus.FieldLogger
}

// NewFileReader creates a FileReader logging to logger (standard logger if nil)
func NewFileReader(logger logrus.FieldLogger) *FileReader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileReader{logger: logger}
}

// ReadOrientation returns OrientationUnknown when the file cannot be opened
// or carries no orientation tag
func (r *FileReader) ReadOrientation(path string) Orientation {
	f, err := os.Open(path)
	if err != nil {
		r.logger.WithError(err).WithField("path", path).Debug("orientation: cannot open file")
		return OrientationUnknown
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		r.logger.WithField("path", path).Debug("orientation: no exif data")
		return OrientationUnknown
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationUnknown
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationUnknown
	}

	o := FromEXIF(v)
	r.logger.WithFields(logrus.Fields{"path": path, "exif": v, "orientation": o}).Debug("orientation read")
	return o
}
