package types

import "fmt"

// ImageSourceChoice is the outcome of the image source prompt
type ImageSourceChoice int

const (
	ChoiceCancel ImageSourceChoice = iota
	ChoiceDefault
	ChoiceLibrary
	ChoiceCamera
)

func (c ImageSourceChoice) String() string {
	switch c {
	case ChoiceDefault:
		return "default"
	case ChoiceLibrary:
		return "library"
	case ChoiceCamera:
		return "camera"
	default:
		return "cancel"
	}
}

// RotationHint is the clockwise rotation, in degrees, needed to display
// stored pixels upright
type RotationHint int

const (
	Rotate0   RotationHint = 0
	Rotate90  RotationHint = 90
	Rotate180 RotationHint = 180
	Rotate270 RotationHint = 270
)

// Valid reports whether r is one of 0, 90, 180 or 270
func (r RotationHint) Valid() bool {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
		return true
	}
	return false
}

// SwapsAxes reports whether the rotation exchanges width and height
func (r RotationHint) SwapsAxes() bool {
	return r == Rotate90 || r == Rotate270
}

// BoundingBox constrains the pixel dimensions of a normalized image
type BoundingBox struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// DefaultBoundingBox is the 800x800 box used when none is configured
var DefaultBoundingBox = BoundingBox{MaxWidth: 800, MaxHeight: 800}

// Validate checks that both limits are positive
func (b BoundingBox) Validate() error {
	if b.MaxWidth <= 0 || b.MaxHeight <= 0 {
		return fmt.Errorf("bounding box must be positive, got %dx%d", b.MaxWidth, b.MaxHeight)
	}
	return nil
}

// Fits reports whether a width x height image lies inside the box
func (b BoundingBox) Fits(width, height int) bool {
	return width <= b.MaxWidth && height <= b.MaxHeight
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%dx%d", b.MaxWidth, b.MaxHeight)
}

// CaptureResult is the outcome of a library pick or camera capture.
// Present is false when the user cancelled or the provider failed.
type CaptureResult struct {
	FilePath string
	Present  bool
}

// CaptureOptions controls where a camera capture is stored
type CaptureOptions struct {
	Directory string
	Name      string
}
