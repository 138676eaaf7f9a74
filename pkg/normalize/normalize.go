// Package normalize turns a decoded photo into an upright image that fits a
// bounding box.
//
// The rotation hint describes how the stored pixels must be displayed; it
// does not change the stored width and height. The scale factor is
// therefore computed from the raw dimensions before the rotation is
// considered, and the result is produced in a single pass: a 90 or 270
// degree rotation into a non-square box may leave the rotated image larger
// than the box along one axis.
package normalize

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-intake/pkg/types"
)

var (
	ErrNilImage    = errors.New("normalize: nil or empty image")
	ErrInvalidBox  = errors.New("normalize: invalid bounding box")
	ErrInvalidHint = errors.New("normalize: rotation must be 0, 90, 180 or 270")
)

// DefaultFilter is the resampling filter used by New
var DefaultFilter = imaging.Lanczos

// Plan is the combined scale-then-rotate transform for one image
type Plan struct {
	Scale        float64
	Rotation     types.RotationHint
	ScaledWidth  int
	ScaledHeight int
}

// NewPlan computes the transform for a width x height image
func NewPlan(width, height int, hint types.RotationHint, box types.BoundingBox) Plan {
	p := Plan{
		Scale:        1,
		Rotation:     hint,
		ScaledWidth:  width,
		ScaledHeight: height,
	}

	if !box.Fits(width, height) {
		p.Scale = math.Min(float64(box.MaxWidth)/float64(width), float64(box.MaxHeight)/float64(height))
		p.ScaledWidth = clampDim(int(math.Round(float64(width)*p.Scale)), box.MaxWidth)
		p.ScaledHeight = clampDim(int(math.Round(float64(height)*p.Scale)), box.MaxHeight)
	}
	return p
}

func clampDim(v, limit int) int {
	if v < 1 {
		return 1
	}
	if v > limit {
		return limit
	}
	return v
}

// NeedsScale reports whether the plan resamples the image
func (p Plan) NeedsScale() bool {
	return p.Scale != 1
}

// Identity reports whether the plan leaves the pixels untouched
func (p Plan) Identity() bool {
	return !p.NeedsScale() && p.Rotation == types.Rotate0
}

// OutputSize returns the dimensions after scaling and rotation
func (p Plan) OutputSize() (int, int) {
	if p.Rotation.SwapsAxes() {
		return p.ScaledHeight, p.ScaledWidth
	}
	return p.ScaledWidth, p.ScaledHeight
}

// Apply runs the plan on img. Scaling uses filter; rotations are exact
// quarter turns. Rotation hints are clockwise while imaging rotates
// counter-clockwise, hence the swapped 90/270 calls.
func (p Plan) Apply(img image.Image, filter imaging.ResampleFilter) *image.NRGBA {
	var out *image.NRGBA
	if p.NeedsScale() {
		out = imaging.Resize(img, p.ScaledWidth, p.ScaledHeight, filter)
	} else {
		out = imaging.Clone(img)
	}

	switch p.Rotation {
	case types.Rotate90:
		out = imaging.Rotate270(out)
	case types.Rotate180:
		out = imaging.Rotate180(out)
	case types.Rotate270:
		out = imaging.Rotate90(out)
	}
	return out
}

// Normalizer applies orientation correction and downscaling
type Normalizer struct {
	filter imaging.ResampleFilter
	logger logrus.FieldLogger
}

// New creates a Normalizer using Lanczos resampling
func New() *Normalizer {
	return NewWithFilter(DefaultFilter, nil)
}

// NewWithFilter creates a Normalizer with a custom resampling filter
func NewWithFilter(filter imaging.ResampleFilter, logger logrus.FieldLogger) *Normalizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Normalizer{filter: filter, logger: logger}
}

// Normalize returns img rotated by hint and scaled uniformly so that its
// raw dimensions fit box. When no scaling or rotation is required the
// pixels are copied unchanged.
//
// The result is always an 8-bit *image.NRGBA. Sources with 16 bits per
// channel keep only the high byte of each sample, on the copy path too.
func (n *Normalizer) Normalize(img image.Image, hint types.RotationHint, box types.BoundingBox) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNilImage
	}
	if err := box.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBox, err)
	}
	if !hint.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHint, hint)
	}

	b := img.Bounds()
	plan := NewPlan(b.Dx(), b.Dy(), hint, box)
	if plan.Identity() {
		return imaging.Clone(img), nil
	}

	out := plan.Apply(img, n.filter)
	n.logger.WithFields(logrus.Fields{
		"raw_width":  b.Dx(),
		"raw_height": b.Dy(),
		"scale":      plan.Scale,
		"rotation":   int(hint),
		"width":      out.Bounds().Dx(),
		"height":     out.Bounds().Dy(),
	}).Debug("image normalized")
	return out, nil
}
