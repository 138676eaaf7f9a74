package source

import (
	"errors"
	"fmt"
	"image"

	"github.com/menta2k/image-intake/pkg/exifmeta"
	"github.com/menta2k/image-intake/pkg/normalize"
	"github.com/menta2k/image-intake/pkg/types"
)

// FileLoader reads a captured photo, derives its rotation hint from the
// file's orientation metadata and normalizes it into the bounding box
type FileLoader struct {
	decoder    Decoder
	metadata   exifmeta.Reader
	normalizer *normalize.Normalizer
	box        types.BoundingBox
}

// NewFileLoader creates a FileLoader. A nil metadata reader means every
// file is treated as upright.
func NewFileLoader(decoder Decoder, metadata exifmeta.Reader, normalizer *normalize.Normalizer, box types.BoundingBox) *FileLoader {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &FileLoader{
		decoder:    decoder,
		metadata:   metadata,
		normalizer: normalizer,
		box:        box,
	}
}

// Hint returns the rotation needed to display path upright
func (l *FileLoader) Hint(path string) types.RotationHint {
	if l.metadata == nil {
		return types.Rotate0
	}
	return l.metadata.ReadOrientation(path).Hint()
}

// Load decodes and normalizes the image at path. Decode failures are
// returned as errors.
func (l *FileLoader) Load(path string) (image.Image, error) {
	if l.decoder == nil {
		return nil, errors.New("no image decoder configured")
	}

	hint := l.Hint(path)
	raw, err := l.decoder.LoadImage(path)
	if err != nil {
		return nil, err
	}

	img, err := l.normalizer.Normalize(raw, hint, l.box)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s: %w", path, err)
	}
	return img, nil
}
