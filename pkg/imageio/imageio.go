package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode wraps every failure to turn file contents into pixels
	ErrDecode = errors.New("failed to decode image")
	// ErrUnsupportedFormat is returned for formats outside Config.SupportedFormats
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Loader decodes and encodes images
type Loader struct {
	config Config
	logger logrus.FieldLogger
}

// Config holds configuration for the loader
type Config struct {
	DefaultQuality   int
	SupportedFormats []string
	MinImageSize     int
}

// DefaultConfig returns the loader defaults
func DefaultConfig() Config {
	return Config{
		DefaultQuality:   85,
		SupportedFormats: []string{"jpeg", "png", "gif", "bmp", "tiff", "webp"},
		MinImageSize:     1,
	}
}

// New creates a new Loader with default configuration
func New() *Loader {
	return NewWithConfig(DefaultConfig(), nil)
}

// NewWithConfig creates a new Loader with custom configuration
func NewWithConfig(config Config, logger logrus.FieldLogger) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{config: config, logger: logger}
}

// LoadImage loads an image from file. WebP files that the registered
// decoders reject are retried with the libwebp decoder.
func (l *Loader) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}

	img, err := l.decode(data)
	if err != nil && errors.Is(err, ErrDecode) && isWebP(path) {
		if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
			img, err = wimg, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("image loaded")
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (l *Loader) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return l.decode(data)
}

func (l *Loader) decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !l.isFormatSupported(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return img, nil
}

// SaveImage saves an image to path in the given format (jpg, png or webp).
// A quality of 0 uses the configured default.
func (l *Loader) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	if quality <= 0 {
		quality = l.config.DefaultQuality
	}

	var err error
	switch NormalizeFormat(format) {
	case "webp":
		var f *os.File
		f, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		err = webp.Encode(f, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
	case "png":
		err = imaging.Save(img, path)
	case "jpeg":
		err = imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{"path": path, "format": format}).Debug("image saved")
	return nil
}

// GetImageInfo returns basic information about an image
func (l *Loader) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%dx%d (ratio %.2f)", i.Width, i.Height, i.AspectRatio)
}

func (l *Loader) isFormatSupported(format string) bool {
	for _, supported := range l.config.SupportedFormats {
		if strings.EqualFold(NormalizeFormat(format), NormalizeFormat(supported)) {
			return true
		}
	}
	return false
}

// ValidateImage checks if an image meets minimum requirements
func (l *Loader) ValidateImage(img image.Image) error {
	if img == nil {
		return errors.New("image is nil")
	}
	bounds := img.Bounds()
	if bounds.Dx() < l.config.MinImageSize || bounds.Dy() < l.config.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), l.config.MinImageSize)
	}
	return nil
}

// NormalizeFormat maps format names and extensions to the names reported
// by image.Decode
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	switch format {
	case "jpg", "jpeg":
		return "jpeg"
	case "tif", "tiff":
		return "tiff"
	default:
		return format
	}
}

func isWebP(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".webp")
}
