package source

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-intake/pkg/assets"
	"github.com/menta2k/image-intake/pkg/async"
	"github.com/menta2k/image-intake/pkg/exifmeta"
	"github.com/menta2k/image-intake/pkg/normalize"
	"github.com/menta2k/image-intake/pkg/types"
)

// Prompt shows a titled modal with exactly three buttons. The returned
// future resolves with the index (0, 1 or 2) of the button pressed.
type Prompt interface {
	Show(title string, buttons [3]string) *async.Future[int]
}

// LibraryPicker lets the user choose a photo from the device library. The
// future resolves with the file path, or an empty path when cancelled.
type LibraryPicker interface {
	PickPhoto() *async.Future[string]
}

// Camera captures a photo to a file
type Camera interface {
	CameraAvailable() bool
	CapturePhoto(opts types.CaptureOptions) *async.Future[string]
}

// Decoder loads an image file into memory
type Decoder interface {
	LoadImage(path string) (image.Image, error)
}

// Prompt labels
const (
	PromptTitle  = "Use Image from"
	LabelDefault = "Default"
	LabelLibrary = "Photo Library"
	LabelCamera  = "Camera"
	LabelCancel  = "Cancel"
)

// Providers bundles the collaborators a Selector routes to. Library and
// Camera may be nil; a nil Camera is treated as unavailable.
type Providers struct {
	Prompt   Prompt
	Assets   assets.Provider
	Library  LibraryPicker
	Camera   Camera
	Metadata exifmeta.Reader
	Decoder  Decoder
}

// Config holds configuration for the selector
type Config struct {
	Box            types.BoundingBox
	CaptureOptions types.CaptureOptions
	Logger         logrus.FieldLogger
}

// DefaultConfig returns an 800x800 box and the standard logger
func DefaultConfig() Config {
	return Config{Box: types.DefaultBoundingBox}
}

// Selector asks the user where an image should come from and returns it
// normalized
type Selector struct {
	providers Providers
	loader    *FileLoader
	config    Config
	logger    logrus.FieldLogger
}

// New creates a Selector with default configuration
func New(p Providers) *Selector {
	return NewWithConfig(p, DefaultConfig())
}

// NewWithConfig creates a Selector with custom configuration
func NewWithConfig(p Providers, config Config) *Selector {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Selector{
		providers: p,
		loader:    NewFileLoader(p.Decoder, p.Metadata, normalize.NewWithFilter(normalize.DefaultFilter, logger), config.Box),
		config:    config,
		logger:    logger,
	}
}

// Buttons returns the prompt labels. The third button reads Camera only
// when a camera is available; the count never changes.
func (s *Selector) Buttons() [3]string {
	third := LabelCancel
	if s.cameraAvailable() {
		third = LabelCamera
	}
	return [3]string{LabelDefault, LabelLibrary, third}
}

func (s *Selector) cameraAvailable() bool {
	return s.providers.Camera != nil && s.providers.Camera.CameraAvailable()
}

// Choose shows the prompt and blocks until the user answers. It must not
// be called from the interactive thread.
func (s *Selector) Choose(ctx context.Context) types.ImageSourceChoice {
	buttons := s.Buttons()
	if s.providers.Prompt == nil {
		return types.ChoiceCancel
	}

	index, ok := async.Await(ctx, s.providers.Prompt.Show(PromptTitle, buttons))
	if !ok {
		return types.ChoiceCancel
	}

	switch index {
	case 0:
		return types.ChoiceDefault
	case 1:
		return types.ChoiceLibrary
	case 2:
		if buttons[2] == LabelCamera {
			return types.ChoiceCamera
		}
	}
	return types.ChoiceCancel
}

// PickImage lets the user choose a source and returns the image. A nil
// image with a nil error means nothing was picked. The default asset is
// returned as stored; library and camera photos are normalized.
func (s *Selector) PickImage(ctx context.Context, defaultAssetName string) (image.Image, error) {
	choice := s.Choose(ctx)
	log := s.logger.WithField("choice", choice)
	log.Debug("image source chosen")

	switch choice {
	case types.ChoiceDefault:
		if s.providers.Assets == nil {
			return nil, fmt.Errorf("%w: %s (no asset provider)", assets.ErrNotFound, defaultAssetName)
		}
		return s.providers.Assets.LoadAsset(defaultAssetName)
	case types.ChoiceLibrary:
		if s.providers.Library == nil {
			return nil, nil
		}
		return s.fromCapture(ctx, s.providers.Library.PickPhoto())
	case types.ChoiceCamera:
		return s.fromCapture(ctx, s.providers.Camera.CapturePhoto(s.config.CaptureOptions))
	default:
		return nil, nil
	}
}

func (s *Selector) fromCapture(ctx context.Context, f *async.Future[string]) (image.Image, error) {
	res := awaitCapture(ctx, f)
	if !res.Present {
		s.logger.Debug("no image returned by provider")
		return nil, nil
	}
	return s.loader.Load(res.FilePath)
}

func awaitCapture(ctx context.Context, f *async.Future[string]) types.CaptureResult {
	path, ok := async.Await(ctx, f)
	return types.CaptureResult{FilePath: path, Present: ok && path != ""}
}
