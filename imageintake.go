// Package imageintake lets a user supply an image from a bundled default
// asset, the photo library or the camera, and runs user-triggered work on
// that image without blocking the interactive thread.
//
// Basic usage:
//
//	screen := imageintake.New(thread, view, source.Providers{
//		Prompt:   prompt,
//		Assets:   assets.NewFSProvider(bundle, loader),
//		Library:  picker,
//		Camera:   camera,
//		Metadata: exifmeta.NewFileReader(nil),
//		Decoder:  loader,
//	})
//
//	screen.OnButtonClick(func(ctx context.Context) error {
//		img, err := screen.PickImage(ctx, "default.png")
//		if err != nil {
//			return err
//		}
//		if img == nil {
//			return nil
//		}
//		screen.SetImageBitmap(img)
//		screen.SetMessage("Image loaded")
//		return nil
//	})
//
// The package consists of these components:
//
// 1. Source (pkg/source): asks where the image comes from and loads it
// 2. Normalize (pkg/normalize): rotates photos upright and fits them into a bounding box
// 3. Dispatch (pkg/dispatch): runs the registered work with a progress indicator and error alerts
//
// PickImage blocks until the user answers, so call it from the work unit,
// never from the interactive thread.
package imageintake

import (
	"context"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-intake/pkg/dispatch"
	"github.com/menta2k/image-intake/pkg/source"
)

// Version of the image intake library
const Version = "1.0.0"

// View is the screen surface. All methods run on the interactive thread.
type View interface {
	dispatch.Surface
	SetMessage(text string)
	SetImage(img image.Image)
}

// Config holds configuration for a Screen
type Config struct {
	Source       source.Config
	Dispatch     dispatch.Config
	DefaultAsset string
	Logger       logrus.FieldLogger
}

// DefaultConfig returns the default screen configuration
func DefaultConfig() Config {
	return Config{
		Source:       source.DefaultConfig(),
		Dispatch:     dispatch.DefaultConfig(),
		DefaultAsset: "default.png",
	}
}

// Screen ties image acquisition to the action button
type Screen struct {
	thread     dispatch.Thread
	view       View
	selector   *source.Selector
	dispatcher *dispatch.Dispatcher
	config     Config
	cancel     context.CancelFunc
}

// New creates a Screen with default configuration
func New(thread dispatch.Thread, view View, providers source.Providers) *Screen {
	return NewWithConfig(thread, view, providers, DefaultConfig())
}

// NewWithConfig creates a Screen with custom configuration. Work units
// receive a context derived from config.Dispatch.Context that Close cancels.
func NewWithConfig(thread dispatch.Thread, view View, providers source.Providers, config Config) *Screen {
	parent := config.Dispatch.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	config.Dispatch.Context = ctx

	if config.Logger != nil {
		if config.Source.Logger == nil {
			config.Source.Logger = config.Logger
		}
		if config.Dispatch.Logger == nil {
			config.Dispatch.Logger = config.Logger
		}
	}
	return &Screen{
		thread:     thread,
		view:       view,
		selector:   source.NewWithConfig(providers, config.Source),
		dispatcher: dispatch.NewWithConfig(thread, view, config.Dispatch),
		config:     config,
		cancel:     cancel,
	}
}

// PickImage asks the user for an image source and returns the image, or
// nil when nothing was picked. An empty asset name uses the configured
// default asset.
func (s *Screen) PickImage(ctx context.Context, defaultAssetName string) (image.Image, error) {
	if defaultAssetName == "" {
		defaultAssetName = s.config.DefaultAsset
	}
	return s.selector.PickImage(ctx, defaultAssetName)
}

// SetMessage updates the message text on the interactive thread
func (s *Screen) SetMessage(text string) {
	s.thread.Do(func() {
		s.view.SetMessage(text)
	})
}

// SetImageBitmap shows img on the interactive thread
func (s *Screen) SetImageBitmap(img image.Image) {
	s.thread.Do(func() {
		s.view.SetImage(img)
	})
}

// OnButtonClick registers the work run when the action button is pressed.
// Only one registration is accepted.
func (s *Screen) OnButtonClick(work dispatch.WorkUnit) error {
	return s.dispatcher.Register(work)
}

// Click handles an action button press. It must be called on the
// interactive thread.
func (s *Screen) Click() {
	s.dispatcher.OnTrigger()
}

// Wait blocks until all started work has returned
func (s *Screen) Wait() {
	s.dispatcher.Wait()
}

// Close cancels the context of running work and waits for it to return.
// A pick waiting on the prompt or a picker gives up and yields no image.
func (s *Screen) Close() {
	s.cancel()
	s.dispatcher.Wait()
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
