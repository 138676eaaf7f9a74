// Package webcam captures still photos from a local video device
package webcam

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/menta2k/image-intake/internal/utils"
	"github.com/menta2k/image-intake/pkg/async"
	"github.com/menta2k/image-intake/pkg/types"
)

// Frames read and dropped before the photo so exposure can settle
const warmupFrames = 5

// Config holds configuration for the camera
type Config struct {
	Enabled    bool
	DeviceID   int
	CaptureDir string
}

// Camera captures photos with OpenCV
type Camera struct {
	config Config
	logger logrus.FieldLogger
}

// New creates a Camera
func New(config Config, logger logrus.FieldLogger) *Camera {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Camera{config: config, logger: logger}
}

// CameraAvailable reports whether the device can be opened
func (c *Camera) CameraAvailable() bool {
	if !c.config.Enabled {
		return false
	}

	vc, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		c.logger.WithError(err).WithField("device", c.config.DeviceID).Debug("camera unavailable")
		return false
	}
	defer vc.Close()

	return vc.IsOpened()
}

// CapturePhoto grabs one frame on a background goroutine and writes it to
// a file. The future resolves with the file path.
func (c *Camera) CapturePhoto(opts types.CaptureOptions) *async.Future[string] {
	return async.Go(func() (string, error) {
		return c.capture(opts)
	})
}

func (c *Camera) capture(opts types.CaptureOptions) (string, error) {
	dir := opts.Directory
	if dir == "" {
		dir = c.config.CaptureDir
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create capture directory: %w", err)
	}

	vc, err := gocv.OpenVideoCapture(c.config.DeviceID)
	if err != nil {
		return "", fmt.Errorf("failed to open camera %d: %w", c.config.DeviceID, err)
	}
	defer vc.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	for i := 0; i <= warmupFrames; i++ {
		if ok := vc.Read(&frame); !ok {
			return "", fmt.Errorf("failed to read frame from camera %d", c.config.DeviceID)
		}
	}
	if frame.Empty() {
		return "", fmt.Errorf("camera %d returned an empty frame", c.config.DeviceID)
	}

	path := filepath.Join(dir, utils.CaptureFilename(opts.Name, time.Now()))
	if ok := gocv.IMWrite(path, frame); !ok {
		return "", fmt.Errorf("failed to write capture to %s", path)
	}

	c.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  frame.Cols(),
		"height": frame.Rows(),
	}).Info("photo captured")
	return path, nil
}
