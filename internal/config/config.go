package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/menta2k/image-intake/pkg/imageio"
	"github.com/menta2k/image-intake/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Box               types.BoundingBox `json:"box"`
	DefaultAsset      string            `json:"default_asset"`
	AssetsDir         string            `json:"assets_dir"`
	CaptureWorkFaults bool              `json:"capture_work_faults"`
	ButtonText        string            `json:"button_text"`
	Progress          ProgressConfig    `json:"progress"`
	Camera            CameraConfig      `json:"camera"`
	Loader            LoaderConfig      `json:"loader"`
	Output            OutputConfig      `json:"output"`
	Log               LogConfig         `json:"log"`
}

// ProgressConfig holds the progress dialog text
type ProgressConfig struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// CameraConfig holds configuration for camera capture
type CameraConfig struct {
	Enabled    bool   `json:"enabled"`
	DeviceID   int    `json:"device_id"`
	CaptureDir string `json:"capture_dir"`
}

// LoaderConfig holds configuration for image decoding
type LoaderConfig struct {
	DefaultQuality   int      `json:"default_quality"`
	SupportedFormats []string `json:"supported_formats"`
	MinImageSize     int      `json:"min_image_size"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Dir      string `json:"dir"`
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Prefix   string `json:"prefix"`
	Suffix   string `json:"suffix"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Box:               types.DefaultBoundingBox,
		DefaultAsset:      "default.png",
		AssetsDir:         "",
		CaptureWorkFaults: true,
		ButtonText:        "Choose Image",
		Progress: ProgressConfig{
			Title:   "Processing",
			Message: "Please wait...",
		},
		Camera: CameraConfig{
			Enabled:    true,
			DeviceID:   0,
			CaptureDir: filepath.Join(os.TempDir(), "image-intake"),
		},
		Loader: LoaderConfig{
			DefaultQuality:   85,
			SupportedFormats: []string{"jpeg", "png", "gif", "bmp", "tiff", "webp"},
			MinImageSize:     1,
		},
		Output: OutputConfig{
			Dir:     "./output",
			Format:  "jpg",
			Quality: 90,
			Prefix:  "",
			Suffix:  "_normalized",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing fields keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Box.Validate(); err != nil {
		return fmt.Errorf("box: %w", err)
	}

	if c.DefaultAsset == "" {
		return fmt.Errorf("default_asset cannot be empty")
	}

	if c.Camera.DeviceID < 0 {
		return fmt.Errorf("camera.device_id must not be negative")
	}

	if c.Loader.DefaultQuality < 1 || c.Loader.DefaultQuality > 100 {
		return fmt.Errorf("loader.default_quality must be between 1 and 100")
	}

	if c.Loader.MinImageSize < 1 {
		return fmt.Errorf("loader.min_image_size must be positive")
	}

	if len(c.Loader.SupportedFormats) == 0 {
		return fmt.Errorf("loader.supported_formats cannot be empty")
	}

	switch imageio.NormalizeFormat(c.Output.Format) {
	case "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be jpg, png or webp, got %q", c.Output.Format)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// LoaderSettings converts the loader section for imageio
func (c *Config) LoaderSettings() imageio.Config {
	return imageio.Config{
		DefaultQuality:   c.Loader.DefaultQuality,
		SupportedFormats: c.Loader.SupportedFormats,
		MinImageSize:     c.Loader.MinImageSize,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-intake", "config.json")
}
