package commands

import (
	"fmt"
	"image"

	"github.com/menta2k/image-intake/internal/utils"
	"github.com/menta2k/image-intake/pkg/imageio"
)

// writeOutput saves img to the configured output directory under a name
// derived from inputName
func writeOutput(loader *imageio.Loader, img image.Image, inputName string) (string, error) {
	out := cfg.Output
	if err := utils.EnsureDir(out.Dir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := utils.GenerateOutputFilename(inputName, out.Dir, out.Prefix, out.Suffix, out.Format)
	if err := loader.SaveImage(img, path, out.Format, out.Quality, out.Lossless); err != nil {
		return "", err
	}
	return path, nil
}
