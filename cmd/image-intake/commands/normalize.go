package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/menta2k/image-intake/internal/utils"
	"github.com/menta2k/image-intake/pkg/exifmeta"
	"github.com/menta2k/image-intake/pkg/imageio"
	"github.com/menta2k/image-intake/pkg/normalize"
	"github.com/menta2k/image-intake/pkg/source"
)

const downloadTimeout = 30 * time.Second

func normalizeCmd() *cobra.Command {
	var (
		outDir   string
		format   string
		quality  int
		lossless bool
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "normalize <file|dir|url>...",
		Short: "Rotate photos upright and fit them into the bounding box",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.Output.Dir = outDir
			}
			if flags.Changed("ext") {
				cfg.Output.Format = format
			}
			if flags.Changed("quality") {
				cfg.Output.Quality = quality
			}
			if flags.Changed("lossless") {
				cfg.Output.Lossless = lossless
			}
			if flags.Changed("width") {
				cfg.Box.MaxWidth = width
			}
			if flags.Changed("height") {
				cfg.Box.MaxHeight = height
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			inputs, err := collectInputs(args)
			if err != nil {
				return err
			}
			return runNormalize(cmd, inputs)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&format, "ext", "", "output format: jpg|png|webp")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG/WebP quality (1-100)")
	cmd.Flags().BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	cmd.Flags().IntVar(&width, "width", 0, "bounding box width")
	cmd.Flags().IntVar(&height, "height", 0, "bounding box height")
	return cmd
}

// collectInputs expands directories into the image files they contain
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		switch {
		case imageio.IsURL(arg):
			inputs = append(inputs, arg)
		case utils.DirExists(arg):
			files, err := utils.ListImageFiles(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", arg, err)
			}
			inputs = append(inputs, files...)
		case utils.FileExists(arg):
			inputs = append(inputs, arg)
		default:
			return nil, fmt.Errorf("input not found: %s", arg)
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no image files found")
	}
	return inputs, nil
}

func runNormalize(cmd *cobra.Command, inputs []string) error {
	loader := imageio.NewWithConfig(cfg.LoaderSettings(), logger)
	downloader := imageio.NewDownloader(downloadTimeout, logger)

	tmp, err := os.MkdirTemp("", "image-intake-")
	if err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	fileLoader := source.NewFileLoader(
		loader,
		exifmeta.NewFileReader(logger),
		normalize.NewWithFilter(normalize.DefaultFilter, logger),
		cfg.Box,
	)

	failed := 0
	for _, in := range inputs {
		log := logger.WithField("path", in)

		local := in
		if imageio.IsURL(in) {
			local, err = downloader.Download(cmd.Context(), in, tmp)
			if err != nil {
				log.WithError(err).Error("failed to download image")
				failed++
				continue
			}
		}

		img, err := fileLoader.Load(local)
		if err != nil {
			log.WithError(err).Error("failed to normalize image")
			failed++
			continue
		}
		if err := loader.ValidateImage(img); err != nil {
			log.WithError(err).Error("image rejected")
			failed++
			continue
		}

		out, err := writeOutput(loader, img, local)
		if err != nil {
			log.WithError(err).Error("failed to save image")
			failed++
			continue
		}

		size := ""
		if st, err := os.Stat(out); err == nil {
			size = utils.FormatFileSize(st.Size())
		}
		log.WithFields(logrus.Fields{
			"output":   out,
			"rotation": fileLoader.Hint(local),
		}).Debug("image normalized")
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s, %s)\n", in, out, loader.GetImageInfo(img), size)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(inputs))
	}
	return nil
}
