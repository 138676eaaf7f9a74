package commands

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	imageintake "github.com/menta2k/image-intake"
	"github.com/menta2k/image-intake/internal/bundle"
	"github.com/menta2k/image-intake/internal/fyneui"
	"github.com/menta2k/image-intake/internal/webcam"
	"github.com/menta2k/image-intake/pkg/assets"
	"github.com/menta2k/image-intake/pkg/dispatch"
	"github.com/menta2k/image-intake/pkg/exifmeta"
	"github.com/menta2k/image-intake/pkg/imageio"
	"github.com/menta2k/image-intake/pkg/source"
	"github.com/menta2k/image-intake/pkg/types"
)

const (
	appID     = "com.github.menta2k.image-intake"
	appWindow = "Image Intake"
)

func guiCmd() *cobra.Command {
	var assetsDir string
	var noCamera bool
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Open the image intake window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("assets") {
				cfg.AssetsDir = assetsDir
			}
			if noCamera {
				cfg.Camera.Enabled = false
			}
			return runGUI()
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "directory holding the default asset (default: bundled)")
	cmd.Flags().BoolVar(&noCamera, "no-camera", false, "never offer the camera")
	return cmd
}

func runGUI() error {
	logger.WithField("version", imageintake.GetVersion()).Info("starting image intake")

	fyneApp := app.NewWithID(appID)
	window := fyneApp.NewWindow(appWindow)

	loader := imageio.NewWithConfig(cfg.LoaderSettings(), logger)

	var screen *imageintake.Screen
	view := fyneui.NewView(window, fyneui.ViewConfig{
		ButtonText:      cfg.ButtonText,
		ProgressTitle:   cfg.Progress.Title,
		ProgressMessage: cfg.Progress.Message,
	}, func() { screen.Click() }, logger)

	providers := source.Providers{
		Prompt:  fyneui.NewPrompt(window),
		Assets:  assets.NewFSProvider(bundle.FS(cfg.AssetsDir), loader),
		Library: fyneui.NewLibraryPicker(window, logger),
		Camera: webcam.New(webcam.Config{
			Enabled:    cfg.Camera.Enabled,
			DeviceID:   cfg.Camera.DeviceID,
			CaptureDir: cfg.Camera.CaptureDir,
		}, logger),
		Metadata: exifmeta.NewFileReader(logger),
		Decoder:  loader,
	}

	screenCfg := imageintake.DefaultConfig()
	screenCfg.DefaultAsset = cfg.DefaultAsset
	screenCfg.Source.Box = cfg.Box
	screenCfg.Source.CaptureOptions = types.CaptureOptions{Directory: cfg.Camera.CaptureDir}
	screenCfg.Dispatch.CaptureWorkFaults = cfg.CaptureWorkFaults
	screenCfg.Logger = logger

	thread := fyneui.NewThread()
	screen = imageintake.NewWithConfig(thread, view, providers, screenCfg)
	if err := screen.OnButtonClick(intakeWork(screen, loader)); err != nil {
		return err
	}

	window.SetContent(view.Content())
	window.Resize(fyne.NewSize(float32(cfg.Box.MaxWidth)+40, float32(cfg.Box.MaxHeight)+120))
	window.ShowAndRun()

	// the event loop is gone, so open dialogs can no longer settle a pick
	thread.Stop()
	screen.Close()
	logger.Info("image intake closed")
	return nil
}

// intakeWork picks an image, shows it and keeps a copy in the output
// directory
func intakeWork(screen *imageintake.Screen, loader *imageio.Loader) dispatch.WorkUnit {
	return func(ctx context.Context) error {
		img, err := screen.PickImage(ctx, "")
		if err != nil {
			return err
		}
		if img == nil {
			screen.SetMessage("No image selected")
			return nil
		}
		if err := loader.ValidateImage(img); err != nil {
			return err
		}

		screen.SetImageBitmap(img)

		name := "intake_" + time.Now().Format("20060102_150405")
		path, err := writeOutput(loader, img, name)
		if err != nil {
			return fmt.Errorf("failed to keep image: %w", err)
		}

		screen.SetMessage(fmt.Sprintf("%s saved to %s", loader.GetImageInfo(img), path))
		return nil
	}
}
