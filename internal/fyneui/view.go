package fyneui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// ViewConfig holds the text shown by the view
type ViewConfig struct {
	ButtonText      string
	ProgressTitle   string
	ProgressMessage string
}

// DefaultViewConfig returns the default labels
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		ButtonText:      "Choose Image",
		ProgressTitle:   "Processing",
		ProgressMessage: "Please wait...",
	}
}

// View is a single column holding the action button, a message label and
// the current image. Every method must run on the fyne main goroutine.
type View struct {
	window   fyne.Window
	button   *widget.Button
	message  *widget.Label
	image    *canvas.Image
	progress dialog.Dialog
	content  fyne.CanvasObject
	logger   logrus.FieldLogger
}

// NewView builds the view. onClick runs when the action button is tapped.
func NewView(window fyne.Window, config ViewConfig, onClick func(), logger logrus.FieldLogger) *View {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	v := &View{window: window, logger: logger}

	v.button = widget.NewButton(config.ButtonText, onClick)
	v.message = widget.NewLabel("")
	v.message.Wrapping = fyne.TextWrapWord

	v.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	v.image.FillMode = canvas.ImageFillContain

	v.progress = dialog.NewCustomWithoutButtons(config.ProgressTitle,
		container.NewVBox(
			widget.NewLabel(config.ProgressMessage),
			widget.NewProgressBarInfinite(),
		), window)

	v.content = container.NewVScroll(container.NewVBox(v.button, v.message, v.image))
	return v
}

// Content returns the root canvas object for the window
func (v *View) Content() fyne.CanvasObject {
	return v.content
}

// ShowProgress shows the modal progress dialog
func (v *View) ShowProgress() {
	v.progress.Show()
}

// HideProgress hides the progress dialog
func (v *View) HideProgress() {
	v.progress.Hide()
}

// ShowAlert shows a dialog with a single OK button
func (v *View) ShowAlert(title, message string) {
	v.logger.WithField("title", title).Debug("showing alert")
	dialog.ShowInformation(title, message, v.window)
}

// SetMessage replaces the message text
func (v *View) SetMessage(text string) {
	v.message.SetText(text)
}

// SetImage shows img at its own size inside the scroll area
func (v *View) SetImage(img image.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	v.image.Image = img
	v.image.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	v.image.Refresh()
}
