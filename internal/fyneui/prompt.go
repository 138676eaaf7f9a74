package fyneui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/menta2k/image-intake/internal/utils"
	"github.com/menta2k/image-intake/pkg/async"
)

// Prompt shows a modal with three stacked buttons
type Prompt struct {
	window fyne.Window
}

// NewPrompt creates a prompt attached to window
func NewPrompt(window fyne.Window) *Prompt {
	return &Prompt{window: window}
}

// Show may be called from any goroutine. The future resolves with the
// index of the tapped button.
func (p *Prompt) Show(title string, buttons [3]string) *async.Future[int] {
	f := async.NewFuture[int]()

	fyne.Do(func() {
		d, _ := p.build(title, buttons, f)
		d.Show()
	})

	return f
}

// build lays the buttons out top to bottom. Tapping one hides the dialog
// and resolves f with its index.
func (p *Prompt) build(title string, buttons [3]string, f *async.Future[int]) (dialog.Dialog, []*widget.Button) {
	box := container.NewVBox()
	d := dialog.NewCustomWithoutButtons(title, box, p.window)
	tappable := make([]*widget.Button, 0, len(buttons))
	for i, label := range buttons {
		b := widget.NewButton(label, func() {
			d.Hide()
			f.Resolve(i)
		})
		box.Add(b)
		tappable = append(tappable, b)
	}
	return d, tappable
}

// LibraryPicker picks an image file with the fyne file dialog
type LibraryPicker struct {
	window fyne.Window
	logger logrus.FieldLogger
}

// NewLibraryPicker creates a picker attached to window
func NewLibraryPicker(window fyne.Window, logger logrus.FieldLogger) *LibraryPicker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LibraryPicker{window: window, logger: logger}
}

// PickPhoto may be called from any goroutine. The future resolves with the
// chosen path, or an empty path when the dialog is dismissed.
func (l *LibraryPicker) PickPhoto() *async.Future[string] {
	f := async.NewFuture[string]()

	fyne.Do(func() {
		fileDialog := dialog.NewFileOpen(l.complete(f), l.window)
		fileDialog.SetFilter(storage.NewExtensionFileFilter(utils.ImageExtensions()))
		fileDialog.Show()
	})

	return f
}

// complete settles f from the file dialog result. A nil reader means the
// dialog was dismissed.
func (l *LibraryPicker) complete(f *async.Future[string]) func(fyne.URIReadCloser, error) {
	return func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			l.logger.WithError(err).Warn("file dialog failed")
			f.Reject(err)
			return
		}
		if reader == nil {
			f.Resolve("")
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		l.logger.WithField("path", path).Info("photo selected")
		f.Resolve(path)
	}
}
