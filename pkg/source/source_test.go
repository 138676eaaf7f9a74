package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/menta2k/image-intake/pkg/assets"
	"github.com/menta2k/image-intake/pkg/async"
	"github.com/menta2k/image-intake/pkg/exifmeta"
	"github.com/menta2k/image-intake/pkg/imageio"
	"github.com/menta2k/image-intake/pkg/types"
)

type scriptedPrompt struct {
	mu      sync.Mutex
	index   int
	cancel  bool
	title   string
	buttons [3]string
}

func (p *scriptedPrompt) Show(title string, buttons [3]string) *async.Future[int] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
	p.buttons = buttons

	f := async.NewFuture[int]()
	go func() {
		if p.cancel {
			f.Cancel()
			return
		}
		f.Resolve(p.index)
	}()
	return f
}

type fakeLibrary struct {
	future *async.Future[string]
	calls  int
}

func (l *fakeLibrary) PickPhoto() *async.Future[string] {
	l.calls++
	return l.future
}

type fakeCamera struct {
	available bool
	future    *async.Future[string]
	calls     int
	opts      types.CaptureOptions
}

func (c *fakeCamera) CameraAvailable() bool { return c.available }

func (c *fakeCamera) CapturePhoto(opts types.CaptureOptions) *async.Future[string] {
	c.calls++
	c.opts = opts
	return c.future
}

type fixedOrientation exifmeta.Orientation

func (o fixedOrientation) ReadOrientation(string) exifmeta.Orientation {
	return exifmeta.Orientation(o)
}

func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newSelector(t *testing.T, prompt Prompt, library LibraryPicker, camera Camera, orientation exifmeta.Orientation) *Selector {
	t.Helper()
	decoder := imageio.New()
	fsys := fstest.MapFS{
		"default.png": {Data: encodePNG(t, createTestImage(2000, 100))},
	}
	p := Providers{
		Prompt:   prompt,
		Assets:   assets.NewFSProvider(fsys, decoder),
		Library:  library,
		Metadata: fixedOrientation(orientation),
		Decoder:  decoder,
	}
	if camera != nil {
		p.Camera = camera
	}
	return New(p)
}

func TestPickImageDefaultIsNotNormalized(t *testing.T) {
	for _, available := range []bool{false, true} {
		prompt := &scriptedPrompt{index: 0}
		camera := &fakeCamera{available: available}
		s := newSelector(t, prompt, nil, camera, exifmeta.OrientationRotate90)

		img, err := s.PickImage(context.Background(), "default.png")
		if err != nil {
			t.Fatalf("camera=%v: PickImage failed: %v", available, err)
		}
		if img == nil {
			t.Fatalf("camera=%v: expected asset image", available)
		}
		if img.Bounds().Dx() != 2000 || img.Bounds().Dy() != 100 {
			t.Errorf("camera=%v: expected untouched 2000x100 asset, got %v", available, img.Bounds().Size())
		}
		if camera.calls != 0 {
			t.Errorf("camera=%v: camera should not be used for the default asset", available)
		}
	}
}

func TestPickImageDefaultMissingAsset(t *testing.T) {
	s := newSelector(t, &scriptedPrompt{index: 0}, nil, nil, exifmeta.OrientationUnknown)

	img, err := s.PickImage(context.Background(), "missing.png")
	if !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if img != nil {
		t.Error("Expected nil image")
	}
}

func TestPickImageCancelWithoutCamera(t *testing.T) {
	prompt := &scriptedPrompt{index: 2}
	camera := &fakeCamera{available: false}
	s := newSelector(t, prompt, nil, camera, exifmeta.OrientationUnknown)

	img, err := s.PickImage(context.Background(), "default.png")
	if err != nil || img != nil {
		t.Errorf("Expected (nil, nil), got (%v, %v)", img, err)
	}
	if prompt.buttons != [3]string{LabelDefault, LabelLibrary, LabelCancel} {
		t.Errorf("Unexpected buttons: %v", prompt.buttons)
	}
	if prompt.title != PromptTitle {
		t.Errorf("Expected title %q, got %q", PromptTitle, prompt.title)
	}
	if camera.calls != 0 {
		t.Error("Cancel must not start a capture")
	}
}

func TestPickImageLibrary(t *testing.T) {
	path := writeFile(t, "photo.png", encodePNG(t, createTestImage(1600, 1200)))
	library := &fakeLibrary{future: async.Resolved(path)}
	s := newSelector(t, &scriptedPrompt{index: 1}, library, nil, exifmeta.OrientationRotate90)

	img, err := s.PickImage(context.Background(), "default.png")
	if err != nil {
		t.Fatalf("PickImage failed: %v", err)
	}
	if img == nil {
		t.Fatal("Expected an image")
	}
	if img.Bounds().Dx() != 600 || img.Bounds().Dy() != 800 {
		t.Errorf("Expected 600x800, got %v", img.Bounds().Size())
	}
	if library.calls != 1 {
		t.Errorf("Expected one library call, got %d", library.calls)
	}
}

func TestPickImageEmptyResults(t *testing.T) {
	faulted := async.NewFuture[string]()
	faulted.Reject(errors.New("picker failed"))
	cancelled := async.NewFuture[string]()
	cancelled.Cancel()

	tests := []struct {
		name   string
		future *async.Future[string]
	}{
		{"empty path", async.Resolved("")},
		{"nil future", nil},
		{"faulted", faulted},
		{"cancelled", cancelled},
	}

	for _, tt := range tests {
		t.Run("library "+tt.name, func(t *testing.T) {
			s := newSelector(t, &scriptedPrompt{index: 1}, &fakeLibrary{future: tt.future}, nil, exifmeta.OrientationUnknown)
			img, err := s.PickImage(context.Background(), "default.png")
			if err != nil || img != nil {
				t.Errorf("Expected (nil, nil), got (%v, %v)", img, err)
			}
		})
		t.Run("camera "+tt.name, func(t *testing.T) {
			camera := &fakeCamera{available: true, future: tt.future}
			s := newSelector(t, &scriptedPrompt{index: 2}, nil, camera, exifmeta.OrientationUnknown)
			img, err := s.PickImage(context.Background(), "default.png")
			if err != nil || img != nil {
				t.Errorf("Expected (nil, nil), got (%v, %v)", img, err)
			}
			if camera.calls != 1 {
				t.Errorf("Expected one capture, got %d", camera.calls)
			}
		})
	}
}

func TestPickImageCamera(t *testing.T) {
	path := writeFile(t, "capture.png", encodePNG(t, createTestImage(400, 300)))
	camera := &fakeCamera{available: true, future: async.Resolved(path)}
	prompt := &scriptedPrompt{index: 2}
	s := newSelector(t, prompt, nil, camera, exifmeta.OrientationRotate270)

	img, err := s.PickImage(context.Background(), "default.png")
	if err != nil {
		t.Fatalf("PickImage failed: %v", err)
	}
	if img == nil {
		t.Fatal("Expected an image")
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 400 {
		t.Errorf("Expected rotated 300x400, got %v", img.Bounds().Size())
	}
	if prompt.buttons[2] != LabelCamera {
		t.Errorf("Expected third button %q, got %q", LabelCamera, prompt.buttons[2])
	}
}

func TestPickImageDecodeFailure(t *testing.T) {
	path := writeFile(t, "broken.jpg", []byte("this is not a jpeg"))
	library := &fakeLibrary{future: async.Resolved(path)}
	s := newSelector(t, &scriptedPrompt{index: 1}, library, nil, exifmeta.OrientationUnknown)

	img, err := s.PickImage(context.Background(), "default.png")
	if !errors.Is(err, imageio.ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
	if img != nil {
		t.Error("Expected nil image on decode failure")
	}
}

func TestChoosePromptCancelled(t *testing.T) {
	s := newSelector(t, &scriptedPrompt{cancel: true}, nil, nil, exifmeta.OrientationUnknown)
	if got := s.Choose(context.Background()); got != types.ChoiceCancel {
		t.Errorf("Expected cancel, got %s", got)
	}
}

func TestChooseMapping(t *testing.T) {
	tests := []struct {
		index     int
		available bool
		want      types.ImageSourceChoice
	}{
		{0, false, types.ChoiceDefault},
		{0, true, types.ChoiceDefault},
		{1, false, types.ChoiceLibrary},
		{1, true, types.ChoiceLibrary},
		{2, true, types.ChoiceCamera},
		{2, false, types.ChoiceCancel},
		{7, true, types.ChoiceCancel},
	}

	for _, tt := range tests {
		s := newSelector(t, &scriptedPrompt{index: tt.index}, nil, &fakeCamera{available: tt.available}, exifmeta.OrientationUnknown)
		if got := s.Choose(context.Background()); got != tt.want {
			t.Errorf("index=%d camera=%v: expected %s, got %s", tt.index, tt.available, tt.want, got)
		}
		if n := len(s.Buttons()); n != 3 {
			t.Errorf("Expected 3 buttons, got %d", n)
		}
	}
}

func TestFileLoaderHintWithoutMetadata(t *testing.T) {
	l := NewFileLoader(imageio.New(), nil, nil, types.DefaultBoundingBox)
	if h := l.Hint("/any/path.jpg"); h != types.Rotate0 {
		t.Errorf("Expected 0, got %d", h)
	}
}
