package assets

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
)

// ErrNotFound is returned when the bundle has no asset with the given name
var ErrNotFound = errors.New("asset not found")

// Provider loads bundled images by name
type Provider interface {
	LoadAsset(name string) (image.Image, error)
}

// Decoder turns an asset stream into pixels
type Decoder interface {
	LoadImageFromReader(r io.Reader) (image.Image, error)
}

// FSProvider serves assets from a file system such as an embed.FS or
// os.DirFS
type FSProvider struct {
	fsys    fs.FS
	decoder Decoder
}

// NewFSProvider creates a provider reading from fsys
func NewFSProvider(fsys fs.FS, decoder Decoder) *FSProvider {
	return &FSProvider{fsys: fsys, decoder: decoder}
}

// LoadAsset decodes the named asset
func (p *FSProvider) LoadAsset(name string) (image.Image, error) {
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	f, err := p.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open asset %s: %w", name, err)
	}
	defer f.Close()

	img, err := p.decoder.LoadImageFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", name, err)
	}
	return img, nil
}
