// Package bundle embeds the images shipped with the application
package bundle

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed default.png
var files embed.FS

// DefaultAsset is the name of the bundled default image
const DefaultAsset = "default.png"

// FS returns the bundled assets, or the files under dir when dir is set
func FS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return files
}
