package bundle

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultAsset(t *testing.T) {
	data, err := fs.ReadFile(FS(""), DefaultAsset)
	if err != nil {
		t.Fatalf("Default asset missing: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("Default asset is not a PNG")
	}
}

func TestDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(FS(dir), "custom.png"); err != nil {
		t.Errorf("Expected custom asset, got %v", err)
	}
	if _, err := fs.Stat(FS(dir), DefaultAsset); err == nil {
		t.Error("Override directory should not expose the embedded asset")
	}
}
