package batch

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// Encode writes img to w in the named format: tga, png, bmp or webp.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "tga":
		return tga.Encode(w, img)
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("batch: unknown format %q", format)
}

// writeImage encodes img into path, creating parent directories.
func writeImage(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("batch: encode %s: %w", path, err)
	}
	return f.Close()
}
