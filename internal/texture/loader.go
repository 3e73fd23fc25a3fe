package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// Extensions lists the texture formats LoadTexture understands, in the
// order BuildIndex prefers them when two files share a stem.
var Extensions = []string{".tga", ".png", ".bmp", ".jpg", ".jpeg"}

// LoadTexture reads a TGA, PNG, BMP or JPEG file and returns an NRGBA image.
func LoadTexture(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	var img image.Image
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tga":
		// TGA has no magic number, so it is never routed through image.Decode.
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".png", ".bmp", ".jpg", ".jpeg":
		img, _, err = image.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("texture: unknown extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return ToNRGBA(img), nil
}

// ToNRGBA converts any image to NRGBA format with its origin at (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha: draw and force opaque.
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
