package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Frame crops img to its content, scales the content to fill fillRatio of
// a size×size canvas and centers it. The canvas is filled with bg.
func Frame(img *image.NRGBA, size int, fillRatio float64, bg color.NRGBA) *image.NRGBA {
	return scaleAndCenter(CropToContent(img, bg), size, fillRatio, bg)
}

// CropToContent crops img to the bounding box of pixels that differ from
// bg. An image with no content is returned unchanged.
func CropToContent(img *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if p[0] == bg.R && p[1] == bg.G && p[2] == bg.B && p[3] == bg.A {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return img
	}

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	cropped := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	for y := 0; y < cropH; y++ {
		srcOff := (minY+y)*img.Stride + minX*4
		dstOff := y * cropped.Stride
		copy(cropped.Pix[dstOff:dstOff+cropW*4], img.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped
}

func scaleAndCenter(img *image.NRGBA, canvasSize int, fillRatio float64, bg color.NRGBA) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 || canvasSize <= 0 {
		return canvas
	}
	if fillRatio <= 0 || fillRatio > 1 {
		fillRatio = 1
	}

	// Scale to fit within fillRatio of canvas
	maxDim := float64(canvasSize) * fillRatio
	scaleF := maxDim / float64(max(srcW, srcH))
	newW := max(1, int(float64(srcW)*scaleF+0.5))
	newH := max(1, int(float64(srcH)*scaleF+0.5))

	var scaled *image.NRGBA
	if newW < srcW || newH < srcH {
		scaled = Downsample(img, newW, newH)
	} else {
		scaled = image.NewNRGBA(image.Rect(0, 0, newW, newH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
	}

	// Center on canvas
	off := image.Pt((canvasSize-newW)/2, (canvasSize-newH)/2)
	draw.Draw(canvas, scaled.Bounds().Add(off), scaled, image.Point{}, draw.Over)
	return canvas
}
