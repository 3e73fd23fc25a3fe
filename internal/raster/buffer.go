package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Row 0 is the bottom of the picture; FlipVertical turns it into image
// order before the frame is persisted.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a zeroed color buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// Clear fills the color buffer with bg and resets every depth to -inf.
func (fb *FrameBuffer) Clear(bg color.NRGBA) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = bg.R
		fb.Color[i+1] = bg.G
		fb.Color[i+2] = bg.B
		fb.Color[i+3] = bg.A
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
	}
}

func (fb *FrameBuffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

// Set writes c at (x, y). Out-of-range writes are dropped.
func (fb *FrameBuffer) Set(x, y int, c color.NRGBA) {
	if !fb.inside(x, y) {
		return
	}
	fb.setIndex(y*fb.Width+x, c)
}

func (fb *FrameBuffer) setIndex(i int, c color.NRGBA) {
	p := i * 4
	fb.Color[p] = c.R
	fb.Color[p+1] = c.G
	fb.Color[p+2] = c.B
	fb.Color[p+3] = c.A
}

// At returns the color at (x, y), zero outside the buffer.
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	if !fb.inside(x, y) {
		return color.NRGBA{}
	}
	p := (y*fb.Width + x) * 4
	return color.NRGBA{R: fb.Color[p], G: fb.Color[p+1], B: fb.Color[p+2], A: fb.Color[p+3]}
}

// Depth returns the stored depth at (x, y), -inf outside the buffer.
func (fb *FrameBuffer) Depth(x, y int) float64 {
	if !fb.inside(x, y) {
		return math.Inf(-1)
	}
	return fb.ZBuf[y*fb.Width+x]
}

// FlipVertical mirrors the color and depth rows in place.
func (fb *FrameBuffer) FlipVertical() {
	stride := fb.Width * 4
	tmp := make([]uint8, stride)
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := fb.Color[top*stride : (top+1)*stride]
		b := fb.Color[bot*stride : (bot+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)

		za := fb.ZBuf[top*fb.Width : (top+1)*fb.Width]
		zb := fb.ZBuf[bot*fb.Width : (bot+1)*fb.Width]
		for i := range za {
			za[i], zb[i] = zb[i], za[i]
		}
	}
}

// Image copies the color buffer into an NRGBA image, row for row.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
