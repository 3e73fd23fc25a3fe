package raster

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obj-renderer/internal/mathutil"
)

func TestNewFrameBuffer(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	require.Len(t, fb.Color, 4*3*4)
	require.Len(t, fb.ZBuf, 4*3)
	for _, z := range fb.ZBuf {
		assert.True(t, math.IsInf(z, -1))
	}
	assert.Equal(t, color.NRGBA{}, fb.At(1, 1))

	empty := NewFrameBuffer(-1, 5)
	assert.Zero(t, empty.Width)
	assert.Empty(t, empty.Color)
}

func TestFrameBufferSetAt(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	fb.Set(2, 1, red)
	assert.Equal(t, red, fb.At(2, 1))

	// Out of range is a no-op.
	fb.Set(-1, 0, green)
	fb.Set(4, 0, green)
	fb.Set(0, 4, green)
	assert.Equal(t, color.NRGBA{}, fb.At(-1, 0))
	assert.True(t, math.IsInf(fb.Depth(9, 9), -1))
}

func TestFrameBufferClear(t *testing.T) {
	fb := NewFrameBuffer(3, 3)
	fb.ZBuf[4] = 12
	bg := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	fb.Clear(bg)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, bg, fb.At(x, y))
			assert.True(t, math.IsInf(fb.Depth(x, y), -1))
		}
	}
}

func TestFrameBufferFlipVertical(t *testing.T) {
	for _, h := range []int{3, 4} {
		fb := NewFrameBuffer(2, h)
		fb.Set(1, 0, red)
		fb.ZBuf[1] = 5
		fb.FlipVertical()
		assert.Equal(t, red, fb.At(1, h-1))
		assert.Equal(t, color.NRGBA{}, fb.At(1, 0))
		assert.Equal(t, 5.0, fb.Depth(1, h-1))
	}
}

func TestFrameBufferImage(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	fb.Set(1, 0, green)
	img := fb.Image()
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, green, img.NRGBAAt(1, 0))

	// The image is a copy.
	fb.Set(1, 0, red)
	assert.Equal(t, green, img.NRGBAAt(1, 0))
}

func TestLine(t *testing.T) {
	cases := []struct {
		name string
		a, b mathutil.Vec2i
		want []mathutil.Vec2i
	}{
		{"horizontal", mathutil.Vec2i{1, 2}, mathutil.Vec2i{5, 2}, []mathutil.Vec2i{{1, 2}, {3, 2}, {5, 2}}},
		{"vertical", mathutil.Vec2i{3, 6}, mathutil.Vec2i{3, 0}, []mathutil.Vec2i{{3, 0}, {3, 3}, {3, 6}}},
		{"diagonal", mathutil.Vec2i{0, 0}, mathutil.Vec2i{6, 6}, []mathutil.Vec2i{{0, 0}, {3, 3}, {6, 6}}},
		{"steep reversed", mathutil.Vec2i{4, 7}, mathutil.Vec2i{2, 1}, []mathutil.Vec2i{{4, 7}, {2, 1}}},
		{"point", mathutil.Vec2i{2, 2}, mathutil.Vec2i{2, 2}, []mathutil.Vec2i{{2, 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFrameBuffer(8, 8)
			fb.Line(tc.a, tc.b, red)
			for _, p := range tc.want {
				assert.Equal(t, red, fb.At(p[0], p[1]), "pixel %v", p)
			}
		})
	}
}

func TestLineConnected(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	fb.Line(mathutil.Vec2i{1, 3}, mathutil.Vec2i{17, 11}, red)
	// One pixel per column for a shallow line.
	for x := 1; x <= 17; x++ {
		n := 0
		for y := 0; y < 20; y++ {
			if fb.At(x, y) == red {
				n++
			}
		}
		assert.Equal(t, 1, n, "column %d", x)
	}
}

func TestLineClipped(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	assert.NotPanics(t, func() { fb.Line(mathutil.Vec2i{-10, -10}, mathutil.Vec2i{10, 10}, red) })
	assert.Equal(t, red, fb.At(2, 2))
}

func TestScale(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 10, A: 128}
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 5, A: 128}, Scale(c, 0.5))
	assert.Equal(t, color.NRGBA{R: 255, G: 200, B: 20, A: 128}, Scale(c, 2))
	assert.Equal(t, color.NRGBA{A: 128}, Scale(c, -1))
	assert.Equal(t, color.NRGBA{A: 128}, Scale(c, math.NaN()))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, Scale(c, math.Inf(1)))
}
