package raster

import (
	"image/color"

	"obj-renderer/internal/mathutil"
)

// Line draws a 1-pixel Bresenham segment from a to b with no depth test.
// Pixels outside the frame are dropped.
func (fb *FrameBuffer) Line(a, b mathutil.Vec2i, c color.NRGBA) {
	x0, y0, x1, y1 := a[0], a[1], b[0], b[1]
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	err := 2*dy - dx
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			fb.Set(y, x, c)
		} else {
			fb.Set(x, y, c)
		}
		if err > 0 {
			y += ystep
			err -= 2 * dx
		}
		err += 2 * dy
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
