package raster

import "image/color"

// Scale multiplies the RGB channels of c by k and clamps to [0, 255].
// Alpha is carried through unchanged.
func Scale(c color.NRGBA, k float64) color.NRGBA {
	return color.NRGBA{
		R: clamp255(float64(c.R) * k),
		G: clamp255(float64(c.G) * k),
		B: clamp255(float64(c.B) * k),
		A: c.A,
	}
}

func clamp255(v float64) uint8 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
