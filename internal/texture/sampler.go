package texture

import (
	"image"
	"image/color"
	"math"
)

// Sample performs bilinear filtering with UV wrapping. v grows downwards
// in image rows. Accesses tex.Pix directly for performance.
func Sample(tex *image.NRGBA, u, v float64) color.NRGBA {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{}
	}

	u = wrap(u)
	v = wrap(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := clampIndex(int(fx), w)
	y0 := clampIndex(int(fy), h)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for k := 0; k < 4; k++ {
		f := float64(pix[i00+k])*w00 + float64(pix[i10+k])*w10 + float64(pix[i01+k])*w01 + float64(pix[i11+k])*w11
		out[k] = uint8(f + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

// Nearest returns the texel under (u, v) without filtering.
func Nearest(tex *image.NRGBA, u, v float64) color.NRGBA {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{}
	}
	x := clampIndex(int(wrap(u)*float64(w)), w)
	y := clampIndex(int(wrap(v)*float64(h)), h)
	i := y*tex.Stride + x*4
	return color.NRGBA{R: tex.Pix[i], G: tex.Pix[i+1], B: tex.Pix[i+2], A: tex.Pix[i+3]}
}

// wrap maps t into [0, 1]. Non-finite coordinates sample the origin.
func wrap(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return t - math.Floor(t)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
