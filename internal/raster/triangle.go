package raster

import (
	"image/color"
	"math"

	"obj-renderer/internal/mathutil"
)

// degenerateArea is the smallest |2×signed area| in pixels² that still
// counts as a triangle.
const degenerateArea = 1e-2

// Barycentric returns the weights of p with respect to triangle abc, using
// only the x and y components. Degenerate triangles yield (-1, 1, 1) so that
// every pixel is rejected.
func Barycentric(a, b, c, p mathutil.Vec3) mathutil.Vec3 {
	u := mathutil.Vec3{c[0] - a[0], b[0] - a[0], a[0] - p[0]}.Cross(
		mathutil.Vec3{c[1] - a[1], b[1] - a[1], a[1] - p[1]})
	if math.Abs(u[2]) < degenerateArea {
		return mathutil.Vec3{-1, 1, 1}
	}
	return mathutil.Vec3{1 - (u[0]+u[1])/u[2], u[1] / u[2], u[0] / u[2]}
}

type bounds struct {
	minX, minY, maxX, maxY int
}

// triangleBounds clamps the screen-space bounding box of pts to the frame.
// This is the only clipping the rasterizer performs.
func triangleBounds(fb *FrameBuffer, pts [3]mathutil.Vec3) (bounds, bool) {
	lo := [2]float64{math.Inf(1), math.Inf(1)}
	hi := [2]float64{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		for k := 0; k < 2; k++ {
			if math.IsNaN(p[k]) || math.IsInf(p[k], 0) {
				return bounds{}, false
			}
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	maxX, maxY := float64(fb.Width-1), float64(fb.Height-1)
	if hi[0] < 0 || hi[1] < 0 || lo[0] > maxX || lo[1] > maxY {
		return bounds{}, false
	}
	b := bounds{
		minX: int(math.Max(0, math.Floor(lo[0]))),
		minY: int(math.Max(0, math.Floor(lo[1]))),
		maxX: int(math.Min(maxX, math.Ceil(hi[0]))),
		maxY: int(math.Min(maxY, math.Ceil(hi[1]))),
	}
	return b, b.minX <= b.maxX && b.minY <= b.maxY
}

// scan visits every pixel of the screen-space triangle pts whose
// interpolated depth is strictly greater than the stored one, replaces the
// depth and stores shade(bc). At equal depth the earlier triangle keeps the
// pixel. Returns pixels written.
func scan(fb *FrameBuffer, pts [3]mathutil.Vec3, shade func(bc mathutil.Vec3) color.NRGBA) int {
	b, ok := triangleBounds(fb, pts)
	if !ok {
		return 0
	}

	written := 0
	for y := b.minY; y <= b.maxY; y++ {
		row := y * fb.Width
		for x := b.minX; x <= b.maxX; x++ {
			bc := Barycentric(pts[0], pts[1], pts[2], mathutil.Vec3{float64(x), float64(y), 0})
			if bc[0] < 0 || bc[1] < 0 || bc[2] < 0 {
				continue
			}
			z := bc[0]*pts[0][2] + bc[1]*pts[1][2] + bc[2]*pts[2][2]
			i := row + x
			if !(z > fb.ZBuf[i]) {
				continue
			}
			fb.ZBuf[i] = z
			fb.setIndex(i, shade(bc))
			written++
		}
	}
	return written
}

// DrawTriangle rasterizes a screen-space triangle through the fragment
// stage of sh. Returns pixels written.
func DrawTriangle(fb *FrameBuffer, pts [3]mathutil.Vec3, sh *Shader, v *Varyings) int {
	return scan(fb, pts, func(bc mathutil.Vec3) color.NRGBA {
		return sh.Fragment(v, bc)
	})
}

// FillTriangle is DrawTriangle with a constant color instead of a shader.
func FillTriangle(fb *FrameBuffer, pts [3]mathutil.Vec3, c color.NRGBA) int {
	return scan(fb, pts, func(mathutil.Vec3) color.NRGBA { return c })
}
