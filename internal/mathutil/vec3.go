package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalize returns v scaled to unit length. The zero vector stays zero;
// callers that need a direction must guarantee a nonzero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Weighted returns w[0]*a + w[1]*b + w[2]*c, the barycentric blend of three vectors.
func Weighted(a, b, c Vec3, w Vec3) Vec3 {
	return Vec3{
		a[0]*w[0] + b[0]*w[1] + c[0]*w[2],
		a[1]*w[0] + b[1]*w[1] + c[1]*w[2],
		a[2]*w[0] + b[2]*w[1] + c[2]*w[2],
	}
}

// Vec2 is a 2-component float vector, used for texture coordinates.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (a Vec2) Dot(b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Weighted2 is the Vec2 counterpart of Weighted.
func Weighted2(a, b, c Vec2, w Vec3) Vec2 {
	return Vec2{
		a[0]*w[0] + b[0]*w[1] + c[0]*w[2],
		a[1]*w[0] + b[1]*w[1] + c[1]*w[2],
	}
}

// Vec2i is an integer 2-component vector, used for pixel coordinates.
type Vec2i [2]int

func (a Vec2i) Add(b Vec2i) Vec2i {
	return Vec2i{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2i) Sub(b Vec2i) Vec2i {
	return Vec2i{a[0] - b[0], a[1] - b[1]}
}

// RoundXY rounds the x and y components of v to the nearest pixel.
func (v Vec3) RoundXY() Vec2i {
	return Vec2i{int(math.Round(v[0])), int(math.Round(v[1]))}
}
