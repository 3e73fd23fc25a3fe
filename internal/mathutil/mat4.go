package mathutil

import "fmt"

// Mat4 is a 4×4 matrix stored row-major. The transform stack composes dense
// Matrix values once per frame and hands Mat4 copies to the per-vertex path.
type Mat4 [16]float64

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// Homogeneous returns M × [x, y, z, w].
func (m Mat4) Homogeneous(v Vec3, w float64) (Vec3, float64) {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*w,
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*w,
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*w,
	}, m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*w
}

// Project transforms the point v (w=1) and divides by the resulting w.
// It returns the clip-space w alongside the projected point.
func (m Mat4) Project(v Vec3) (Vec3, float64, error) {
	p, w := m.Homogeneous(v, 1)
	if w == 0 {
		return Vec3{}, 0, fmt.Errorf("mathutil: project %v: %w", v, ErrZeroW)
	}
	return Vec3{p[0] / w, p[1] / w, p[2] / w}, w, nil
}

// MulDir transforms the direction v (w=0) and drops the w component.
func (m Mat4) MulDir(v Vec3) Vec3 {
	p, _ := m.Homogeneous(v, 0)
	return p
}

// Matrix returns a dense copy of m.
func (m Mat4) Matrix() Matrix {
	out := NewMatrix(4, 4)
	copy(out.m, m[:])
	return out
}
