package viewmatrix

import (
	"fmt"

	"obj-renderer/internal/mathutil"
)

// DepthRange is the span the viewport maps NDC z onto. It is a fixed
// constant, not tied to near/far planes.
const DepthRange = 255.0

// Camera describes where the scene is viewed from. Distance is the focal
// distance of the pinhole projection; zero means |Eye - Target|.
type Camera struct {
	Eye      mathutil.Vec3
	Target   mathutil.Vec3
	Up       mathutil.Vec3
	Distance float64
}

// DefaultCamera looks at the origin from slightly above and to the right.
func DefaultCamera() Camera {
	return Camera{
		Eye:    mathutil.Vec3{1, 1, 3},
		Target: mathutil.Vec3{0, 0, 0},
		Up:     mathutil.Vec3{0, 1, 0},
	}
}

// FocalDistance returns the projection distance the camera implies.
func (c Camera) FocalDistance() float64 {
	if c.Distance > 0 {
		return c.Distance
	}
	return c.Eye.Sub(c.Target).Len()
}

// Basis returns the orthonormal camera axes.
//
//	z = normalize(eye - target), x = normalize(up × z), y = normalize(z × x)
func Basis(up, target, eye mathutil.Vec3) (x, y, z mathutil.Vec3) {
	z = eye.Sub(target).Normalize()
	x = up.Cross(z).Normalize()
	y = z.Cross(x).Normalize()
	return x, y, z
}

// LookAt builds the world→camera matrix. The view is the inverse of
// translation-then-orientation; the orientation block is orthogonal so its
// inverse is its transpose and the translation inverse is a negation:
// V = O⁻¹ × T⁻¹.
func LookAt(up, target, eye mathutil.Vec3) (mathutil.Matrix, error) {
	x, y, z := Basis(up, target, eye)
	if x.Len() == 0 || z.Len() == 0 {
		return mathutil.Matrix{}, fmt.Errorf("viewmatrix: look-at eye %v target %v up %v is degenerate", eye, target, up)
	}

	oinv := mathutil.Identity(4)
	tr := mathutil.Identity(4)
	for i := 0; i < 3; i++ {
		oinv.Set(0, i, x[i])
		oinv.Set(1, i, y[i])
		oinv.Set(2, i, z[i])
		tr.Set(i, 3, -eye[i])
	}
	return oinv.Mul(tr)
}

// Perspective returns identity with entry (3,2) = -1/distance, so that the
// homogeneous divide scales points by 1/(1 - z/distance).
func Perspective(distance float64) (mathutil.Matrix, error) {
	if distance == 0 {
		return mathutil.Matrix{}, fmt.Errorf("viewmatrix: perspective distance must be nonzero")
	}
	p := mathutil.Identity(4)
	p.Set(3, 2, -1/distance)
	return p, nil
}

// Viewport maps the [-1,1]³ cube onto a width×height pixel rectangle at
// (x, y) and z onto [0, DepthRange].
func Viewport(width, height, x, y int) mathutil.Matrix {
	m := mathutil.Identity(4)
	m.Set(0, 0, float64(width)/2)
	m.Set(1, 1, float64(height)/2)
	m.Set(2, 2, DepthRange/2)
	m.Set(0, 3, float64(x)+float64(width)/2)
	m.Set(1, 3, float64(y)+float64(height)/2)
	m.Set(2, 3, DepthRange/2)
	return m
}
