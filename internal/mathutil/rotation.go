package mathutil

import "math"

// RotX returns a 4×4 rotation around the X axis. Angle in radians.
func RotX(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotY returns a 4×4 rotation around the Y axis.
func RotY(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotZ returns a 4×4 rotation around the Z axis.
func RotZ(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotation composes Rz × Ry × Rx from Euler angles in degrees.
func Rotation(xDeg, yDeg, zDeg float64) Mat4 {
	return Mat4Mul(Mat4Mul(RotZ(Deg2Rad(zDeg)), RotY(Deg2Rad(yDeg))), RotX(Deg2Rad(xDeg)))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
