package viewmatrix

import (
	"fmt"

	"obj-renderer/internal/mathutil"
)

// Transforms is the per-frame matrix set. It is computed once by
// NewTransforms and treated as read-only afterwards.
type Transforms struct {
	Model       mathutil.Matrix // object→world
	View        mathutil.Matrix // world→camera
	Perspective mathutil.Matrix // camera→clip
	Viewport    mathutil.Matrix // clip→screen
	M           mathutil.Matrix // Perspective × View × Model
	MIT         mathutil.Matrix // (Mᵀ)⁻¹, for normals
	Screen      mathutil.Matrix // Viewport × M

	Eye mathutil.Vec3
}

// Fast holds Mat4 copies of the composed matrices for per-vertex use.
type Fast struct {
	M, MIT, Screen, Model mathutil.Mat4
}

// NewTransforms composes the camera, projection and viewport matrices for a
// width×height target. model may be the zero Matrix for identity; it is
// copied, so later changes to the caller's matrix do not leak in.
func NewTransforms(cam Camera, width, height int, model mathutil.Matrix) (Transforms, error) {
	if width <= 0 || height <= 0 {
		return Transforms{}, fmt.Errorf("viewmatrix: invalid viewport %dx%d", width, height)
	}
	if model.Rows() == 0 {
		model = mathutil.Identity(4)
	} else {
		model = model.Clone()
	}
	up := cam.Up
	if up == (mathutil.Vec3{}) {
		up = mathutil.Vec3{0, 1, 0}
	}

	view, err := LookAt(up, cam.Target, cam.Eye)
	if err != nil {
		return Transforms{}, err
	}
	persp, err := Perspective(cam.FocalDistance())
	if err != nil {
		return Transforms{}, err
	}
	vp := Viewport(width, height, 0, 0)

	m, err := mathutil.Chain(persp, view, model)
	if err != nil {
		return Transforms{}, fmt.Errorf("viewmatrix: compose M: %w", err)
	}
	mit, err := m.InverseTranspose()
	if err != nil {
		return Transforms{}, fmt.Errorf("viewmatrix: normal matrix: %w", err)
	}
	screen, err := vp.Mul(m)
	if err != nil {
		return Transforms{}, fmt.Errorf("viewmatrix: compose screen: %w", err)
	}

	return Transforms{
		Model:       model,
		View:        view,
		Perspective: persp,
		Viewport:    vp,
		M:           m,
		MIT:         mit,
		Screen:      screen,
		Eye:         cam.Eye,
	}, nil
}

// Fast converts the composed matrices for the vertex stage.
func (t Transforms) Fast() (Fast, error) {
	var f Fast
	var err error
	if f.M, err = t.M.Mat4(); err != nil {
		return Fast{}, err
	}
	if f.MIT, err = t.MIT.Mat4(); err != nil {
		return Fast{}, err
	}
	if f.Screen, err = t.Screen.Mat4(); err != nil {
		return Fast{}, err
	}
	if f.Model, err = t.Model.Mat4(); err != nil {
		return Fast{}, err
	}
	return f, nil
}
