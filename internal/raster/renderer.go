package raster

import (
	"image/color"
	"math"

	"obj-renderer/internal/mathutil"
)

// Stats summarizes one render pass.
type Stats struct {
	Faces   int // triangles handed to the rasterizer
	Skipped int // triangles dropped because a vertex could not be projected
	Pixels  int // fragments that passed the depth test
}

// Render draws every face of the shader's model into fb: the vertex stage
// runs for the three corners, then the triangle is rasterized with the
// same shader. A vertex on the camera plane (w = 0) skips only its face.
func Render(fb *FrameBuffer, sh *Shader) Stats {
	var st Stats
	m := sh.Model()
	for f := 0; f < m.NumFaces(); f++ {
		var v Varyings
		var pts [3]mathutil.Vec3
		ok := true
		for slot := 0; slot < 3; slot++ {
			p, err := sh.Vertex(f, slot, &v)
			if err != nil {
				ok = false
				break
			}
			pts[slot] = p
		}
		if !ok {
			st.Skipped++
			continue
		}
		st.Faces++
		st.Pixels += DrawTriangle(fb, pts, sh, &v)
	}
	return st
}

// maxLineCoord bounds wireframe endpoints; vertices projected further away
// (behind or near the eye) drop their face.
const maxLineCoord = 1 << 20

// RenderWireframe draws every face edge of the shader's model with c,
// ignoring depth.
func RenderWireframe(fb *FrameBuffer, sh *Shader, c color.NRGBA) Stats {
	var st Stats
	m := sh.Model()
	screen, err := sh.Transforms().Screen.Mat4()
	if err != nil {
		return st
	}
	for f := 0; f < m.NumFaces(); f++ {
		face := m.Face(f)
		var pts [3]mathutil.Vec3
		ok := true
		for j := 0; j < 3; j++ {
			p, _, err := screen.Project(m.Vert(face[j]))
			if err != nil || !(math.Abs(p[0]) < maxLineCoord && math.Abs(p[1]) < maxLineCoord) {
				ok = false
				break
			}
			pts[j] = p
		}
		if !ok {
			st.Skipped++
			continue
		}
		st.Faces++
		for j := 0; j < 3; j++ {
			fb.Line(pts[j].RoundXY(), pts[(j+1)%3].RoundXY(), c)
		}
	}
	return st
}
