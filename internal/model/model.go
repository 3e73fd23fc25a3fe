package model

import (
	"image"
	"image/color"

	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/texture"
)

// Corner is one vertex reference of a face: indices into the position,
// texture-coordinate and normal arrays. A negative UV or Normal means absent.
type Corner struct {
	Vert, UV, Normal int
}

// Face is a triangle.
type Face [3]Corner

// Model holds a triangulated mesh plus its optional texture maps.
type Model struct {
	Name    string
	Verts   []mathutil.Vec3
	UVs     []mathutil.Vec2
	Normals []mathutil.Vec3
	Faces   []Face

	DiffuseMap  *image.NRGBA
	NormalMap   *image.NRGBA
	SpecularMap *image.NRGBA

	// BaseColor is returned by Diffuse when no diffuse map is bound.
	BaseColor color.NRGBA
	// Shininess is returned by Specular when no specular map is bound.
	Shininess float64

	faceNormals []mathutil.Vec3
}

var defaultBase = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// NumFaces returns the triangle count.
func (m *Model) NumFaces() int { return len(m.Faces) }

// Face returns the three global vertex indices of face i.
func (m *Model) Face(i int) [3]int {
	f := m.Faces[i]
	return [3]int{f[0].Vert, f[1].Vert, f[2].Vert}
}

// Vert returns the position of global vertex i.
func (m *Model) Vert(i int) mathutil.Vec3 { return m.Verts[i] }

// Normal returns the normal of the given corner, or the face normal when
// the mesh carries none.
func (m *Model) Normal(face, slot int) mathutil.Vec3 {
	if n := m.Faces[face][slot].Normal; n >= 0 && n < len(m.Normals) {
		return m.Normals[n].Normalize()
	}
	return m.faceNormal(face)
}

// UV returns the texture coordinate of the given corner, zero when absent.
func (m *Model) UV(face, slot int) mathutil.Vec2 {
	if t := m.Faces[face][slot].UV; t >= 0 && t < len(m.UVs) {
		return m.UVs[t]
	}
	return mathutil.Vec2{}
}

// Diffuse samples the diffuse map. OBJ texture space has v pointing up, so
// v is flipped into image rows.
func (m *Model) Diffuse(uv mathutil.Vec2) color.NRGBA {
	if m.DiffuseMap == nil {
		if m.BaseColor == (color.NRGBA{}) {
			return defaultBase
		}
		return m.BaseColor
	}
	return texture.Sample(m.DiffuseMap, uv[0], 1-uv[1])
}

// NormalAt decodes the object-space normal stored in the normal map.
// ok is false when the model has no normal map.
func (m *Model) NormalAt(uv mathutil.Vec2) (n mathutil.Vec3, ok bool) {
	if m.NormalMap == nil {
		return mathutil.Vec3{}, false
	}
	c := texture.Sample(m.NormalMap, uv[0], 1-uv[1])
	n = mathutil.Vec3{
		float64(c.R)/255*2 - 1,
		float64(c.G)/255*2 - 1,
		float64(c.B)/255*2 - 1,
	}
	return n.Normalize(), true
}

// Specular returns the specular exponent at uv: the red channel of the
// specular map, or Shininess without one.
func (m *Model) Specular(uv mathutil.Vec2) float64 {
	if m.SpecularMap == nil {
		return m.Shininess
	}
	return float64(texture.Nearest(m.SpecularMap, uv[0], 1-uv[1]).R)
}

func (m *Model) faceNormal(face int) mathutil.Vec3 {
	if m.faceNormals == nil {
		m.computeFaceNormals()
	}
	return m.faceNormals[face]
}

// computeFaceNormals fills the counter-clockwise face normals. It runs once
// per model, before any concurrent use, from the constructors.
func (m *Model) computeFaceNormals() {
	m.faceNormals = make([]mathutil.Vec3, len(m.Faces))
	for i, f := range m.Faces {
		a, b, c := m.Verts[f[0].Vert], m.Verts[f[1].Vert], m.Verts[f[2].Vert]
		m.faceNormals[i] = b.Sub(a).Cross(c.Sub(a)).Normalize()
	}
}
