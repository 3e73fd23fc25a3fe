package model

import "obj-renderer/internal/mathutil"

// Cube returns an axis-aligned unit cube centered at the origin, two
// counter-clockwise triangles per side, with per-side normals and UVs.
func Cube() *Model {
	m := &Model{
		Name: "cube",
		Verts: []mathutil.Vec3{
			{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
			{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
		},
		UVs: []mathutil.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Normals: []mathutil.Vec3{
			{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
		},
	}

	// Each side lists its corners counter-clockwise seen from outside.
	sides := []struct {
		quad   [4]int
		normal int
	}{
		{[4]int{4, 5, 6, 7}, 0}, // +Z
		{[4]int{1, 0, 3, 2}, 1}, // -Z
		{[4]int{5, 1, 2, 6}, 2}, // +X
		{[4]int{0, 4, 7, 3}, 3}, // -X
		{[4]int{7, 6, 2, 3}, 4}, // +Y
		{[4]int{0, 1, 5, 4}, 5}, // -Y
	}
	for _, s := range sides {
		c := func(k int) Corner { return Corner{Vert: s.quad[k], UV: k, Normal: s.normal} }
		m.Faces = append(m.Faces,
			Face{c(0), c(1), c(2)},
			Face{c(0), c(2), c(3)},
		)
	}
	m.computeFaceNormals()
	return m
}
