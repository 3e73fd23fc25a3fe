package raster

import (
	"image/color"
	"math"

	"obj-renderer/internal/mathutil"
)

// flat: base color × Gouraud intensity.
func (s *Shader) flat(v *Varyings, bc mathutil.Vec3) color.NRGBA {
	w := v.perspective(bc)
	return Scale(s.opts.BaseColor, v.Intensity.Dot(w))
}

// surface returns the interpolated UV and the shading normal, taken from the
// normal map when the model has one.
func (s *Shader) surface(v *Varyings, w mathutil.Vec3) (mathutil.Vec2, mathutil.Vec3) {
	uv := mathutil.Weighted2(v.UV[0], v.UV[1], v.UV[2], w)
	if nm, ok := s.model.NormalAt(uv); ok {
		return uv, s.fast.MIT.MulDir(nm).Normalize()
	}
	return uv, mathutil.Weighted(v.Normal[0], v.Normal[1], v.Normal[2], w).Normalize()
}

func (s *Shader) textured(v *Varyings, bc mathutil.Vec3) color.NRGBA {
	w := v.perspective(bc)
	uv, n := s.surface(v, w)
	intensity := math.Max(0, -s.light.Dot(n))
	return Scale(s.model.Diffuse(uv), intensity)
}

// specular: color = min(255, diffuse × (ambient + N·L + spec)) with
// R = 2(N·L)N − L and spec = max(0, R·V)^exponent(uv).
func (s *Shader) specular(v *Varyings, bc mathutil.Vec3) color.NRGBA {
	w := v.perspective(bc)
	uv, n := s.surface(v, w)
	l := s.light.Scale(-1)

	ndl := n.Dot(l)
	diff := math.Max(0, ndl)

	var spec float64
	if exp := s.model.Specular(uv); exp > 0 {
		r := n.Scale(2 * ndl).Sub(l).Normalize()
		view := mathutil.Weighted(v.ViewDir[0], v.ViewDir[1], v.ViewDir[2], w).Normalize()
		spec = math.Pow(math.Max(0, r.Dot(view)), exp)
	}

	return Scale(s.model.Diffuse(uv), s.opts.Ambient+diff+spec)
}
