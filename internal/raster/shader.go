package raster

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/viewmatrix"
)

// Model is what the shading stages read from a mesh.
type Model interface {
	NumFaces() int
	// Face returns the global vertex indices of face i.
	Face(i int) [3]int
	Vert(i int) mathutil.Vec3
	// Normal and UV are keyed by face and local vertex slot 0..2.
	Normal(face, slot int) mathutil.Vec3
	UV(face, slot int) mathutil.Vec2
	Diffuse(uv mathutil.Vec2) color.NRGBA
	Specular(uv mathutil.Vec2) float64
	// NormalAt returns the normal-mapped normal at uv, ok=false without a map.
	NormalAt(uv mathutil.Vec2) (mathutil.Vec3, bool)
}

// Kind selects a shading strategy.
type Kind int

const (
	// Flat lights a base color by the Gouraud-interpolated N·L.
	Flat Kind = iota
	// Textured modulates the diffuse map by per-pixel N·L.
	Textured
	// Specular adds a Phong highlight with a per-pixel exponent.
	Specular
)

var kindNames = [...]string{Flat: "flat", Textured: "textured", Specular: "specular"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps "flat", "textured" or "specular" to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("raster: unknown shader %q", s)
}

// ShaderOptions carries the lighting inputs of a shading session.
type ShaderOptions struct {
	// Light is the world-space direction the light travels along.
	Light mathutil.Vec3
	// BaseColor is the Flat strategy's surface color; zero means white.
	BaseColor color.NRGBA
	// Ambient is added to the Specular strategy's light sum.
	Ambient float64
}

// Varyings is the per-triangle state the vertex stage hands to the
// fragment stage, indexed by local vertex slot.
type Varyings struct {
	Screen    [3]mathutil.Vec3
	World     [3]mathutil.Vec3
	UV        [3]mathutil.Vec2
	Normal    [3]mathutil.Vec3
	Intensity mathutil.Vec3
	ViewDir   [3]mathutil.Vec3
	// W is the clip-space w of each vertex; zero disables perspective correction.
	W [3]float64
}

// perspective converts screen-space weights to perspective-correct ones.
func (v *Varyings) perspective(bc mathutil.Vec3) mathutil.Vec3 {
	if v.W[0] <= 0 || v.W[1] <= 0 || v.W[2] <= 0 {
		return bc
	}
	c := mathutil.Vec3{bc[0] / v.W[0], bc[1] / v.W[1], bc[2] / v.W[2]}
	s := c[0] + c[1] + c[2]
	if s == 0 {
		return bc
	}
	return c.Scale(1 / s)
}

// Shader is a closed set of shading strategies sharing one transform set.
// Fragment switches on the kind; there is no per-pixel interface dispatch.
type Shader struct {
	kind  Kind
	model Model
	opts  ShaderOptions

	tf        viewmatrix.Transforms
	fast      viewmatrix.Fast
	viewModel mathutil.Mat4
	light     mathutil.Vec3 // camera space, unit, direction of travel
}

// NewShader validates the inputs and prepares the per-vertex matrices.
// Shape errors from the transform set surface here, never per pixel.
func NewShader(kind Kind, m Model, tf viewmatrix.Transforms, opts ShaderOptions) (*Shader, error) {
	if kind < Flat || kind > Specular {
		return nil, fmt.Errorf("raster: new shader: unknown kind %d", int(kind))
	}
	if m == nil {
		return nil, errors.New("raster: new shader: nil model")
	}
	if opts.Light.Len() == 0 {
		return nil, errors.New("raster: new shader: light direction is zero")
	}
	if opts.BaseColor == (color.NRGBA{}) {
		opts.BaseColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}

	fast, err := tf.Fast()
	if err != nil {
		return nil, fmt.Errorf("raster: new shader: %w", err)
	}
	vm, err := tf.View.Mul(tf.Model)
	if err != nil {
		return nil, fmt.Errorf("raster: new shader: %w", err)
	}
	viewModel, err := vm.Mat4()
	if err != nil {
		return nil, fmt.Errorf("raster: new shader: %w", err)
	}
	lm, err := tf.View.Mul(mathutil.FromDirection(opts.Light.Normalize()))
	if err != nil {
		return nil, fmt.Errorf("raster: new shader: %w", err)
	}
	light, err := lm.ToDir()
	if err != nil {
		return nil, fmt.Errorf("raster: new shader: %w", err)
	}

	return &Shader{
		kind:      kind,
		model:     m,
		opts:      opts,
		tf:        tf,
		fast:      fast,
		viewModel: viewModel,
		light:     light.Normalize(),
	}, nil
}

func (s *Shader) Kind() Kind   { return s.kind }
func (s *Shader) Model() Model { return s.model }

// Vertex runs the vertex stage for one corner of a face: it projects the
// position to screen space, carries the normal through MIT (w=0), and
// caches intensity, UV, world position and view direction in v.
func (s *Shader) Vertex(face, slot int, v *Varyings) (mathutil.Vec3, error) {
	p := s.model.Vert(s.model.Face(face)[slot])
	screen, w, err := s.fast.Screen.Project(p)
	if err != nil {
		return mathutil.Vec3{}, fmt.Errorf("raster: face %d vertex %d: %w", face, slot, err)
	}

	n := s.fast.MIT.MulDir(s.model.Normal(face, slot)).Normalize()
	world, _ := s.fast.Model.Homogeneous(p, 1)
	cam, _ := s.viewModel.Homogeneous(p, 1)

	v.Screen[slot] = screen
	v.World[slot] = world
	v.UV[slot] = s.model.UV(face, slot)
	v.Normal[slot] = n
	v.Intensity[slot] = math.Max(0, -s.light.Dot(n))
	v.ViewDir[slot] = cam.Scale(-1).Normalize()
	v.W[slot] = w
	return screen, nil
}

// Fragment colors one pixel from its screen-space barycentric weights.
func (s *Shader) Fragment(v *Varyings, bc mathutil.Vec3) color.NRGBA {
	switch s.kind {
	case Flat:
		return s.flat(v, bc)
	case Textured:
		return s.textured(v, bc)
	case Specular:
		return s.specular(v, bc)
	}
	return color.NRGBA{}
}

// Transforms returns the matrix set the shader was built with.
func (s *Shader) Transforms() viewmatrix.Transforms { return s.tf }
