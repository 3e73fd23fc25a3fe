package raster_test

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/model"
	"obj-renderer/internal/raster"
	"obj-renderer/internal/viewmatrix"
)

var bg = color.NRGBA{A: 255}

// frontCamera looks down -Z at the origin from (0,0,3).
func frontCamera(t *testing.T, w, h int) viewmatrix.Transforms {
	t.Helper()
	tf, err := viewmatrix.NewTransforms(viewmatrix.Camera{Eye: mathutil.Vec3{0, 0, 3}}, w, h, mathutil.Matrix{})
	require.NoError(t, err)
	return tf
}

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newShader(t *testing.T, kind raster.Kind, m raster.Model, opts raster.ShaderOptions) *raster.Shader {
	t.Helper()
	if opts.Light == (mathutil.Vec3{}) {
		opts.Light = mathutil.Vec3{0, 0, -1}
	}
	sh, err := raster.NewShader(kind, m, frontCamera(t, 100, 100), opts)
	require.NoError(t, err)
	return sh
}

func render(t *testing.T, sh *raster.Shader) (*raster.FrameBuffer, raster.Stats) {
	t.Helper()
	fb := raster.NewFrameBuffer(100, 100)
	fb.Clear(bg)
	return fb, raster.Render(fb, sh)
}

func TestParseKind(t *testing.T) {
	for _, k := range []raster.Kind{raster.Flat, raster.Textured, raster.Specular} {
		got, err := raster.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := raster.ParseKind("Specular")
	require.NoError(t, err)
	assert.Equal(t, raster.Specular, got)

	_, err = raster.ParseKind("phong")
	assert.Error(t, err)
	assert.Equal(t, "Kind(9)", raster.Kind(9).String())
}

func TestNewShaderErrors(t *testing.T) {
	tf := frontCamera(t, 10, 10)
	light := raster.ShaderOptions{Light: mathutil.Vec3{0, 0, -1}}

	_, err := raster.NewShader(raster.Kind(7), model.Cube(), tf, light)
	assert.Error(t, err)
	_, err = raster.NewShader(raster.Flat, nil, tf, light)
	assert.Error(t, err)
	_, err = raster.NewShader(raster.Flat, model.Cube(), tf, raster.ShaderOptions{})
	assert.Error(t, err)
	_, err = raster.NewShader(raster.Flat, model.Cube(), viewmatrix.Transforms{}, light)
	assert.ErrorIs(t, err, mathutil.ErrDimensionMismatch)
}

func TestVertexIntensity(t *testing.T) {
	cube := model.Cube()
	sh := newShader(t, raster.Flat, cube, raster.ShaderOptions{})

	// Faces 0-1 are the +Z side, 2-3 the -Z side.
	var front, back raster.Varyings
	for slot := 0; slot < 3; slot++ {
		_, err := sh.Vertex(0, slot, &front)
		require.NoError(t, err)
		_, err = sh.Vertex(2, slot, &back)
		require.NoError(t, err)
	}
	for slot := 0; slot < 3; slot++ {
		assert.InDelta(t, 1, front.Intensity[slot], 1e-9)
		assert.InDelta(t, 0, back.Intensity[slot], 1e-9)
		assert.InDelta(t, 1, front.Normal[slot][2], 1e-9)
		assert.Positive(t, front.W[slot])
	}
	assert.Greater(t, front.Screen[0][2], back.Screen[0][2])
}

func TestRenderFlatCube(t *testing.T) {
	fb, st := render(t, newShader(t, raster.Flat, model.Cube(), raster.ShaderOptions{
		BaseColor: color.NRGBA{R: 200, G: 100, B: 50, A: 255},
	}))
	assert.Equal(t, 12, st.Faces)
	assert.Zero(t, st.Skipped)
	assert.Positive(t, st.Pixels)

	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, fb.At(45, 52))
	assert.Equal(t, bg, fb.At(2, 2))
	assert.Equal(t, bg, fb.At(97, 50))
}

func TestRenderTexturedCube(t *testing.T) {
	cube := model.Cube()
	cube.DiffuseMap = solid(color.NRGBA{R: 40, G: 160, B: 80, A: 255})
	fb, _ := render(t, newShader(t, raster.Textured, cube, raster.ShaderOptions{}))
	assert.Equal(t, color.NRGBA{R: 40, G: 160, B: 80, A: 255}, fb.At(45, 52))

	// A light from the side leaves the front face dark.
	fb, _ = render(t, newShader(t, raster.Textured, cube, raster.ShaderOptions{Light: mathutil.Vec3{1, 0, 0}}))
	assert.Equal(t, color.NRGBA{A: 255}, fb.At(45, 52))
}

func TestRenderTexturedHugeUV(t *testing.T) {
	src := "v -1 -1 0\nv 1 -1 0\nv 0 1 0\nvt 1e30 -1e30\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"
	m, err := model.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	green := color.NRGBA{G: 200, A: 255}
	m.DiffuseMap = solid(green)

	var fb *raster.FrameBuffer
	require.NotPanics(t, func() {
		fb, _ = render(t, newShader(t, raster.Textured, m, raster.ShaderOptions{}))
	})
	assert.Equal(t, green, fb.At(50, 50))
}

func TestDrawTriangleMatchesFill(t *testing.T) {
	sh := newShader(t, raster.Flat, model.Cube(), raster.ShaderOptions{})
	var v raster.Varyings
	for j := 0; j < 3; j++ {
		_, err := sh.Vertex(0, j, &v)
		require.NoError(t, err)
	}
	pts := [3]mathutil.Vec3{{5, 5, 3}, {60, 12, 9}, {20, 70, 1}}

	shaded := raster.NewFrameBuffer(80, 80)
	filled := raster.NewFrameBuffer(80, 80)
	n := raster.DrawTriangle(shaded, pts, sh, &v)
	require.Positive(t, n)
	assert.Equal(t, n, raster.FillTriangle(filled, pts, bg))
	assert.Equal(t, filled.ZBuf, shaded.ZBuf)

	// Equal depth keeps the first triangle on both paths.
	assert.Zero(t, raster.DrawTriangle(shaded, pts, sh, &v))
	assert.Zero(t, raster.FillTriangle(filled, pts, bg))
}

func TestRenderNormalMapped(t *testing.T) {
	cube := model.Cube()
	// Every texel encodes +X, so the light along -X fully lights all sides.
	cube.NormalMap = solid(color.NRGBA{R: 255, G: 128, B: 128, A: 255})
	fb, _ := render(t, newShader(t, raster.Textured, cube, raster.ShaderOptions{Light: mathutil.Vec3{-1, 0, 0}}))
	c := fb.At(45, 52)
	assert.Greater(t, c.R, uint8(240))
}

func TestRenderSpecularCube(t *testing.T) {
	cube := model.Cube()
	cube.DiffuseMap = solid(color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	cube.Shininess = 10

	fb, _ := render(t, newShader(t, raster.Specular, cube, raster.ShaderOptions{}))
	c := fb.At(45, 52)
	// diffuse 1 plus a highlight close to 1.
	assert.Greater(t, c.R, uint8(180))
	assert.Less(t, c.R, uint8(205))
	assert.Equal(t, c.R, c.G)

	cube.Shininess = 0
	fb, _ = render(t, newShader(t, raster.Specular, cube, raster.ShaderOptions{Ambient: 0.2}))
	assert.Equal(t, color.NRGBA{R: 120, G: 120, B: 120, A: 255}, fb.At(45, 52))
}

func TestRenderSpecularClamps(t *testing.T) {
	cube := model.Cube()
	cube.DiffuseMap = solid(color.NRGBA{R: 200, G: 250, B: 10, A: 255})
	cube.Shininess = 5
	fb, _ := render(t, newShader(t, raster.Specular, cube, raster.ShaderOptions{Ambient: 1}))
	c := fb.At(45, 52)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(255), c.G)
	assert.Less(t, c.B, uint8(40))
	assert.Equal(t, uint8(255), c.A)
}

// plane is a single triangle model with per-face normals.
type plane struct {
	verts [3]mathutil.Vec3
}

func (p plane) NumFaces() int                                { return 1 }
func (p plane) Face(int) [3]int                              { return [3]int{0, 1, 2} }
func (p plane) Vert(i int) mathutil.Vec3                     { return p.verts[i] }
func (p plane) Normal(int, int) mathutil.Vec3                { return mathutil.Vec3{0, 0, 1} }
func (p plane) UV(int, int) mathutil.Vec2                    { return mathutil.Vec2{} }
func (p plane) Diffuse(mathutil.Vec2) color.NRGBA            { return color.NRGBA{R: 255, A: 255} }
func (p plane) Specular(mathutil.Vec2) float64               { return 0 }
func (p plane) NormalAt(mathutil.Vec2) (mathutil.Vec3, bool) { return mathutil.Vec3{}, false }

func TestRenderSkipsFaceOnCameraPlane(t *testing.T) {
	// Eye at z=3 with focal distance 4 puts the camera plane (w=0) at z=7.
	cam := viewmatrix.Camera{Eye: mathutil.Vec3{0, 0, 3}, Distance: 4}
	tf, err := viewmatrix.NewTransforms(cam, 100, 100, mathutil.Matrix{})
	require.NoError(t, err)
	m := plane{verts: [3]mathutil.Vec3{{0, 0, 7}, {1, 0, 0}, {0, 1, 0}}}
	sh, err := raster.NewShader(raster.Flat, m, tf, raster.ShaderOptions{Light: mathutil.Vec3{0, 0, -1}})
	require.NoError(t, err)

	fb, st := render(t, sh)
	assert.Equal(t, raster.Stats{Skipped: 1}, st)
	assert.Equal(t, bg, fb.At(50, 50))

	var v raster.Varyings
	_, err = sh.Vertex(0, 0, &v)
	assert.ErrorIs(t, err, mathutil.ErrZeroW)
}

func TestRenderWireframe(t *testing.T) {
	sh := newShader(t, raster.Flat, model.Cube(), raster.ShaderOptions{})
	fb := raster.NewFrameBuffer(100, 100)
	fb.Clear(bg)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	st := raster.RenderWireframe(fb, sh, white)
	assert.Equal(t, 12, st.Faces)

	// Bottom edge of the front side runs along y=36.
	assert.Equal(t, white, fb.At(50, 36))
	assert.Equal(t, bg, fb.At(45, 52))
	for _, z := range fb.ZBuf {
		assert.Less(t, z, 0.0)
	}
}
