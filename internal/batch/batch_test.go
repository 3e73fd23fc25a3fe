package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"obj-renderer/internal/config"
	"obj-renderer/internal/mathutil"
)

func scenes(t *testing.T, list ...config.Scene) []config.Scene {
	t.Helper()
	c := config.Config{Scenes: list}
	c.Resolve(config.Flags{Width: 64, Height: 64})
	require.NoError(t, c.Validate())
	return c.Scenes
}

func testConfig(t *testing.T, format string) Config {
	return Config{
		OutputDir: t.TempDir(),
		Format:    format,
		Workers:   2,
		Log:       zerolog.Nop(),
	}
}

func decodePNG(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	nrgba, ok := img.(*image.NRGBA)
	require.True(t, ok, "decoded %T", img)
	return nrgba
}

func TestRunWritesImagesAndManifest(t *testing.T) {
	cfg := testConfig(t, "png")
	list := scenes(t,
		config.Scene{Name: "solid", Shader: "flat", Camera: config.Camera{Eye: mathutil.Vec3{0, 0, 3}}},
		config.Scene{Name: "wire", Wireframe: true, Color: "#00ff00"},
	)
	results := Run(context.Background(), cfg, list)
	require.Len(t, results, 2)
	for _, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, 12, r.Stats.Faces)
	}

	solid := decodePNG(t, filepath.Join(cfg.OutputDir, results[0].Image))
	assert.Equal(t, image.Rect(0, 0, 64, 64), solid.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, solid.NRGBAAt(28, 36))
	assert.Equal(t, color.NRGBA{}, solid.NRGBAAt(1, 1))

	wire := decodePNG(t, filepath.Join(cfg.OutputDir, results[1].Image))
	green := 0
	for i := 0; i < len(wire.Pix); i += 4 {
		if wire.Pix[i+1] == 255 && wire.Pix[i+3] == 255 {
			green++
		}
	}
	assert.Positive(t, green)

	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(manifest, results))
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "solid", entries[0].Name)
	assert.Equal(t, "solid.png", entries[0].Image)
	assert.Equal(t, "flat", entries[0].Shader)
	assert.Positive(t, entries[0].Pixels)
}

func TestRenderSceneImageOrder(t *testing.T) {
	// Looking level from below the cube puts it in the upper half of the
	// picture once rows are in image order.
	list := scenes(t, config.Scene{
		Shader: "flat",
		Camera: config.Camera{Eye: mathutil.Vec3{0, -1, 3}, Target: mathutil.Vec3{0, -1, 0}},
	})
	img, _, err := RenderScene(list[0], nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), img.NRGBAAt(32, 12).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(32, 52).A)
}

func TestRunFormats(t *testing.T) {
	cases := []struct {
		format string
		check  func(t *testing.T, data []byte)
	}{
		{"tga", func(t *testing.T, data []byte) {
			img, err := tga.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 64, img.Bounds().Dx())
		}},
		{"bmp", func(t *testing.T, data []byte) {
			img, err := bmp.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 64, img.Bounds().Dy())
		}},
		{"webp", func(t *testing.T, data []byte) {
			require.Greater(t, len(data), 12)
			assert.Equal(t, "RIFF", string(data[:4]))
			assert.Equal(t, "WEBP", string(data[8:12]))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			cfg := testConfig(t, tc.format)
			results := Run(context.Background(), cfg, scenes(t, config.Scene{Background: "#202020"}))
			require.True(t, results[0].Success, results[0].Error)
			assert.Equal(t, "cube."+tc.format, results[0].Image)
			data, err := os.ReadFile(filepath.Join(cfg.OutputDir, results[0].Image))
			require.NoError(t, err)
			tc.check(t, data)
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), "gif")
	assert.ErrorContains(t, err, "unknown format")
}

func TestRunThumbnails(t *testing.T) {
	for _, crop := range []bool{false, true} {
		cfg := testConfig(t, "png")
		cfg.ThumbSize = 16
		cfg.ThumbCrop = crop
		results := Run(context.Background(), cfg, scenes(t, config.Scene{Name: "c", Shader: "flat"}))
		require.True(t, results[0].Success, results[0].Error)
		require.NotEmpty(t, results[0].Thumb)

		thumb := decodePNG(t, filepath.Join(cfg.OutputDir, results[0].Thumb))
		assert.Equal(t, image.Rect(0, 0, 16, 16), thumb.Bounds())
		assert.Equal(t, uint8(255), thumb.NRGBAAt(8, 8).A)
	}
}

func TestRunBadBackgroundWithCroppedThumbs(t *testing.T) {
	c := config.Config{Scenes: []config.Scene{{Name: "bg", Background: "#zzzzzz"}}}
	c.Resolve(config.Flags{Width: 32, Height: 32})

	cfg := testConfig(t, "png")
	cfg.ThumbSize = 8
	cfg.ThumbCrop = true
	results := Run(context.Background(), cfg, c.Scenes)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "#zzzzzz")
	_, err := os.Stat(filepath.Join(cfg.OutputDir, "thumbs", "bg.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunReportsFailures(t *testing.T) {
	cfg := testConfig(t, "png")
	list := scenes(t,
		config.Scene{Name: "missing", Model: filepath.Join(t.TempDir(), "nope.obj")},
		config.Scene{Name: "bad shader", Shader: "toon"},
		config.Scene{Name: "ok"},
	)
	results := Run(context.Background(), cfg, list)
	require.Len(t, results, 3)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "nope.obj")
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "toon")
	assert.True(t, results[2].Success, results[2].Error)

	manifest := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(manifest, results))
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 1)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(t, "png")
	results := Run(ctx, cfg, scenes(t, config.Scene{Name: "a"}, config.Scene{Name: "b"}))
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Contains(t, r.Error, "canceled")
	}
	_, err := os.Stat(filepath.Join(cfg.OutputDir, "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderSceneOBJWithTextures(t *testing.T) {
	dir := t.TempDir()
	obj := "v -1 -1 0\nv 1 -1 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0.5 1\nvn 0 0 1\nf 1/1/1 2/2/1 3/3/1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0o644))

	tex := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(tex.Pix); i += 4 {
		tex.Pix[i], tex.Pix[i+3] = 255, 255
	}
	f, err := os.Create(filepath.Join(dir, "tri_diffuse.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, tex))
	require.NoError(t, f.Close())

	list := scenes(t, config.Scene{
		Model:  filepath.Join(dir, "tri.obj"),
		Shader: "textured",
		Camera: config.Camera{Eye: mathutil.Vec3{0, 0, 3}},
	})
	img, stats, err := RenderScene(list[0], nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Faces)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(32, 32))
}
