package batch

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"obj-renderer/internal/config"
	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/model"
	"obj-renderer/internal/postprocess"
	"obj-renderer/internal/raster"
	"obj-renderer/internal/texture"
	"obj-renderer/internal/viewmatrix"
)

// thumbFill is the share of a cropped thumbnail the model occupies.
const thumbFill = 0.9

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Format    string
	ThumbSize int
	ThumbCrop bool
	Workers   int
	// Textures is shared by every scene; nil makes each model index the
	// directory it was loaded from.
	Textures texture.Resolver
	Log      zerolog.Logger
}

// FromConfig builds a batch Config from a resolved render configuration.
func FromConfig(c config.Config, log zerolog.Logger) Config {
	cfg := Config{
		OutputDir: c.OutputDir,
		Format:    c.Format,
		ThumbSize: c.ThumbSize,
		ThumbCrop: c.ThumbCrop,
		Workers:   c.Workers,
		Log:       log,
	}
	if c.TextureDir != "" {
		cfg.Textures = texture.NewCache(texture.BuildIndex(c.TextureDir))
	}
	return cfg
}

// Result holds the outcome of rendering one scene. Image and Thumb are
// relative to the output directory.
type Result struct {
	Name    string
	Model   string
	Shader  string
	Width   int
	Height  int
	Image   string
	Thumb   string
	Stats   raster.Stats
	Success bool
	Error   string
}

// Run renders all scenes using a worker pool. Each scene is rasterized by a
// single worker. Scenes not yet started when ctx is done are reported as
// failed.
func Run(ctx context.Context, cfg Config, scenes []config.Scene) []Result {
	total := len(scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Log.Info().
						Int64("done", p).
						Int("total", total).
						Float64("rate", float64(p)/elapsed).
						Msg("progress")
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Worker pool
	sceneChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				if err := ctx.Err(); err != nil {
					results[idx] = failed(scenes[idx], err)
				} else {
					results[idx] = processScene(cfg, scenes[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

func sceneResult(sc config.Scene) Result {
	return Result{
		Name:   sc.Name,
		Model:  sc.Model,
		Shader: sc.Shader,
		Width:  sc.Width,
		Height: sc.Height,
	}
}

func failed(sc config.Scene, err error) Result {
	r := sceneResult(sc)
	r.Error = err.Error()
	return r
}

func processScene(cfg Config, sc config.Scene) Result {
	log := cfg.Log.With().Str("scene", sc.Name).Logger()
	start := time.Now()

	img, stats, err := RenderScene(sc, cfg.Textures)
	if err != nil {
		log.Error().Err(err).Msg("render failed")
		return failed(sc, err)
	}

	res := sceneResult(sc)
	res.Stats = stats
	res.Image = sc.Name + "." + cfg.Format
	if err := writeImage(filepath.Join(cfg.OutputDir, res.Image), img, cfg.Format); err != nil {
		log.Error().Err(err).Msg("write failed")
		return failed(sc, err)
	}

	if cfg.ThumbSize > 0 {
		var thumb *image.NRGBA
		if cfg.ThumbCrop {
			bg, err := config.ParseColor(sc.Background)
			if err != nil {
				log.Error().Err(err).Msg("thumbnail background")
				return failed(sc, err)
			}
			thumb = postprocess.Frame(img, cfg.ThumbSize, thumbFill, bg)
		} else {
			thumb = postprocess.Thumbnail(img, cfg.ThumbSize)
		}
		res.Thumb = filepath.Join("thumbs", sc.Name+"."+cfg.Format)
		if err := writeImage(filepath.Join(cfg.OutputDir, res.Thumb), thumb, cfg.Format); err != nil {
			log.Error().Err(err).Msg("write thumbnail failed")
			return failed(sc, err)
		}
	}

	log.Debug().
		Int("faces", stats.Faces).
		Int("skipped", stats.Skipped).
		Int("pixels", stats.Pixels).
		Dur("took", time.Since(start)).
		Msg("rendered")
	res.Success = true
	return res
}

// RenderScene loads the scene's model and renders one frame of it. The
// returned image is in top-down row order.
func RenderScene(sc config.Scene, textures texture.Resolver) (*image.NRGBA, raster.Stats, error) {
	m, err := loadModel(sc.Model, textures)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	base, err := config.ParseColor(sc.Color)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	bg, err := config.ParseColor(sc.Background)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	if base != (color.NRGBA{}) {
		m.BaseColor = base
	}

	kind, err := raster.ParseKind(sc.Shader)
	if err != nil {
		return nil, raster.Stats{}, err
	}
	rot := mathutil.Rotation(sc.Rotate[0], sc.Rotate[1], sc.Rotate[2]).Matrix()
	tf, err := viewmatrix.NewTransforms(sc.ViewCamera(), sc.Width, sc.Height, rot)
	if err != nil {
		return nil, raster.Stats{}, fmt.Errorf("batch: scene %s: %w", sc.Name, err)
	}
	sh, err := raster.NewShader(kind, m, tf, raster.ShaderOptions{
		Light:     sc.Light,
		BaseColor: base,
		Ambient:   sc.Ambient,
	})
	if err != nil {
		return nil, raster.Stats{}, fmt.Errorf("batch: scene %s: %w", sc.Name, err)
	}

	fb := raster.NewFrameBuffer(sc.Width, sc.Height)
	fb.Clear(bg)
	var stats raster.Stats
	if sc.Wireframe {
		wire := base
		if wire == (color.NRGBA{}) {
			wire = white
		}
		stats = raster.RenderWireframe(fb, sh, wire)
	} else {
		stats = raster.Render(fb, sh)
	}
	fb.FlipVertical()
	return fb.Image(), stats, nil
}

func loadModel(name string, textures texture.Resolver) (*model.Model, error) {
	if name == config.CubeModel {
		return model.Cube(), nil
	}
	return model.LoadOBJ(name, textures)
}
