package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"obj-renderer/internal/batch"
	"obj-renderer/internal/config"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json or .yaml render config")
	modelPath := flag.String("model", "", "OBJ file to render, or \"cube\" (overrides every scene)")
	shader := flag.String("shader", "", "Shader: flat, textured or specular (default: specular)")
	width := flag.Int("width", 0, "Frame width in pixels (default: 800)")
	height := flag.Int("height", 0, "Frame height in pixels (default: 800)")
	wireframe := flag.Bool("wireframe", false, "Draw face edges instead of filled triangles")
	format := flag.String("format", "", "Output format: tga, png, bmp or webp (default: tga)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	textureDir := flag.String("textures", "", "Directory searched for textures (default: next to each model)")
	thumb := flag.Int("thumb", 0, "Also write thumbnails with this longer side")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	// Logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configFile).Msg("config load failed")
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Format:     *format,
		Workers:    *workers,
		ThumbSize:  *thumb,
		Model:      *modelPath,
		Shader:     *shader,
		Width:      *width,
		Height:     *height,
		Wireframe:  *wireframe,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Int("scenes", len(cfg.Scenes)).
		Int("workers", cfg.Workers).
		Str("format", cfg.Format).
		Str("output", cfg.OutputDir).
		Msg("rendering")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results := batch.Run(ctx, batch.FromConfig(cfg, log.Logger), cfg.Scenes)

	// Count results
	failed := 0
	for _, r := range results {
		if r.Success {
			continue
		}
		failed++
		if failed <= 20 {
			log.Error().Str("scene", r.Name).Str("model", r.Model).Msg(r.Error)
		}
	}
	log.Info().
		Int("rendered", len(results)-failed).
		Int("total", len(results)).
		Dur("took", time.Since(start)).
		Msg("done")

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Warn().Err(err).Msg("manifest write failed")
	} else if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn().Err(err).Msg("manifest write failed")
	} else {
		log.Info().Str("path", manifestPath).Msg("manifest written")
	}

	if failed > 0 {
		stop()
		os.Exit(1)
	}
}
