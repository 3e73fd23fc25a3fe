package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/model"
	"obj-renderer/internal/texture"
)

func main() {
	textureDir := flag.String("textures", "", "Directory searched for textures (default: next to each model)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	var textures texture.Resolver
	if *textureDir != "" {
		idx := texture.BuildIndex(*textureDir)
		textures = texture.NewCache(idx)
		fmt.Printf("Textures: %d indexed in %s\n", idx.Len(), *textureDir)
	}

	for _, arg := range flag.Args() {
		m, err := model.LoadOBJ(arg, textures)
		if err != nil {
			log.Error().Err(err).Str("path", arg).Msg("load failed")
			continue
		}
		fmt.Printf("\n=== %s (verts=%d uvs=%d normals=%d faces=%d) ===\n",
			arg, len(m.Verts), len(m.UVs), len(m.Normals), m.NumFaces())
		printBounds(m)
		printMap("diffuse", m.DiffuseMap)
		printMap("normal", m.NormalMap)
		printMap("specular", m.SpecularMap)
	}
}

func printBounds(m *model.Model) {
	if len(m.Verts) == 0 {
		return
	}
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Verts {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	center := lo.Add(hi).Scale(0.5)
	fmt.Printf("  bounds x=[%.3f..%.3f] y=[%.3f..%.3f] z=[%.3f..%.3f] center=(%.3f, %.3f, %.3f) radius=%.3f\n",
		lo[0], hi[0], lo[1], hi[1], lo[2], hi[2],
		center[0], center[1], center[2], hi.Sub(lo).Len()/2)
}

func printMap(kind string, tex *image.NRGBA) {
	if tex == nil {
		fmt.Printf("  %-8s MISSING\n", kind)
		return
	}
	b := tex.Bounds()
	total := 0.0
	transparent := 0
	count := len(tex.Pix) / 4
	for j := 0; j < len(tex.Pix); j += 4 {
		total += float64(int(tex.Pix[j])+int(tex.Pix[j+1])+int(tex.Pix[j+2])) / 3.0
		if tex.Pix[j+3] < 128 {
			transparent++
		}
	}
	bright := 0.0
	if count > 0 {
		bright = total / float64(count)
	}
	fmt.Printf("  %-8s %dx%d bright=%.0f transparent=%.1f%%\n",
		kind, b.Dx(), b.Dy(), bright, 100*float64(transparent)/float64(max(1, count)))
}
