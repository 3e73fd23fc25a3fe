package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/viewmatrix"
)

// CubeModel names the built-in unit cube in Scene.Model.
const CubeModel = "cube"

// Formats lists the output encodings the batch writer supports.
var Formats = []string{"tga", "png", "bmp", "webp"}

// Config holds the output settings and the scenes of a render run.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" yaml:"base_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir"`

	// Output settings
	Format    string `json:"format" yaml:"format"`
	ThumbSize int    `json:"thumb_size" yaml:"thumb_size"`
	ThumbCrop bool   `json:"thumb_crop" yaml:"thumb_crop"` // crop thumbnails to the model
	Workers   int    `json:"workers" yaml:"workers"`

	Scenes []Scene `json:"scenes" yaml:"scenes"`
}

// Camera is the configured viewpoint. Zero fields take defaults.
type Camera struct {
	Eye      mathutil.Vec3 `json:"eye" yaml:"eye"`
	Target   mathutil.Vec3 `json:"target" yaml:"target"`
	Up       mathutil.Vec3 `json:"up" yaml:"up"`
	Distance float64       `json:"distance" yaml:"distance"`
}

// Scene is one frame: a model, how to shade it and where to look from.
type Scene struct {
	Name      string        `json:"name" yaml:"name"`
	Model     string        `json:"model" yaml:"model"` // "cube" or a path to an .obj file
	Width     int           `json:"width" yaml:"width"`
	Height    int           `json:"height" yaml:"height"`
	Shader    string        `json:"shader" yaml:"shader"` // flat | textured | specular
	Wireframe bool          `json:"wireframe" yaml:"wireframe"`
	Light     mathutil.Vec3 `json:"light" yaml:"light"`   // direction the light travels
	Rotate    mathutil.Vec3 `json:"rotate" yaml:"rotate"` // model rotation in degrees about X, Y, Z
	Camera    Camera        `json:"camera" yaml:"camera"`

	Color      string  `json:"color" yaml:"color"`           // #rrggbb base or wire color
	Background string  `json:"background" yaml:"background"` // #rrggbb or #rrggbbaa
	Ambient    float64 `json:"ambient" yaml:"ambient"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir  string
	TextureDir string
	Format     string
	Workers    int
	ThumbSize  int

	// Single-scene mode, and per-scene overrides when a config is loaded.
	Model     string
	Shader    string
	Width     int
	Height    int
	Wireframe bool
}

// Load reads a JSON or YAML config file, chosen by extension.
// Fields not set in the file keep their zero values; relative paths resolve
// against the file's directory unless base_dir says otherwise.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Resolve applies CLI overrides, then fills any empty field with its
// default. A config without scenes renders one scene described by flags.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.ThumbSize > 0 {
		c.ThumbSize = flags.ThumbSize
	}

	if len(c.Scenes) == 0 {
		c.Scenes = []Scene{{Model: flags.Model}}
	} else if flags.Model != "" {
		for i := range c.Scenes {
			c.Scenes[i].Model = flags.Model
		}
	}
	for i := range c.Scenes {
		s := &c.Scenes[i]
		if flags.Shader != "" {
			s.Shader = flags.Shader
		}
		if flags.Width > 0 {
			s.Width = flags.Width
		}
		if flags.Height > 0 {
			s.Height = flags.Height
		}
		if flags.Wireframe {
			s.Wireframe = true
		}
	}

	// Relative paths resolve against the base dir
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	c.OutputDir = c.abs(c.OutputDir)
	if c.TextureDir != "" {
		c.TextureDir = c.abs(c.TextureDir)
	}

	// Defaults for output settings
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = "tga"
	}
	if c.ThumbSize < 0 {
		c.ThumbSize = 0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	seen := make(map[string]int, len(c.Scenes))
	for i := range c.Scenes {
		s := &c.Scenes[i]
		s.resolve(c, i)
		base := s.Name
		if n := seen[base]; n > 0 {
			s.Name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[base]++
	}
}

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

func (s *Scene) resolve(c *Config, i int) {
	if s.Model == "" {
		s.Model = CubeModel
	}
	if s.Model != CubeModel {
		s.Model = c.abs(s.Model)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(s.Model), filepath.Ext(s.Model))
		if len(c.Scenes) > 1 {
			s.Name = fmt.Sprintf("%03d_%s", i, s.Name)
		}
	}
	if s.Width <= 0 {
		s.Width = 800
	}
	if s.Height <= 0 {
		s.Height = 800
	}
	s.Shader = strings.ToLower(s.Shader)
	if s.Shader == "" {
		s.Shader = "specular"
	}
	if s.Light == (mathutil.Vec3{}) {
		s.Light = mathutil.Vec3{0, 0, -1}
	}

	def := viewmatrix.DefaultCamera()
	if s.Camera.Eye == (mathutil.Vec3{}) {
		s.Camera.Eye = def.Eye
	}
	if s.Camera.Up == (mathutil.Vec3{}) {
		s.Camera.Up = def.Up
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	found := false
	for _, f := range Formats {
		if c.Format == f {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config: unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	for _, s := range c.Scenes {
		if s.Camera.Eye == s.Camera.Target {
			return fmt.Errorf("config: scene %s: camera eye equals target", s.Name)
		}
		if _, err := ParseColor(s.Color); err != nil {
			return fmt.Errorf("config: scene %s: %w", s.Name, err)
		}
		if _, err := ParseColor(s.Background); err != nil {
			return fmt.Errorf("config: scene %s: %w", s.Name, err)
		}
	}
	return nil
}

// ViewCamera converts the configured camera for the transform stack.
func (s Scene) ViewCamera() viewmatrix.Camera {
	return viewmatrix.Camera{
		Eye:      s.Camera.Eye,
		Target:   s.Camera.Target,
		Up:       s.Camera.Up,
		Distance: s.Camera.Distance,
	}
}

// ParseColor reads "#rrggbb" or "#rrggbbaa". The empty string yields the
// zero color, which callers treat as "use the default".
func ParseColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("config: color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
