package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"obj-renderer/internal/mathutil"
	"obj-renderer/internal/texture"
)

var (
	errIndex     = errors.New("index out of range")
	errNonFinite = errors.New("not a finite number")
)

// Texture name suffixes looked up next to a model named <stem>.obj.
const (
	DiffuseSuffix  = "_diffuse"
	NormalSuffix   = "_nm"
	SpecularSuffix = "_spec"
)

// LoadOBJ parses a Wavefront OBJ file and binds the <stem>_diffuse,
// <stem>_nm and <stem>_spec textures found through textures. A nil resolver
// indexes the model's own directory.
func LoadOBJ(path string, textures texture.Resolver) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("model: parse %s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if textures == nil {
		textures = texture.NewCache(texture.BuildIndex(filepath.Dir(path)))
	}
	m.DiffuseMap = textures.Resolve(m.Name + DiffuseSuffix)
	m.NormalMap = textures.Resolve(m.Name + NormalSuffix)
	m.SpecularMap = textures.Resolve(m.Name + SpecularSuffix)
	return m, nil
}

// ParseOBJ reads v, vt, vn and f records. Polygons are fan-triangulated and
// negative (relative) indices are resolved. Other records are ignored.
func ParseOBJ(r io.Reader) (*Model, error) {
	m := &Model{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v mathutil.Vec3
			if v, err = parseVec3(fields[1:]); err == nil {
				m.Verts = append(m.Verts, v)
			}
		case "vn":
			var v mathutil.Vec3
			if v, err = parseVec3(fields[1:]); err == nil {
				m.Normals = append(m.Normals, v)
			}
		case "vt":
			var v mathutil.Vec2
			if v, err = parseVec2(fields[1:]); err == nil {
				m.UVs = append(m.UVs, v)
			}
		case "f":
			err = m.addFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	m.computeFaceNormals()
	return m, nil
}

func parseVec3(fields []string) (mathutil.Vec3, error) {
	var v mathutil.Vec3
	if len(fields) < 3 {
		return v, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v, fmt.Errorf("component %q: %w", fields[i], errNonFinite)
		}
		v[i] = f
	}
	return v, nil
}

func parseVec2(fields []string) (mathutil.Vec2, error) {
	var v mathutil.Vec2
	if len(fields) < 2 {
		return v, fmt.Errorf("want 2 components, got %d", len(fields))
	}
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v, fmt.Errorf("component %q: %w", fields[i], errNonFinite)
		}
		v[i] = f
	}
	return v, nil
}

func (m *Model) addFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	corners := make([]Corner, len(fields))
	for i, f := range fields {
		c, err := m.parseCorner(f)
		if err != nil {
			return fmt.Errorf("face vertex %q: %w", f, err)
		}
		corners[i] = c
	}
	// Fan: (0, i, i+1)
	for i := 1; i+1 < len(corners); i++ {
		m.Faces = append(m.Faces, Face{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// parseCorner accepts v, v/vt, v//vn and v/vt/vn.
func (m *Model) parseCorner(s string) (Corner, error) {
	parts := strings.Split(s, "/")
	c := Corner{UV: -1, Normal: -1}
	var err error
	if c.Vert, err = resolveIndex(parts[0], len(m.Verts)); err != nil {
		return c, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.UV, err = resolveIndex(parts[1], len(m.UVs)); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveIndex(parts[2], len(m.Normals)); err != nil {
			return c, err
		}
	}
	return c, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("%d of %d: %w", i, n, errIndex)
}
