package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths.
// When two files share a stem the earlier entry of Extensions wins.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its subdirectories for texture files.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank := extRank(ext)
		if rank < 0 {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank < extRank(strings.ToLower(filepath.Ext(existing))) {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

func extRank(ext string) int {
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Directory prefixes and extensions in name are ignored.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
