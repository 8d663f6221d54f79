package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Suffixes recognised as manifests during discovery.
var Suffixes = []string{".gen.yaml", ".gen.yml", ".gen.toml"}

type Found struct {
	Name string
	Path string
}

// IsManifest reports whether name carries one of the manifest suffixes.
func IsManifest(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range Suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Discover returns manifests under root, optionally recursing into
// subdirectories while skipping hidden folders.
func Discover(root string, recursive bool) ([]Found, error) {
	var found []Found
	add := func(name, path string) {
		found = append(found, Found{Name: name, Path: path})
	}

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsManifest(d.Name()) {
				return nil
			}

			rel := d.Name()
			if r, relErr := filepath.Rel(root, path); relErr == nil {
				rel = r
			}
			add(rel, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsManifest(entry.Name()) {
				continue
			}
			add(entry.Name(), filepath.Join(root, entry.Name()))
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return found, nil
}
