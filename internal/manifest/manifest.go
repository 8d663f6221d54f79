// Package manifest reads the list of files a generation run produces.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/gencode/internal/errdef"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Manifest is a decoded manifest file. Dir is the directory the manifest
// was loaded from; relative base paths and sources resolve against it.
type Manifest struct {
	BasePath string  `yaml:"base_path" toml:"base_path"`
	Files    []Entry `yaml:"files" toml:"files"`

	Path string `yaml:"-" toml:"-"`
	Dir  string `yaml:"-" toml:"-"`
}

// Entry is one generated file. Exactly one of Content and Source is set;
// Content is a pointer so an empty file can be declared.
type Entry struct {
	Path    string  `yaml:"path" toml:"path"`
	Content *string `yaml:"content,omitempty" toml:"content,omitempty"`
	Source  string  `yaml:"source,omitempty" toml:"source,omitempty"`
}

// File is a resolved entry: absolute target and the bytes to write.
type File struct {
	Path    string
	Content []byte
}

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errdef.New(errdef.CodeManifest, "unsupported manifest format %q", filepath.Ext(path))
	}
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeManifest, err, "read %s", path)
	}
	m, err := Decode(data, format)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeManifest, err, "decode %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeManifest, err, "resolve %s", path)
	}
	m.Path = abs
	m.Dir = filepath.Dir(abs)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	if len(m.Files) == 0 {
		return errdef.New(errdef.CodeManifest, "%s: no files declared", m.name())
	}
	seen := make(map[string]int, len(m.Files))
	for i, e := range m.Files {
		p := strings.TrimSpace(e.Path)
		if p == "" {
			return errdef.New(errdef.CodeManifest, "%s: entry %d has no path", m.name(), i+1)
		}
		hasContent := e.Content != nil
		hasSource := strings.TrimSpace(e.Source) != ""
		if hasContent == hasSource {
			return errdef.New(errdef.CodeManifest, "%s: %s needs exactly one of content or source", m.name(), p)
		}
		if _, err := safeJoin("", normalizePath(p)); err != nil {
			return errdef.Wrap(errdef.CodeManifest, err, "%s", m.name())
		}
		key := filepath.Clean(normalizePath(p))
		if prev, dup := seen[key]; dup {
			return errdef.New(errdef.CodeManifest, "%s: %s declared twice (entries %d and %d)", m.name(), p, prev, i+1)
		}
		seen[key] = i + 1
	}
	return nil
}

// Root is the absolute directory entry paths are relative to.
func (m *Manifest) Root() string {
	base := strings.TrimSpace(m.BasePath)
	switch {
	case base == "":
		return m.Dir
	case filepath.IsAbs(base):
		return filepath.Clean(base)
	default:
		return filepath.Join(m.Dir, normalizePath(base))
	}
}

// Resolve returns every entry with its absolute target path and content.
// Sources are read relative to the manifest directory.
func (m *Manifest) Resolve() ([]File, error) {
	root := m.Root()
	out := make([]File, 0, len(m.Files))
	for _, e := range m.Files {
		target, err := safeJoin(root, normalizePath(e.Path))
		if err != nil {
			return nil, errdef.Wrap(errdef.CodeManifest, err, "%s", m.name())
		}

		var content []byte
		if e.Content != nil {
			content = []byte(*e.Content)
		} else {
			src := normalizePath(strings.TrimSpace(e.Source))
			if !filepath.IsAbs(src) {
				src = filepath.Join(m.Dir, src)
			}
			content, err = os.ReadFile(src)
			if err != nil {
				return nil, errdef.Wrap(errdef.CodeManifest, err, "%s: source for %s", m.name(), e.Path)
			}
		}
		out = append(out, File{Path: target, Content: content})
	}
	return out, nil
}

func (m *Manifest) name() string {
	if m.Path == "" {
		return "manifest"
	}
	return filepath.Base(m.Path)
}

func normalizePath(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(strings.TrimSpace(path), "\\", "/"))
}

// safeJoin keeps rel inside baseDir.
func safeJoin(baseDir, rel string) (string, error) {
	rel = filepath.Clean(rel)
	if rel == "" || rel == "." || rel == ".." {
		return "", fmt.Errorf("invalid file path %q", rel)
	}
	if filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("invalid file path %q: must be relative", rel)
	}
	if strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid file path %q: escapes the base path", rel)
	}
	return filepath.Join(baseDir, rel), nil
}
