package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unkn0wn-root/gencode/internal/errdef"
)

func writeManifest(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const yamlManifest = `base_path: out
files:
  - path: models/user.go
    content: |
      package models
  - path: empty.txt
    content: ""
  - path: assets/logo.png
    source: fixtures/logo.png
`

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "app.gen.yaml", yamlManifest)
	writeManifest(t, dir, "fixtures/logo.png", "\x89PNG")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Root() != filepath.Join(dir, "out") {
		t.Fatalf("unexpected root %q", m.Root())
	}

	files, err := m.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected three files, got %d", len(files))
	}
	if files[0].Path != filepath.Join(dir, "out", "models", "user.go") {
		t.Fatalf("unexpected target %q", files[0].Path)
	}
	if string(files[0].Content) != "package models\n" {
		t.Fatalf("unexpected content %q", files[0].Content)
	}
	if len(files[1].Content) != 0 {
		t.Fatalf("expected empty file, got %q", files[1].Content)
	}
	if string(files[2].Content) != "\x89PNG" {
		t.Fatalf("expected source bytes, got %q", files[2].Content)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "app.gen.toml", `
[[files]]
path = "cmd/main.go"
content = """
package main
"""
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Root() != dir {
		t.Fatalf("root should default to the manifest dir, got %q", m.Root())
	}
	files, err := m.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if files[0].Path != filepath.Join(dir, "cmd", "main.go") {
		t.Fatalf("unexpected target %q", files[0].Path)
	}
	if string(files[0].Content) != "package main\n" {
		t.Fatalf("unexpected content %q", files[0].Content)
	}
}

func TestLoadAbsoluteBasePath(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	path := writeManifest(t, dir, "abs.gen.yaml", "base_path: "+filepath.ToSlash(target)+"\nfiles:\n  - path: a.txt\n    content: a\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Root() != filepath.Clean(target) {
		t.Fatalf("expected absolute base path, got %q", m.Root())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"no files":        "base_path: x\n",
		"missing path":    "files:\n  - content: x\n",
		"both":            "files:\n  - path: a\n    content: x\n    source: y\n",
		"neither":         "files:\n  - path: a\n",
		"escape":          "files:\n  - path: ../a\n    content: x\n",
		"absolute":        "files:\n  - path: /etc/passwd\n    content: x\n",
		"duplicate":       "files:\n  - path: a/b.go\n    content: x\n  - path: a//b.go\n    content: y\n",
		"unknown field":   "files:\n  - path: a\n    content: x\n    mode: 0644\n",
		"malformed input": "files: [\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), "bad.gen.yaml", data)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errdef.Is(err, errdef.CodeManifest) {
				t.Fatalf("expected manifest code, got %v", err)
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "app.json", "{}")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported manifest format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestResolveMissingSource(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "app.gen.yaml", "files:\n  - path: a.png\n    source: nope.png\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := m.Resolve(); err == nil {
		t.Fatalf("expected missing source error")
	}
}
