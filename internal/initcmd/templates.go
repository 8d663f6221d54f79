package initcmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/config"
)

type File struct {
	Path string
	Data string
}

// Template is a named starter set that can write multiple files.
// AddGitignore controls whether the example output dir is added to
// .gitignore.
type Template struct {
	Name         string
	Description  string
	Files        []File
	AddGitignore bool
}

type TemplateStore interface {
	Find(name string) (Template, bool)
	List() []Template
	Names() []string
	Width() int
}

var configTOML = buildConfigTOML()

var templates = []Template{
	{
		Name:        "minimal",
		Description: describeTemplate(fileConfig),
		Files: []File{
			{Path: fileConfig, Data: configTOML},
		},
	},
	{
		Name:        "standard",
		Description: describeTemplate(fileConfig, fileManifest),
		Files: []File{
			{Path: fileConfig, Data: configTOML},
			{Path: fileManifest, Data: exampleManifest},
		},
		AddGitignore: true,
	},
}

// BuiltinTemplates serves the starter sets compiled into the binary.
type BuiltinTemplates struct{}

func (BuiltinTemplates) Find(name string) (Template, bool) {
	name = normalizeTemplateName(name)
	for _, t := range templates {
		if t.Name == name {
			return cloneTemplate(t), true
		}
	}
	return Template{}, false
}

func (BuiltinTemplates) List() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		out[i] = cloneTemplate(t)
	}
	return out
}

func (BuiltinTemplates) Names() []string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return names
}

// Width is the display width of the longest template name.
func (BuiltinTemplates) Width() int {
	w := 0
	for _, t := range templates {
		w = max(w, runewidth.StringWidth(t.Name))
	}
	return w
}

func describeTemplate(files ...string) string {
	return strings.Join(files, " + ")
}

func cloneTemplate(t Template) Template {
	if len(t.Files) == 0 {
		return t
	}
	files := make([]File, len(t.Files))
	copy(files, t.Files)
	t.Files = files
	return t
}

type configDoc struct {
	BasePath         string   `toml:"base_path" comment:"Stripped from displayed paths. Empty means the manifest directory."`
	NewDirMode       string   `toml:"new_dir_mode" comment:"Octal permissions for directories created for new files."`
	NewFileMode      string   `toml:"new_file_mode" comment:"Octal permissions for every written file."`
	Style            string   `toml:"style" comment:"Chroma style used by previews."`
	BinaryExtensions []string `toml:"binary_extensions" comment:"Files with these extensions are never previewed or diffed."`
	RenderMarkdown   bool     `toml:"render_markdown" comment:"Render .md previews as HTML instead of highlighting the source."`
	LogLevel         string   `toml:"log_level" comment:"debug, info, warn or error."`
}

func buildConfigTOML() string {
	d := config.Defaults()
	doc := configDoc{
		NewDirMode:       config.FormatMode(dirPerm),
		NewFileMode:      config.FormatMode(filePerm),
		Style:            d.Style,
		BinaryExtensions: codefile.DefaultBinaryExtensions,
		RenderMarkdown:   d.RenderMarkdown,
		LogLevel:         d.LogLevel,
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("initcmd: encode config template: %v", err))
	}
	return "# gencode settings. Environment variables (GENCODE_*) and flags win over this file.\n\n" + string(data)
}

const exampleManifest = `# Every file below is compared with the disk before anything is written:
# new files are created, identical ones skipped, and differing ones are only
# replaced when accepted with "gencode save --overwrite <path>" or --force.
base_path: ` + exampleOutDir + `
files:
  - path: cmd/hello/main.go
    content: |
      package main

      import "fmt"

      func main() { fmt.Println("hello from gencode") }
  - path: README.md
    content: |
      # hello

      Generated by gencode. Run "gencode diff example.gen.yaml" after editing
      this manifest to see what would change.
`
