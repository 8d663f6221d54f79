// Package codefile models a single file emitted by a code generator: where
// it goes, what it should contain, and what saving it would do to the disk.
package codefile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/gencode/internal/errdef"
)

const (
	DefaultDirMode  fs.FileMode = 0o777
	DefaultFileMode fs.FileMode = 0o666
	DefaultStyle                = "github"

	unknownType = "unknown"
)

// idNamespace scopes the name-based IDs so they never collide with UUIDs
// derived for other purposes.
var idNamespace = uuid.MustParse("6f1c1f4e-2d0a-4c55-9b53-3c0f7d0a9e21")

// Opt carries the host settings a code file needs. Zero values fall back to
// the package defaults.
type Opt struct {
	BasePath       string
	DirMode        fs.FileMode
	FileMode       fs.FileMode
	FS             FS
	Classifier     Classifier
	Style          string
	RenderMarkdown bool
	Logger         *zap.Logger
}

func withDefaults(o Opt) Opt {
	o.BasePath = strings.TrimSpace(o.BasePath)
	if o.BasePath != "" {
		o.BasePath = trimSeparators(normalizePath(o.BasePath))
	}
	if o.DirMode == 0 {
		o.DirMode = DefaultDirMode
	}
	if o.FileMode == 0 {
		o.FileMode = DefaultFileMode
	}
	if o.FS == nil {
		o.FS = OSFS{}
	}
	if o.Classifier == nil {
		o.Classifier = DefaultClassifier()
	}
	o.Style = strings.TrimSpace(o.Style)
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// CodeFile is one generated file. It is built once per generation and is
// read-only afterwards.
type CodeFile struct {
	id       string
	path     string
	content  []byte
	op       Operation
	existing []byte
	o        Opt
}

// New builds a code file for path and classifies it against the file that
// currently sits there. The existing file is read exactly once.
func New(path string, content []byte, o Opt) (*CodeFile, error) {
	o = withDefaults(o)
	if path == "" {
		return nil, errdef.New(errdef.CodeFilesystem, "codefile: empty path")
	}

	p := normalizePath(path)
	f := &CodeFile{
		id:      NewID(p),
		path:    p,
		content: content,
		o:       o,
	}

	data, err := o.FS.ReadFile(p)
	switch {
	case err == nil && bytes.Equal(data, content):
		f.op = OpSkip
	case err == nil:
		f.op = OpOverwrite
		f.existing = data
	case isMissing(err):
		f.op = OpNew
	default:
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "codefile: read %s", p)
	}

	o.Logger.Debug("code file classified",
		zap.String("path", p),
		zap.String("operation", f.op.String()),
		zap.Int("size", len(content)),
	)
	return f, nil
}

// NewID returns the stable identifier for a normalized path.
func NewID(path string) string {
	return uuid.NewMD5(idNamespace, []byte(path)).String()
}

func (f *CodeFile) ID() string             { return f.id }
func (f *CodeFile) Path() string           { return f.path }
func (f *CodeFile) Content() []byte        { return f.content }
func (f *CodeFile) Operation() Operation   { return f.op }
func (f *CodeFile) BasePath() string       { return f.o.BasePath }
func (f *CodeFile) DirMode() fs.FileMode   { return f.o.DirMode }
func (f *CodeFile) FileMode() fs.FileMode  { return f.o.FileMode }
func (f *CodeFile) Classifier() Classifier { return f.o.Classifier }

// RelativePath strips the base path for display. Paths outside the base
// path are returned as is.
func (f *CodeFile) RelativePath() string {
	base := f.o.BasePath
	if base == "" {
		return f.path
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	if len(f.path) > len(prefix) && strings.HasPrefix(f.path, prefix) {
		return f.path[len(prefix):]
	}
	return f.path
}

// Type is the file extension without the dot, e.g. "php" or "txt".
func (f *CodeFile) Type() string {
	return fileType(f.path)
}

func fileType(path string) string {
	ext := filepath.Ext(filepath.Base(path))
	if len(ext) <= 1 {
		return unknownType
	}
	return ext[1:]
}

func normalizePath(path string) string {
	sep := string(os.PathSeparator)
	return strings.NewReplacer("/", sep, "\\", sep).Replace(path)
}

// trimSeparators drops trailing separators but keeps a bare root.
func trimSeparators(path string) string {
	trimmed := strings.TrimRight(path, string(os.PathSeparator))
	if trimmed == "" || strings.HasSuffix(trimmed, ":") {
		return path[:len(trimmed)+1]
	}
	return trimmed
}

// isMissing treats a blocked parent the same as a missing file: there is
// nothing to compare against, and Save reports the real problem.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
