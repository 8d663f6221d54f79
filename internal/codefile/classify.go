package codefile

import (
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/gencode/internal/binaryview"
)

// DefaultBinaryExtensions are always treated as binary, whatever the bytes
// look like.
var DefaultBinaryExtensions = []string{"jpg", "gif", "png", "exe"}

// Classifier decides whether a file can be previewed and diffed as text.
type Classifier interface {
	Binary(path string, content []byte) bool
}

type ClassifierFunc func(path string, content []byte) bool

func (fn ClassifierFunc) Binary(path string, content []byte) bool { return fn(path, content) }

// ExtensionClassifier matches file extensions case-insensitively, with or
// without the leading dot.
type ExtensionClassifier struct {
	exts map[string]struct{}
}

func NewExtensionClassifier(exts ...string) ExtensionClassifier {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		set[ext] = struct{}{}
	}
	return ExtensionClassifier{exts: set}
}

func (c ExtensionClassifier) Binary(path string, _ []byte) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := c.exts[ext]
	return ok
}

// SniffClassifier looks at the bytes: MIME type by extension first, then a
// printable-rune check of the head of the content.
type SniffClassifier struct{}

func (SniffClassifier) Binary(path string, content []byte) bool {
	return binaryview.Analyze(content, path).Kind == binaryview.KindBinary
}

// AnyClassifier reports binary when any member does.
type AnyClassifier []Classifier

func (cs AnyClassifier) Binary(path string, content []byte) bool {
	for _, c := range cs {
		if c != nil && c.Binary(path, content) {
			return true
		}
	}
	return false
}

// DefaultClassifier combines an extension list with content sniffing. An
// empty list means DefaultBinaryExtensions.
func DefaultClassifier(exts ...string) Classifier {
	if len(exts) == 0 {
		exts = DefaultBinaryExtensions
	}
	return AnyClassifier{NewExtensionClassifier(exts...), SniffClassifier{}}
}
