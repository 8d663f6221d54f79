package codefile

import (
	"path/filepath"

	udiff "github.com/aymanbagabas/go-udiff"
)

// Diff returns a unified line diff from the file on disk to the proposed
// content. Only overwrite files have one; new and skip files return an
// empty diff. Binary files return false.
func (f *CodeFile) Diff() (string, bool) {
	if f.diffBinary() {
		return "", false
	}
	if f.op != OpOverwrite {
		return "", true
	}
	rel := filepath.ToSlash(f.RelativePath())
	return udiff.Unified("a/"+rel, "b/"+rel, string(f.existing), string(f.content)), true
}
