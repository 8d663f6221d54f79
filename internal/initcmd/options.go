package initcmd

import (
	"io"
	"strings"

	"github.com/unkn0wn-root/gencode/internal/codefile"
)

// Opt describes how the init command should run.
// Fields are plain values so callers can map flags directly.
type Opt struct {
	Dir         string
	Template    string
	Force       bool
	DryRun      bool
	NoGitignore bool
	List        bool
	Out         io.Writer

	// Files configures the code files the starter set is written through.
	// Zero modes fall back to 0755 for directories and 0644 for files.
	Files codefile.Opt
}

func withDefaults(opt Opt) Opt {
	opt.Dir = strings.TrimSpace(opt.Dir)
	if opt.Dir == "" {
		opt.Dir = DefaultDir
	}
	opt.Template = normalizeTemplateName(opt.Template)
	if opt.Template == "" {
		opt.Template = DefaultTemplate
	}
	if opt.Files.DirMode == 0 {
		opt.Files.DirMode = dirPerm
	}
	if opt.Files.FileMode == 0 {
		opt.Files.FileMode = filePerm
	}
	if opt.Files.FS == nil {
		opt.Files.FS = codefile.OSFS{}
	}
	return opt
}

func normalizeTemplateName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
