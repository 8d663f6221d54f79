package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/unkn0wn-root/gencode/internal/codefile"
)

type runner struct {
	o   Opt
	t   Template
	dir string
}

func (r *runner) run() error {
	if err := r.ensureDir(); err != nil {
		return err
	}
	files, err := r.plan()
	if err != nil {
		return err
	}
	if err := r.apply(files); err != nil {
		return err
	}
	if r.t.AddGitignore && !r.o.NoGitignore {
		return r.writeGitignore()
	}
	return nil
}

// ensureDir only validates the target. Missing directories are created by
// the first code file saved into them, with the configured mode.
func (r *runner) ensureDir() error {
	abs, err := filepath.Abs(r.o.Dir)
	if err != nil {
		return fmt.Errorf("init: resolve %s: %w", r.o.Dir, err)
	}
	r.dir = abs
	r.o.Files.BasePath = abs

	info, err := r.o.Files.FS.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("init: %s is not a directory", r.o.Dir)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("init: stat %s: %w", r.o.Dir, err)
	}
	return nil
}

func (r *runner) report(act Action, path string) error {
	if r.o.Out == nil || act == "" {
		return nil
	}
	prefix := ""
	if r.o.DryRun {
		prefix = "dry-run: "
	}
	if _, err := fmt.Fprintf(r.o.Out, "%s%s %s\n", prefix, act, path); err != nil {
		return fmt.Errorf("init: report %s %s: %w", act, path, err)
	}
	return nil
}

func actionFor(op codefile.Operation) Action {
	switch op {
	case codefile.OpNew:
		return ActionCreate
	case codefile.OpOverwrite:
		return ActionOverwrite
	default:
		return ActionSkip
	}
}
