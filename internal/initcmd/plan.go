package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/gencode/internal/codefile"
)

// plan classifies every template file before anything is written, so a
// conflict leaves the directory untouched.
func (r *runner) plan() ([]*codefile.CodeFile, error) {
	var files []*codefile.CodeFile
	var conflicts []string

	for _, f := range r.t.Files {
		rel := normalizeTemplatePath(f.Path)
		abs, err := safeJoin(r.dir, rel)
		if err != nil {
			return nil, err
		}

		info, err := r.o.Files.FS.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			conflicts = append(conflicts, rel+" (dir)")
			continue
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("init: stat %s: %w", rel, err)
		}

		cf, err := codefile.New(abs, []byte(f.Data), r.o.Files)
		if err != nil {
			return nil, fmt.Errorf("init: %s: %w", rel, err)
		}
		if cf.Operation() == codefile.OpOverwrite && !r.o.Force {
			conflicts = append(conflicts, rel)
			continue
		}
		files = append(files, cf)
	}

	if len(conflicts) > 0 {
		return nil, fmt.Errorf(
			"init: files already exist: %s (use --force to overwrite)",
			strings.Join(conflicts, ", "),
		)
	}
	return files, nil
}

func (r *runner) apply(files []*codefile.CodeFile) error {
	for _, f := range files {
		act := actionFor(f.Operation())
		if !r.o.DryRun {
			if err := f.Save(); err != nil {
				return fmt.Errorf("init: %w", err)
			}
		}
		if err := r.report(act, f.RelativePath()); err != nil {
			return err
		}
	}
	return nil
}

func normalizeTemplatePath(path string) string {
	return filepath.FromSlash(strings.TrimSpace(path))
}

func safeJoin(baseDir, rel string) (string, error) {
	rel = filepath.Clean(rel)
	if rel == "" || rel == "." || rel == ".." {
		return "", fmt.Errorf("init: invalid template path %q", rel)
	}
	if filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("init: invalid template path %q", rel)
	}
	if strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("init: invalid template path %q", rel)
	}
	return filepath.Join(baseDir, rel), nil
}
