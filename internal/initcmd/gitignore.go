package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/gencode/internal/codefile"
)

func (r *runner) writeGitignore() error {
	act, err := r.ensureGitignore(gitignoreEntry)
	if err != nil {
		return err
	}
	return r.report(act, gitignoreFile)
}

// ensureGitignore appends entry unless it is already listed. The existing
// file keeps its permissions.
func (r *runner) ensureGitignore(entry string) (Action, error) {
	p := filepath.Join(r.dir, gitignoreFile)
	data, err := r.o.Files.FS.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("init: read .gitignore: %w", err)
	}

	opt := r.o.Files
	if err == nil {
		if hasGitignoreEntry(string(data), entry) {
			return ActionSkip, nil
		}
		info, statErr := opt.FS.Stat(p)
		if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			return "", fmt.Errorf("init: stat .gitignore: %w", statErr)
		}
		if statErr == nil {
			opt.FileMode = info.Mode().Perm()
		}
	}

	f, err := codefile.New(p, []byte(appendGitignoreEntry(string(data), entry)), opt)
	if err != nil {
		return "", fmt.Errorf("init: .gitignore: %w", err)
	}
	act := ActionCreate
	if f.Operation() == codefile.OpOverwrite {
		act = ActionAppend
	}
	if r.o.DryRun {
		return act, nil
	}
	if err := f.Save(); err != nil {
		return "", fmt.Errorf("init: update .gitignore: %w", err)
	}
	return act, nil
}

func appendGitignoreEntry(data, entry string) string {
	if data == "" {
		return entry + "\n"
	}
	if data[len(data)-1] != '\n' {
		return data + "\n" + entry + "\n"
	}
	return data + entry + "\n"
}

// hasGitignoreEntry matches entry with or without a leading slash, and for
// directory entries with or without the trailing slash.
func hasGitignoreEntry(data, entry string) bool {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return true
	}
	bare := strings.TrimSuffix(entry, "/")
	for line := range strings.SplitSeq(data, "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		trim = strings.TrimPrefix(trim, "/")
		for _, cand := range []string{entry, bare} {
			if strings.HasPrefix(trim, cand) && trailingCommentOrEmpty(trim[len(cand):]) {
				return true
			}
		}
	}
	return false
}

func trailingCommentOrEmpty(rest string) bool {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return true
	}
	return strings.HasPrefix(rest, "#")
}
