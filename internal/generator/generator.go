// Package generator turns manifests into code files and saves them as a
// batch, honouring per-file overwrite answers.
package generator

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/errdef"
	"github.com/unkn0wn-root/gencode/internal/manifest"
)

type Generator struct {
	opt codefile.Opt
	log *zap.Logger
}

// New returns a generator that builds every code file with opt. An empty
// opt.BasePath is replaced per manifest by the manifest root.
func New(opt codefile.Opt) *Generator {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
		opt.Logger = log
	}
	return &Generator{opt: opt, log: log}
}

// Files builds one code file per manifest entry, in manifest order.
func (g *Generator) Files(m *manifest.Manifest) ([]*codefile.CodeFile, error) {
	resolved, err := m.Resolve()
	if err != nil {
		return nil, err
	}

	opt := g.opt
	if opt.BasePath == "" {
		opt.BasePath = m.Root()
	}

	files := make([]*codefile.CodeFile, 0, len(resolved))
	for _, r := range resolved {
		f, err := codefile.New(r.Path, r.Content, opt)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	g.log.Debug("manifest loaded",
		zap.String("manifest", m.Path),
		zap.String("root", m.Root()),
		zap.Int("files", len(files)),
	)
	return files, nil
}

// Load is Files over the manifest at path.
func (g *Generator) Load(path string) ([]*codefile.CodeFile, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return g.Files(m)
}

type SaveOpt struct {
	// Answers marks overwrite files, by ID, that may replace the disk copy.
	Answers map[string]bool
	// Force accepts every overwrite.
	Force  bool
	DryRun bool
}

func (o SaveOpt) accepts(f *codefile.CodeFile) bool {
	return o.Force || o.Answers[f.ID()]
}

// Save writes new files and the accepted overwrite files. Every file gets a
// line in the report, failures included. The error is non-nil when any file
// failed.
func (g *Generator) Save(files []*codefile.CodeFile, o SaveOpt) (Report, error) {
	rep := Report{DryRun: o.DryRun, Results: make([]Result, 0, len(files))}
	var errs []error

	for _, f := range files {
		res := Result{File: f}
		switch f.Operation() {
		case codefile.OpSkip:
			res.Status = StatusIdentical
		case codefile.OpOverwrite:
			if !o.accepts(f) {
				res.Status = StatusUnchecked
				break
			}
			res.Status = StatusOverwrote
		default:
			res.Status = StatusGenerated
		}

		if !o.DryRun && (res.Status == StatusGenerated || res.Status == StatusOverwrote) {
			if err := f.Save(); err != nil {
				res.Status = StatusFailed
				res.Err = err
				errs = append(errs, err)
			}
		}
		rep.Results = append(rep.Results, res)
	}

	if len(errs) > 0 {
		return rep, errdef.Wrap(errdef.CodeGenerator, errors.Join(errs...), "%d of %d files failed", len(errs), len(files))
	}
	return rep, nil
}

// Find returns the file matching key by ID, relative path or absolute path.
func Find(files []*codefile.CodeFile, key string) (*codefile.CodeFile, bool) {
	clean := filepath.Clean(filepath.FromSlash(key))
	for _, f := range files {
		if f.ID() == key || f.RelativePath() == clean || f.Path() == clean {
			return f, true
		}
	}
	return nil, false
}

// Answers maps keys (IDs or paths) onto an answers set. Unknown keys are an
// error so a typo never silently skips a file.
func Answers(files []*codefile.CodeFile, keys []string) (map[string]bool, error) {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		f, ok := Find(files, k)
		if !ok {
			return nil, errdef.New(errdef.CodeGenerator, "no generated file matches %q", k)
		}
		out[f.ID()] = true
	}
	return out, nil
}

type Summary struct {
	New       int
	Overwrite int
	Skip      int
}

func (s Summary) Total() int { return s.New + s.Overwrite + s.Skip }

func (s Summary) String() string {
	return fmt.Sprintf("%d new, %d overwrite, %d skip", s.New, s.Overwrite, s.Skip)
}

func Summarize(files []*codefile.CodeFile) Summary {
	var s Summary
	for _, f := range files {
		switch f.Operation() {
		case codefile.OpNew:
			s.New++
		case codefile.OpOverwrite:
			s.Overwrite++
		case codefile.OpSkip:
			s.Skip++
		}
	}
	return s
}

// WriteReport prints one line per result, prefixed in dry runs.
func WriteReport(w io.Writer, rep Report) error {
	prefix := ""
	if rep.DryRun {
		prefix = "dry-run: "
	}
	for _, r := range rep.Results {
		line := fmt.Sprintf("%s%s %s", prefix, r.Status, r.File.RelativePath())
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("report %s: %w", r.File.RelativePath(), err)
		}
	}
	return nil
}
