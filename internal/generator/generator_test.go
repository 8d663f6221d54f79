package generator

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/errdef"
)

const appManifest = `base_path: out
files:
  - path: models/user.go
    content: "package models\n\ntype User struct{}\n"
  - path: models/post.go
    content: "package models\n\ntype Post struct{}\n"
  - path: README.md
    content: "# app\n"
`

func setup(t *testing.T) (dir, manifestPath string) {
	t.Helper()
	dir = t.TempDir()
	manifestPath = filepath.Join(dir, "app.gen.yaml")
	if err := os.WriteFile(manifestPath, []byte(appManifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	out := filepath.Join(dir, "out")
	if err := os.MkdirAll(filepath.Join(out, "models"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// post.go differs, README.md is identical, user.go is new.
	if err := os.WriteFile(filepath.Join(out, "models", "post.go"), []byte("package models\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(out, "README.md"), []byte("# app\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir, manifestPath
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestFilesClassifiesManifest(t *testing.T) {
	_, path := setup(t)
	files, err := New(codefile.Opt{}).Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected three files, got %d", len(files))
	}

	want := []struct {
		rel string
		op  codefile.Operation
	}{
		{filepath.Join("models", "user.go"), codefile.OpNew},
		{filepath.Join("models", "post.go"), codefile.OpOverwrite},
		{"README.md", codefile.OpSkip},
	}
	for i, w := range want {
		if files[i].RelativePath() != w.rel {
			t.Fatalf("file %d: expected %q, got %q", i, w.rel, files[i].RelativePath())
		}
		if files[i].Operation() != w.op {
			t.Fatalf("file %d: expected %s, got %s", i, w.op, files[i].Operation())
		}
	}

	sum := Summarize(files)
	if sum != (Summary{New: 1, Overwrite: 1, Skip: 1}) || sum.Total() != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.String() != "1 new, 1 overwrite, 1 skip" {
		t.Fatalf("unexpected summary text %q", sum.String())
	}
}

func TestSaveWithoutAnswersKeepsOverwrites(t *testing.T) {
	dir, path := setup(t)
	g := New(codefile.Opt{})
	files, err := g.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	rep, err := g.Save(files, SaveOpt{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rep.Count(StatusGenerated) != 1 || rep.Count(StatusUnchecked) != 1 || rep.Count(StatusIdentical) != 1 {
		t.Fatalf("unexpected report %+v", rep.Results)
	}
	if rep.Written() != 1 {
		t.Fatalf("expected one written file, got %d", rep.Written())
	}
	if got := read(t, filepath.Join(dir, "out", "models", "post.go")); got != "package models\n" {
		t.Fatalf("unchecked overwrite must not be written, got %q", got)
	}
	if got := read(t, filepath.Join(dir, "out", "models", "user.go")); !strings.Contains(got, "type User") {
		t.Fatalf("new file not written, got %q", got)
	}
}

func TestSaveWithAnswer(t *testing.T) {
	dir, path := setup(t)
	g := New(codefile.Opt{})
	files, err := g.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	answers, err := Answers(files, []string{"models/post.go"})
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if !answers[files[1].ID()] {
		t.Fatalf("expected answer keyed by id")
	}

	rep, err := g.Save(files, SaveOpt{Answers: answers})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rep.Count(StatusOverwrote) != 1 {
		t.Fatalf("expected one overwrite, got %+v", rep.Results)
	}
	if got := read(t, filepath.Join(dir, "out", "models", "post.go")); !strings.Contains(got, "type Post") {
		t.Fatalf("accepted overwrite not written, got %q", got)
	}
}

func TestSaveDryRun(t *testing.T) {
	dir, path := setup(t)
	g := New(codefile.Opt{})
	files, err := g.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	rep, err := g.Save(files, SaveOpt{Force: true, DryRun: true})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rep.Written() != 2 {
		t.Fatalf("expected two planned writes, got %d", rep.Written())
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "models", "user.go")); err == nil {
		t.Fatalf("dry run must not write")
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, rep); err != nil {
		t.Fatalf("report: %v", err)
	}
	want := strings.Join([]string{
		"dry-run: generated " + filepath.Join("models", "user.go"),
		"dry-run: overwrote " + filepath.Join("models", "post.go"),
		"dry-run: skipped (identical) README.md",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("expected report:\n%s\ngot:\n%s", want, buf.String())
	}
}

type denyFS struct{ codefile.OSFS }

func (denyFS) Rename(string, string) error                { return fs.ErrPermission }
func (denyFS) WriteFile(string, []byte, fs.FileMode) error { return fs.ErrPermission }

func TestSaveReportsFailures(t *testing.T) {
	_, path := setup(t)
	g := New(codefile.Opt{FS: denyFS{}})
	files, err := g.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	rep, err := g.Save(files, SaveOpt{Force: true})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errdef.Is(err, errdef.CodeGenerator) {
		t.Fatalf("expected generator code, got %v", err)
	}
	var se *codefile.SaveError
	if !errors.As(err, &se) || se.Failure != codefile.FailFileWrite {
		t.Fatalf("expected joined save errors, got %v", err)
	}
	if rep.Count(StatusFailed) != 2 || rep.Count(StatusIdentical) != 1 {
		t.Fatalf("report must cover every file, got %+v", rep.Results)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, rep); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(buf.String(), "failed "+filepath.Join("models", "user.go")+": unable to write the file") {
		t.Fatalf("unexpected report %q", buf.String())
	}
}

func TestFindAndAnswers(t *testing.T) {
	_, path := setup(t)
	files, err := New(codefile.Opt{}).Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	byID, ok := Find(files, files[2].ID())
	if !ok || byID != files[2] {
		t.Fatalf("expected lookup by id")
	}
	byAbs, ok := Find(files, files[0].Path())
	if !ok || byAbs != files[0] {
		t.Fatalf("expected lookup by absolute path")
	}
	if _, ok := Find(files, "missing.go"); ok {
		t.Fatalf("unexpected match")
	}
	if _, err := Answers(files, []string{"typo.go"}); err == nil {
		t.Fatalf("expected error for unknown answer")
	}
}

func TestFilesKeepsConfiguredBasePath(t *testing.T) {
	dir, path := setup(t)
	files, err := New(codefile.Opt{BasePath: dir}).Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if files[0].RelativePath() != filepath.Join("out", "models", "user.go") {
		t.Fatalf("expected path relative to configured base, got %q", files[0].RelativePath())
	}
}
