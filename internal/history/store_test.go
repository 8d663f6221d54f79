package history

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/unkn0wn-root/gencode/internal/codefile"
	"github.com/unkn0wn-root/gencode/internal/errdef"
	"github.com/unkn0wn-root/gencode/internal/generator"
)

func entryAt(id string, ts time.Time, paths ...string) Entry {
	e := Entry{ID: id, SavedAt: ts, Manifest: "app.gen.yaml"}
	for _, p := range paths {
		e.Files = append(e.Files, FileRecord{ID: codefile.NewID(p), Path: p, Status: generator.StatusGenerated})
	}
	return e
}

func TestStoreAppendPersistsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	s := NewStore(path, 0)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Append(entryAt("1", base, "/out/a.go")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(entryAt("2", base.Add(time.Minute), "/out/b.go")); err != nil {
		t.Fatalf("append: %v", err)
	}

	reloaded := NewStore(path, 0)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := reloaded.Entries()
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "1" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("temp file left behind")
	}
}

func TestStoreBounded(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName), 2)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"1", "2", "3"} {
		if err := s.Append(entryAt(id, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got := s.Entries()
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "2" {
		t.Fatalf("expected the two newest entries, got %+v", got)
	}
}

func TestStoreByFileAndDelete(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), FileName), 10)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range []Entry{
		entryAt("1", base, "/out/a.go", "/out/b.go"),
		entryAt("2", base.Add(time.Second), "/out/b.go"),
		entryAt("3", base.Add(2*time.Second), "/out/c.go"),
	} {
		if err := s.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPath := s.ByFile("/out/b.go")
	if len(byPath) != 2 || byPath[0].ID != "2" {
		t.Fatalf("unexpected entries for path: %+v", byPath)
	}
	byID := s.ByFile(codefile.NewID("/out/a.go"))
	if len(byID) != 1 || byID[0].ID != "1" {
		t.Fatalf("unexpected entries for id: %+v", byID)
	}
	if all := s.ByFile(""); len(all) != 3 {
		t.Fatalf("empty key must return everything, got %d", len(all))
	}

	ok, err := s.Delete("2")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if ok, _ := s.Delete("missing"); ok {
		t.Fatalf("unexpected delete of missing id")
	}
	if got := s.ByFile("/out/b.go"); len(got) != 1 {
		t.Fatalf("expected one entry left for b.go, got %d", len(got))
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := NewStore(path, 0).Load()
	if !errdef.Is(err, errdef.CodeHistory) {
		t.Fatalf("expected history error, got %v", err)
	}
}

func TestFromReport(t *testing.T) {
	dir := t.TempDir()
	f, err := codefile.New(filepath.Join(dir, "a.go"), []byte("package a\n"), codefile.Opt{BasePath: dir})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	rep := generator.Report{Results: []generator.Result{
		{File: f, Status: generator.StatusGenerated},
		{File: f, Status: generator.StatusFailed, Err: fs.ErrPermission},
	}}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e := FromReport("app.gen.yaml", rep, now)
	if e.SavedAt != now || e.Manifest != "app.gen.yaml" || len(e.Files) != 2 {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.Files[0].ID != f.ID() || e.Files[0].Path != f.Path() {
		t.Fatalf("unexpected record %+v", e.Files[0])
	}
	if e.Files[1].Error != fs.ErrPermission.Error() {
		t.Fatalf("expected error text, got %q", e.Files[1].Error)
	}
	if e.Written() != 1 {
		t.Fatalf("expected one written file, got %d", e.Written())
	}
}
