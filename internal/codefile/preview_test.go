package codefile

import (
	"path/filepath"
	"strings"
	"testing"
)

func newFile(t *testing.T, name, content string, o Opt) *CodeFile {
	t.Helper()
	f, err := New(filepath.Join(t.TempDir(), name), []byte(content), o)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return f
}

func TestPreviewBinaryExtension(t *testing.T) {
	for _, name := range []string{"x.png", "x.JPG", "x.gif", "setup.exe"} {
		f := newFile(t, name, "plain text content\n", Opt{})
		if out, ok := f.Preview(); ok || out != "" {
			t.Fatalf("%s: expected no preview, got %q", name, out)
		}
		if out, ok := f.Diff(); ok || out != "" {
			t.Fatalf("%s: expected no diff, got %q", name, out)
		}
	}
}

func TestPreviewBinaryContent(t *testing.T) {
	f := newFile(t, "blob.dat", "\x00\x01\x02\xff\xfe", Opt{})
	if _, ok := f.Preview(); ok {
		t.Fatalf("expected sniffed binary to have no preview")
	}
}

func TestPreviewCustomClassifier(t *testing.T) {
	never := ClassifierFunc(func(string, []byte) bool { return false })
	f := newFile(t, "x.png", "not really an image", Opt{Classifier: never})
	out, ok := f.Preview()
	if !ok {
		t.Fatalf("expected preview with injected classifier")
	}
	if !strings.Contains(out, "not really an image") {
		t.Fatalf("unexpected preview %q", out)
	}
}

func TestPreviewHighlightsSource(t *testing.T) {
	f := newFile(t, "main.go", "package main\n\nfunc main() {}\n", Opt{})
	out, ok := f.Preview()
	if !ok {
		t.Fatalf("expected preview")
	}
	if !strings.Contains(out, "<pre") || !strings.Contains(out, "<span") {
		t.Fatalf("expected highlighted html, got %q", out)
	}
	if !strings.Contains(out, "package") {
		t.Fatalf("expected source tokens in output")
	}
}

func TestPreviewHighlightsPHP(t *testing.T) {
	f := newFile(t, "script.php", "<?php\necho 'hi';\n", Opt{})
	out, ok := f.Preview()
	if !ok || !strings.Contains(out, "<span") {
		t.Fatalf("expected highlighted php, got %q", out)
	}
}

func TestPreviewPlainTextEscaped(t *testing.T) {
	f := newFile(t, "notes.txt", "a < b & c\nnext line\r\nlast", Opt{})
	out, ok := f.Preview()
	if !ok {
		t.Fatalf("expected preview")
	}
	want := "a &lt; b &amp; c<br />\nnext line<br />\r\nlast"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestPreviewMarkdown(t *testing.T) {
	src := "# Title\n\nSome *text*.\n"

	rendered := newFile(t, "README.md", src, Opt{RenderMarkdown: true})
	out, ok := rendered.Preview()
	if !ok {
		t.Fatalf("expected preview")
	}
	if !strings.Contains(out, "<h1>Title</h1>") || !strings.Contains(out, "<em>text</em>") {
		t.Fatalf("expected rendered markdown, got %q", out)
	}

	raw := newFile(t, "README.md", src, Opt{})
	out, ok = raw.Preview()
	if !ok {
		t.Fatalf("expected preview")
	}
	if strings.Contains(out, "<h1>") {
		t.Fatalf("markdown must not render unless enabled")
	}
}

func TestNl2br(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"a":          "a",
		"a\nb":       "a<br />\nb",
		"a\r\nb":     "a<br />\r\nb",
		"a\n\rb":     "a<br />\n\rb",
		"a\n\nb":     "a<br />\n<br />\nb",
		"a\rb":       "a<br />\rb",
		"end\n":      "end<br />\n",
		"\r\n\r\n":   "<br />\r\n<br />\r\n",
		"tab\tstays": "tab\tstays",
	}
	for in, want := range cases {
		if got := nl2br(in); got != want {
			t.Fatalf("nl2br(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestClassifiers(t *testing.T) {
	ext := NewExtensionClassifier(".PNG", " svg ", "")
	if !ext.Binary("a/b.png", nil) || !ext.Binary("a/b.SVG", nil) {
		t.Fatalf("expected extension matches")
	}
	if ext.Binary("a/README", nil) || ext.Binary("a/b.go", nil) {
		t.Fatalf("unexpected extension match")
	}

	def := DefaultClassifier()
	if !def.Binary("x.exe", []byte("text")) {
		t.Fatalf("default list must include exe")
	}
	if def.Binary("x.go", []byte("package x\n")) {
		t.Fatalf("go source is text")
	}
	if !def.Binary("x.go", []byte{0, 1, 2, 0xff}) {
		t.Fatalf("binary bytes must be sniffed")
	}

	custom := DefaultClassifier("pdf")
	if custom.Binary("x.png", []byte("text")) {
		t.Fatalf("custom list replaces the defaults")
	}
	if !custom.Binary("x.pdf", []byte("text")) {
		t.Fatalf("expected pdf in custom list")
	}
}
