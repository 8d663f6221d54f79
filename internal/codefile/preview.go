package codefile

import (
	"bytes"
	"html"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/gencode/internal/binaryview"
)

const plaintextLexer = "plaintext"

// Binary reports whether the proposed content is treated as binary. Binary
// files have no preview.
func (f *CodeFile) Binary() bool {
	return f.o.Classifier.Binary(f.path, f.content)
}

// diffBinary also looks at the bytes on disk: a diff needs both sides as
// text.
func (f *CodeFile) diffBinary() bool {
	if f.Binary() {
		return true
	}
	return f.op == OpOverwrite && f.o.Classifier.Binary(f.path, f.existing)
}

// Preview renders the content as HTML for display. It returns false for
// binary files. Files with a known lexer are highlighted, Markdown is
// rendered when enabled, and anything else is escaped with <br /> line
// breaks.
func (f *CodeFile) Preview() (string, bool) {
	if f.Binary() {
		return "", false
	}

	text := f.text()
	switch strings.ToLower(f.Type()) {
	case "md", "markdown":
		if f.o.RenderMarkdown {
			if out, ok := f.renderMarkdown(text); ok {
				return out, true
			}
		}
	}
	if out, ok := f.highlight(text); ok {
		return out, true
	}
	return nl2br(html.EscapeString(text)), true
}

func (f *CodeFile) text() string {
	meta := binaryview.Analyze(f.content, f.path)
	out, err := binaryview.DecodeText(f.content, meta.Charset)
	if err != nil {
		f.o.Logger.Debug("decode preview", zap.String("path", f.path), zap.Error(err))
		return string(f.content)
	}
	return out
}

func (f *CodeFile) highlight(text string) (string, bool) {
	lexer := lexers.Match(filepath.Base(f.path))
	if lexer == nil || lexer.Config().Name == plaintextLexer {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		f.o.Logger.Debug("tokenise preview", zap.String("path", f.path), zap.Error(err))
		return "", false
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))
	if err := formatter.Format(&buf, styles.Get(f.o.Style), iterator); err != nil {
		f.o.Logger.Debug("format preview", zap.String("path", f.path), zap.Error(err))
		return "", false
	}
	return buf.String(), true
}

func (f *CodeFile) renderMarkdown(text string) (string, bool) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		f.o.Logger.Debug("render markdown", zap.String("path", f.path), zap.Error(err))
		return "", false
	}
	return buf.String(), true
}

// nl2br inserts "<br />" before every line break, keeping the break itself.
// "\r\n" and "\n\r" count as one break.
func nl2br(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\n' && c != '\r' {
			b.WriteByte(c)
			continue
		}
		b.WriteString("<br />")
		b.WriteByte(c)
		if i+1 < len(s) && (s[i+1] == '\n' || s[i+1] == '\r') && s[i+1] != c {
			i++
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
