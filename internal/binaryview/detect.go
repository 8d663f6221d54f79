package binaryview

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// Not "text/*" but source generators emit these all the time.
var textMIMESubstrings = []string{
	"json",
	"xml",
	"yaml",
	"toml",
	"html",
	"javascript",
	"ecmascript",
	"typescript",
	"graphql",
	"sql",
	"x-sh",
	"x-php",
}

type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

type Meta struct {
	Kind       Kind
	MIME       string
	Charset    string
	Size       int
	Printable  bool
	PreviewHex string
}

const (
	// Only the first KiB is scanned; binary formats show junk bytes early.
	printableSampleLimit = 1024

	// Allows a few stray bytes (BOM, odd line endings) in real text.
	printableThreshold = 0.95

	previewByteLimit = 96
)

// Analyze classifies a generated file from its name and bytes.
// The MIME type comes from the extension when known and from content
// sniffing otherwise.
func Analyze(body []byte, name string) Meta {
	mimeType, charsetLabel := parseContentType(ContentType(name, body))
	printable := isLikelyPrintable(body)
	kind := decideKind(mimeType, printable)

	return Meta{
		Kind:       kind,
		MIME:       mimeType,
		Charset:    charsetLabel,
		Size:       len(body),
		Printable:  printable,
		PreviewHex: HexPreview(trimPreview(body, previewByteLimit)),
	}
}

// ContentType resolves a media type for name, sniffing body when the
// extension is not registered.
func ContentType(name string, body []byte) string {
	if ext := filepath.Ext(name); ext != "" {
		if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
			return ct
		}
	}
	if len(body) == 0 {
		return ""
	}
	sample := trimPreview(body, 512)
	return http.DetectContentType(sample)
}

// DecodeText converts body to UTF-8 using charsetLabel. Invalid sequences
// are replaced rather than rejected.
func DecodeText(body []byte, charsetLabel string) (string, error) {
	label := strings.TrimSpace(strings.ToLower(charsetLabel))
	if label == "" {
		label = "utf-8"
	}

	reader, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("charset %s: %w", label, err)
	}

	decoded, err := ioReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(decoded), nil
}

// decideKind trusts a text MIME type first and falls back to byte
// inspection; extensions such as ".bin" or unknown sniff results may still
// hold plain text.
func decideKind(mimeType string, printable bool) Kind {
	if mimeType != "" && isTextMIME(mimeType) {
		return KindText
	}
	if printable {
		return KindText
	}
	return KindBinary
}

func parseContentType(value string) (mimeType, charsetLabel string) {
	if strings.TrimSpace(value) == "" {
		return "", ""
	}

	mType, params, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value)), ""
	}
	return strings.ToLower(mType), strings.ToLower(params["charset"])
}

func isTextMIME(mimeType string) bool {
	if mimeType == "" {
		return false
	}

	if strings.HasPrefix(mimeType, "text/") {
		return true
	}

	for _, marker := range textMIMESubstrings {
		if strings.Contains(mimeType, marker) {
			return true
		}
	}
	return false
}

// isLikelyPrintable rejects invalid UTF-8 outright and otherwise compares
// printable runes against the threshold.
func isLikelyPrintable(body []byte) bool {
	if len(body) == 0 {
		return true
	}

	sample := trimPreview(body, printableSampleLimit)

	printable := 0
	total := 0
	for len(sample) > 0 {
		r, size := utf8.DecodeRune(sample)
		if r == utf8.RuneError && size == 1 {
			// A multibyte rune cut by the sample limit is not binary.
			if len(sample) < utf8.UTFMax && len(body) > printableSampleLimit {
				break
			}
			return false
		}
		sample = sample[size:]
		total++
		if isAllowedRune(r) {
			printable++
		}
	}
	if total == 0 {
		return true
	}
	return float64(printable)/float64(total) >= printableThreshold
}

// isAllowedRune accepts common whitespace and visible characters; control
// codes such as NUL, BEL or ESC point at binary data.
func isAllowedRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' || r == '\f' || r == '\uFEFF' {
		return true
	}
	if r < asciiPrintableMin {
		return false
	}
	return unicode.IsGraphic(r)
}

func trimPreview(body []byte, limit int) []byte {
	if limit <= 0 || len(body) <= limit {
		return body
	}
	return body[:limit]
}

func ioReadAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	return buf.Bytes(), err
}
