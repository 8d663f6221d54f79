// Package theme holds the terminal styles used by the gencode CLI.
package theme

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/gencode/internal/codefile"
)

type Theme struct {
	Header      lipgloss.Style
	Path        lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Summary     lipgloss.Style
	OpNew       lipgloss.Style
	OpOverwrite lipgloss.Style
	OpSkip      lipgloss.Style
}

// New builds the default palette on a renderer for w. Plain output (no
// color, or a writer that is not a terminal) yields unstyled text.
func New(w io.Writer, plain bool) Theme {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}
	return DefaultTheme(r)
}

func DefaultTheme(r *lipgloss.Renderer) Theme {
	base := r.NewStyle()
	return Theme{
		Header:      base.Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		Path:        base.Foreground(lipgloss.Color("#EAEAEA")),
		Muted:       base.Foreground(lipgloss.Color("#A6A1BB")),
		Error:       base.Foreground(lipgloss.Color("#FF6E6E")),
		Success:     base.Foreground(lipgloss.Color("#6EF17E")),
		Summary:     base.Foreground(lipgloss.Color("#D1CFF6")).Italic(true),
		OpNew:       base.Foreground(lipgloss.Color("#33C481")).Bold(true),
		OpOverwrite: base.Foreground(lipgloss.Color("#FFB61E")).Bold(true),
		OpSkip:      base.Foreground(lipgloss.Color("#5E5A72")),
	}
}

// Op returns the style for an operation label.
func (t Theme) Op(op codefile.Operation) lipgloss.Style {
	switch op {
	case codefile.OpNew:
		return t.OpNew
	case codefile.OpOverwrite:
		return t.OpOverwrite
	default:
		return t.OpSkip
	}
}

// Plain reports whether w should receive uncolored output.
func Plain(w io.Writer, noColor bool) bool {
	if noColor {
		return true
	}
	return lipgloss.NewRenderer(w).ColorProfile() == termenv.Ascii
}
