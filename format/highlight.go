package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/hserr/report/parser"
)

// HighlightEncoder reproduces the report text with terminal colors per
// token category. Whitespace is written unstyled, so stripping the escape
// sequences yields the input.
type HighlightEncoder struct {
	w      io.Writer
	doc    *parser.Node
	styles map[parser.Category]lipgloss.Style
}

// NewHighlightEncoder builds styles from colors, which maps category names
// such as "SIGNAL" to lipgloss colors. Unknown names are ignored.
func NewHighlightEncoder(w io.Writer, colors map[string]string) *HighlightEncoder {
	renderer := lipgloss.NewRenderer(w)
	styles := make(map[parser.Category]lipgloss.Style)
	for name, color := range colors {
		cat, ok := parser.ParseCategory(name)
		if !ok || color == "" {
			continue
		}
		style := renderer.NewStyle().
			Foreground(lipgloss.Color(color)).
			TabWidth(lipgloss.NoTabConversion)
		switch cat {
		case parser.SectionHeader, parser.Subtitle:
			style = style.Bold(true)
		case parser.URL:
			style = style.Underline(true)
		}
		styles[cat] = style
	}
	return &HighlightEncoder{w: w, styles: styles}
}

func (e *HighlightEncoder) Encode(doc *parser.Node) error {
	e.doc = doc
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *HighlightEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.doc.Leaves() {
		style, ok := e.styles[tok.Category]
		if !ok || tok.Category == parser.WhiteSpace {
			sb.WriteString(tok.Literal)
			continue
		}
		// Render pads multi-line input, so style line by line.
		for i, line := range strings.Split(tok.Literal, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}
	return []byte(sb.String()), nil
}
