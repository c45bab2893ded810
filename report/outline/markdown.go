package outline

import (
	"fmt"
	"strings"

	"github.com/dhamidi/hserr/report/parser"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

// Markdown renders the outline of doc: a heading per section with its
// subsections as a list, each annotated with its line.
func Markdown(doc *parser.Node) string {
	var sb strings.Builder

	title := doc.Span.Start.File
	if title == "" {
		title = "Crash report"
	}
	fmt.Fprintf(&sb, "# %s\n\n", markdownEscaper.Replace(title))

	symbols := Symbols(doc)
	if len(symbols) == 0 {
		sb.WriteString("_No sections._\n")
		return sb.String()
	}

	for _, sym := range symbols {
		fmt.Fprintf(&sb, "## %s\n\n", markdownEscaper.Replace(sym.Label))
		fmt.Fprintf(&sb, "Line %d", sym.Span.Start.Line)
		if last := lastLine(sym.Span); last > sym.Span.Start.Line {
			fmt.Fprintf(&sb, " to %d", last)
		}
		sb.WriteString(".\n\n")
		for _, child := range sym.Children {
			fmt.Fprintf(&sb, "- **%s** (line %d)\n", markdownEscaper.Replace(child.Label), child.Span.Start.Line)
		}
		if len(sym.Children) > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// lastLine is the last line holding a byte of span.
func lastLine(span parser.Span) int {
	if span.End.Column == 1 && span.End.Line > span.Start.Line {
		return span.End.Line - 1
	}
	return span.End.Line
}
