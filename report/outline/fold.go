package outline

import (
	"strings"

	"github.com/dhamidi/hserr/report/parser"
)

// DefaultCollapse lists the labels folded by default.
var DefaultCollapse = []string{"Heap Regions"}

const introPlaceholder = "# INTRO"

// Fold is a foldable region. End is exclusive and stops one byte short of
// the node's end so the final line break stays visible.
type Fold struct {
	Kind        parser.NodeKind
	Start       parser.Position
	End         parser.Position
	Placeholder string
	Collapsed   bool
}

// Folds returns fold regions for the intro, every section and every
// subsection of doc. Nodes spanning two bytes or fewer are skipped. Sections
// and subsections whose label starts with one of the collapse patterns are
// marked collapsed.
func Folds(doc *parser.Node, collapse []string) []Fold {
	var folds []Fold
	doc.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindDocument:
			return true
		case parser.KindIntro, parser.KindSection, parser.KindSubsection:
		default:
			return false
		}
		if n.Span.Len() <= 2 {
			return true
		}

		fold := Fold{
			Kind:  n.Kind,
			Start: n.Span.Start,
			End:   lastBytePosition(n),
		}
		if n.Kind == parser.KindIntro {
			fold.Placeholder = introPlaceholder
		} else {
			fold.Placeholder = n.Presentation().Label
			fold.Collapsed = hasAnyPrefix(fold.Placeholder, collapse)
		}
		folds = append(folds, fold)
		return true
	})
	return folds
}

// lastBytePosition returns the position of the final byte covered by n.
func lastBytePosition(n *parser.Node) parser.Position {
	leaves := n.Leaves()
	if len(leaves) == 0 {
		return n.Span.End
	}
	last := leaves[len(leaves)-1]
	pos := last.Span.Start
	for i := 0; i < len(last.Literal)-1; i++ {
		pos.Offset++
		if last.Literal[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

func hasAnyPrefix(s string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
