// Package outline derives navigation views from a parsed report: symbol
// trees, fold regions and a markdown summary.
package outline

import (
	"sort"
	"strings"

	"github.com/dhamidi/hserr/report/parser"
)

// Symbol is one entry of a report outline. Selection covers the header or
// title token; Span covers the whole node.
type Symbol struct {
	Name      string
	Label     string
	Icon      parser.Icon
	Kind      parser.NodeKind
	Span      parser.Span
	Selection parser.Span
	Children  []*Symbol
}

// Symbols returns the outline of doc: the intro when it has content, then
// every section with its subsections, in source order.
func Symbols(doc *parser.Node) []*Symbol {
	var result []*Symbol
	if intro := doc.Intro(); intro != nil && len(intro.Children) > 0 {
		result = append(result, newSymbol(intro))
	}
	for _, section := range doc.Sections() {
		sym := newSymbol(section)
		for _, sub := range section.Subsections() {
			sym.Children = append(sym.Children, newSymbol(sub))
		}
		result = append(result, sym)
	}
	return result
}

func newSymbol(n *parser.Node) *Symbol {
	p := n.Presentation()
	name, ok := n.Name()
	sym := &Symbol{
		Name:      name,
		Label:     p.Label,
		Icon:      p.Icon,
		Kind:      n.Kind,
		Span:      n.Span,
		Selection: n.Span,
	}
	if n.Kind != parser.KindIntro && len(n.Children) > 0 {
		lead := n.Children[0]
		sym.Selection = lead.Span
		if !ok {
			sym.Name = strings.TrimSpace(lead.TokenLiteral())
			sym.Label = sym.Name
		}
	}
	return sym
}

// SortAlpha orders symbols and their children by label, ignoring case.
// Symbols with equal labels keep their source order.
func SortAlpha(symbols []*Symbol) {
	sort.SliceStable(symbols, func(i, j int) bool {
		return strings.ToLower(symbols[i].Label) < strings.ToLower(symbols[j].Label)
	})
	for _, sym := range symbols {
		SortAlpha(sym.Children)
	}
}

// Find returns the innermost symbol whose span contains offset.
func Find(symbols []*Symbol, offset int) *Symbol {
	for _, sym := range symbols {
		if offset < sym.Span.Start.Offset || offset >= sym.Span.End.Offset {
			continue
		}
		if inner := Find(sym.Children, offset); inner != nil {
			return inner
		}
		return sym
	}
	return nil
}
