package parser

import "strings"

type NodeKind int

const (
	KindDocument NodeKind = iota
	KindIntro
	KindSection
	KindSubsection
	KindToken
)

var nodeKindNames = map[NodeKind]string{
	KindDocument:   "Document",
	KindIntro:      "Intro",
	KindSection:    "Section",
	KindSubsection: "Subsection",
	KindToken:      "Token",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is an element of the document tree. Token nodes are leaves and carry
// their Token; every other kind is a container. Trees are built once per
// parse and must be treated as immutable by callers.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
}

func newLeaf(tok Token) *Node {
	return &Node{Kind: KindToken, Span: tok.Span, Token: &tok}
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsLeaf() bool {
	return n.Kind == KindToken
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Intro returns the intro of a document node.
func (n *Node) Intro() *Node {
	if n.Kind != KindDocument {
		return nil
	}
	return n.FirstChildOfKind(KindIntro)
}

// Sections returns the sections of a document node in source order.
func (n *Node) Sections() []*Node {
	if n.Kind != KindDocument {
		return nil
	}
	return n.ChildrenOfKind(KindSection)
}

// Trailer returns the token nodes that follow the last section of a
// document node.
func (n *Node) Trailer() []*Node {
	if n.Kind != KindDocument {
		return nil
	}
	return n.ChildrenOfKind(KindToken)
}

// Header returns the SECTION_HDR token of a section node.
func (n *Node) Header() *Token {
	return n.leadToken(KindSection, SectionHeader)
}

// Title returns the SUBTITLE token of a subsection node.
func (n *Node) Title() *Token {
	return n.leadToken(KindSubsection, Subtitle)
}

func (n *Node) leadToken(kind NodeKind, cat Category) *Token {
	if n.Kind != kind || len(n.Children) == 0 {
		return nil
	}
	first := n.Children[0]
	if first.Token == nil || first.Token.Category != cat {
		return nil
	}
	return first.Token
}

// Items returns what follows the header of a section or the title of a
// subsection: subsections and loose tokens, interleaved in source order.
// For an intro it returns all of its tokens.
func (n *Node) Items() []*Node {
	switch n.Kind {
	case KindSection, KindSubsection:
		if len(n.Children) == 0 {
			return nil
		}
		return n.Children[1:]
	case KindIntro:
		return n.Children
	}
	return nil
}

// Subsections returns the subsections of a section node.
func (n *Node) Subsections() []*Node {
	if n.Kind != KindSection {
		return nil
	}
	return n.ChildrenOfKind(KindSubsection)
}

// Tokens returns the loose content tokens of an intro, section or
// subsection, excluding the header or title token.
func (n *Node) Tokens() []*Node {
	var result []*Node
	for _, item := range n.Items() {
		if item.Kind == KindToken {
			result = append(result, item)
		}
	}
	return result
}

// Name returns the display name of an intro, section or subsection.
func (n *Node) Name() (string, bool) {
	switch n.Kind {
	case KindIntro:
		return "INTRO", true
	case KindSection:
		if h := n.Header(); h != nil {
			return DeriveName(h.Literal)
		}
	case KindSubsection:
		if t := n.Title(); t != nil {
			return DeriveName(t.Literal)
		}
	}
	return "", false
}

// Leaves returns every token below n in document order.
func (n *Node) Leaves() []Token {
	var result []Token
	n.Walk(func(node *Node) bool {
		if node.Token != nil {
			result = append(result, *node.Token)
		}
		return true
	})
	return result
}

// Text reconstructs the source text covered by n.
func (n *Node) Text() string {
	var sb strings.Builder
	for _, tok := range n.Leaves() {
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

// Walk visits n and its descendants depth-first in document order. It stops
// descending into a node when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Equal reports whether two trees have the same shape, spans and tokens.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || n.Span != other.Span || len(n.Children) != len(other.Children) {
		return false
	}
	if (n.Token == nil) != (other.Token == nil) {
		return false
	}
	if n.Token != nil && *n.Token != *other.Token {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Category.String() + " " + quote(n.Token.Literal))
	} else if name, ok := n.Name(); ok && n.Kind != KindIntro {
		sb.WriteString(" " + quote(name))
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

func quote(s string) string {
	r := strings.NewReplacer("\\", `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
