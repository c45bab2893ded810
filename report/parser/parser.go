package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/tliron/commonlog"
)

// DefaultMaxDepth bounds rule nesting. The grammar itself never nests more
// than a handful of levels; the bound only matters for WithMaxDepth.
const DefaultMaxDepth = 1000

var log = commonlog.GetLogger("hserr.parser")

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxDepth sets the recursion bound. Rules entered beyond it fail
// locally and the remaining tokens end up in the document trailer.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithContext makes the parse cancellable. Cancellation is checked between
// top-level sections.
func WithContext(ctx context.Context) Option {
	return func(p *Parser) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// Parser builds a document tree from a token stream by recursive descent:
//
//	Document   := Intro Section* Trailer
//	Intro      := Content*
//	Content    := (ClassifiedToken | WHITE_SPACE)+
//	Section    := SECTION_HDR (Subsection | Content | <empty>)*
//	Subsection := SUBTITLE Content?
//	Trailer    := AnyToken*
//
// Every rule either matches or fails without consuming input, so the
// parser has no error path.
type Parser struct {
	file     string
	maxDepth int
	ctx      context.Context
	tokens   []Token
	pos      int
	end      Position
	err      error
}

func newParser(opts []Option) *Parser {
	p := &Parser{
		maxDepth: DefaultMaxDepth,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the document tree for src. It never fails.
func Parse(src []byte, opts ...Option) *Node {
	return newParser(opts).parse(src)
}

// ParseContext is Parse with cooperative cancellation. When ctx is done
// before the last section is reached, the rest of the input is returned as
// trailer together with the context's error.
func ParseContext(ctx context.Context, src []byte, opts ...Option) (*Node, error) {
	p := newParser(append(opts, WithContext(ctx)))
	doc := p.parse(src)
	return doc, p.err
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader, opts ...Option) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return Parse(data, opts...), nil
}

func (p *Parser) parse(src []byte) *Node {
	p.tokens = p.tokenize(src)
	p.pos = 0
	p.err = nil
	return p.parseDocument()
}

func (p *Parser) tokenize(src []byte) []Token {
	lexer := NewLexer(src, p.file)
	var tokens []Token
	for {
		tok, ok := lexer.NextToken()
		if !ok {
			p.end = tok.Span.Start
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) advance() Token {
	tok, _ := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(cat Category) bool {
	tok, ok := p.peek()
	return ok && tok.Category == cat
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// here is the start of the next token, which is also the end of the last
// consumed one.
func (p *Parser) here() Position {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Span.Start
	}
	return p.end
}

// mustProgress returns a function that reports whether the parser has
// advanced since mustProgress was called. Repetition loops call it at the
// start of an iteration and stop when an iteration consumed nothing.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		return p.pos > saved
	}
}

func (p *Parser) guard(depth int, rule string) bool {
	if depth > p.maxDepth {
		log.Debugf("recursion guard rejected %s at depth %d (offset %d)", rule, depth, p.here().Offset)
		return false
	}
	return true
}

func (p *Parser) open(kind NodeKind) *Node {
	start := p.here()
	return &Node{Kind: kind, Span: Span{Start: start, End: start}}
}

func (p *Parser) close(n *Node) *Node {
	n.Span.End = p.here()
	return n
}

// Document := Intro Section* Trailer
func (p *Parser) parseDocument() *Node {
	doc := p.open(KindDocument)
	doc.AddChild(p.parseIntro(1))
	p.parseSections(doc, 1)
	p.parseTrailer(doc)
	return p.close(doc)
}

// Section*
func (p *Parser) parseSections(doc *Node, depth int) {
	for {
		if err := p.ctx.Err(); err != nil {
			log.Debugf("parse cancelled at offset %d: %s", p.here().Offset, err)
			p.err = err
			return
		}
		progressed := p.mustProgress()
		section, ok := p.parseSection(depth)
		if !ok {
			return
		}
		doc.AddChild(section)
		if !progressed() {
			return
		}
	}
}

// Trailer := AnyToken*
func (p *Parser) parseTrailer(doc *Node) {
	for !p.atEnd() {
		doc.AddChild(newLeaf(p.advance()))
	}
}

// Intro := Content*
func (p *Parser) parseIntro(depth int) *Node {
	intro := p.open(KindIntro)
	if !p.guard(depth, "intro") {
		return p.close(intro)
	}
	for {
		progressed := p.mustProgress()
		items, ok := p.parseContent(depth + 1)
		if !ok {
			break
		}
		addAll(intro, items)
		if !progressed() {
			break
		}
	}
	return p.close(intro)
}

// Section := SECTION_HDR (Subsection | Content | <empty>)*
func (p *Parser) parseSection(depth int) (*Node, bool) {
	if !p.guard(depth, "section") || !p.check(SectionHeader) {
		return nil, false
	}
	section := p.open(KindSection)
	section.AddChild(newLeaf(p.advance()))

	for {
		progressed := p.mustProgress()
		if sub, ok := p.parseSubsection(depth + 1); ok {
			section.AddChild(sub)
		} else if items, ok := p.parseContent(depth + 1); ok {
			addAll(section, items)
		}
		// Neither alternative matched: the empty alternative did, and
		// the loop ends because nothing was consumed.
		if !progressed() {
			break
		}
	}
	return p.close(section), true
}

// Subsection := SUBTITLE Content?
func (p *Parser) parseSubsection(depth int) (*Node, bool) {
	if !p.guard(depth, "subsection") || !p.check(Subtitle) {
		return nil, false
	}
	sub := p.open(KindSubsection)
	sub.AddChild(newLeaf(p.advance()))
	if items, ok := p.parseContent(depth + 1); ok {
		addAll(sub, items)
	}
	return p.close(sub), true
}

// Content := (ClassifiedToken | WHITE_SPACE)+
func (p *Parser) parseContent(depth int) ([]*Node, bool) {
	if !p.guard(depth, "content") {
		return nil, false
	}
	var items []*Node
	for {
		progressed := p.mustProgress()
		item, ok := p.parseContentItem(depth + 1)
		if !ok {
			break
		}
		items = append(items, item)
		if !progressed() {
			break
		}
	}
	return items, len(items) > 0
}

// ContentItem := ClassifiedToken | WHITE_SPACE
func (p *Parser) parseContentItem(depth int) (*Node, bool) {
	if !p.guard(depth, "content item") {
		return nil, false
	}
	if leaf, ok := p.parseClassifiedToken(depth); ok {
		return leaf, true
	}
	if p.check(WhiteSpace) {
		return newLeaf(p.advance()), true
	}
	return nil, false
}

// ClassifiedToken := NUMBER|WORD|STRING|PUNCT|KEYWORD|SIGNAL|URL|IDENTIFIER|REGISTER
func (p *Parser) parseClassifiedToken(depth int) (*Node, bool) {
	if !p.guard(depth, "token") {
		return nil, false
	}
	tok, ok := p.peek()
	if !ok || !tok.Category.IsClassified() {
		return nil, false
	}
	p.advance()
	return newLeaf(tok), true
}

func addAll(parent *Node, children []*Node) {
	for _, child := range children {
		parent.AddChild(child)
	}
}
