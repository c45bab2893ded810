package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hserr/report/parser"
)

// TreeEncoder writes the indented node dump of parser.Node.String.
type TreeEncoder struct {
	w         io.Writer
	doc       *parser.Node
	positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

// WithPositions makes the dump include node spans.
func (e *TreeEncoder) WithPositions() *TreeEncoder {
	e.positions = true
	return e
}

func (e *TreeEncoder) Encode(doc *parser.Node) error {
	e.doc = doc
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.positions {
		return []byte(e.doc.StringWithPositions()), nil
	}
	return []byte(e.doc.String()), nil
}

// TokenEncoder writes one token per line: position, category and the
// quoted literal, separated by tabs.
type TokenEncoder struct {
	w   io.Writer
	doc *parser.Node
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

func (e *TokenEncoder) Encode(doc *parser.Node) error {
	e.doc = doc
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *TokenEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.doc.Leaves() {
		fmt.Fprintf(&sb, "%d:%d\t%s\t%q\n", tok.Span.Start.Line, tok.Span.Start.Column, tok.Category, tok.Literal)
	}
	return []byte(sb.String()), nil
}
