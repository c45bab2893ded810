package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/hserr/report/parser"
)

// YAMLEncoder writes the document tree as YAML. Positions are reduced to
// line and column.
type YAMLEncoder struct {
	w   io.Writer
	doc *parser.Node
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

type yamlNode struct {
	Kind     string      `yaml:"kind"`
	Name     string      `yaml:"name,omitempty"`
	Start    string      `yaml:"start"`
	End      string      `yaml:"end"`
	Category string      `yaml:"category,omitempty"`
	Literal  *string     `yaml:"literal,omitempty"`
	Children []*yamlNode `yaml:"children,omitempty"`
}

func (e *YAMLEncoder) Encode(doc *parser.Node) error {
	e.doc = doc
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(e.doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAML(n *parser.Node) *yamlNode {
	yn := &yamlNode{
		Kind:  n.Kind.String(),
		Start: lineColumn(n.Span.Start),
		End:   lineColumn(n.Span.End),
	}
	if n.Token != nil {
		literal := n.Token.Literal
		yn.Category = n.Token.Category.String()
		yn.Literal = &literal
	} else if name, ok := n.Name(); ok {
		yn.Name = name
	}
	for _, child := range n.Children {
		yn.Children = append(yn.Children, toYAML(child))
	}
	return yn
}

func lineColumn(p parser.Position) string {
	p.File = ""
	return p.String()
}
