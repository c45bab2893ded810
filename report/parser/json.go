package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Span     jsonSpan    `json:"span"`
	Category string      `json:"category,omitempty"`
	Literal  *string     `json:"literal,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind: n.Kind.String(),
		Span: jsonSpan{
			Start: toJSONPosition(n.Span.Start),
			End:   toJSONPosition(n.Span.End),
		},
	}
	if n.Token != nil {
		literal := n.Token.Literal
		jn.Category = n.Token.Category.String()
		jn.Literal = &literal
	} else if name, ok := n.Name(); ok {
		jn.Name = name
	}
	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}
	return jn
}

func toJSONPosition(p Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
