package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/hserr/report/parser"
)

// JSONEncoder writes the document tree as indented JSON.
type JSONEncoder struct {
	w   io.Writer
	doc *parser.Node
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *parser.Node) error {
	e.doc = doc
	text, err := e.MarshalText()
	return write(e.w, text, err)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	text, err := json.MarshalIndent(e.doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
