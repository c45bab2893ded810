// Package format writes parsed reports in the output formats of the hserr
// command.
package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/hserr/report/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *parser.Node) error
}

var encoderNames = map[string]func(w io.Writer, highlight map[string]string) Encoder{
	"json":      func(w io.Writer, _ map[string]string) Encoder { return NewJSONEncoder(w) },
	"yaml":      func(w io.Writer, _ map[string]string) Encoder { return NewYAMLEncoder(w) },
	"tree":      func(w io.Writer, _ map[string]string) Encoder { return NewTreeEncoder(w) },
	"tokens":    func(w io.Writer, _ map[string]string) Encoder { return NewTokenEncoder(w) },
	"highlight": func(w io.Writer, h map[string]string) Encoder { return NewHighlightEncoder(w, h) },
}

// Names lists the formats accepted by NewEncoder.
func Names() []string {
	names := make([]string, 0, len(encoderNames))
	for name := range encoderNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEncoder returns the encoder registered under name. highlight maps
// category names to colors and is only used by the highlight format.
func NewEncoder(name string, w io.Writer, highlight map[string]string) (Encoder, error) {
	newEncoder, ok := encoderNames[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return newEncoder(w, highlight), nil
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
