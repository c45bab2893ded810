package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Category is the lexical class of a token. The set is closed: external
// consumers match on these values, so adding one is a compatibility change.
type Category int

const (
	WhiteSpace Category = iota
	Number
	Word
	String
	Punct
	Subtitle
	Keyword
	Signal
	URL
	Identifier
	Register
	SectionHeader
)

var categoryNames = map[Category]string{
	WhiteSpace:    "WHITE_SPACE",
	Number:        "NUMBER",
	Word:          "WORD",
	String:        "STRING",
	Punct:         "PUNCT",
	Subtitle:      "SUBTITLE",
	Keyword:       "KEYWORD",
	Signal:        "SIGNAL",
	URL:           "URL",
	Identifier:    "IDENTIFIER",
	Register:      "REGISTER",
	SectionHeader: "SECTION_HDR",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{
		WhiteSpace, Number, Word, String, Punct, Subtitle,
		Keyword, Signal, URL, Identifier, Register, SectionHeader,
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(name string) (Category, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// IsClassified reports whether tokens of this category may appear inside
// a content run.
func (c Category) IsClassified() bool {
	switch c {
	case Number, Word, String, Punct, Keyword, Signal, URL, Identifier, Register:
		return true
	}
	return false
}

type Token struct {
	Category Category
	Span     Span
	Literal  string
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Span.Start, t.Category, t.Literal)
}
