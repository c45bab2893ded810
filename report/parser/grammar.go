package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// StartProduction is the root production of GrammarSource.
const StartProduction = "Document"

// GrammarSource is the structural grammar implemented by Parser, in the
// EBNF dialect of golang.org/x/exp/ebnf. Lower-case productions name token
// categories; each is defined as the category's String() value.
//
// The section loop's empty alternative has no EBNF spelling and is implied
// by the repetition.
const GrammarSource = `Document        = Intro { Section } Trailer .
Intro           = { Content } .
Content         = ContentItem { ContentItem } .
ContentItem     = ClassifiedToken | white_space .
Section         = section_hdr { Subsection | Content } .
Subsection      = subtitle [ Content ] .
Trailer         = { AnyToken } .
AnyToken        = ClassifiedToken | white_space | subtitle | section_hdr .
ClassifiedToken = number | word | string | punct | keyword | signal | url | identifier | register .

white_space = "WHITE_SPACE" .
number      = "NUMBER" .
word        = "WORD" .
string      = "STRING" .
punct       = "PUNCT" .
subtitle    = "SUBTITLE" .
keyword     = "KEYWORD" .
signal      = "SIGNAL" .
url         = "URL" .
identifier  = "IDENTIFIER" .
register    = "REGISTER" .
section_hdr = "SECTION_HDR" .
`

// Grammar parses and verifies GrammarSource.
func Grammar() (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse("hserr.ebnf", strings.NewReader(GrammarSource))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, StartProduction); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}

func VerifyGrammar() error {
	_, err := Grammar()
	return err
}

// TokenProductions maps each lexical production of grammar to the
// category it stands for.
func TokenProductions(grammar ebnf.Grammar) map[string]Category {
	result := make(map[string]Category)
	for name, prod := range grammar {
		if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
			continue
		}
		tok, ok := prod.Expr.(*ebnf.Token)
		if !ok {
			continue
		}
		if cat, ok := ParseCategory(tok.String); ok {
			result[name] = cat
		}
	}
	return result
}
