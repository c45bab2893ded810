package parser

import (
	"fmt"

	"golang.org/x/exp/ebnf"
)

var kindProductions = map[NodeKind]string{
	KindIntro:      "Intro",
	KindSection:    "Section",
	KindSubsection: "Subsection",
}

// Conform checks doc against GrammarSource: the token categories below
// every intro, section and subsection must form a sentence of the
// production of the same name, and the tokens left directly under the
// document must form a Trailer.
//
// Recognition is a single greedy pass, linear in the number of tokens.
func Conform(doc *Node) error {
	grammar, err := Grammar()
	if err != nil {
		return err
	}

	var trailer []Token
	for _, child := range doc.Children {
		if child.IsLeaf() {
			trailer = append(trailer, *child.Token)
		}
	}
	if err := conformTokens(grammar, "Trailer", trailer); err != nil {
		return fmt.Errorf("trailer: %w", err)
	}

	var first error
	doc.Walk(func(n *Node) bool {
		if first != nil {
			return false
		}
		production, ok := kindProductions[n.Kind]
		if !ok {
			return n.Kind == KindDocument
		}
		if err := conformTokens(grammar, production, n.Leaves()); err != nil {
			first = fmt.Errorf("%s at %s: %w", n.Kind, n.Span.Start, err)
			return false
		}
		return true
	})
	return first
}

func conformTokens(grammar ebnf.Grammar, production string, tokens []Token) error {
	input := make([]string, len(tokens))
	for i, tok := range tokens {
		input[i] = tok.Category.String()
	}
	r := &recognizer{
		grammar: grammar,
		input:   input,
		memo:    make(map[memoKey]int),
		active:  make(map[memoKey]bool),
	}
	end := r.matchName(production, 0)
	if end == len(input) {
		return nil
	}
	if end < 0 {
		end = 0
	}
	if end < len(tokens) {
		return fmt.Errorf("%s token %q at %s does not fit production %s",
			tokens[end].Category, tokens[end].Literal, tokens[end].Span.Start, production)
	}
	return fmt.Errorf("tokens do not form a %s", production)
}

type memoKey struct {
	name string
	pos  int
}

// recognizer matches ebnf expressions against a category sequence. A
// match returns the offset where it ends, or -1. Repetitions and options
// are greedy and alternatives take the longest match; GrammarSource is
// LL(1), so no shorter match could lead to a longer sentence.
type recognizer struct {
	grammar ebnf.Grammar
	input   []string
	memo    map[memoKey]int
	active  map[memoKey]bool
}

func (r *recognizer) matchName(name string, pos int) int {
	key := memoKey{name, pos}
	if end, ok := r.memo[key]; ok {
		return end
	}
	// Left recursion matches nothing; GrammarSource has none.
	if r.active[key] {
		return -1
	}
	prod, ok := r.grammar[name]
	if !ok {
		return -1
	}
	r.active[key] = true
	end := r.match(prod.Expr, pos)
	delete(r.active, key)
	r.memo[key] = end
	return end
}

func (r *recognizer) match(expr ebnf.Expression, pos int) int {
	switch e := expr.(type) {
	case nil:
		return pos
	case *ebnf.Token:
		if pos < len(r.input) && r.input[pos] == e.String {
			return pos + 1
		}
		return -1
	case *ebnf.Range:
		if pos < len(r.input) && e.Begin.String <= r.input[pos] && r.input[pos] <= e.End.String {
			return pos + 1
		}
		return -1
	case *ebnf.Name:
		return r.matchName(e.String, pos)
	case *ebnf.Group:
		return r.match(e.Body, pos)
	case *ebnf.Option:
		if end := r.match(e.Body, pos); end >= 0 {
			return end
		}
		return pos
	case *ebnf.Repetition:
		for {
			end := r.match(e.Body, pos)
			if end <= pos {
				return pos
			}
			pos = end
		}
	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if end := r.match(alt, pos); end > best {
				best = end
			}
		}
		return best
	case ebnf.Sequence:
		for _, item := range e {
			pos = r.match(item, pos)
			if pos < 0 {
				return -1
			}
		}
		return pos
	}
	return -1
}
