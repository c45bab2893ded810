package parser

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"testing/iotest"
)

func readSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/hs_err_pid12345.log")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	return data
}

func literals(nodes []*Node) []string {
	var result []string
	for _, n := range nodes {
		result = append(result, n.TokenLiteral())
	}
	return result
}

func TestParseEmpty(t *testing.T) {
	doc := Parse(nil)

	if doc.Kind != KindDocument {
		t.Fatalf("Kind = %v, want %v", doc.Kind, KindDocument)
	}
	intro := doc.Intro()
	if intro == nil {
		t.Fatal("Intro() = nil, want empty intro")
	}
	if len(intro.Children) != 0 {
		t.Errorf("len(intro.Children) = %d, want 0", len(intro.Children))
	}
	if n := len(doc.Sections()); n != 0 {
		t.Errorf("len(Sections()) = %d, want 0", n)
	}
	if n := len(doc.Trailer()); n != 0 {
		t.Errorf("len(Trailer()) = %d, want 0", n)
	}
	if doc.Children[0] != intro {
		t.Error("intro is not the first child")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	doc := Parse([]byte("---------------  S U M M A R Y ------------"))

	sections := doc.Sections()
	if len(sections) != 1 {
		t.Fatalf("len(Sections()) = %d, want 1", len(sections))
	}
	section := sections[0]
	if n := len(section.Items()); n != 0 {
		t.Errorf("len(Items()) = %d, want 0", n)
	}
	name, ok := section.Name()
	if !ok || name != "S U M M A R Y" {
		t.Errorf("Name() = %q, %v, want %q, true", name, ok, "S U M M A R Y")
	}
	if len(doc.Intro().Children) != 0 {
		t.Errorf("intro has %d children, want 0", len(doc.Intro().Children))
	}
}

func TestParseIntroThenSection(t *testing.T) {
	doc := Parse([]byte("free text here\n---------- HEAD ----------\nTitle:\nword"))

	if got := doc.Intro().Text(); got != "free text here\n" {
		t.Errorf("intro text = %q, want %q", got, "free text here\n")
	}

	sections := doc.Sections()
	if len(sections) != 1 {
		t.Fatalf("len(Sections()) = %d, want 1", len(sections))
	}
	if name, _ := sections[0].Name(); name != "HEAD" {
		t.Errorf("section name = %q, want %q", name, "HEAD")
	}

	subs := sections[0].Subsections()
	if len(subs) != 1 {
		t.Fatalf("len(Subsections()) = %d, want 1", len(subs))
	}
	if name, _ := subs[0].Name(); name != "Title" {
		t.Errorf("subsection name = %q, want %q", name, "Title")
	}

	if title := subs[0].Title(); title == nil || title.Literal != "Title:" {
		t.Errorf("Title() = %v, want Title:", title)
	}
	var words []string
	for _, tok := range subs[0].Tokens() {
		if tok.Token.Category != WhiteSpace {
			words = append(words, tok.TokenLiteral())
		}
	}
	if len(words) != 1 || words[0] != "word" {
		t.Errorf("subsection tokens = %q, want [word]", words)
	}
	if n := len(doc.Trailer()); n != 0 {
		t.Errorf("len(Trailer()) = %d, want 0", n)
	}
}

func TestParseSubsectionsKeepOrder(t *testing.T) {
	doc := Parse([]byte("---- S ----\nloose\nFirst: 1\nSecond: 2\n"))

	section := doc.Sections()[0]
	var kinds []string
	for _, item := range section.Items() {
		if item.Kind == KindSubsection {
			name, _ := item.Name()
			kinds = append(kinds, "sub:"+name)
		} else {
			kinds = append(kinds, item.TokenLiteral())
		}
	}
	want := []string{"\n", "loose", "\n", "sub:First", "sub:Second"}
	if strings.Join(kinds, "|") != strings.Join(want, "|") {
		t.Errorf("items = %q, want %q", kinds, want)
	}
}

func TestParseInterleavedContent(t *testing.T) {
	// At depth 3 a subsection can still start, but its content tokens
	// are beyond the bound, so the content after it stays in the section.
	doc := Parse([]byte("---- S ----\nbefore\nTitle: after\n"), WithMaxDepth(3))

	sections := doc.Sections()
	if len(sections) != 1 {
		t.Fatalf("len(Sections()) = %d, want 1", len(sections))
	}
	var shape []string
	for _, item := range sections[0].Items() {
		if item.Kind == KindSubsection {
			shape = append(shape, "Subsection")
		} else {
			shape = append(shape, item.TokenLiteral())
		}
	}
	want := []string{"\n", "before", "\n", "Subsection", " ", "after", "\n"}
	if strings.Join(shape, "|") != strings.Join(want, "|") {
		t.Errorf("items = %q, want %q", shape, want)
	}
}

func TestParseDepthGuardRejectsWhitespace(t *testing.T) {
	// Subsection content sits at depth 3 and its items at depth 4, so
	// with a bound of 3 the blank after the title must not be absorbed.
	doc := Parse([]byte("---- S ----\nTitle: \nTitle: x\n"), WithMaxDepth(3))

	subs := doc.Sections()[0].Subsections()
	if len(subs) != 2 {
		t.Fatalf("len(Subsections()) = %d, want 2", len(subs))
	}
	for i, sub := range subs {
		if n := len(sub.Children); n != 1 {
			t.Errorf("subsection %d has %d children, want only its title", i, n)
		}
	}
	var loose []string
	for _, item := range doc.Sections()[0].Items() {
		if item.Kind == KindToken {
			loose = append(loose, item.TokenLiteral())
		}
	}
	want := []string{"\n", " \n", " ", "x", "\n"}
	if strings.Join(loose, "|") != strings.Join(want, "|") {
		t.Errorf("section tokens = %q, want %q", loose, want)
	}
}

func TestParseTrailerFromDepthGuard(t *testing.T) {
	input := "---- A ----\nTitle: word\n"
	doc := Parse([]byte(input), WithMaxDepth(1))

	if n := len(doc.Sections()); n != 1 {
		t.Fatalf("len(Sections()) = %d, want 1", n)
	}
	trailer := doc.Trailer()
	want := []string{"\n", "Title:", " ", "word", "\n"}
	if got := literals(trailer); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("trailer = %q, want %q", got, want)
	}
	if trailer[1].Token.Category != Subtitle {
		t.Errorf("trailer[1].Category = %v, want %v", trailer[1].Token.Category, Subtitle)
	}
	if doc.Text() != input {
		t.Errorf("Text() = %q, want %q", doc.Text(), input)
	}
}

func TestParseSubtitleBeforeFirstSection(t *testing.T) {
	input := "Registers:\nRAX=0x1\n---- S ----\n"
	doc := Parse([]byte(input))

	if n := len(doc.Intro().Children); n != 0 {
		t.Errorf("len(intro.Children) = %d, want 0", n)
	}
	if n := len(doc.Sections()); n != 0 {
		t.Errorf("len(Sections()) = %d, want 0", n)
	}
	trailer := doc.Trailer()
	if len(trailer) == 0 || trailer[0].Token.Category != Subtitle {
		t.Fatalf("trailer does not start with the subtitle: %q", literals(trailer))
	}
	if doc.Text() != input {
		t.Errorf("Text() = %q, want %q", doc.Text(), input)
	}
}

func TestParseContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "intro\n---- A ----\nbody\n"
	doc, err := ParseContext(ctx, []byte(input))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want %v", err, context.Canceled)
	}
	if doc == nil {
		t.Fatal("doc = nil, want a complete tree")
	}
	if n := len(doc.Sections()); n != 0 {
		t.Errorf("len(Sections()) = %d, want 0", n)
	}
	if got := doc.Intro().Text(); got != "intro\n" {
		t.Errorf("intro text = %q, want %q", got, "intro\n")
	}
	if doc.Text() != input {
		t.Errorf("Text() = %q, want %q", doc.Text(), input)
	}
}

func TestParseContextCompletes(t *testing.T) {
	doc, err := ParseContext(context.Background(), readSample(t))
	if err != nil {
		t.Fatalf("ParseContext() error = %v", err)
	}
	if !doc.Equal(Parse(readSample(t))) {
		t.Error("ParseContext tree differs from Parse tree")
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader("Heap:\n total 1K\n"), WithFile("a.log"))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if n := len(doc.Sections()); n != 1 {
		t.Errorf("len(Sections()) = %d, want 1", n)
	}
	if doc.Span.Start.File != "a.log" {
		t.Errorf("File = %q, want %q", doc.Span.Start.File, "a.log")
	}

	readErr := errors.New("disk on fire")
	if _, err := ParseReader(iotest.ErrReader(readErr)); !errors.Is(err, readErr) {
		t.Errorf("err = %v, want %v", err, readErr)
	}
}

func TestParserLoopsStopWithoutProgress(t *testing.T) {
	p := newParser(nil)
	p.tokens = Tokenize([]byte("---- A ----"))

	progressed := p.mustProgress()
	if progressed() {
		t.Error("progressed() = true before any token was consumed")
	}

	section, ok := p.parseSection(1)
	if !ok {
		t.Fatal("parseSection() failed on a lone header")
	}
	if len(section.Children) != 1 {
		t.Errorf("len(Children) = %d, want 1", len(section.Children))
	}
	if !progressed() {
		t.Error("progressed() = false after the header was consumed")
	}
	if !p.atEnd() {
		t.Errorf("pos = %d, want end of input", p.pos)
	}

	// Content cannot match at a SUBTITLE, so the intro loop must stop
	// without consuming it.
	p = newParser(nil)
	p.tokens = Tokenize([]byte("Registers:\n"))
	intro := p.parseIntro(1)
	if len(intro.Children) != 0 || p.pos != 0 {
		t.Errorf("intro consumed %d tokens, want 0", p.pos)
	}
}

func TestParseSample(t *testing.T) {
	doc := Parse(readSample(t), WithFile("hs_err_pid12345.log"))

	var names []string
	for _, s := range doc.Sections() {
		name, _ := s.Name()
		names = append(names, name)
	}
	wantNames := []string{"S U M M A R Y", "T H R E A D", "P R O C E S S", "Heap", "Compilation events (2 events)", "END"}
	if strings.Join(names, "|") != strings.Join(wantNames, "|") {
		t.Errorf("section names = %q, want %q", names, wantNames)
	}
	if n := len(doc.Trailer()); n != 0 {
		t.Errorf("len(Trailer()) = %d, want 0", n)
	}
	if !strings.HasPrefix(doc.Intro().Text(), "#\n# A fatal error") {
		t.Errorf("intro text starts with %q", doc.Intro().Text()[:20])
	}

	tests := []struct {
		section int
		subs    []string
	}{
		{0, []string{"Command Line", "Host", "Time"}},
		{1, []string{"Current thread (0x00007f3a5c0e1000)", "Stack", "Native frames", "siginfo", "Registers"}},
		{2, nil},
		{3, nil},
		{4, nil},
	}
	for _, tt := range tests {
		t.Run(wantNames[tt.section], func(t *testing.T) {
			var got []string
			for _, sub := range doc.Sections()[tt.section].Subsections() {
				name, _ := sub.Name()
				got = append(got, name)
			}
			if strings.Join(got, "|") != strings.Join(tt.subs, "|") {
				t.Errorf("subsections = %q, want %q", got, tt.subs)
			}
		})
	}

	registers := doc.Sections()[1].Subsections()[4]
	var regs []string
	for _, tok := range registers.Tokens() {
		if tok.Token.Category == Register {
			regs = append(regs, tok.TokenLiteral())
		}
	}
	if strings.Join(regs, ",") != "RAX,RBX,RCX" {
		t.Errorf("registers = %q, want RAX,RBX,RCX", regs)
	}

	if doc.Text() != string(readSample(t)) {
		t.Error("Text() does not reproduce the input")
	}
}

func TestParseChildrenInSpanOrder(t *testing.T) {
	doc := Parse(readSample(t))
	doc.Walk(func(n *Node) bool {
		prev := n.Span.Start.Offset
		for _, child := range n.Children {
			if child.Span.Start.Offset < prev {
				t.Errorf("%v child at offset %d precedes offset %d", n.Kind, child.Span.Start.Offset, prev)
			}
			if child.Span.End.Offset > n.Span.End.Offset {
				t.Errorf("%v child ends at %d beyond parent end %d", n.Kind, child.Span.End.Offset, n.Span.End.Offset)
			}
			prev = child.Span.End.Offset
		}
		return true
	})
}

func TestParseProperties(t *testing.T) {
	inputs := append([]string(nil), coverageInputs...)
	inputs = append(inputs,
		string(readSample(t)),
		strings.Repeat("Registers:\n", 200),
		strings.Repeat("Heap:\n", 200)+"tail",
		"END.\nEND.\n---\n",
	)

	for _, input := range inputs {
		doc := Parse([]byte(input))
		if doc.Text() != input {
			t.Errorf("coverage: Text() = %q, want %q", doc.Text(), input)
			continue
		}
		if again := Parse([]byte(input)); !doc.Equal(again) {
			t.Errorf("determinism: trees differ for %q", input)
		}
		if reparsed := Parse([]byte(doc.Text())); !doc.Equal(reparsed) {
			t.Errorf("idempotence: re-parse differs for %q", input)
		}
		for _, leaf := range doc.Leaves() {
			if leaf.Span.Len() == 0 {
				t.Errorf("zero-length token in %q", input)
			}
		}
	}
}

func TestParsePathological(t *testing.T) {
	const n = 20000
	input := strings.Repeat("---------------  T H R E A D  ---------------\n", n)
	doc := Parse([]byte(input))
	if got := len(doc.Sections()); got != n {
		t.Errorf("len(Sections()) = %d, want %d", got, n)
	}

	input = strings.Repeat("Stack: [0x0,0x1]\n", n)
	doc = Parse([]byte("---- S ----\n" + input))
	if got := len(doc.Sections()[0].Subsections()); got != n {
		t.Errorf("len(Subsections()) = %d, want %d", got, n)
	}
}
