package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

const smallReport = "# crash\n---------------  T H R E A D  ---------------\n\nCurrent thread (0x1):  JavaThread\nRegisters:\nRAX=0x0\nHeap:\n total 1K\n"

func TestNodeAccessorsByKind(t *testing.T) {
	doc := Parse([]byte(smallReport))
	thread := doc.Sections()[0]
	heap := doc.Sections()[1]
	sub := thread.Subsections()[0]

	if thread.Header() == nil || thread.Header().Category != SectionHeader {
		t.Errorf("Header() = %v, want a SECTION_HDR token", thread.Header())
	}
	if thread.Title() != nil {
		t.Errorf("section Title() = %v, want nil", thread.Title())
	}
	if sub.Title() == nil || sub.Title().Literal != "Current thread (0x1):" {
		t.Errorf("Title() = %v, want Current thread (0x1):", sub.Title())
	}
	if sub.Header() != nil {
		t.Errorf("subsection Header() = %v, want nil", sub.Header())
	}
	if doc.Intro().Header() != nil || doc.Header() != nil {
		t.Error("Header() on a non-section returned a token")
	}
	if sub.Subsections() != nil {
		t.Error("Subsections() on a subsection returned nodes")
	}
	if thread.Sections() != nil || thread.Intro() != nil || thread.Trailer() != nil {
		t.Error("document accessors on a section returned nodes")
	}
	if got := literals(thread.Tokens()); strings.Join(got, "|") != "\n\n" {
		t.Errorf("thread loose tokens = %q, want [\"\\n\\n\"]", got)
	}
	if got := heap.Text(); got != "Heap:\n total 1K\n" {
		t.Errorf("heap Text() = %q", got)
	}
	if name, ok := doc.Intro().Name(); !ok || name != "INTRO" {
		t.Errorf("intro Name() = %q, %v, want INTRO, true", name, ok)
	}
	if _, ok := doc.Name(); ok {
		t.Error("document Name() reported a name")
	}
}

func TestNodeAccessorsAreStable(t *testing.T) {
	doc := Parse([]byte(smallReport))
	first := doc.Sections()
	second := doc.Sections()
	if len(first) != len(second) {
		t.Fatalf("Sections() lengths %d and %d differ", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("section %d differs between calls", i)
		}
	}
	before := doc.String()
	doc.Presentation()
	doc.Leaves()
	if doc.String() != before {
		t.Error("accessors changed the tree")
	}
}

func TestNodeEqual(t *testing.T) {
	a := Parse([]byte(smallReport))
	b := Parse([]byte(smallReport))
	c := Parse([]byte(smallReport + "x"))

	if !a.Equal(b) {
		t.Error("equal inputs produced unequal trees")
	}
	if a.Equal(c) {
		t.Error("different inputs produced equal trees")
	}
	var nilNode *Node
	if a.Equal(nilNode) || !nilNode.Equal(nil) {
		t.Error("nil handling in Equal is wrong")
	}
}

func TestNodeString(t *testing.T) {
	doc := Parse([]byte("Heap:\n"))
	want := "Document\n" +
		"  Intro\n" +
		"  Section \"Heap\"\n" +
		"    Token SECTION_HDR \"Heap:\"\n" +
		"    Token WHITE_SPACE \"\\n\"\n"
	if got := doc.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(doc.StringWithPositions(), "Section [1:1-2:1]") {
		t.Errorf("StringWithPositions() = %s", doc.StringWithPositions())
	}
}

func TestNodePresentation(t *testing.T) {
	doc := Parse([]byte(smallReport), WithFile("hs_err.log"))

	tests := []struct {
		node  *Node
		label string
		loc   string
		icon  Icon
	}{
		{doc, "hs_err.log", "", IconFile},
		{doc.Intro(), "INTRO", "line 1", IconIntro},
		{doc.Sections()[0], "THREAD", "line 2", IconSection},
		{doc.Sections()[0].Subsections()[0], "Current thread (0x1)", "line 4", IconThreads},
		{doc.Sections()[0].Subsections()[1], "Registers", "line 5", IconRegisters},
		{doc.Sections()[1], "Heap", "line 7", IconHeap},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			p := tt.node.Presentation()
			if p.Label != tt.label {
				t.Errorf("Label = %q, want %q", p.Label, tt.label)
			}
			if p.Location != tt.loc {
				t.Errorf("Location = %q, want %q", p.Location, tt.loc)
			}
			if p.Icon != tt.icon {
				t.Errorf("Icon = %q, want %q", p.Icon, tt.icon)
			}
		})
	}
}

func TestSectionIcons(t *testing.T) {
	tests := []struct {
		name string
		icon Icon
	}{
		{"END", IconIntro},
		{"Compilation events", IconEvent},
		{"Internal exceptions", IconException},
		{"GC Heap History", IconEvent},
		{"VM Operations", IconEvent},
		{"Heap", IconHeap},
		{"T H R E A D", IconSection},
		{"Dynamic libraries", IconSection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sectionIcon(tt.name, true); got != tt.icon {
				t.Errorf("sectionIcon(%q) = %q, want %q", tt.name, got, tt.icon)
			}
		})
	}
	if got := subsectionIcon("Dynamic libraries", true); got != IconMemoryMap {
		t.Errorf("subsectionIcon(Dynamic libraries) = %q, want %q", got, IconMemoryMap)
	}
	if got := subsectionIcon("Stack", true); got != IconStack {
		t.Errorf("subsectionIcon(Stack) = %q, want %q", got, IconStack)
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	doc := Parse([]byte("Heap:\n"))
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind     string `json:"kind"`
			Name     string `json:"name"`
			Children []struct {
				Category string `json:"category"`
				Literal  string `json:"literal"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Kind != "Document" || len(decoded.Children) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
	section := decoded.Children[1]
	if section.Kind != "Section" || section.Name != "Heap" {
		t.Errorf("section = %s %q, want Section \"Heap\"", section.Kind, section.Name)
	}
	if len(section.Children) != 2 || section.Children[0].Category != "SECTION_HDR" {
		t.Errorf("section children = %+v", section.Children)
	}
}
