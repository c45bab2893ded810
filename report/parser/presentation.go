package parser

import (
	"fmt"
	"strings"
)

type Icon string

const (
	IconFile       Icon = "file"
	IconIntro      Icon = "intro"
	IconSection    Icon = "section"
	IconSubsection Icon = "subsection"
	IconEvent      Icon = "event"
	IconException  Icon = "exception"
	IconHeap       Icon = "heap"
	IconThreads    Icon = "threads"
	IconRegisters  Icon = "registers"
	IconStack      Icon = "stack"
	IconMemoryMap  Icon = "memory-map"
	IconToken      Icon = "token"
)

// Presentation describes how a node is shown in outlines. It carries no
// semantics.
type Presentation struct {
	Label    string
	Location string
	Icon     Icon
}

var eventLogNames = []string{"gc heap history", "classes unloaded", "classes redefined", "vm operations"}

func (n *Node) Presentation() Presentation {
	p := Presentation{Location: fmt.Sprintf("line %d", n.Span.Start.Line)}
	name, ok := n.Name()

	switch n.Kind {
	case KindDocument:
		p.Label = n.Span.Start.File
		p.Location = ""
		p.Icon = IconFile
	case KindIntro:
		p.Label = name
		p.Icon = IconIntro
	case KindSection:
		p.Label = name
		if ok && strings.Contains(n.Header().Literal, "---") {
			p.Label = collapseSpacedLetters(name)
		}
		p.Icon = sectionIcon(name, ok)
	case KindSubsection:
		p.Label = name
		p.Icon = subsectionIcon(name, ok)
	case KindToken:
		p.Label = n.Token.Literal
		p.Icon = IconToken
	}
	return p
}

func sectionIcon(name string, ok bool) Icon {
	lower := strings.ToLower(name)
	switch {
	case !ok:
		return IconSection
	case strings.HasPrefix(name, "END"):
		return IconIntro
	case strings.Contains(lower, "event"):
		return IconEvent
	case strings.Contains(lower, "exception"):
		return IconException
	case containsAny(lower, eventLogNames...):
		return IconEvent
	case strings.Contains(lower, "heap"):
		return IconHeap
	case strings.Contains(lower, "thread"):
		return IconThreads
	}
	return IconSection
}

func subsectionIcon(name string, ok bool) Icon {
	lower := strings.ToLower(name)
	switch {
	case !ok:
		return IconSubsection
	case strings.Contains(lower, "thread"):
		return IconThreads
	case strings.Contains(lower, "register"):
		return IconRegisters
	case strings.Contains(lower, "event"):
		return IconEvent
	case strings.Contains(lower, "exception"):
		return IconException
	case containsAny(lower, eventLogNames...):
		return IconEvent
	case strings.Contains(name, "Dynamic libraries"):
		return IconMemoryMap
	case strings.Contains(lower, "heap"), strings.Contains(name, "GC"):
		return IconHeap
	case strings.Contains(lower, "stack"):
		return IconStack
	}
	return IconSubsection
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
