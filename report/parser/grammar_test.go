package parser

import "testing"

func TestGrammarVerifies(t *testing.T) {
	if err := VerifyGrammar(); err != nil {
		t.Fatalf("VerifyGrammar() error = %v", err)
	}
}

func TestGrammarNamesEveryCategory(t *testing.T) {
	grammar, err := Grammar()
	if err != nil {
		t.Fatalf("Grammar() error = %v", err)
	}

	productions := TokenProductions(grammar)
	seen := make(map[Category]bool)
	for _, cat := range productions {
		seen[cat] = true
	}
	for _, cat := range Categories() {
		if !seen[cat] {
			t.Errorf("no lexical production for %v", cat)
		}
	}
	if len(productions) != len(Categories()) {
		t.Errorf("len(TokenProductions) = %d, want %d", len(productions), len(Categories()))
	}

	for _, name := range []string{"Document", "Intro", "Section", "Subsection", "Content", "Trailer"} {
		if grammar[name] == nil {
			t.Errorf("missing production %s", name)
		}
	}
}

func TestCategoryNames(t *testing.T) {
	for _, cat := range Categories() {
		got, ok := ParseCategory(cat.String())
		if !ok || got != cat {
			t.Errorf("ParseCategory(%q) = %v, %v, want %v, true", cat.String(), got, ok, cat)
		}
	}
	if _, ok := ParseCategory("COMMENT"); ok {
		t.Error("ParseCategory(COMMENT) succeeded")
	}
	if SectionHeader.String() != "SECTION_HDR" || WhiteSpace.String() != "WHITE_SPACE" {
		t.Error("category names changed")
	}
	if Subtitle.IsClassified() || SectionHeader.IsClassified() || WhiteSpace.IsClassified() {
		t.Error("structural categories must not be classified content")
	}
}

func TestIsRegisterName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"RAX", true},
		{"rax", true},
		{"R15", true},
		{"x0", true},
		{"X30", true},
		{"w31", true},
		{"XMM0", true},
		{"pc", true},
		{"R32", false},
		{"R01", false},
		{"RAXX", false},
		{"Q1", false},
		{"R", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRegisterName(tt.name); got != tt.want {
				t.Errorf("IsRegisterName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
